package analyzer

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

// SentimentClass is the lexicon classification of one feedback item.
type SentimentClass string

const (
	SentimentPositive SentimentClass = "positive"
	SentimentNegative SentimentClass = "negative"
	SentimentNeutral  SentimentClass = "neutral"
)

// Default result sizes for Classify.
const (
	DefaultTopKeywords = 10
	DefaultTopEmojis   = 5
)

// positiveLexicon and negativeLexicon are matched by substring containment
// against the lowercased content joined with the raw emoji.
var positiveLexicon = []string{
	"good", "great", "awesome", "amazing", "excellent", "love", "loved",
	"fantastic", "wonderful", "helpful", "enjoyed", "nice", "best", "fun",
	"insightful", "perfect", "thanks", "thank you",
	"😊", "😀", "😃", "😄", "😍", "🥰", "👍", "👏", "🎉", "🔥", "❤️", "💯", "🙌", "⭐",
}

var negativeLexicon = []string{
	"bad", "poor", "boring", "terrible", "awful", "hate", "worst",
	"disappointing", "disappointed", "waste", "confusing", "slow",
	"useless", "rude", "crowded",
	"😞", "😢", "😡", "😠", "👎", "😴", "💩", "😒",
}

// stopWords are dropped from keyword extraction. Tokens of two characters or
// fewer are dropped separately.
var stopWords = map[string]bool{
	"the": true, "and": true, "was": true, "were": true, "for": true,
	"this": true, "that": true, "with": true, "very": true, "are": true,
	"but": true, "not": true, "you": true, "your": true, "have": true,
	"had": true, "has": true, "its": true, "our": true, "from": true,
	"they": true, "them": true, "their": true, "there": true, "what": true,
	"which": true, "who": true, "will": true, "would": true, "could": true,
	"should": true, "about": true, "into": true, "out": true, "just": true,
	"also": true, "than": true, "then": true, "too": true, "all": true,
	"any": true, "can": true, "did": true, "does": true, "been": true,
	"being": true, "more": true, "most": true, "some": true, "such": true,
	"only": true, "own": true, "same": true, "other": true, "each": true,
	"how": true, "when": true, "where": true, "why": true, "here": true,
	"event": true, "really": true, "much": true, "one": true, "get": true,
	"got": true, "like": true,
}

var nonWord = regexp.MustCompile(`[^\w\s]`)

// ClassifySentiment assigns a feedback item to a sentiment class. Items that
// hit both lexicons, or neither, are neutral.
func ClassifySentiment(fb model.Feedback) SentimentClass {
	text := sentimentText(fb)
	pos := containsAny(text, positiveLexicon)
	neg := containsAny(text, negativeLexicon)
	switch {
	case pos && !neg:
		return SentimentPositive
	case neg && !pos:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

func sentimentText(fb model.Feedback) string {
	var content, emoji string
	if fb.Content != nil {
		content = strings.ToLower(*fb.Content)
	}
	if fb.Emoji != nil {
		emoji = *fb.Emoji
	}
	return content + " " + emoji
}

func containsAny(text string, lexicon []string) bool {
	for _, token := range lexicon {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

// Classify computes the sentiment distribution, top emojis, top keywords,
// feedback type split, and satisfaction score for a feedback set.
func Classify(feedback []model.Feedback) FeedbackAnalysis {
	return ClassifyN(feedback, DefaultTopKeywords, DefaultTopEmojis)
}

// ClassifyN is Classify with explicit result sizes.
func ClassifyN(feedback []model.Feedback, topKeywords, topEmojis int) FeedbackAnalysis {
	classes := make([]SentimentClass, len(feedback))
	for i, fb := range feedback {
		classes[i] = ClassifySentiment(fb)
	}

	return FeedbackAnalysis{
		Sentiment:         sentimentDistribution(classes),
		TopEmojis:         TopEmojis(feedback, topEmojis),
		TopKeywords:       TopKeywords(feedback, topKeywords),
		FeedbackTypes:     feedbackTypes(feedback),
		SatisfactionScore: SatisfactionScore(classes),
	}
}

func sentimentDistribution(classes []SentimentClass) Sentiment {
	var s Sentiment
	total := len(classes)
	if total == 0 {
		return s
	}

	var pos, neg, neu int
	for _, c := range classes {
		switch c {
		case SentimentPositive:
			pos++
		case SentimentNegative:
			neg++
		default:
			neu++
		}
	}

	s.Positive = percent(pos, total)
	s.Negative = percent(neg, total)
	s.Neutral = percent(neu, total)

	// Independent rounding can land on 99 or 101; the largest share absorbs it.
	if drift := 100 - (s.Positive + s.Negative + s.Neutral); drift != 0 {
		switch {
		case s.Positive >= s.Negative && s.Positive >= s.Neutral:
			s.Positive += drift
		case s.Negative >= s.Neutral:
			s.Negative += drift
		default:
			s.Neutral += drift
		}
	}
	return s
}

// TopKeywords returns the n most frequent keywords across all feedback
// content. Ties keep first-seen order.
func TopKeywords(feedback []model.Feedback, n int) []KeywordCount {
	counter := newOrderedCounter()
	for _, fb := range feedback {
		if fb.Content == nil {
			continue
		}
		for _, word := range Keywords(*fb.Content) {
			counter.add(word)
		}
	}

	top := counter.top(n)
	out := make([]KeywordCount, len(top))
	for i, e := range top {
		out[i] = KeywordCount{Word: e.key, Count: e.count}
	}
	return out
}

// Keywords tokenizes one piece of feedback text into candidate keywords.
func Keywords(content string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(content), "")
	var words []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		words = append(words, w)
	}
	return words
}

// TopEmojis returns the n most used emoji values, compared verbatim.
func TopEmojis(feedback []model.Feedback, n int) []EmojiCount {
	counter := newOrderedCounter()
	for _, fb := range feedback {
		if fb.Emoji == nil || *fb.Emoji == "" {
			continue
		}
		counter.add(*fb.Emoji)
	}

	top := counter.top(n)
	out := make([]EmojiCount, len(top))
	for i, e := range top {
		out[i] = EmojiCount{Emoji: e.key, Count: e.count}
	}
	return out
}

func feedbackTypes(feedback []model.Feedback) []FeedbackType {
	var emoji, text int
	for _, fb := range feedback {
		if fb.Emoji != nil && *fb.Emoji != "" {
			emoji++
		}
		if fb.Content != nil && *fb.Content != "" {
			text++
		}
	}
	total := len(feedback)
	return []FeedbackType{
		{Type: "Emoji", Count: emoji, Percentage: percent(emoji, total)},
		{Type: "Text", Count: text, Percentage: percent(text, total)},
	}
}

// sentimentScores maps each class onto the 1-5 satisfaction scale.
var sentimentScores = map[SentimentClass]float64{
	SentimentPositive: 5,
	SentimentNeutral:  3,
	SentimentNegative: 1,
}

// SatisfactionScore averages per-item sentiment on a 1-5 scale, rounded to
// one decimal. It returns nil when there are no items.
func SatisfactionScore(classes []SentimentClass) *float64 {
	if len(classes) == 0 {
		return nil
	}
	var sum float64
	for _, c := range classes {
		sum += sentimentScores[c]
	}
	score := math.Round(sum/float64(len(classes))*10) / 10
	return &score
}

// percent returns round(part/total*100), or 0 when total is 0.
func percent(part, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(total) * 100))
}

type countEntry struct {
	key   string
	count int
}

// orderedCounter counts keys while remembering first-seen order.
type orderedCounter struct {
	index   map[string]int
	entries []countEntry
}

func newOrderedCounter() *orderedCounter {
	return &orderedCounter{index: make(map[string]int)}
}

func (c *orderedCounter) add(key string) {
	if i, ok := c.index[key]; ok {
		c.entries[i].count++
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, countEntry{key: key, count: 1})
}

func (c *orderedCounter) top(n int) []countEntry {
	sorted := make([]countEntry, len(c.entries))
	copy(sorted, c.entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].count > sorted[j].count
	})
	if n >= 0 && len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
