package analyzer

import (
	"testing"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

func textFeedback(userID int64, content string) model.Feedback {
	return model.Feedback{UserID: userID, Content: &content, CreatedAt: day(1)}
}

func emojiFeedback(userID int64, emoji string) model.Feedback {
	return model.Feedback{UserID: userID, Emoji: &emoji, CreatedAt: day(1)}
}

func TestClassifySentiment(t *testing.T) {
	tests := []struct {
		name string
		fb   model.Feedback
		want SentimentClass
	}{
		{"positive word", textFeedback(1, "What a GREAT talk"), SentimentPositive},
		{"negative word", textFeedback(1, "pretty boring honestly"), SentimentNegative},
		{"both", textFeedback(1, "good speaker, bad venue"), SentimentNeutral},
		{"neither", textFeedback(1, "it happened"), SentimentNeutral},
		{"positive emoji", emojiFeedback(1, "👍"), SentimentPositive},
		{"negative emoji", emojiFeedback(1, "👎"), SentimentNegative},
		{"substring match", textFeedback(1, "goodness me"), SentimentPositive},
		{"empty", model.Feedback{}, SentimentNeutral},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ClassifySentiment(tc.fb); got != tc.want {
				t.Errorf("ClassifySentiment() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestClassify_Empty(t *testing.T) {
	a := Classify(nil)
	if a.Sentiment != (Sentiment{}) {
		t.Errorf("Sentiment = %+v, want all zero", a.Sentiment)
	}
	if a.SatisfactionScore != nil {
		t.Errorf("SatisfactionScore = %v, want nil", *a.SatisfactionScore)
	}
	if len(a.TopKeywords) != 0 || len(a.TopEmojis) != 0 {
		t.Error("expected no keywords or emojis")
	}
	for _, ft := range a.FeedbackTypes {
		if ft.Count != 0 || ft.Percentage != 0 {
			t.Errorf("feedback type %s = %d/%d%%, want 0/0", ft.Type, ft.Count, ft.Percentage)
		}
	}
}

func TestClassify_PercentagesSumTo100(t *testing.T) {
	sets := [][]model.Feedback{
		{textFeedback(1, "great")},
		{textFeedback(1, "great"), textFeedback(2, "bad"), textFeedback(3, "ok")},
		{textFeedback(1, "great"), textFeedback(2, "great"), textFeedback(3, "bad"),
			textFeedback(4, "meh"), textFeedback(5, "meh"), textFeedback(6, "meh")},
		{textFeedback(1, "great"), textFeedback(2, "bad"), textFeedback(3, "bad"),
			textFeedback(4, "meh"), textFeedback(5, "meh"), textFeedback(6, "meh"), textFeedback(7, "meh")},
	}

	for i, set := range sets {
		s := Classify(set).Sentiment
		if sum := s.Positive + s.Negative + s.Neutral; sum != 100 {
			t.Errorf("set %d: sentiment sums to %d (%+v), want 100", i, sum, s)
		}
	}
}

func TestClassify_Distribution(t *testing.T) {
	set := []model.Feedback{
		textFeedback(1, "loved it"),
		textFeedback(2, "awful sound"),
		textFeedback(3, "fine"),
		textFeedback(4, "amazing"),
	}
	s := Classify(set).Sentiment
	want := Sentiment{Positive: 50, Negative: 25, Neutral: 25}
	if s != want {
		t.Errorf("Sentiment = %+v, want %+v", s, want)
	}
}

func TestTopKeywords_CountsAcrossFeedback(t *testing.T) {
	set := []model.Feedback{
		textFeedback(1, "Great event!!"),
		textFeedback(2, "great great talk"),
	}
	got := TopKeywords(set, 10)
	if len(got) == 0 {
		t.Fatal("expected keywords")
	}
	if got[0].Word != "great" || got[0].Count != 3 {
		t.Errorf("top keyword = %+v, want great/3", got[0])
	}
	for _, k := range got {
		if k.Word == "event" {
			t.Error("stop word 'event' should be dropped")
		}
	}
}

func TestTopKeywords_TiesKeepFirstSeenOrder(t *testing.T) {
	set := []model.Feedback{
		textFeedback(1, "zebra apple"),
		textFeedback(2, "mango zebra apple mango"),
	}
	got := TopKeywords(set, 10)
	want := []string{"zebra", "apple", "mango"}
	if len(got) != len(want) {
		t.Fatalf("got %d keywords, want %d", len(got), len(want))
	}
	for i, w := range want {
		if got[i].Word != w || got[i].Count != 2 {
			t.Errorf("keyword[%d] = %+v, want %s/2", i, got[i], w)
		}
	}
}

func TestTopKeywords_Limit(t *testing.T) {
	set := []model.Feedback{textFeedback(1, "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima")}
	if got := TopKeywords(set, 10); len(got) != 10 {
		t.Errorf("got %d keywords, want 10", len(got))
	}
}

func TestKeywords(t *testing.T) {
	got := Keywords("It's a FUN day, we ate pizza 🍕!")
	want := []string{"fun", "day", "ate", "pizza"}
	if len(got) != len(want) {
		t.Fatalf("Keywords() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Keywords()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTopEmojis(t *testing.T) {
	var set []model.Feedback
	for _, e := range []string{"🎉", "👍", "🎉", "❤️", "🔥", "😀", "🙌", "👍", "🎉"} {
		set = append(set, emojiFeedback(1, e))
	}
	set = append(set, textFeedback(2, "no emoji here"))

	got := TopEmojis(set, 5)
	if len(got) != 5 {
		t.Fatalf("got %d emojis, want 5", len(got))
	}
	if got[0].Emoji != "🎉" || got[0].Count != 3 {
		t.Errorf("top emoji = %+v, want 🎉/3", got[0])
	}
	if got[1].Emoji != "👍" || got[1].Count != 2 {
		t.Errorf("second emoji = %+v, want 👍/2", got[1])
	}
	if got[2].Emoji != "❤️" {
		t.Errorf("third emoji = %q, want first-seen ❤️", got[2].Emoji)
	}
}

func TestFeedbackTypes(t *testing.T) {
	content := "nice"
	emoji := "👍"
	set := []model.Feedback{
		{UserID: 1, Content: &content, Emoji: &emoji},
		{UserID: 2, Emoji: &emoji},
		{UserID: 3, Emoji: &emoji},
		{UserID: 4, Content: &content},
	}
	types := Classify(set).FeedbackTypes
	if types[0].Type != "Emoji" || types[0].Count != 3 || types[0].Percentage != 75 {
		t.Errorf("Emoji type = %+v, want 3/75%%", types[0])
	}
	if types[1].Type != "Text" || types[1].Count != 2 || types[1].Percentage != 50 {
		t.Errorf("Text type = %+v, want 2/50%%", types[1])
	}
}

func TestSatisfactionScore(t *testing.T) {
	tests := []struct {
		name    string
		classes []SentimentClass
		want    float64
	}{
		{"all positive", []SentimentClass{SentimentPositive, SentimentPositive}, 5},
		{"mixed", []SentimentClass{SentimentPositive, SentimentNeutral, SentimentNegative}, 3},
		{"rounded", []SentimentClass{SentimentPositive, SentimentPositive, SentimentNeutral}, 4.3},
		{"all negative", []SentimentClass{SentimentNegative}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := SatisfactionScore(tc.classes)
			if got == nil {
				t.Fatal("expected a score")
			}
			if *got != tc.want {
				t.Errorf("SatisfactionScore() = %v, want %v", *got, tc.want)
			}
		})
	}

	if SatisfactionScore(nil) != nil {
		t.Error("expected nil score for no feedback")
	}
}
