package analyzer

import "github.com/blackwell-systems/eventwatch/internal/model"

// ResolveScope determines the hierarchy shape of an event and the feedback
// set its analytics cover. A mega event covers its own feedback plus every
// sub-event's; a standalone or sub-event covers only its own.
func ResolveScope(event *model.EventSnapshot) Scope {
	scope := Scope{
		IsMega:        len(event.SubEvents) > 0,
		IsSub:         event.Parent != nil,
		SubEventCount: len(event.SubEvents),
	}

	if scope.IsSub {
		parent := *event.Parent
		scope.Parent = &parent
	}

	if !scope.IsMega {
		scope.Feedback = event.Feedbacks
		return scope
	}

	total := len(event.Feedbacks)
	for _, sub := range event.SubEvents {
		total += len(sub.Feedbacks)
	}
	feedback := make([]model.Feedback, 0, total)
	feedback = append(feedback, event.Feedbacks...)
	for _, sub := range event.SubEvents {
		feedback = append(feedback, sub.Feedbacks...)
	}
	scope.Feedback = feedback

	return scope
}
