package analyzer

import (
	"sort"
	"time"

	"github.com/blackwell-systems/eventwatch/internal/model"
)

// ReconcileRoster merges the three signup pathways of one event into a single
// roster with one entry per user. Precedence is fixed: registrations seed the
// roster, RSVPs fold in check-in state and may move the registration date
// earlier, and pending waiting-list entries only fill in users nobody else
// accounted for. Rejected waiting-list entries are reported separately.
func ReconcileRoster(rsvps []model.RSVP, registrations []model.Registration, waitingList []model.WaitingListEntry) RosterResult {
	result := RosterResult{
		Roster:   []CanonicalParticipant{},
		Rejected: []CanonicalParticipant{},
	}

	// Insertion order is kept so the final sort is deterministic on ties.
	index := make(map[int64]int)

	for _, reg := range registrations {
		if _, ok := index[reg.UserID]; ok {
			continue
		}
		p := newParticipant(reg.UserID, reg.User, TypeRegistration, StatusConfirmed, reg.CreatedAt)
		p.TeamName = reg.TeamName
		p.Responses = responsesOrEmpty(reg.Responses)
		p.PaymentProof = reg.PaymentProof
		p.Participants = membersOrEmpty(reg.Participants)
		index[reg.UserID] = len(result.Roster)
		result.Roster = append(result.Roster, p)
	}

	for _, rsvp := range rsvps {
		if i, ok := index[rsvp.UserID]; ok {
			existing := &result.Roster[i]
			existing.CheckedIn = rsvp.CheckedIn
			existing.CheckInDate = rsvp.CheckedInAt
			if rsvp.CreatedAt.Before(existing.RegistrationDate) {
				existing.RegistrationDate = rsvp.CreatedAt
			}
			if existing.Name == "" && rsvp.User != nil {
				fillProfile(existing, rsvp.User)
			}
			continue
		}
		p := newParticipant(rsvp.UserID, rsvp.User, TypeRSVP, StatusConfirmed, rsvp.CreatedAt)
		p.CheckedIn = rsvp.CheckedIn
		p.CheckInDate = rsvp.CheckedInAt
		index[rsvp.UserID] = len(result.Roster)
		result.Roster = append(result.Roster, p)
	}

	for _, entry := range waitingList {
		switch entry.Status {
		case model.WaitingListPending:
			if _, ok := index[entry.UserID]; ok {
				continue
			}
			p := waitingListParticipant(entry, StatusPending)
			index[entry.UserID] = len(result.Roster)
			result.Roster = append(result.Roster, p)
		case model.WaitingListRejected:
			if entry.User == nil {
				continue
			}
			result.Rejected = append(result.Rejected, waitingListParticipant(entry, StatusRejected))
		}
	}

	sort.SliceStable(result.Roster, func(i, j int) bool {
		return result.Roster[i].RegistrationDate.After(result.Roster[j].RegistrationDate)
	})

	return result
}

func newParticipant(userID int64, user *model.User, typ RegistrationType, status ParticipantStatus, createdAt time.Time) CanonicalParticipant {
	p := CanonicalParticipant{
		UserID:           userID,
		RegistrationType: typ,
		RegistrationDate: createdAt,
		Status:           status,
		Participants:     []model.TeamMember{},
		Responses:        map[string]string{},
	}
	if user != nil {
		fillProfile(&p, user)
	}
	return p
}

func waitingListParticipant(entry model.WaitingListEntry, status ParticipantStatus) CanonicalParticipant {
	p := newParticipant(entry.UserID, entry.User, TypeWaitingList, status, entry.CreatedAt)
	p.TeamName = entry.TeamName
	p.Responses = responsesOrEmpty(entry.Responses)
	p.PaymentProof = entry.PaymentProof
	p.Participants = membersOrEmpty(entry.Participants)
	return p
}

func fillProfile(p *CanonicalParticipant, user *model.User) {
	p.Name = user.Name
	p.Email = user.Email
	p.Avatar = user.Avatar
}

func responsesOrEmpty(r map[string]string) map[string]string {
	if r == nil {
		return map[string]string{}
	}
	return r
}

func membersOrEmpty(m []model.TeamMember) []model.TeamMember {
	if m == nil {
		return []model.TeamMember{}
	}
	return m
}
