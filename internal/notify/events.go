// Package notify decides who hears about a club event and delivers it.
//
// The flow is Event -> Recipient (loaded by a Directory) -> Evaluate -> Decision
// -> Dispatcher. Evaluate is a pure function; everything with side effects lives
// in the Dispatcher and its collaborators.
package notify

import (
	"github.com/google/uuid"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

// EventType names a domain event that may produce notifications.
type EventType string

const (
	EventPlayerCreated  EventType = "PLAYER_CREATED"
	EventPlayerUpdated  EventType = "PLAYER_UPDATED"
	EventPlayerApproved EventType = "PLAYER_APPROVED"
	EventPlayerRejected EventType = "PLAYER_REJECTED"
	EventPasswordReset  EventType = "PASSWORD_RESET"

	EventRegistrationCreated  EventType = "REGISTRATION_CREATED"
	EventRegistrationUpdated  EventType = "REGISTRATION_UPDATED"
	EventRegistrationReserved EventType = "REGISTRATION_RESERVED"
	EventRegistrationPromoted EventType = "REGISTRATION_PROMOTED"
	EventRegistrationCanceled EventType = "REGISTRATION_CANCELED"

	EventExcuseCreated   EventType = "EXCUSE_CREATED"
	EventExcuseUpdated   EventType = "EXCUSE_UPDATED"
	EventNoExcusedMarked EventType = "NO_EXCUSED_MARKED"

	EventMatchReminder   EventType = "MATCH_REMINDER"
	EventPositionChanged EventType = "POSITION_CHANGED"
	EventMatchUpdated    EventType = "MATCH_UPDATED"
	EventMatchCanceled   EventType = "MATCH_CANCELED"
	EventMatchUncanceled EventType = "MATCH_UNCANCELED"
)

// Category groups event types that share one preference switch.
type Category string

const (
	CategorySystem       Category = "SYSTEM"
	CategoryRegistration Category = "REGISTRATION"
	CategoryExcuse       Category = "EXCUSE"
	CategoryMatchInfo    Category = "MATCH_INFO"
	CategoryUnknown      Category = ""
)

type eventInfo struct {
	category  Category
	important bool
}

var catalogue = map[EventType]eventInfo{
	EventPlayerCreated:  {CategorySystem, false},
	EventPlayerUpdated:  {CategorySystem, false},
	EventPlayerApproved: {CategorySystem, true},
	EventPlayerRejected: {CategorySystem, true},
	EventPasswordReset:  {CategorySystem, true},

	EventRegistrationCreated:  {CategoryRegistration, true},
	EventRegistrationUpdated:  {CategoryRegistration, false},
	EventRegistrationReserved: {CategoryRegistration, false},
	EventRegistrationPromoted: {CategoryRegistration, true},
	EventRegistrationCanceled: {CategoryRegistration, true},

	EventExcuseCreated:   {CategoryExcuse, false},
	EventExcuseUpdated:   {CategoryExcuse, false},
	EventNoExcusedMarked: {CategoryExcuse, true},

	EventMatchReminder:   {CategoryMatchInfo, false},
	EventPositionChanged: {CategoryMatchInfo, false},
	EventMatchUpdated:    {CategoryMatchInfo, false},
	EventMatchCanceled:   {CategoryMatchInfo, true},
	EventMatchUncanceled: {CategoryMatchInfo, true},
}

// CategoryOf classifies t. Unknown types return CategoryUnknown.
func CategoryOf(t EventType) Category {
	return catalogue[t].category
}

// Important reports whether t passes an IMPORTANT_ONLY account filter.
func Important(t EventType) bool {
	return catalogue[t].important
}

// EventTypes lists every known event type.
func EventTypes() []EventType {
	out := make([]EventType, 0, len(catalogue))
	for t := range catalogue {
		out = append(out, t)
	}
	return out
}

// Event is one notification-worthy change. Match and Registration are snapshots
// taken when the change was committed and may be nil for player-level events.
type Event struct {
	Type         EventType
	PlayerID     uuid.UUID
	Match        *models.Match
	Registration *models.Registration
}
