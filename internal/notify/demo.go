package notify

import (
	"sync"
	"time"
)

// CapturedEmail is an email the demo store kept instead of sending.
type CapturedEmail struct {
	To         string        `json:"to"`
	Subject    string        `json:"subject"`
	Body       string        `json:"body"`
	HTML       bool          `json:"html"`
	Kind       RecipientKind `json:"kind"`
	EventType  EventType     `json:"event_type"`
	CapturedAt time.Time     `json:"captured_at"`
}

// CapturedSMS is a text message the demo store kept instead of sending.
type CapturedSMS struct {
	To         string    `json:"to"`
	Text       string    `json:"text"`
	EventType  EventType `json:"event_type"`
	CapturedAt time.Time `json:"captured_at"`
}

// Capture is one drained batch of demo messages.
type Capture struct {
	Emails []CapturedEmail `json:"emails"`
	SMS    []CapturedSMS   `json:"sms"`
}

// DemoStore collects outgoing messages in memory while the app runs in demo mode.
// A single mutex guards both lists so GetAndClear sees a consistent snapshot.
type DemoStore struct {
	mu     sync.Mutex
	emails []CapturedEmail
	sms    []CapturedSMS
	clock  func() time.Time
}

// NewDemoStore returns an empty store.
func NewDemoStore() *DemoStore {
	return &DemoStore{clock: time.Now}
}

// AddEmail records an email. A zero CapturedAt is stamped with the store clock.
func (s *DemoStore) AddEmail(e CapturedEmail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.CapturedAt.IsZero() {
		e.CapturedAt = s.clock().UTC()
	}
	s.emails = append(s.emails, e)
}

// AddSMS records a text message. A zero CapturedAt is stamped with the store clock.
func (s *DemoStore) AddSMS(m CapturedSMS) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m.CapturedAt.IsZero() {
		m.CapturedAt = s.clock().UTC()
	}
	s.sms = append(s.sms, m)
}

// GetAndClear returns everything captured so far and empties the store in one step.
// Slices are never nil so the JSON form is always {"emails":[],"sms":[]}.
func (s *DemoStore) GetAndClear() Capture {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := Capture{Emails: s.emails, SMS: s.sms}
	if out.Emails == nil {
		out.Emails = []CapturedEmail{}
	}
	if out.SMS == nil {
		out.SMS = []CapturedSMS{}
	}
	s.emails = nil
	s.sms = nil
	return out
}
