package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

type sentEmail struct {
	to, subject string
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []sentEmail
	err  error
}

func (m *recordingMailer) SendEmail(_ context.Context, to, subject, _ string, _ bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentEmail{to: to, subject: subject})
	return nil
}

type recordingTexter struct {
	sent []string
	err  error
}

func (s *recordingTexter) SendSMS(_ context.Context, to, _ string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, to)
	return nil
}

type recordingInbox struct {
	items []models.Notification
}

func (i *recordingInbox) Deliver(_ context.Context, n models.Notification) error {
	i.items = append(i.items, n)
	return nil
}

func fixedClock() time.Time {
	return time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)
}

func fullRecipient() Recipient {
	ps := DefaultPlayerSettings()
	ps.ContactPhone = strPtr("+420777000111")
	r := recipient("parent@example.com", &ps, nil)
	r.Player.UserID = &r.Account.ID
	return r
}

func TestDispatchSendsEachAddressOnce(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	texter := &recordingTexter{}
	inbox := &recordingInbox{}
	d := NewDispatcher(DispatcherOptions{
		Email: mailer, SMS: texter, Inbox: inbox,
		Language: language.English, Location: time.UTC, Logger: zerolog.Nop(), Clock: fixedClock,
	})

	r := fullRecipient()
	ev := Event{Type: EventRegistrationCreated, PlayerID: r.Player.ID, Match: testMatch()}
	dec := Evaluate(r, ev.Type)
	if !dec.SendEmailToPlayer || !dec.SendEmailToUser {
		t.Fatalf("decision = %+v, want both emails", dec)
	}

	rep := d.Dispatch(context.Background(), ev, r, dec)

	if len(mailer.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1 (player and account share an address)", len(mailer.sent))
	}
	if mailer.sent[0].subject != "Registered for a match" {
		t.Fatalf("subject = %q, want player-facing subject", mailer.sent[0].subject)
	}
	if len(texter.sent) != 1 || texter.sent[0] != "+420777000111" {
		t.Fatalf("sms = %v, want one to the contact phone", texter.sent)
	}
	if len(inbox.items) != 1 {
		t.Fatalf("inbox items = %d, want 1", len(inbox.items))
	}
	if n := inbox.items[0]; n.UserID != r.Account.ID || n.MatchID == nil || !n.CreatedAt.Equal(fixedClock()) {
		t.Fatalf("inbox item = %+v", n)
	}
	if rep.Emails != 1 || rep.SMS != 1 || rep.InApp != 1 || rep.Failures != 0 {
		t.Fatalf("report = %+v", rep)
	}
}

func TestDispatchCopyGoesToDistinctAccountAddress(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	d := NewDispatcher(DispatcherOptions{Email: mailer, Language: language.English, Logger: zerolog.Nop()})

	ps := DefaultPlayerSettings()
	ps.ContactEmail = strPtr("kid@example.com")
	r := recipient("parent@example.com", &ps, accountSettings(models.NotificationLevelAll, true, true))
	ev := Event{Type: EventExcuseCreated, PlayerID: r.Player.ID, Match: testMatch()}

	d.Dispatch(context.Background(), ev, r, Evaluate(r, ev.Type))

	if len(mailer.sent) != 2 {
		t.Fatalf("emails sent = %d, want 2", len(mailer.sent))
	}
	if mailer.sent[0].to != "kid@example.com" || mailer.sent[1].to != "parent@example.com" {
		t.Fatalf("recipients = %+v", mailer.sent)
	}
}

func TestDispatchTransportFailureIsSwallowed(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{err: errors.New("smtp down")}
	texter := &recordingTexter{err: errors.New("gateway down")}
	d := NewDispatcher(DispatcherOptions{Email: mailer, SMS: texter, Language: language.English, Logger: zerolog.Nop()})

	r := fullRecipient()
	ev := Event{Type: EventMatchReminder, PlayerID: r.Player.ID, Match: testMatch()}
	rep := d.Dispatch(context.Background(), ev, r, Evaluate(r, ev.Type))

	if rep.Failures != 2 {
		t.Fatalf("failures = %d, want 2", rep.Failures)
	}
	if rep.Emails != 0 || rep.SMS != 0 {
		t.Fatalf("report = %+v, want nothing delivered", rep)
	}
}

func TestDispatchDemoModeCapturesInsteadOfSending(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	texter := &recordingTexter{}
	inbox := &recordingInbox{}
	demo := NewDemoStore()
	d := NewDispatcher(DispatcherOptions{
		Email: mailer, SMS: texter, Inbox: inbox, Demo: demo,
		Language: language.English, Logger: zerolog.Nop(),
	})

	ps := DefaultPlayerSettings()
	ps.ContactEmail = strPtr("kid@example.com")
	ps.ContactPhone = strPtr("+420777000111")
	r := recipient("parent@example.com", &ps, accountSettings(models.NotificationLevelAll, true, true))
	ev := Event{Type: EventRegistrationPromoted, PlayerID: r.Player.ID, Match: testMatch()}

	d.Dispatch(context.Background(), ev, r, Evaluate(r, ev.Type))

	if len(mailer.sent) != 0 || len(texter.sent) != 0 {
		t.Fatal("real transports were called in demo mode")
	}
	if len(inbox.items) != 1 {
		t.Fatalf("inbox items = %d, want in-app to keep working in demo mode", len(inbox.items))
	}
	got := demo.GetAndClear()
	if len(got.Emails) != 2 || len(got.SMS) != 1 {
		t.Fatalf("captured %d emails and %d sms, want 2 and 1", len(got.Emails), len(got.SMS))
	}
	if got.Emails[1].Kind != KindUserEmail || got.Emails[1].EventType != EventRegistrationPromoted {
		t.Fatalf("copy email = %+v", got.Emails[1])
	}
}

type fakeDirectory struct {
	recipients map[uuid.UUID]Recipient
}

func (f fakeDirectory) Recipient(_ context.Context, id uuid.UUID) (Recipient, error) {
	r, ok := f.recipients[id]
	if !ok {
		return Recipient{}, ErrRecipientNotFound
	}
	return r, nil
}

func TestServiceNotifySkipsUnknownPlayer(t *testing.T) {
	t.Parallel()

	mailer := &recordingMailer{}
	d := NewDispatcher(DispatcherOptions{Email: mailer, Language: language.English, Logger: zerolog.Nop()})
	r := fullRecipient()
	svc := NewService(fakeDirectory{recipients: map[uuid.UUID]Recipient{r.Player.ID: r}}, d, zerolog.Nop())

	svc.Notify(context.Background(), Event{Type: EventRegistrationCreated, PlayerID: uuid.New()})
	if len(mailer.sent) != 0 {
		t.Fatal("email sent for an unknown player")
	}

	svc.Notify(context.Background(), Event{Type: EventRegistrationCreated, PlayerID: r.Player.ID, Match: testMatch()})
	if len(mailer.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(mailer.sent))
	}
}

func TestServiceDecide(t *testing.T) {
	t.Parallel()

	r := fullRecipient()
	svc := NewService(fakeDirectory{recipients: map[uuid.UUID]Recipient{r.Player.ID: r}}, NewDispatcher(DispatcherOptions{}), zerolog.Nop())

	if _, err := svc.Decide(context.Background(), r.Player.ID, EventType("NOPE")); !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("err = %v, want ErrUnknownEvent", err)
	}
	if _, err := svc.Decide(context.Background(), uuid.New(), EventMatchReminder); !errors.Is(err, ErrRecipientNotFound) {
		t.Fatalf("err = %v, want ErrRecipientNotFound", err)
	}
	dec, err := svc.Decide(context.Background(), r.Player.ID, EventMatchReminder)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !dec.SendSMSToPlayer {
		t.Fatalf("decision = %+v, want sms", dec)
	}
}
