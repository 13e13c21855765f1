package notify

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

// EmailSender delivers one email. Implementations live in notify/transport.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string, html bool) error
}

// SMSSender delivers one text message.
type SMSSender interface {
	SendSMS(ctx context.Context, to, text string) error
}

// InboxSink stores and pushes an in-app notification.
type InboxSink interface {
	Deliver(ctx context.Context, n models.Notification) error
}

// outbound is where email and SMS content goes: real transports or the demo store.
type outbound interface {
	email(ctx context.Context, e CapturedEmail) error
	sms(ctx context.Context, m CapturedSMS) error
}

type transportOutbound struct {
	mailer EmailSender
	texter SMSSender
}

func (t transportOutbound) email(ctx context.Context, e CapturedEmail) error {
	if t.mailer == nil {
		return nil
	}
	return t.mailer.SendEmail(ctx, e.To, e.Subject, e.Body, e.HTML)
}

func (t transportOutbound) sms(ctx context.Context, m CapturedSMS) error {
	if t.texter == nil {
		return nil
	}
	return t.texter.SendSMS(ctx, m.To, m.Text)
}

type demoOutbound struct {
	store *DemoStore
}

func (d demoOutbound) email(_ context.Context, e CapturedEmail) error {
	d.store.AddEmail(e)
	return nil
}

func (d demoOutbound) sms(_ context.Context, m CapturedSMS) error {
	d.store.AddSMS(m)
	return nil
}

// DispatcherOptions configures NewDispatcher.
type DispatcherOptions struct {
	Email EmailSender
	SMS   SMSSender
	// Demo, when set, receives every email and SMS instead of the transports.
	Demo     *DemoStore
	Inbox    InboxSink
	Language language.Tag
	BaseURL  string
	Location *time.Location
	Logger   zerolog.Logger
	Clock    func() time.Time
}

// Dispatcher renders content for a Decision and hands it to the outbound channels.
type Dispatcher struct {
	out      outbound
	inbox    InboxSink
	printer  *message.Printer
	baseURL  string
	location *time.Location
	log      zerolog.Logger
	clock    func() time.Time
}

// NewDispatcher wires a dispatcher. Demo mode is decided here and nowhere else.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	var out outbound = transportOutbound{mailer: opts.Email, texter: opts.SMS}
	if opts.Demo != nil {
		out = demoOutbound{store: opts.Demo}
	}
	lang := opts.Language
	if lang == language.Und {
		lang = language.Czech
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Dispatcher{
		out:      out,
		inbox:    opts.Inbox,
		printer:  message.NewPrinter(lang),
		baseURL:  opts.BaseURL,
		location: opts.Location,
		log:      opts.Logger,
		clock:    clock,
	}
}

// Report summarises one Dispatch call.
type Report struct {
	Emails   int
	SMS      int
	InApp    int
	Failures int
}

// Dispatch delivers ev to r according to dec. Delivery errors are logged and
// counted, never returned: the change that raised the event is already committed.
func (d *Dispatcher) Dispatch(ctx context.Context, ev Event, r Recipient, dec Decision) Report {
	var rep Report
	c := ContentContext{
		Event:    ev,
		Player:   r.Player,
		Account:  r.Account,
		BaseURL:  d.baseURL,
		Location: d.location,
	}
	logger := d.log.With().
		Str("event", string(ev.Type)).
		Str("player_id", r.Player.ID.String()).
		Logger()

	mailed := map[string]bool{}
	sendEmail := func(to string, kind RecipientKind) {
		key := strings.ToLower(to)
		if mailed[key] {
			return
		}
		content, ok := BuildContent(d.printer, kind, c)
		if !ok {
			return
		}
		mailed[key] = true
		err := d.out.email(ctx, CapturedEmail{
			To:        to,
			Subject:   content.Subject,
			Body:      content.Body,
			HTML:      content.HTML,
			Kind:      kind,
			EventType: ev.Type,
		})
		if err != nil {
			rep.Failures++
			logger.Error().Err(err).Str("channel", "email").Str("kind", string(kind)).Msg("notification delivery failed")
			return
		}
		rep.Emails++
	}

	if dec.SendEmailToPlayer {
		sendEmail(dec.PlayerEmail, KindPlayerEmail)
	}
	if dec.SendEmailToUser {
		sendEmail(dec.UserEmail, KindUserEmail)
	}
	if dec.SendSMSToPlayer {
		if content, ok := BuildContent(d.printer, KindPlayerSMS, c); ok {
			err := d.out.sms(ctx, CapturedSMS{To: dec.PlayerPhone, Text: content.Body, EventType: ev.Type})
			if err != nil {
				rep.Failures++
				logger.Error().Err(err).Str("channel", "sms").Msg("notification delivery failed")
			} else {
				rep.SMS++
			}
		}
	}
	if dec.SendInApp && d.inbox != nil && r.Account != nil {
		if content, ok := BuildContent(d.printer, KindInApp, c); ok {
			n := models.Notification{
				ID:        uuid.New(),
				UserID:    r.Account.ID,
				PlayerID:  &r.Player.ID,
				EventType: string(ev.Type),
				Title:     content.Subject,
				Body:      content.Body,
				CreatedAt: d.clock().UTC(),
			}
			if ev.Match != nil {
				n.MatchID = &ev.Match.ID
			}
			if err := d.inbox.Deliver(ctx, n); err != nil {
				rep.Failures++
				logger.Error().Err(err).Str("channel", "in_app").Msg("notification delivery failed")
			} else {
				rep.InApp++
			}
		}
	}

	logger.Debug().
		Int("emails", rep.Emails).
		Int("sms", rep.SMS).
		Int("in_app", rep.InApp).
		Int("failures", rep.Failures).
		Msg("notification dispatched")
	return rep
}
