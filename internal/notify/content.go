package notify

import (
	"strings"
	"time"

	"golang.org/x/text/message"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

// RecipientKind says who a piece of content is written for and over which channel.
type RecipientKind string

const (
	KindUserEmail   RecipientKind = "USER_EMAIL"
	KindPlayerEmail RecipientKind = "PLAYER_EMAIL"
	KindPlayerSMS   RecipientKind = "PLAYER_SMS"
	KindInApp       RecipientKind = "IN_APP"
)

// Content is the rendered message for one recipient kind.
type Content struct {
	Subject string
	Body    string
	HTML    bool
}

// ContentContext carries the data templates can draw from.
type ContentContext struct {
	Event   Event
	Player  models.Player
	Account *models.User
	BaseURL string
	// Location renders match times; nil means time.Local.
	Location *time.Location
}

func (c ContentContext) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

type templateFunc func(p *message.Printer, c ContentContext) Content

type templateKey struct {
	event EventType
	kind  RecipientKind
}

// templates maps (event type, recipient kind) to the function rendering it.
// Combinations that are missing produce no content.
var templates = map[templateKey]templateFunc{}

func init() {
	for t, info := range catalogue {
		if info.category == CategorySystem {
			templates[templateKey{t, KindUserEmail}] = accountEmail
			templates[templateKey{t, KindInApp}] = inApp
			continue
		}
		templates[templateKey{t, KindPlayerEmail}] = playerEmail
		templates[templateKey{t, KindUserEmail}] = copyEmail
		templates[templateKey{t, KindPlayerSMS}] = sms
		templates[templateKey{t, KindInApp}] = inApp
	}
}

// BuildContent renders content for kind. ok is false when no template exists.
func BuildContent(p *message.Printer, kind RecipientKind, c ContentContext) (Content, bool) {
	fn, ok := templates[templateKey{c.Event.Type, kind}]
	if !ok {
		return Content{}, false
	}
	return fn(p, c), true
}

const dateLayout = "2.1.2006 15:04"

func title(p *message.Printer, t EventType) string {
	return p.Sprintf("event." + string(t) + ".title")
}

// line is the one-sentence summary shared by every channel. Catalogue lines address
// their arguments by index (%[1]s name, %[2]s time, %[3]s location) so unused ones are fine.
func line(p *message.Printer, c ContentContext) string {
	when, where := "", ""
	if m := c.Event.Match; m != nil {
		when = m.StartsAt.In(c.location()).Format(dateLayout)
		where = m.Location
	}
	out := p.Sprintf("event."+string(c.Event.Type)+".line", c.Player.FullName(), when, where)
	if d := detail(p, c); d != "" {
		out += " (" + d + ")"
	}
	return out
}

// detail is the event-specific tail of a line: team and position, an excuse, a cancel reason.
func detail(p *message.Printer, c ContentContext) string {
	reg := c.Event.Registration
	match := c.Event.Match
	switch c.Event.Type {
	case EventRegistrationCreated, EventRegistrationUpdated, EventRegistrationPromoted, EventPositionChanged:
		if reg == nil {
			return ""
		}
		out := p.Sprintf("team." + string(reg.Team))
		if reg.Position != nil {
			out += ", " + p.Sprintf("position."+string(*reg.Position))
		}
		return out
	case EventExcuseCreated, EventExcuseUpdated:
		if reg == nil {
			return ""
		}
		return joinNonEmpty(" - ", deref(reg.ExcuseReason), deref(reg.ExcuseNote))
	case EventNoExcusedMarked:
		if reg == nil {
			return ""
		}
		return deref(reg.AdminNote)
	case EventMatchCanceled:
		if match == nil {
			return ""
		}
		return deref(match.CancelReason)
	case EventMatchReminder:
		if match == nil {
			return ""
		}
		return p.Sprintf("match.price", match.Price)
	}
	return ""
}

func matchBlock(p *message.Printer, c ContentContext) string {
	m := c.Event.Match
	if m == nil {
		return ""
	}
	return p.Sprintf("match.block", m.StartsAt.In(c.location()).Format(dateLayout), m.Location, m.Price)
}

func footer(p *message.Printer, c ContentContext) string {
	if c.BaseURL == "" {
		return p.Sprintf("email.footer")
	}
	return p.Sprintf("email.footer_link", strings.TrimRight(c.BaseURL, "/"))
}

func playerEmail(p *message.Printer, c ContentContext) Content {
	body := joinNonEmpty("\n\n",
		p.Sprintf("email.greeting", c.Player.FirstName),
		line(p, c),
		matchBlock(p, c),
		footer(p, c),
	)
	return Content{Subject: title(p, c.Event.Type), Body: body}
}

func copyEmail(p *message.Printer, c ContentContext) Content {
	name := ""
	if c.Account != nil {
		name = c.Account.DisplayName
	}
	body := joinNonEmpty("\n\n",
		p.Sprintf("email.greeting", name),
		p.Sprintf("email.copy_intro", c.Player.FullName()),
		line(p, c),
		matchBlock(p, c),
		footer(p, c),
	)
	return Content{Subject: p.Sprintf("email.copy_subject", title(p, c.Event.Type), c.Player.FullName()), Body: body}
}

func accountEmail(p *message.Printer, c ContentContext) Content {
	name := ""
	if c.Account != nil {
		name = c.Account.DisplayName
	}
	body := joinNonEmpty("\n\n",
		p.Sprintf("email.greeting", name),
		line(p, c),
		footer(p, c),
	)
	return Content{Subject: title(p, c.Event.Type), Body: body}
}

func sms(p *message.Printer, c ContentContext) Content {
	return Content{Body: p.Sprintf("sms.prefix") + line(p, c)}
}

func inApp(p *message.Printer, c ContentContext) Content {
	return Content{Subject: title(p, c.Event.Type), Body: line(p, c)}
}

func joinNonEmpty(sep string, parts ...string) string {
	kept := parts[:0:0]
	for _, part := range parts {
		if strings.TrimSpace(part) != "" {
			kept = append(kept, part)
		}
	}
	return strings.Join(kept, sep)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}
