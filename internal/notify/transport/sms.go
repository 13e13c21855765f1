package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/PetrH630/hobbyhokej/internal/notify"
)

const defaultSMSTimeout = 10 * time.Second

// GatewaySMS posts text messages as JSON to an HTTP SMS gateway:
//
//	POST <url>  {"to": "+420...", "text": "..."}
//
// with an optional bearer token. Any 2xx answer counts as accepted.
type GatewaySMS struct {
	url     string
	token   string
	client  *fasthttp.Client
	timeout time.Duration
	log     zerolog.Logger
}

type smsPayload struct {
	To   string `json:"to"`
	Text string `json:"text"`
}

func NewGatewaySMS(url, token string, client *fasthttp.Client, logger zerolog.Logger) *GatewaySMS {
	if client == nil {
		client = &fasthttp.Client{Name: "hobbyhokej"}
	}
	return &GatewaySMS{url: url, token: token, client: client, timeout: defaultSMSTimeout, log: logger}
}

func (g *GatewaySMS) SendSMS(ctx context.Context, to, text string) error {
	timeout := g.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return context.DeadlineExceeded
		}
		if remaining < timeout {
			timeout = remaining
		}
	}

	body, err := json.Marshal(smsPayload{To: to, Text: text})
	if err != nil {
		return fmt.Errorf("encode sms: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(g.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if g.token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+g.token)
	}
	req.SetBody(body)

	if err := g.client.DoTimeout(req, resp, timeout); err != nil {
		return fmt.Errorf("sms gateway: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("sms gateway: status %d: %s", code, resp.Body())
	}
	g.log.Debug().Str("to", to).Msg("sms sent")
	return nil
}

// LogSMS writes text messages to the log instead of sending them.
type LogSMS struct {
	log zerolog.Logger
}

func NewLogSMS(logger zerolog.Logger) *LogSMS {
	return &LogSMS{log: logger}
}

func (s *LogSMS) SendSMS(_ context.Context, to, text string) error {
	if to == "" {
		return errors.New("sms: empty recipient")
	}
	s.log.Info().Str("to", to).Str("text", text).Msg("sms (not sent, SMS_GATEWAY_URL unset)")
	return nil
}

// NewSMS returns a gateway sender when url is set and a LogSMS otherwise.
func NewSMS(url, token string, logger zerolog.Logger) notify.SMSSender {
	if url == "" {
		logger.Info().Msg("SMS_GATEWAY_URL not configured, using log sms")
		return NewLogSMS(logger)
	}
	return NewGatewaySMS(url, token, nil, logger)
}
