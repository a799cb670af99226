package collaborator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"payflow/internal/core/domain"
	"payflow/internal/core/ports"

	"github.com/rs/zerolog"
)

// Webhook headers.
const (
	HeaderSignature = "X-Payflow-Signature"
	HeaderEvent     = "X-Payflow-Event"
)

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookNotifier implements ports.Notifier by POSTing each event as JSON,
// signed with HMAC-SHA256 over the body. Retries are left to the caller.
type WebhookNotifier struct {
	url        string
	secret     string
	sigSvc     ports.SignatureService
	httpClient HTTPClient
	log        zerolog.Logger
}

var _ ports.Notifier = (*WebhookNotifier)(nil)

// NewWebhookNotifier creates a notifier delivering to url.
func NewWebhookNotifier(url, secret string, sigSvc ports.SignatureService, httpClient HTTPClient, log zerolog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url:        url,
		secret:     secret,
		sigSvc:     sigSvc,
		httpClient: httpClient,
		log:        log,
	}
}

// Notify delivers one event. 5xx, 429 and network errors are transient;
// any other non-2xx response is permanent.
func (n *WebhookNotifier) Notify(ctx context.Context, event *domain.PaymentEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: build request: %w: %w", err, ports.ErrPermanent)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderEvent, event.Type)
	req.Header.Set(HeaderSignature, n.sigSvc.Sign(n.secret, body))

	resp, err := n.httpClient.Do(req)
	if err != nil {
		n.log.Warn().Err(err).Str("payment_id", event.PaymentID.String()).Str("event", event.Type).Msg("webhook: delivery failed")
		return fmt.Errorf("webhook: deliver: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		n.log.Debug().Str("payment_id", event.PaymentID.String()).Str("event", event.Type).Int("status", resp.StatusCode).Msg("webhook: delivered")
		return nil
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("webhook: receiver returned %d", resp.StatusCode)
	default:
		return fmt.Errorf("webhook: receiver rejected event with %d: %w", resp.StatusCode, ports.ErrPermanent)
	}
}

// LogNotifier implements ports.Notifier by logging each event. It is used
// when no webhook URL is configured.
type LogNotifier struct {
	log zerolog.Logger
}

var _ ports.Notifier = (*LogNotifier)(nil)

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Notify(_ context.Context, event *domain.PaymentEvent) error {
	n.log.Info().
		Str("event", event.Type).
		Str("payment_id", event.PaymentID.String()).
		Str("reference", event.Reference).
		Str("status", string(event.Status)).
		Msg("payment event")
	return nil
}
