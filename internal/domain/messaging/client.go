package messaging

import "context"

// Outcome is the result of one logical send (including any retries).
// Success carries the remote response payload; failure carries the last
// error detail. A send never produces a Go error at this level.
type Outcome struct {
	Success  bool
	Detail   string
	Response string
}

// Client sends one templated notification to one recipient identifier.
// Params are bound positionally to the template's placeholders and must
// not be reordered.
type Client interface {
	Send(ctx context.Context, to, templateName string, params []string) Outcome
}

// Transport performs a single delivery attempt against the messaging
// provider. It returns the raw response payload on success. Retry and
// backoff are the caller's concern.
type Transport interface {
	SendTemplate(ctx context.Context, to, templateName string, params []string) (string, error)
}
