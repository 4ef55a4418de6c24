// internal/app/delivery_client.go
package app

import (
	"context"
	"time"

	"ramadan_reminder_bot/internal/domain/messaging"
	"ramadan_reminder_bot/internal/retry"

	"github.com/sirupsen/logrus"
)

// DeliveryClient sends one templated notification per call, retrying
// transient transport failures with exponential backoff. It implements
// messaging.Client and never returns an error: every send, however it
// goes, collapses into an Outcome.
type DeliveryClient struct {
	transport   messaging.Transport
	maxAttempts int
	backoff     retry.Backoff
	logger      *logrus.Logger
}

func NewDeliveryClient(t messaging.Transport, maxAttempts int, retryBase time.Duration, logger *logrus.Logger) *DeliveryClient {
	return &DeliveryClient{
		transport:   t,
		maxAttempts: maxAttempts,
		backoff:     retry.Exponential(retryBase),
		logger:      logger,
	}
}

// Send attempts delivery of one templated message to the given
// identifier. An empty identifier is rejected up front without touching
// the transport.
func (c *DeliveryClient) Send(ctx context.Context, to, templateName string, params []string) messaging.Outcome {
	if to == "" {
		return messaging.Outcome{Success: false, Detail: "empty recipient identifier"}
	}

	var payload string
	attempt := 0
	err := retry.Do(ctx, c.maxAttempts, c.backoff, func(ctx context.Context) error {
		attempt++
		p, errSend := c.transport.SendTemplate(ctx, to, templateName, params)
		if errSend != nil {
			c.logger.WithFields(logrus.Fields{
				"to":      to,
				"attempt": attempt,
				"of":      c.maxAttempts,
			}).Warnf("Send attempt failed: %v", errSend)
			return errSend
		}
		payload = p
		return nil
	})
	if err != nil {
		return messaging.Outcome{Success: false, Detail: err.Error()}
	}
	return messaging.Outcome{Success: true, Response: payload}
}
