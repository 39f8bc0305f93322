// Package notifications sends alert text messages to caregivers.
//
// A Gateway delivers one message. The Notifier binds a gateway to the
// configured sender and recipient numbers; when either the credentials or
// the numbers are missing it reports ErrGatewayUnconfigured instead of
// sending, and callers treat that as degraded mode rather than failure.
package notifications

import (
	"context"
	"errors"
)

// ProductName prefixes every alert body.
const ProductName = "Mind Saathi"

var (
	// ErrGatewayUnconfigured means credentials or phone numbers are missing.
	// Sends become no-ops; it is not a failure.
	ErrGatewayUnconfigured = errors.New("sms gateway not configured or phone numbers missing")

	// ErrSendFailed means the transport rejected the message.
	ErrSendFailed = errors.New("sms send failed")
)

// Gateway delivers a text message and returns the provider's message id.
type Gateway interface {
	Send(ctx context.Context, to, from, body string) (string, error)
}
