package notifications

import "context"

// Notifier sends alert bodies from a fixed number to a default recipient.
type Notifier struct {
	gateway   Gateway
	from      string
	defaultTo string
}

// NewNotifier binds gateway to the sender number and default recipient.
// gateway is nil when sending is disabled.
func NewNotifier(gateway Gateway, from, defaultTo string) *Notifier {
	return &Notifier{gateway: gateway, from: from, defaultTo: defaultTo}
}

// Recipient returns override when set, else the default recipient.
func (n *Notifier) Recipient(override string) string {
	if override != "" {
		return override
	}
	return n.defaultTo
}

// Ready reports whether a message to Recipient(override) would be attempted.
func (n *Notifier) Ready(override string) bool {
	return n != nil && n.gateway != nil && n.from != "" && n.Recipient(override) != ""
}

// Notify sends body to Recipient(override). It returns ErrGatewayUnconfigured
// without sending when Ready is false.
func (n *Notifier) Notify(ctx context.Context, override, body string) (string, error) {
	if !n.Ready(override) {
		return "", ErrGatewayUnconfigured
	}
	return n.gateway.Send(ctx, n.Recipient(override), n.from, body)
}
