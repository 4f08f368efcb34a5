// Package sender holds the channel transport implementations. The dispatch
// engine only sees the two small contracts below; provider wire formats
// (SMTP, SES, Orange/MTN HTTP APIs) stay in here.
package sender

import (
	"context"

	"github.com/ulrichyv/mailing/internal/models"
)

// Session is an open channel connection. For email the expensive part is
// session setup (dial + STARTTLS + AUTH), so one Session is shared across
// every recipient of a channel run.
type Session interface {
	// Send delivers one personalized message to one recipient. The
	// recipient is already validated and canonicalized by the caller.
	Send(ctx context.Context, recipient string, msg *models.RenderedMessage) error

	// Close releases the connection.
	Close() error
}

// Sender opens sessions for one channel. An Open failure is the
// channel-fatal case: no recipient on that channel can be attempted.
type Sender interface {
	Channel() models.Channel
	Open(ctx context.Context) (Session, error)
}
