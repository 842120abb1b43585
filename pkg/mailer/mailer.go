// Package mailer is the delivery boundary between the queue consumer and
// the third-party transactional-email provider.
package mailer

import (
	"context"
)

// Mailer sends one email to one recipient. Implementations must be safe
// for concurrent use.
type Mailer interface {
	Send(ctx context.Context, toEmail, fullName, subject, body string) error
}
