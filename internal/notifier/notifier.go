package notifier

import "context"

// Notifier delivers a reminder message to a patient's phone and returns the
// gateway's delivery id. Implementations do not retry; the caller decides
// whether a failed dose is retried on a later sweep.
type Notifier interface {
	Send(ctx context.Context, to, message string) (string, error)
}
