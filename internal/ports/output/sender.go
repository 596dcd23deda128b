package output

import "context"

// MessageSender delivers a plain text message to one user. The caller only
// learns that the call returned; delivery itself is the platform's problem.
type MessageSender interface {
	SendText(ctx context.Context, userID int64, text string) error
}
