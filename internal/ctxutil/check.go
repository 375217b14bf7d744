// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled reports whether ctx is already done, returning context.Canceled or
// context.DeadlineExceeded in that case and nil otherwise. Operations call it at
// entry so a canceled request never starts a git process.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
