// Package ctxutil provides context utility functions.
package ctxutil

import "context"

// Canceled returns the context's error if it is done (Canceled or
// DeadlineExceeded) and nil otherwise. Commands call it on entry so a
// cancelled run does no work.
func Canceled(ctx context.Context) error {
	return ctx.Err()
}
