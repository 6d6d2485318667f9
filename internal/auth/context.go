// internal/auth/context.go
//
// Request-context flag set by the Basic middleware once the admin
// credentials check out.  Templates use it to show admin-only links.
//
// Usage
// -----
//     ctx = auth.WithAdmin(ctx, "admin")
//     name, ok := auth.Admin(ctx)   // "admin", true
//
// Notes
// -----
// • Oxford commas, two spaces after periods.

package auth

import "context"

// adminKey is unexported to avoid context-key collisions.
type adminKey struct{}

// WithAdmin returns a new context marked as authenticated for username.
func WithAdmin(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, adminKey{}, username)
}

// Admin returns the authenticated username, or ("", false).
func Admin(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(adminKey{}).(string)
	return name, ok && name != ""
}
