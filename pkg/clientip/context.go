package clientip

import "context"

type contextKey struct{}

// SetIPToContext stores the client IP in the context.
func SetIPToContext(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, contextKey{}, ip)
}

// GetIPFromContext returns the client IP stored by the middleware, or an
// empty string when none was recorded.
func GetIPFromContext(ctx context.Context) string {
	ip, _ := ctx.Value(contextKey{}).(string)
	return ip
}
