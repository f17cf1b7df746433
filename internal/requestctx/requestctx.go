// Package requestctx provides context accessors for request-scoped values.
// Values are set by whatever handles the inbound request (out of scope here)
// and read by services and the audit writer; keeping the accessors free of
// transport types lets services import only what they need.
package requestctx

import "context"

type contextKey struct{ name string }

var (
	actorIDKey   = contextKey{"actor_id"}
	clientIPKey  = contextKey{"client_ip"}
	userAgentKey = contextKey{"user_agent"}
)

// WithActor returns a context carrying the authenticated actor's user ID.
func WithActor(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

// ActorID returns the actor's user ID from context and true if set; otherwise "", false.
func ActorID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(actorIDKey).(string)
	return v, ok && v != ""
}

// WithClientIP returns a context carrying the client IP address.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// ClientIP returns the client IP from context, or "" if not set.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey).(string)
	return v
}

// WithUserAgent returns a context carrying the client user agent.
func WithUserAgent(ctx context.Context, ua string) context.Context {
	return context.WithValue(ctx, userAgentKey, ua)
}

// UserAgent returns the client user agent from context, or "" if not set.
func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(userAgentKey).(string)
	return v
}
