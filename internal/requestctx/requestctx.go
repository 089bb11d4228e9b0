package requestctx

import "context"

type ctxKey string

const (
	requestIDKey ctxKey = "request_id"
	actorIDKey   ctxKey = "actor_id"
	actionKey    ctxKey = "action"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	if value, ok := ctx.Value(requestIDKey).(string); ok {
		return value
	}
	return ""
}

// WithActorID records the national ID of the logged-in administrator.
func WithActorID(ctx context.Context, actorID string) context.Context {
	return context.WithValue(ctx, actorIDKey, actorID)
}

func GetActorID(ctx context.Context) string {
	if value, ok := ctx.Value(actorIDKey).(string); ok {
		return value
	}
	return ""
}

type actionSlot struct {
	action string
}

// WithActionSlot reserves room for the dispatcher to report the action it
// served, so outer middleware can read it after the handler returns.
func WithActionSlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, actionKey, &actionSlot{})
}

func SetAction(ctx context.Context, action string) {
	if slot, ok := ctx.Value(actionKey).(*actionSlot); ok {
		slot.action = action
	}
}

func GetAction(ctx context.Context) string {
	if slot, ok := ctx.Value(actionKey).(*actionSlot); ok {
		return slot.action
	}
	return ""
}
