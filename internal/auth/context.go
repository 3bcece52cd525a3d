package auth

import "context"

type ctxKeyUserID struct{}

// WithUserID stores the authenticated user id in the context. Both the
// cookie-session and bearer-token middlewares resolve into this one key,
// so handlers never care which mechanism authenticated the request.
func WithUserID(ctx context.Context, uid int64) context.Context {
	return context.WithValue(ctx, ctxKeyUserID{}, uid)
}

func UserIDFrom(ctx context.Context) (int64, bool) {
	v := ctx.Value(ctxKeyUserID{})
	if v == nil {
		return 0, false
	}
	id, _ := v.(int64)
	return id, id != 0
}
