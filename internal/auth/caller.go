package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when no caller identity can be established.
var ErrUnauthenticated = errors.New("unauthenticated")

// CallerContext carries the already-authenticated user identity into every
// entry point. Credential checks happen in the external login system; this
// core only ever sees the resolved user id.
type CallerContext struct {
	UserID int
}

type callerContextKey struct{}

func ContextWithCaller(ctx context.Context, caller CallerContext) context.Context {
	return context.WithValue(ctx, callerContextKey{}, caller)
}

func CallerFromContext(ctx context.Context) (CallerContext, error) {
	caller, ok := ctx.Value(callerContextKey{}).(CallerContext)
	if !ok {
		return CallerContext{}, ErrUnauthenticated
	}
	return caller, nil
}
