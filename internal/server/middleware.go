package server

import (
	"context"
)

type ctxKey int

const ctxKeyOrganizer ctxKey = iota

func withOrganizer(ctx context.Context, sess organizerSession) context.Context {
	return context.WithValue(ctx, ctxKeyOrganizer, sess)
}

func organizerFrom(ctx context.Context) organizerSession {
	return ctx.Value(ctxKeyOrganizer).(organizerSession)
}
