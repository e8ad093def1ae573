package mocks

import (
	"context"

	"hotel/infras/otel"
)

// noopOtel satisfies otel.Otel without recording anything.
type noopOtel struct{}

func (o *noopOtel) NewScope(ctx context.Context, _, _ string) (context.Context, otel.Scope) {
	return ctx, NewScope()
}

func (o *noopOtel) Shutdown(_ context.Context) error {
	return nil
}

func NewOtel() otel.Otel {
	return &noopOtel{}
}
