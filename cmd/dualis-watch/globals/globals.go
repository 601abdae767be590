package globals

import (
	"context"
	"dualis-watch/internal/config"
)

type key struct{}

type Value struct {
	Config     config.Config
	ConfigPath string
	Verbose    bool
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key{}, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key{}).(*Value)
}
