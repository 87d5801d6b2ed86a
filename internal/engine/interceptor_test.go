package engine

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChain_RunsInOrder(t *testing.T) {
	var calls []string
	mk := func(name string) Interceptor[string, string, string] {
		return func(ctx context.Context, snap testSnap) {
			calls = append(calls, name+":"+snap.State)
		}
	}

	chained := Chain(mk("a"), nil, mk("b"))
	chained(context.Background(), Regular("sx", Set[string]{}, "s", "x"))

	assert.Equal(t, []string{"a:sx", "b:sx"}, calls)
}

func TestLogInterceptor(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ic := LogInterceptor[string, string, string](logger)

	initial := Initial[string]("s", NewSet("load"))
	initial.Seq = 1
	ic(context.Background(), initial)

	regular := Regular("sa", Set[string]{}, "s", "a")
	regular.Seq = 2
	ic(context.Background(), regular)

	out := buf.String()
	assert.Contains(t, out, "seq=1 kind=initial commands=1")
	assert.Contains(t, out, "seq=2 kind=regular message=a commands=0")
}

func TestLogInterceptor_NilLoggerUsesDefault(t *testing.T) {
	assert.NotPanics(t, func() {
		LogInterceptor[string, string, string](nil)(context.Background(), Initial[string]("s", Set[string]{}))
	})
}
