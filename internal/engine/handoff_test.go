package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandoff_Rendezvous(t *testing.T) {
	h := newHandoff[string]()

	sent := make(chan error, 1)
	go func() {
		sent <- h.send(context.Background(), envelope[string]{msg: "a"})
	}()

	select {
	case <-sent:
		t.Fatal("send completed without a receiver")
	case <-time.After(20 * time.Millisecond):
	}

	env, err := h.receive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", env.msg)
	assert.Nil(t, env.ack)
	require.NoError(t, <-sent)
}

func TestHandoff_CarriesAck(t *testing.T) {
	h := newHandoff[string]()
	ack := make(chan struct{})

	go func() {
		_ = h.send(context.Background(), envelope[string]{msg: "a", ack: ack})
	}()

	env, err := h.receive(context.Background())
	require.NoError(t, err)
	close(env.ack)

	select {
	case <-ack:
	case <-time.After(waitTimeout):
		t.Fatal("ack not propagated")
	}
}

func TestHandoff_CloseReleasesSenders(t *testing.T) {
	h := newHandoff[string]()

	errs := make(chan error, 3)
	for range 3 {
		go func() {
			errs <- h.send(context.Background(), envelope[string]{msg: "x"})
		}()
	}

	h.close()
	h.close()

	for range 3 {
		select {
		case err := <-errs:
			assert.ErrorIs(t, err, errHandoffClosed)
		case <-time.After(waitTimeout):
			t.Fatal("sender not released")
		}
	}

	select {
	case <-h.done():
	default:
		t.Fatal("done not closed")
	}
}

func TestHandoff_SendAfterClose(t *testing.T) {
	h := newHandoff[string]()
	h.close()

	err := h.send(context.Background(), envelope[string]{msg: "x"})
	assert.ErrorIs(t, err, errHandoffClosed)
}

func TestHandoff_ContextCancellation(t *testing.T) {
	h := newHandoff[string]()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := h.send(ctx, envelope[string]{msg: "x"})
	assert.ErrorIs(t, err, context.Canceled)

	_, err = h.receive(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandoff_PreservesProducerOrder(t *testing.T) {
	h := newHandoff[int]()

	go func() {
		for i := range 10 {
			if err := h.send(context.Background(), envelope[int]{msg: i}); err != nil {
				return
			}
		}
	}()

	for i := range 10 {
		env, err := h.receive(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i, env.msg)
	}
}
