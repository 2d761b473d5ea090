package async

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKernel_SettleIsIdempotent(t *testing.T) {
	k := newKernel[int](nil, nil)
	k.settle(1, nil)
	k.settle(2, errors.New("ignored"))

	v, err := k.Get()
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestKernel_GetBeforeSettleReturnsNotReady(t *testing.T) {
	k := newKernel[int](nil, nil)
	_, err := k.Get()
	require.ErrorIs(t, err, ErrNotReady)
	require.False(t, k.Ready())
}

func TestKernel_AwaitCancellingWaitsForUnwindAfterCtxDone(t *testing.T) {
	k := newKernel[int](nil, nil)
	sig := NewCancellationSignal()
	slot := sig.Slot()

	ctx, cancel := context.WithCancel(context.Background())

	settleCalled := make(chan struct{})
	go func() {
		<-slot.Done()
		time.Sleep(10 * time.Millisecond)
		k.settle(9, nil)
		close(settleCalled)
	}()

	cancel()
	v, err := k.awaitCancelling(ctx, sig)
	require.NoError(t, err)
	require.Equal(t, 9, v)
	<-settleCalled
}

func TestPromiseState_String(t *testing.T) {
	require.Equal(t, "pending", Pending.String())
	require.Equal(t, "resolved", Resolved.String())
	require.Equal(t, "rejected", Rejected.String())
}
