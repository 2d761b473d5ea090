package async

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestPromise_StartsEagerly(t *testing.T) {
	ex := NewSerialExecutor()
	defer ex.Close()

	started := make(chan struct{})
	p := NewPromise(ex, func(slot *CancellationSlot) (int, error) {
		close(started)
		return 1, nil
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("promise body never started without being awaited")
	}

	v, err := p.Await(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, v)
}

func TestPromise_MultipleConcurrentAwaitsAgree(t *testing.T) {
	ex := NewSerialExecutor()
	defer ex.Close()

	release := make(chan struct{})
	p := NewPromise(ex, func(slot *CancellationSlot) (int, error) {
		<-release
		return 99, nil
	})

	var wg sync.WaitGroup
	results := make([]int, 5)
	for i := 0; i < 5; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := p.Await(context.Background())
			require.NoError(t, err)
			results[i] = v
		}()
	}

	close(release)
	wg.Wait()

	for _, v := range results {
		require.Equal(t, 99, v)
	}
}

func TestPromise_ReadyAndGetNonSuspending(t *testing.T) {
	ex := NewSerialExecutor()
	defer ex.Close()

	release := make(chan struct{})
	p := NewPromise(ex, func(slot *CancellationSlot) (int, error) {
		<-release
		return 5, nil
	})

	require.False(t, p.Ready())
	_, err := p.Get()
	require.ErrorIs(t, err, ErrNotReady)

	close(release)
	_, _ = p.Await(context.Background())

	require.True(t, p.Ready())
	v, err := p.Get()
	require.NoError(t, err)
	require.Equal(t, 5, v)
}

func TestPromise_DetachReportsErrorViaTerminateHook(t *testing.T) {
	ex := NewSerialExecutor()
	defer ex.Close()

	wantErr := errors.New("detached failure")
	reported := make(chan error, 1)
	SetTerminateHook(func(category string, err error) {
		reported <- err
	})
	defer SetTerminateHook(nil)

	Spawn(ex, "test-detach", func(slot *CancellationSlot) (int, error) {
		return 0, wantErr
	})

	select {
	case err := <-reported:
		require.ErrorIs(t, err, wantErr)
	case <-time.After(time.Second):
		t.Fatal("terminate hook never invoked")
	}
}
