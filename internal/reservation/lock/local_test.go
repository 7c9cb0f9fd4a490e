package lock

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalLocker_MutualExclusion(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	const workers = 20
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := locker.Lock(ctx, "lot-1")
			require.NoError(t, err)
			defer release()
			counter++
		}()
	}
	wg.Wait()

	require.Equal(t, workers, counter)
}

func TestLocalLocker_KeysAreIndependent(t *testing.T) {
	locker := NewLocalLocker()
	ctx := context.Background()

	releaseA, err := locker.Lock(ctx, "lot-a")
	require.NoError(t, err)
	defer releaseA()

	// Holding lot-a must not block lot-b.
	done := make(chan struct{})
	go func() {
		releaseB, err := locker.Lock(ctx, "lot-b")
		require.NoError(t, err)
		releaseB()
		close(done)
	}()
	<-done
}
