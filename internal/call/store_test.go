package call

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetOrCreateIsStablePerCall(t *testing.T) {
	store := NewStore(DefaultEscalationThreshold, time.Hour)

	a := store.GetOrCreate("CA1", "+15550001")
	b := store.GetOrCreate("CA1", "+15550001")
	assert.Same(t, a, b)

	other := store.GetOrCreate("CA2", "+15550002")
	assert.NotSame(t, a, other)
	assert.Equal(t, 2, store.Len())
}

func TestStore_GetUnknownReturnsNil(t *testing.T) {
	store := NewStore(DefaultEscalationThreshold, time.Hour)
	assert.Nil(t, store.Get("CA-unknown"))
}

func TestStore_EndRemovesOnlyThatCall(t *testing.T) {
	store := NewStore(DefaultEscalationThreshold, time.Hour)
	store.GetOrCreate("CA1", "+15550001")
	store.GetOrCreate("CA2", "+15550002")

	store.End("CA1")
	assert.Nil(t, store.Get("CA1"))
	assert.NotNil(t, store.Get("CA2"))

	// Ending twice is harmless.
	store.End("CA1")
	assert.Equal(t, 1, store.Len())
}

func TestStore_EndedCallStartsFresh(t *testing.T) {
	store := NewStore(DefaultEscalationThreshold, time.Hour)

	conv := store.GetOrCreate("CA1", "+15550001")
	require.NoError(t, conv.AddQuestion("hi"))
	store.End("CA1")

	again := store.GetOrCreate("CA1", "+15550001")
	assert.Equal(t, 0, again.AttemptCount())
}

func TestStore_SweepIdleEvictsStaleSessions(t *testing.T) {
	store := NewStore(DefaultEscalationThreshold, 10*time.Millisecond)

	store.GetOrCreate("CA-old", "+15550001")
	time.Sleep(30 * time.Millisecond)
	fresh := store.GetOrCreate("CA-new", "+15550002")
	require.NoError(t, fresh.AddQuestion("hi"))

	evicted := store.SweepIdle()
	assert.Equal(t, 1, evicted)
	assert.Nil(t, store.Get("CA-old"))
	assert.NotNil(t, store.Get("CA-new"))
}

func TestStore_SweepDisabledWithoutTTL(t *testing.T) {
	store := NewStore(DefaultEscalationThreshold, 0)
	store.GetOrCreate("CA1", "+15550001")
	assert.Equal(t, 0, store.SweepIdle())
	assert.Equal(t, 1, store.Len())
}

func TestStore_ConcurrentSameCallSerializes(t *testing.T) {
	store := NewStore(1000, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			conv := store.GetOrCreate("CA1", "+15550001")
			_ = conv.AddQuestion("hello")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 50, store.Get("CA1").AttemptCount())
}
