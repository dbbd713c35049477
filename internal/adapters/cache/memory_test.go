package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryStore_SetGet(t *testing.T) {
	store := NewMemoryStore()

	err := store.Set("loans:demo", payload{Name: "demo", Count: 3}, time.Minute)
	require.NoError(t, err)

	var out payload
	hit, err := store.Get("loans:demo", &out)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "demo", out.Name)
	assert.Equal(t, 3, out.Count)
}

func TestMemoryStore_Miss(t *testing.T) {
	store := NewMemoryStore()

	var out payload
	hit, err := store.Get("loans:missing", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set("loans:demo", payload{Name: "demo"}, time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	var out payload
	hit, err := store.Get("loans:demo", &out)
	require.NoError(t, err)
	assert.False(t, hit, "expired entry counts as a miss")
	assert.Equal(t, 0, store.Len(), "expired entry is dropped on read")
}

func TestMemoryStore_Invalidate(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set("loans:42", payload{Count: 42}, time.Minute))
	require.NoError(t, store.Invalidate("loans:42"))

	var out payload
	hit, err := store.Get("loans:42", &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryStore_InvalidateNamespace(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set(Key(NamespaceLoans, "all"), payload{}, time.Minute))
	require.NoError(t, store.Set(Key(NamespaceLoans, "demo"), payload{}, time.Minute))
	require.NoError(t, store.Set(Key(NamespaceStatistics, "global"), payload{}, time.Minute))
	require.NoError(t, store.Set(Key(NamespaceUsers, "demo"), payload{}, time.Minute))

	require.NoError(t, store.InvalidateNamespace(NamespaceLoans))

	var out payload
	hit, _ := store.Get(Key(NamespaceLoans, "all"), &out)
	assert.False(t, hit)
	hit, _ = store.Get(Key(NamespaceLoans, "demo"), &out)
	assert.False(t, hit)

	// Other namespaces are untouched
	hit, _ = store.Get(Key(NamespaceStatistics, "global"), &out)
	assert.True(t, hit)
	hit, _ = store.Get(Key(NamespaceUsers, "demo"), &out)
	assert.True(t, hit)
}

func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Set("loans:a", payload{}, time.Millisecond))
	require.NoError(t, store.Set("loans:b", payload{}, time.Millisecond))
	require.NoError(t, store.Set("loans:c", payload{}, time.Minute))
	time.Sleep(5 * time.Millisecond)

	removed := store.Sweep()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStore_SnapshotSemantics(t *testing.T) {
	store := NewMemoryStore()

	value := &payload{Name: "before"}
	require.NoError(t, store.Set("loans:snap", value, time.Minute))

	// Mutating the original after Set must not leak into the cached copy
	value.Name = "after"

	var out payload
	hit, err := store.Get("loans:snap", &out)
	require.NoError(t, err)
	require.True(t, hit)
	assert.Equal(t, "before", out.Name)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "loans:all", Key(NamespaceLoans, "all"))
	assert.Equal(t, "statistics:user:demo", Key(NamespaceStatistics, "user", "demo"))
}
