package logview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertIsNewestFirst(t *testing.T) {
	l := New[int](5)
	l.Insert(1)
	l.Insert(2)
	l.Insert(3)

	assert.Equal(t, []int{3, 2, 1}, l.Entries())
	assert.Equal(t, 3, l.Len())
	assert.Zero(t, l.Evicted())
}

func TestCapacityEvictsOldest(t *testing.T) {
	const capacity = 40
	l := New[int](capacity)

	for i := 1; i <= 500; i++ {
		l.Insert(i)
		require.LessOrEqual(t, l.Len(), capacity)

		// The log always holds the newest min(i, capacity) values in reverse insertion order.
		want := make([]int, 0, capacity)
		for v := i; v > 0 && len(want) < capacity; v-- {
			want = append(want, v)
		}
		require.Equal(t, want, l.Entries(), "after inserting %d", i)
	}

	assert.Equal(t, uint64(500-capacity), l.Evicted())
}

func TestEvictHookReceivesTail(t *testing.T) {
	l := New[string](2)
	var dropped []string
	l.OnEvict(func(s string) { dropped = append(dropped, s) })

	l.Insert("a")
	l.Insert("b")
	l.Insert("c")
	l.Insert("d")

	assert.Equal(t, []string{"a", "b"}, dropped)
	assert.Equal(t, []string{"d", "c"}, l.Entries())
}

func TestUnboundedGrows(t *testing.T) {
	l := New[int](0)
	for i := 0; i < 100; i++ {
		l.Insert(i)
	}

	require.Equal(t, 100, l.Len())
	entries := l.Entries()
	assert.Equal(t, 99, entries[0])
	assert.Equal(t, 0, entries[99])
	assert.Zero(t, l.Evicted())
	assert.Zero(t, l.Cap())
}

func TestGrowAfterWrap(t *testing.T) {
	l := New[int](0)
	// Fill past the initial ring size so grow runs with a non-zero head.
	for i := 0; i < 17; i++ {
		l.Insert(i)
	}
	got := l.Entries()
	require.Len(t, got, 17)
	for i, v := range got {
		assert.Equal(t, 16-i, v)
	}
}

func TestReplace(t *testing.T) {
	l := New[string](0)
	l.Replace([]string{"1.2.3.4"})
	assert.Equal(t, []string{"1.2.3.4"}, l.Entries())

	l.Replace([]string{"5.6.7.8", "9.9.9.9"})
	assert.Equal(t, []string{"5.6.7.8", "9.9.9.9"}, l.Entries())

	l.Replace(nil)
	assert.Empty(t, l.Entries())
}

func TestReplaceTruncatesToCapacity(t *testing.T) {
	l := New[int](2)
	l.Replace([]int{1, 2, 3})
	assert.Equal(t, []int{1, 2}, l.Entries())
	assert.Zero(t, l.Evicted())
}

func TestAt(t *testing.T) {
	l := New[int](3)
	l.Insert(10)
	l.Insert(20)

	v, ok := l.At(0)
	assert.True(t, ok)
	assert.Equal(t, 20, v)

	_, ok = l.At(2)
	assert.False(t, ok)
	_, ok = l.At(-1)
	assert.False(t, ok)
}
