package containers

import (
	"io"
	"maps"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVec(t *testing.T) {
	var v Vec[int]
	_, ok := v.Pop()
	assert.False(t, ok)

	v.Push(1)
	v.Extend(2, 3, 4)
	require.Equal(t, 4, v.Len())
	assert.Equal(t, 3, v.At(2))

	v.Set(0, 10)
	assert.Equal(t, []int{10, 2, 3, 4}, v.Slice())

	last, ok := v.Pop()
	require.True(t, ok)
	assert.Equal(t, 4, last)

	var seen []int
	for i, e := range v.All() {
		assert.Equal(t, v.At(i), e)
		seen = append(seen, e)
	}
	assert.Equal(t, []int{10, 2, 3}, seen)

	capBefore := v.Cap()
	v.Clear()
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, capBefore, v.Cap())
}

func TestVecReserve(t *testing.T) {
	v := NewVec[string](0)
	v.Push("a")
	v.Reserve(100)
	assert.GreaterOrEqual(t, v.Cap(), 101)
	assert.Equal(t, "a", v.At(0))

	c := v.Cap()
	v.Reserve(10)
	assert.Equal(t, c, v.Cap())
}

func TestVecClearZeroesElements(t *testing.T) {
	v := NewVec[*int](4)
	x := 1
	v.Push(&x)
	v.Clear()
	assert.Nil(t, v.Slice()[:1][0])
}

func TestHashMap(t *testing.T) {
	var h HashMap[string, int]
	assert.False(t, h.Contains("a"))
	assert.False(t, h.Delete("a"))

	_, replaced := h.Insert("a", 1)
	assert.False(t, replaced)
	old, replaced := h.Insert("a", 2)
	assert.True(t, replaced)
	assert.Equal(t, 1, old)
	h.Insert("b", 3)

	v, ok := h.Get("a")
	require.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, map[string]int{"a": 2, "b": 3}, maps.Collect(h.All()))

	assert.True(t, h.Delete("b"))
	assert.Equal(t, 1, h.Len())

	h.Clear()
	assert.Equal(t, 0, h.Len())
	h.Insert("c", 4)
	assert.Equal(t, 1, h.Len())
}

func TestHashSet(t *testing.T) {
	var s HashSet[int]
	assert.True(t, s.Insert(1))
	assert.False(t, s.Insert(1))
	assert.True(t, s.Insert(2))
	assert.True(t, s.Contains(2))
	assert.Equal(t, 2, s.Len())

	got := slices.Sorted(s.All())
	assert.Equal(t, []int{1, 2}, got)

	assert.True(t, s.Remove(1))
	assert.False(t, s.Remove(1))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	assert.False(t, s.Contains(2))
}

func TestString(t *testing.T) {
	var b String
	var w io.Writer = &b

	_, _ = b.WriteString("hello")
	_ = b.WriteByte(' ')
	_, _ = b.WriteRune('世')
	_, err := w.Write([]byte("!"))
	require.NoError(t, err)

	assert.Equal(t, "hello 世!", b.String())
	assert.Equal(t, b.String(), b.UnsafeString())
	assert.Equal(t, len("hello 世!"), b.Len())

	kept := b.String()
	capBefore := b.Cap()
	b.Clear()
	_, _ = b.WriteString("xxxxx")
	assert.Equal(t, "hello 世!", kept)
	assert.Equal(t, capBefore, b.Cap())
	assert.Equal(t, "", NewString(4).UnsafeString())
}

func TestStringGrow(t *testing.T) {
	b := NewString(2)
	_, _ = b.WriteString("ab")
	b.Grow(64)
	assert.GreaterOrEqual(t, b.Cap()-b.Len(), 64)
	assert.Equal(t, "ab", string(b.Bytes()))
	assert.Equal(t, strings.Repeat("ab", 1), b.String())
}

func TestDeque(t *testing.T) {
	var d Deque[int]
	_, ok := d.PopFront()
	assert.False(t, ok)
	_, ok = d.Back()
	assert.False(t, ok)

	for i := 0; i < 5; i++ {
		d.PushBack(i)
	}
	d.PushFront(-1)
	assert.Equal(t, 6, d.Len())

	f, _ := d.Front()
	b, _ := d.Back()
	assert.Equal(t, -1, f)
	assert.Equal(t, 4, b)
	assert.Equal(t, 0, d.At(1))

	v, ok := d.PopBack()
	require.True(t, ok)
	assert.Equal(t, 4, v)
	v, ok = d.PopFront()
	require.True(t, ok)
	assert.Equal(t, -1, v)
	assert.Equal(t, 4, d.Len())

	assert.Panics(t, func() { d.At(4) })
}

func TestDequeGrowsAcrossWrap(t *testing.T) {
	d := NewDeque[int](8)
	// move head to the middle before filling past capacity
	for i := 0; i < 4; i++ {
		d.PushBack(i)
	}
	for i := 0; i < 4; i++ {
		d.PopFront()
	}
	for i := 0; i < 20; i++ {
		d.PushBack(i)
	}
	require.Equal(t, 20, d.Len())
	for i := 0; i < 20; i++ {
		assert.Equal(t, i, d.At(i))
	}

	capBefore := d.Cap()
	d.Clear()
	assert.Equal(t, 0, d.Len())
	assert.Equal(t, capBefore, d.Cap())
}

func TestHeap(t *testing.T) {
	var h Heap[int]
	_, ok := h.Peek()
	assert.False(t, ok)

	for _, x := range []int{5, 1, 9, 3, 7, 9, 0} {
		h.Push(x)
	}
	top, _ := h.Peek()
	assert.Equal(t, 9, top)

	var out []int
	for h.Len() > 0 {
		x, _ := h.Pop()
		out = append(out, x)
	}
	assert.Equal(t, []int{9, 9, 7, 5, 3, 1, 0}, out)

	_, ok = h.Pop()
	assert.False(t, ok)

	h.Push(1)
	capBefore := h.Cap()
	h.Clear()
	assert.Equal(t, 0, h.Len())
	assert.Equal(t, capBefore, h.Cap())
}

func TestHeapClearZeroesElements(t *testing.T) {
	h := NewHeap[string](4)
	h.Push("a")
	h.Push("b")
	h.Clear()
	assert.Equal(t, []string{"", ""}, h.items[:2])
}

func TestBuffer(t *testing.T) {
	b := NewBuffer(32)
	_, err := b.WriteString("payload")
	require.NoError(t, err)
	assert.Equal(t, "payload", b.String())

	b.Clear()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 32, b.Cap())

	var zero Buffer
	_, _ = zero.Write([]byte("x"))
	assert.Equal(t, 1, zero.Len())
}
