package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleFactoryNextIsSequential(t *testing.T) {
	f := NewHandleFactory[uint32]()
	for i := uint32(0); i < 10; i++ {
		h, err := f.Next()
		require.NoError(t, err)
		assert.Equal(t, i, h.Value())
		assert.True(t, h.Valid())
	}
	assert.Equal(t, 10, f.Live())
}

func TestHandleFactoryReusesLowestID(t *testing.T) {
	f := NewHandleFactory[uint16]()
	handles := make([]Handle[uint16], 5)
	for i := range handles {
		h, err := f.Next()
		require.NoError(t, err)
		handles[i] = h
	}

	require.NoError(t, f.Invalidate(handles[3]))
	require.NoError(t, f.Invalidate(handles[1]))
	assert.False(t, handles[1].Valid())

	h, err := f.Next()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), h.Value())

	h, err = f.Next()
	require.NoError(t, err)
	assert.Equal(t, uint16(3), h.Value())

	h, err = f.Next()
	require.NoError(t, err)
	assert.Equal(t, uint16(5), h.Value())
}

func TestHandleFactoryLiveValuesAreUnique(t *testing.T) {
	f := NewHandleFactory[uint8]()
	var live []Handle[uint8]
	for step := 0; step < 200; step++ {
		switch {
		case step%7 == 3 && len(live) > 0:
			require.NoError(t, f.Invalidate(live[0]))
			live = live[1:]
		case step%11 == 5:
			h, err := f.Request(uint64(100 + step%50))
			if err == nil {
				live = append(live, h)
			} else {
				assert.ErrorIs(t, err, ErrDuplicateIdentifier)
			}
		default:
			h, err := f.Next()
			require.NoError(t, err)
			live = append(live, h)
		}

		seen := map[uint8]bool{}
		for _, h := range live {
			require.True(t, h.Valid())
			require.False(t, seen[h.Value()], "value %d issued twice", h.Value())
			seen[h.Value()] = true
		}
	}
}

func TestHandleCopiesShareState(t *testing.T) {
	f := NewHandleFactory[uint32]()
	h, err := f.Next()
	require.NoError(t, err)

	c := h.Copy()
	assert.True(t, c.Equal(h))
	assert.Equal(t, uint32(2), h.RefCount())

	require.NoError(t, f.Invalidate(h))
	assert.False(t, h.Valid())
	assert.False(t, c.Valid())
}

func TestHandleReleaseLastCopyFreesID(t *testing.T) {
	f := NewHandleFactory[uint32]()
	h, err := f.Next()
	require.NoError(t, err)
	c := h.Copy()

	h.Release()
	assert.True(t, c.Valid(), "one reference is still held")

	c.Release()
	assert.False(t, c.Valid())
	assert.Equal(t, 0, f.Live())

	n, err := f.Next()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), n.Value())
	assert.False(t, n.Equal(h), "a reused id gets fresh storage")
	assert.False(t, h.Valid(), "stale handles stay invalid after reuse")
}

func TestHandleFactoryOverflow(t *testing.T) {
	f := NewHandleFactory[uint8]()
	for i := 0; i < 256; i++ {
		h, err := f.Next()
		require.NoError(t, err)
		assert.Equal(t, uint8(i), h.Value())
	}
	_, err := f.Next()
	assert.ErrorIs(t, err, ErrNoIdentifiersLeft)
}

func TestHandleFactoryRequest(t *testing.T) {
	f := NewHandleFactory[uint8]()

	h, err := f.Request(5)
	require.NoError(t, err)
	assert.Equal(t, uint8(5), h.Value())

	_, err = f.Request(5)
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)

	_, err = f.Request(256)
	assert.ErrorIs(t, err, ErrIdentifierOutOfRange)

	// Skipped ids are still handed out first.
	for want := uint8(0); want < 5; want++ {
		n, err := f.Next()
		require.NoError(t, err)
		assert.Equal(t, want, n.Value())
	}
	n, err := f.Next()
	require.NoError(t, err)
	assert.Equal(t, uint8(6), n.Value())

	// Requesting a freed id takes it out of the open set.
	require.NoError(t, f.Invalidate(n))
	_, err = f.Request(6)
	require.NoError(t, err)
	n, err = f.Next()
	require.NoError(t, err)
	assert.Equal(t, uint8(7), n.Value())
}

func TestHandleFactoryRequestMaxValue(t *testing.T) {
	f := NewHandleFactory[uint8]()
	h, err := f.Request(255)
	require.NoError(t, err)
	assert.True(t, h.Valid())

	for i := 0; i < 255; i++ {
		_, err := f.Next()
		require.NoError(t, err)
	}
	_, err = f.Next()
	assert.ErrorIs(t, err, ErrNoIdentifiersLeft)
}

func TestHandleFactoryRequestFarAheadStaysSmall(t *testing.T) {
	f := NewHandleFactory[uint32]()
	h, err := f.Request(1 << 27)
	require.NoError(t, err)
	assert.Equal(t, uint32(1<<27), h.Value())
	assert.Len(t, f.openRuns, 1)

	_, err = f.Request(4000000000)
	require.NoError(t, err)
	assert.Len(t, f.openRuns, 2)

	for want := uint32(0); want < 3; want++ {
		n, err := f.Next()
		require.NoError(t, err)
		assert.Equal(t, want, n.Value())
	}

	// claiming an id inside a run splits it
	_, err = f.Request(1000)
	require.NoError(t, err)
	assert.Len(t, f.openRuns, 3)
	_, err = f.Request(1000)
	assert.ErrorIs(t, err, ErrDuplicateIdentifier)
}

func TestHandleFactoryOpenRunsMerge(t *testing.T) {
	f := NewHandleFactory[uint16]()
	hs := make([]Handle[uint16], 6)
	for i := range hs {
		h, err := f.Next()
		require.NoError(t, err)
		hs[i] = h
	}

	for _, i := range []int{1, 3, 2} {
		require.NoError(t, f.Invalidate(hs[i]))
	}
	assert.Equal(t, []idRun[uint16]{{lo: 1, hi: 3}}, f.openRuns)

	require.NoError(t, f.Invalidate(hs[5]))
	require.NoError(t, f.Invalidate(hs[4]))
	assert.Equal(t, []idRun[uint16]{{lo: 1, hi: 5}}, f.openRuns)

	f.Clean()
	assert.Empty(t, f.openRuns)
	n, err := f.Next()
	require.NoError(t, err)
	assert.Equal(t, uint16(1), n.Value())
}

func TestHandleFactoryCleanKeepsBehavior(t *testing.T) {
	withClean := NewHandleFactory[uint8]()
	without := NewHandleFactory[uint8]()

	run := func(f *HandleFactory[uint8], clean bool) []uint8 {
		var hs []Handle[uint8]
		for i := 0; i < 8; i++ {
			h, err := f.Next()
			require.NoError(t, err)
			hs = append(hs, h)
		}
		for _, i := range []int{7, 6, 2} {
			require.NoError(t, f.Invalidate(hs[i]))
		}
		if clean {
			f.Clean()
		}
		var out []uint8
		for i := 0; i < 4; i++ {
			h, err := f.Next()
			require.NoError(t, err)
			out = append(out, h.Value())
		}
		return out
	}

	assert.Equal(t, run(without, false), run(withClean, true))
	assert.Equal(t, []uint8{2, 6, 7, 8}, run(NewHandleFactory[uint8](), true))
}

func TestHandleFactoryCleanAfterExhaustion(t *testing.T) {
	f := NewHandleFactory[uint8]()
	var last Handle[uint8]
	for i := 0; i < 256; i++ {
		h, err := f.Next()
		require.NoError(t, err)
		last = h
	}
	require.NoError(t, f.Invalidate(last))
	f.Clean()

	h, err := f.Next()
	require.NoError(t, err)
	assert.Equal(t, uint8(255), h.Value())
	_, err = f.Next()
	assert.ErrorIs(t, err, ErrNoIdentifiersLeft)
}

func TestHandleFactoryDestroy(t *testing.T) {
	f := NewHandleFactory[uint32]()
	a, _ := f.Next()
	b, _ := f.Next()
	f.Destroy()

	assert.False(t, a.Valid())
	assert.False(t, b.Valid())
	_, err := f.Next()
	assert.Error(t, err)
}

func TestHandleForeignFactory(t *testing.T) {
	f := NewHandleFactory[uint32]()
	g := NewHandleFactory[uint32]()
	h, _ := f.Next()

	assert.False(t, g.IsValid(h))
	assert.ErrorIs(t, g.Invalidate(h), ErrForeignHandle)
	assert.ErrorIs(t, g.Invalidate(Handle[uint32]{}), ErrInvalidHandle)
}

func TestInvalidHandle(t *testing.T) {
	var h Handle[uint16]
	assert.False(t, h.Valid())
	assert.Equal(t, uint16(0xffff), h.Value())
	assert.Equal(t, uint32(0), h.RefCount())
	assert.False(t, h.Equal(Handle[uint16]{}))
	assert.Equal(t, "handle(invalid)", h.String())
	h.Release()
	assert.False(t, h.Copy().Valid())
}
