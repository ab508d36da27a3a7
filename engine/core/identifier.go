package core

import (
	"fmt"
	"sync"

	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

/**
 * @brief The shared storage behind every copy of a handle. All copies of a
 * handle point to the same cell, so invalidating one copy is observed by all of them.
 */
type handleCell[T constraints.Unsigned] struct {
	/** @brief The identifier the cell holds. */
	id T
	/** @brief The number of outstanding references. */
	refs uint32
	/** @brief False once the cell was invalidated or its last reference released. */
	alive bool
	/** @brief The factory which issued the cell. */
	factory *HandleFactory[T]
}

/**
 * @brief A reference counted identifier issued by a HandleFactory.
 * The zero value is an invalid handle.
 */
type Handle[T constraints.Unsigned] struct {
	cell *handleCell[T]
}

// InvalidValue is the value reported by handles that were never issued.
func InvalidValue[T constraints.Unsigned]() T {
	return ^T(0)
}

// Value returns the identifier. Invalid handles report InvalidValue; the value of a handle
// invalidated after issue is kept so it can still be logged.
func (h Handle[T]) Value() T {
	if h.cell == nil {
		return InvalidValue[T]()
	}
	return h.cell.id
}

// Valid reports whether the handle is live in the factory that issued it.
func (h Handle[T]) Valid() bool {
	if h.cell == nil || h.cell.factory == nil {
		return false
	}
	return h.cell.factory.IsValid(h)
}

// Equal reports whether both handles share the same storage.
func (h Handle[T]) Equal(o Handle[T]) bool {
	return h.cell != nil && h.cell == o.cell
}

// RefCount returns the number of references currently held on the handle.
func (h Handle[T]) RefCount() uint32 {
	if h.cell == nil || h.cell.factory == nil {
		return 0
	}
	f := h.cell.factory
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return h.cell.refs
}

// Copy takes a new reference on the handle and returns it. Copying an invalid handle
// returns another invalid handle sharing the same storage.
func (h Handle[T]) Copy() Handle[T] {
	if h.cell == nil || h.cell.factory == nil {
		return h
	}
	f := h.cell.factory
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if h.cell.alive {
		h.cell.refs++
	}
	return h
}

// Release drops one reference. When the last reference is dropped the identifier
// goes back to the factory.
func (h Handle[T]) Release() {
	if h.cell == nil || h.cell.factory == nil {
		return
	}
	f := h.cell.factory
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if !h.cell.alive || h.cell.refs == 0 {
		return
	}
	h.cell.refs--
	if h.cell.refs == 0 {
		f.free(h.cell)
	}
}

func (h Handle[T]) String() string {
	if h.cell == nil {
		return "handle(invalid)"
	}
	return fmt.Sprintf("handle(%d)", h.cell.id)
}

/** @brief A closed range [lo, hi] of free identifiers. */
type idRun[T constraints.Unsigned] struct {
	lo, hi T
}

/**
 * @brief Issues unique identifiers of type T, always handing out the lowest free one.
 * Identifiers come back to the pool when invalidated or when their last reference is released.
 */
type HandleFactory[T constraints.Unsigned] struct {
	mutex sync.Mutex
	/** @brief The first identifier never handed out by the counter. */
	nextFreeID T
	/** @brief Set once max(T) itself was handed out by the counter. */
	exhausted bool
	/** @brief Free identifiers below nextFreeID as sorted, disjoint, non-adjacent runs. */
	openRuns []idRun[T]
	/** @brief The cells of all live identifiers. */
	live      map[T]*handleCell[T]
	destroyed bool
}

func NewHandleFactory[T constraints.Unsigned]() *HandleFactory[T] {
	return &HandleFactory[T]{
		live: make(map[T]*handleCell[T]),
	}
}

// Next returns a handle to the lowest identifier currently not in use.
func (f *HandleFactory[T]) Next() (Handle[T], error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.destroyed {
		return Handle[T]{}, fmt.Errorf("func Next - factory already destroyed: %w", ErrInvalidHandle)
	}

	if len(f.openRuns) > 0 {
		id := f.openRuns[0].lo
		f.takeOpen(0, id)
		return f.issue(id), nil
	}
	if f.exhausted {
		return Handle[T]{}, fmt.Errorf("func Next - %d identifiers in use: %w", len(f.live), ErrNoIdentifiersLeft)
	}
	id := f.nextFreeID
	f.advancePast(id)
	return f.issue(id), nil
}

// Request claims the given identifier. Used to restore persisted identifiers with a stable value.
func (f *HandleFactory[T]) Request(id uint64) (Handle[T], error) {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	if f.destroyed {
		return Handle[T]{}, fmt.Errorf("func Request - factory already destroyed: %w", ErrInvalidHandle)
	}
	if id > uint64(InvalidValue[T]()) {
		return Handle[T]{}, fmt.Errorf("func Request - id '%d' out of range (max=%d): %w", id, InvalidValue[T](), ErrIdentifierOutOfRange)
	}

	tid := T(id)
	if _, ok := f.live[tid]; ok {
		return Handle[T]{}, fmt.Errorf("func Request - id '%d' is already in use: %w", id, ErrDuplicateIdentifier)
	}

	if !f.exhausted && tid >= f.nextFreeID {
		// Everything skipped over becomes free for later calls to Next.
		if tid > f.nextFreeID {
			f.addOpen(idRun[T]{lo: f.nextFreeID, hi: tid - 1})
		}
		f.advancePast(tid)
	} else if i, found := f.findOpen(tid); found {
		f.takeOpen(i, tid)
	}
	return f.issue(tid), nil
}

// IsValid reports whether h is live and was issued by this factory.
func (f *HandleFactory[T]) IsValid(h Handle[T]) bool {
	if h.cell == nil {
		return false
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return h.cell.factory == f && h.cell.alive && f.live[h.cell.id] == h.cell
}

// Invalidate kills the handle and every copy of it regardless of the reference count.
func (f *HandleFactory[T]) Invalidate(h Handle[T]) error {
	if h.cell == nil {
		return ErrInvalidHandle
	}
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if h.cell.factory != f {
		return ErrForeignHandle
	}
	if !h.cell.alive {
		return nil
	}
	f.free(h.cell)
	return nil
}

// Clean trims bookkeeping left behind by scattered frees. Skipping it only costs memory.
func (f *HandleFactory[T]) Clean() {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	// Open ids at the very top of the range are the same as never having been handed out.
	for len(f.openRuns) > 0 {
		last := f.openRuns[len(f.openRuns)-1]
		if f.exhausted && last.hi == InvalidValue[T]() {
			f.exhausted = false
			f.nextFreeID = last.lo
		} else if !f.exhausted && f.nextFreeID > 0 && last.hi == f.nextFreeID-1 {
			f.nextFreeID = last.lo
		} else {
			break
		}
		f.openRuns = f.openRuns[:len(f.openRuns)-1]
	}
	f.openRuns = slices.Clip(f.openRuns)
}

// Live returns the number of live identifiers.
func (f *HandleFactory[T]) Live() int {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return len(f.live)
}

// Destroy invalidates every outstanding handle. The factory issues nothing afterwards.
func (f *HandleFactory[T]) Destroy() {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	for _, c := range f.live {
		c.alive = false
		c.refs = 0
	}
	f.live = make(map[T]*handleCell[T])
	f.openRuns = nil
	f.nextFreeID = 0
	f.exhausted = false
	f.destroyed = true
}

// advancePast moves the counter beyond id, which must be >= nextFreeID.
func (f *HandleFactory[T]) advancePast(id T) {
	if id == InvalidValue[T]() {
		f.exhausted = true
		f.nextFreeID = id
		return
	}
	f.nextFreeID = id + 1
}

func (f *HandleFactory[T]) issue(id T) Handle[T] {
	c := &handleCell[T]{id: id, refs: 1, alive: true, factory: f}
	f.live[id] = c
	return Handle[T]{cell: c}
}

// free must be called with the mutex held.
func (f *HandleFactory[T]) free(c *handleCell[T]) {
	c.alive = false
	c.refs = 0
	delete(f.live, c.id)
	f.addOpen(idRun[T]{lo: c.id, hi: c.id})
}

// findOpen returns the index of the run holding id, or where a run starting at id would go.
func (f *HandleFactory[T]) findOpen(id T) (int, bool) {
	return slices.BinarySearchFunc(f.openRuns, id, func(r idRun[T], id T) int {
		switch {
		case r.hi < id:
			return -1
		case r.lo > id:
			return 1
		default:
			return 0
		}
	})
}

// addOpen inserts a run of ids none of which is open yet, merging it with adjacent runs.
func (f *HandleFactory[T]) addOpen(run idRun[T]) {
	i, _ := f.findOpen(run.lo)
	if i > 0 && f.openRuns[i-1].hi+1 == run.lo {
		i--
		f.openRuns[i].hi = run.hi
	} else {
		f.openRuns = slices.Insert(f.openRuns, i, run)
	}
	if i+1 < len(f.openRuns) && f.openRuns[i].hi+1 == f.openRuns[i+1].lo {
		f.openRuns[i].hi = f.openRuns[i+1].hi
		f.openRuns = slices.Delete(f.openRuns, i+1, i+2)
	}
}

// takeOpen removes id from the run at index i, splitting the run when id is inside it.
func (f *HandleFactory[T]) takeOpen(i int, id T) {
	r := f.openRuns[i]
	switch {
	case r.lo == r.hi:
		f.openRuns = slices.Delete(f.openRuns, i, i+1)
	case id == r.lo:
		f.openRuns[i].lo++
	case id == r.hi:
		f.openRuns[i].hi--
	default:
		f.openRuns[i].hi = id - 1
		f.openRuns = slices.Insert(f.openRuns, i+1, idRun[T]{lo: id + 1, hi: r.hi})
	}
}
