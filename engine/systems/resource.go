package systems

import (
	"fmt"
	"sync"

	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/containers"
	"github.com/Drag-On/Dragon-Blaze-Game-Library-sub002/engine/core"
)

// ResourceHandle identifies a resource within its manager.
type ResourceHandle = core.Handle[uint32]

/** @brief The identifying parameters of a resource. */
type Params interface {
	// Hash is a pre-filter only; identity is decided by Resource.Identify.
	Hash() uint64
}

/**
 * @brief A lazily loaded asset owned by a ResourceManager.
 * State machine: Unloaded -> Loaded -> Unloaded, reloadable.
 */
type Resource[P Params] interface {
	Handle() ResourceHandle
	Params() P
	// Identify reports whether p describes this resource.
	Identify(p P) bool
	// Load is a no-op with a warning when already loaded.
	Load() error
	Unload()
	IsLoaded() bool
	// Degraded reports whether the loaded state is a builtin fallback.
	Degraded() bool
	// DependsOn reports whether the slash separated asset path is one of the resource's files.
	DependsOn(path string) bool
}

// Constructor builds the resource for a freshly issued handle. It must not do any loading.
type Constructor[T any, P Params] func(h ResourceHandle, p P) T

type ResourceManagerConfig struct {
	/** @brief The name used in log messages. */
	Name string
	/** @brief Load unloaded resources on Request. When false only forced requests load. */
	LoadOnDemand bool
	/** @brief Initial capacity of the pending queue. */
	PendingCapacity int
}

type resourceSlot[T any] struct {
	resource T
	handle   ResourceHandle
	hash     uint64
}

/**
 * @brief Owns every instance of one resource type, deduplicated by identifying parameters.
 * Slots are only ever appended; unloading keeps the slot and its handle.
 */
type ResourceManager[T Resource[P], P Params] struct {
	config    ResourceManagerConfig
	logger    core.Logger
	construct Constructor[T, P]

	mutex   sync.Mutex
	factory *core.HandleFactory[uint32]
	slots   []resourceSlot[T]
	// handle value to slot index
	byHandle map[uint32]int
	// parameter hash to slot indices
	lookup map[uint64][]int

	pending    *containers.RingQueue[uint32]
	pendingSet map[uint32]struct{}

	metrics core.LoadMetrics
	clock   *core.Clock
}

func NewResourceManager[T Resource[P], P Params](config ResourceManagerConfig, construct Constructor[T, P], logger core.Logger) *ResourceManager[T, P] {
	return &ResourceManager[T, P]{
		config:     config,
		logger:     logger,
		construct:  construct,
		factory:    core.NewHandleFactory[uint32](),
		byHandle:   make(map[uint32]int),
		lookup:     make(map[uint64][]int),
		pending:    containers.NewRingQueue[uint32](config.PendingCapacity),
		pendingSet: make(map[uint32]struct{}),
		clock:      core.NewClock(),
	}
}

// Add returns the handle of the resource identified by p, creating it if there is none yet.
// A new resource is not loaded, only marked pending. The slot keeps its own reference, the
// returned copy belongs to the caller.
func (rm *ResourceManager[T, P]) Add(p P) (ResourceHandle, error) {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	hash := p.Hash()
	if i, ok := rm.find(hash, p); ok {
		rm.metrics.RecordAdd(true)
		return rm.slots[i].handle.Copy(), nil
	}

	h, err := rm.factory.Next()
	if err != nil {
		return ResourceHandle{}, fmt.Errorf("func Add - %s manager: %w", rm.config.Name, err)
	}
	rm.insert(h, hash, p)
	return h.Copy(), nil
}

// AddWithID is Add with a caller chosen handle value, used to restore persisted handles.
// If p is already present under another value ErrIdentityConflict is returned.
func (rm *ResourceManager[T, P]) AddWithID(id uint64, p P) (ResourceHandle, error) {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	hash := p.Hash()
	if i, ok := rm.find(hash, p); ok {
		h := rm.slots[i].handle
		if uint64(h.Value()) != id {
			return ResourceHandle{}, fmt.Errorf("func AddWithID - %s manager already holds these parameters as %d, not %d: %w",
				rm.config.Name, h.Value(), id, core.ErrIdentityConflict)
		}
		rm.metrics.RecordAdd(true)
		return h.Copy(), nil
	}

	h, err := rm.factory.Request(id)
	if err != nil {
		return ResourceHandle{}, fmt.Errorf("func AddWithID - %s manager: %w", rm.config.Name, err)
	}
	rm.insert(h, hash, p)
	return h.Copy(), nil
}

// Identify returns a copy of the handle of the resource described by p, or an invalid handle.
func (rm *ResourceManager[T, P]) Identify(p P) ResourceHandle {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()
	if i, ok := rm.find(p.Hash(), p); ok {
		return rm.slots[i].handle.Copy()
	}
	return ResourceHandle{}
}

// Request resolves h. An unloaded resource is loaded when forceLoad is set or the manager loads
// on demand; a forced request also retries resources running on a fallback.
func (rm *ResourceManager[T, P]) Request(h ResourceHandle, forceLoad bool) (T, error) {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	var zero T
	i, err := rm.slotOf(h)
	if err != nil {
		return zero, err
	}
	res := rm.slots[i].resource

	switch {
	case !res.IsLoaded() && (forceLoad || rm.config.LoadOnDemand):
		if err := rm.load(res); err != nil {
			return zero, err
		}
	case res.IsLoaded() && forceLoad && res.Degraded():
		res.Unload()
		rm.metrics.RecordUnload()
		if err := rm.load(res); err != nil {
			return zero, err
		}
	}
	return res, nil
}

// Reload unloads and loads the resource again, whatever its state.
func (rm *ResourceManager[T, P]) Reload(h ResourceHandle) error {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	i, err := rm.slotOf(h)
	if err != nil {
		return err
	}
	res := rm.slots[i].resource
	if res.IsLoaded() {
		res.Unload()
		rm.metrics.RecordUnload()
	}
	return rm.load(res)
}

// Unload releases the resource's data. The handle stays valid.
func (rm *ResourceManager[T, P]) Unload(h ResourceHandle) error {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	i, err := rm.slotOf(h)
	if err != nil {
		return err
	}
	res := rm.slots[i].resource
	if res.IsLoaded() {
		res.Unload()
		rm.metrics.RecordUnload()
	}
	return nil
}

// MarkPending queues h for the next ProcessPending call.
func (rm *ResourceManager[T, P]) MarkPending(h ResourceHandle) error {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()
	if _, err := rm.slotOf(h); err != nil {
		return err
	}
	rm.markPending(h.Value())
	return nil
}

// MarkChanged queues every resource depending on the asset path and returns how many there were.
func (rm *ResourceManager[T, P]) MarkChanged(path string) int {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	n := 0
	for _, s := range rm.slots {
		if s.resource.DependsOn(path) {
			rm.markPending(s.handle.Value())
			n++
		}
	}
	if n > 0 {
		rm.logger.Debugf("%s manager: '%s' changed, %d resource(s) pending", rm.config.Name, path, n)
	}
	return n
}

// ProcessPending loads pending resources in the order they were marked; loaded ones are reloaded.
// Failures are logged and do not stop the queue. It returns the number of resources processed.
func (rm *ResourceManager[T, P]) ProcessPending() int {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	processed := 0
	for !rm.pending.IsEmpty() {
		id, _ := rm.pending.Dequeue()
		if _, ok := rm.pendingSet[id]; !ok {
			// loaded by a request since it was queued
			continue
		}
		delete(rm.pendingSet, id)

		i, ok := rm.byHandle[id]
		if !ok {
			continue
		}
		res := rm.slots[i].resource
		if res.IsLoaded() {
			res.Unload()
			rm.metrics.RecordUnload()
		}
		if err := rm.load(res); err != nil {
			rm.logger.Warnf("%s manager: pending load of %d failed: %s", rm.config.Name, id, err)
		}
		processed++
	}
	return processed
}

// PendingCount returns the number of resources waiting for ProcessPending.
func (rm *ResourceManager[T, P]) PendingCount() int {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()
	return len(rm.pendingSet)
}

// Resources returns every resource in slot order.
func (rm *ResourceManager[T, P]) Resources() []T {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()
	out := make([]T, len(rm.slots))
	for i, s := range rm.slots {
		out[i] = s.resource
	}
	return out
}

func (rm *ResourceManager[T, P]) Len() int {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()
	return len(rm.slots)
}

func (rm *ResourceManager[T, P]) Name() string {
	return rm.config.Name
}

func (rm *ResourceManager[T, P]) Metrics() core.MetricsSnapshot {
	return rm.metrics.Snapshot()
}

// Shutdown unloads every resource and invalidates every handle the manager issued.
func (rm *ResourceManager[T, P]) Shutdown() {
	rm.mutex.Lock()
	defer rm.mutex.Unlock()

	for _, s := range rm.slots {
		if s.resource.IsLoaded() {
			s.resource.Unload()
			rm.metrics.RecordUnload()
		}
	}
	rm.factory.Destroy()
	rm.slots = nil
	rm.byHandle = make(map[uint32]int)
	rm.lookup = make(map[uint64][]int)
	rm.pending = containers.NewRingQueue[uint32](rm.config.PendingCapacity)
	rm.pendingSet = make(map[uint32]struct{})
	rm.logger.Debugf("%s manager shut down", rm.config.Name)
}

// find must be called with the mutex held.
func (rm *ResourceManager[T, P]) find(hash uint64, p P) (int, bool) {
	for _, i := range rm.lookup[hash] {
		if rm.slots[i].resource.Identify(p) {
			return i, true
		}
	}
	return 0, false
}

// insert must be called with the mutex held.
func (rm *ResourceManager[T, P]) insert(h ResourceHandle, hash uint64, p P) {
	i := len(rm.slots)
	rm.slots = append(rm.slots, resourceSlot[T]{
		resource: rm.construct(h, p),
		handle:   h,
		hash:     hash,
	})
	rm.byHandle[h.Value()] = i
	rm.lookup[hash] = append(rm.lookup[hash], i)
	rm.markPending(h.Value())
	rm.metrics.RecordAdd(false)
}

func (rm *ResourceManager[T, P]) slotOf(h ResourceHandle) (int, error) {
	if !rm.factory.IsValid(h) {
		return 0, fmt.Errorf("%s manager: %s: %w", rm.config.Name, h, core.ErrInvalidHandle)
	}
	i, ok := rm.byHandle[h.Value()]
	if !ok || !rm.slots[i].handle.Equal(h) {
		return 0, fmt.Errorf("%s manager: %s has no resource: %w", rm.config.Name, h, core.ErrInvalidHandle)
	}
	return i, nil
}

func (rm *ResourceManager[T, P]) markPending(id uint32) {
	if _, ok := rm.pendingSet[id]; ok {
		return
	}
	rm.pendingSet[id] = struct{}{}
	rm.pending.Enqueue(id)
}

// load must be called with the mutex held. A successful load settles pending work for res.
func (rm *ResourceManager[T, P]) load(res T) error {
	rm.clock.Start()
	err := res.Load()
	rm.clock.Stop()

	rm.metrics.RecordLoad(rm.clock.Elapsed(), err)
	if err != nil {
		return err
	}
	delete(rm.pendingSet, res.Handle().Value())
	if res.Degraded() {
		rm.metrics.RecordFallback()
	}
	return nil
}
