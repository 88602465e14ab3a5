package validation

import (
	"sort"
	"sync"
)

// Record is the mutable data a form is bound to. The caller owns it and keeps
// updating it; validation only ever reads it. Record is safe for concurrent
// use and bumps its version on every mutation.
type Record struct {
	mu        sync.RWMutex
	values    map[string]any
	version   uint64
	nextID    uint64
	listeners map[uint64]func(version uint64)
}

// NewRecord seeds a record with a copy of initial.
func NewRecord(initial map[string]any) *Record {
	return &Record{
		values:    cloneValues(initial),
		listeners: make(map[uint64]func(uint64)),
	}
}

// Get returns the value stored under key, or nil.
func (r *Record) Get(key string) any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return deepCopy(r.values[key])
}

// GetPath resolves a dotted path through nested maps and slices.
func (r *Record) GetPath(path string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := getPath(r.values, path)
	return deepCopy(value), ok
}

// Set stores a copy of value under key. Later changes the caller makes to a
// map or slice it passed in do not reach the record.
func (r *Record) Set(key string, value any) {
	r.mutate(func(values map[string]any) bool {
		values[key] = deepCopy(value)
		return true
	})
}

// SetPath stores value at a dotted path, creating intermediate maps.
func (r *Record) SetPath(path string, value any) error {
	var err error
	r.mutate(func(values map[string]any) bool {
		err = setPath(values, path, deepCopy(value))
		return err == nil
	})
	return err
}

// Delete removes key (or a dotted path) from the record.
func (r *Record) Delete(key string) {
	r.mutate(func(values map[string]any) bool {
		if _, ok := values[key]; ok {
			delete(values, key)
			return true
		}
		return deletePath(values, key)
	})
}

// Update applies several changes as one mutation, so observers never see a
// partially applied batch.
func (r *Record) Update(changes map[string]any) {
	if len(changes) == 0 {
		return
	}
	r.mutate(func(values map[string]any) bool {
		for key, value := range changes {
			values[key] = deepCopy(value)
		}
		return true
	})
}

// Replace swaps the whole record content for a copy of values.
func (r *Record) Replace(values map[string]any) {
	fresh := cloneValues(values)
	r.mutate(func(current map[string]any) bool {
		for key := range current {
			delete(current, key)
		}
		for key, value := range fresh {
			current[key] = value
		}
		return true
	})
}

// Snapshot returns a deep copy of the current values.
func (r *Record) Snapshot() map[string]any {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneValues(r.values)
}

// Keys returns the top-level keys, sorted.
func (r *Record) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.values))
	for key := range r.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Version returns the mutation counter.
func (r *Record) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Subscribe registers fn to run after every mutation with the new version.
// Listeners run synchronously on the mutating goroutine, after the record lock
// is released. The returned function removes the listener.
func (r *Record) Subscribe(fn func(version uint64)) (cancel func()) {
	if fn == nil {
		return func() {}
	}
	r.mu.Lock()
	if r.listeners == nil {
		r.listeners = make(map[uint64]func(uint64))
	}
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}

// read runs fn with the live values under the read lock.
func (r *Record) read(fn func(values map[string]any, version uint64)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn(r.values, r.version)
}

func (r *Record) mutate(fn func(values map[string]any) bool) {
	r.mu.Lock()
	if r.values == nil {
		r.values = make(map[string]any)
	}
	if r.listeners == nil {
		r.listeners = make(map[uint64]func(uint64))
	}
	if !fn(r.values) {
		r.mu.Unlock()
		return
	}
	r.version++
	version := r.version
	listeners := make([]func(uint64), 0, len(r.listeners))
	ids := make([]uint64, 0, len(r.listeners))
	for id := range r.listeners {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		listeners = append(listeners, r.listeners[id])
	}
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(version)
	}
}
