package store

import "sync"

// itemLocks serializes evaluate-then-commit per work item. The engine is a
// pure function over a snapshot, so without this boundary two simultaneous
// requests could both read "complete" before either commits.
var itemLocks = struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}{locks: make(map[uint]*sync.Mutex)}

// lockItem acquires the per-item mutex and returns its unlock func.
func lockItem(id uint) func() {
	itemLocks.mu.Lock()
	l, ok := itemLocks.locks[id]
	if !ok {
		l = &sync.Mutex{}
		itemLocks.locks[id] = l
	}
	itemLocks.mu.Unlock()

	l.Lock()
	return l.Unlock
}
