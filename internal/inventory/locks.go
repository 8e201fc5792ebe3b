package inventory

import "sync"

// Locks hands out one mutex per entity id so that work for the same event or
// location is serialized while unrelated entities proceed in parallel.
// Mutexes are created lazily and never reclaimed; the number of live events
// and locations is small compared to request volume.
type Locks struct {
	mu sync.Mutex
	m  map[int64]*sync.Mutex
}

func NewLocks() *Locks {
	return &Locks{m: make(map[int64]*sync.Mutex)}
}

// Lock acquires the mutex for id and returns the matching unlock function.
func (l *Locks) Lock(id int64) func() {
	l.mu.Lock()
	m, ok := l.m[id]
	if !ok {
		m = &sync.Mutex{}
		l.m[id] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}
