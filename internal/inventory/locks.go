package inventory

import "sync"

// keyedLocks hands out one mutex per id.  Entries are dropped once no
// goroutine holds or waits on them.
//
// Lock order: an aircraft lock is always taken before any lock of its
// flights.
type keyedLocks struct {
	mu sync.Mutex
	m  map[uint64]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{m: make(map[uint64]*keyedLock)}
}

// lock blocks until the mutex of id is held and returns the unlock func.
func (l *keyedLocks) lock(id uint64) func() {
	l.mu.Lock()
	kl, ok := l.m[id]
	if !ok {
		kl = &keyedLock{}
		l.m[id] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()
		l.mu.Lock()
		kl.refs--
		if kl.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}
