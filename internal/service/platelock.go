package service

import "sync"

type plateLock struct {
	mu   sync.Mutex
	refs int
}

// plateLocks hands out one mutex per plate. An entry lives only while some
// caller holds or waits for it.
type plateLocks struct {
	mu    sync.Mutex
	locks map[string]*plateLock
}

func newPlateLocks() *plateLocks {
	return &plateLocks{locks: make(map[string]*plateLock)}
}

// lock blocks until plate is free and returns the matching unlock.
func (l *plateLocks) lock(plate string) func() {
	l.mu.Lock()
	pl, ok := l.locks[plate]
	if !ok {
		pl = &plateLock{}
		l.locks[plate] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.mu.Lock()
	return func() {
		pl.mu.Unlock()

		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, plate)
		}
		l.mu.Unlock()
	}
}

func (l *plateLocks) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
