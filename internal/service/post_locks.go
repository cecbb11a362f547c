package service

import "sync"

// postLocks hands out one mutex per post id. Entries are dropped once nobody holds or
// waits for them, so the map only grows with the number of posts under concurrent use.
type postLocks struct {
	mu    sync.Mutex
	locks map[uint]*postLock
}

type postLock struct {
	sync.Mutex
	refs int
}

func newPostLocks() *postLocks {
	return &postLocks{locks: make(map[uint]*postLock)}
}

// lock blocks until the caller owns postID and returns the matching unlock.
func (l *postLocks) lock(postID uint) func() {
	l.mu.Lock()
	pl, ok := l.locks[postID]
	if !ok {
		pl = &postLock{}
		l.locks[postID] = pl
	}
	pl.refs++
	l.mu.Unlock()

	pl.Lock()
	return func() {
		pl.Unlock()

		l.mu.Lock()
		pl.refs--
		if pl.refs == 0 {
			delete(l.locks, postID)
		}
		l.mu.Unlock()
	}
}

func (l *postLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
