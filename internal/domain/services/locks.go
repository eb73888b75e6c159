package services

import "sync"

// ChannelLocks serializes work per channel. Entries are dropped once no
// goroutine holds or waits on them.
type ChannelLocks struct {
	mu    sync.Mutex
	locks map[string]*channelLock
}

type channelLock struct {
	sync.Mutex
	refs int
}

func NewChannelLocks() *ChannelLocks {
	return &ChannelLocks{locks: make(map[string]*channelLock)}
}

// Lock blocks until channelID is free and returns the matching unlock func.
func (l *ChannelLocks) Lock(channelID string) func() {
	l.mu.Lock()
	lock, ok := l.locks[channelID]
	if !ok {
		lock = &channelLock{}
		l.locks[channelID] = lock
	}
	lock.refs++
	l.mu.Unlock()

	lock.Lock()
	return func() {
		lock.Unlock()
		l.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(l.locks, channelID)
		}
		l.mu.Unlock()
	}
}

func (l *ChannelLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
