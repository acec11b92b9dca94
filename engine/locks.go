package engine

import (
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// addressLocks serializes submissions per sender. Two in-flight
// submissions from one address would race for the same nonce; the second
// waits until the first reaches a terminal state.
type addressLocks struct {
	mu    sync.Mutex
	locks map[common.Address]*sync.Mutex
}

func newAddressLocks() *addressLocks {
	return &addressLocks{locks: make(map[common.Address]*sync.Mutex)}
}

// acquire blocks until the sender's lock is held and returns the release
func (a *addressLocks) acquire(addr common.Address) func() {
	a.mu.Lock()
	l, ok := a.locks[addr]
	if !ok {
		l = &sync.Mutex{}
		a.locks[addr] = l
	}
	a.mu.Unlock()

	l.Lock()
	return l.Unlock
}
