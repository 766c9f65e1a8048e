package ledger

import "sync"

// partyLocks serializes settlements per canonical party name. Settlements
// for different parties run concurrently; two settlements for the same
// party queue behind each other so the read-allocate-write cycle never
// interleaves. Optimistic locking in the store remains the backstop for
// writers outside this process.
type partyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newPartyLocks() *partyLocks {
	return &partyLocks{locks: make(map[string]*sync.Mutex)}
}

// acquire locks the named party and returns the unlock function.
// Lock entries are kept for the process lifetime; the party universe is
// small (a shop's supplier list), so no eviction is needed.
func (p *partyLocks) acquire(party string) func() {
	p.mu.Lock()
	l, ok := p.locks[party]
	if !ok {
		l = &sync.Mutex{}
		p.locks[party] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
