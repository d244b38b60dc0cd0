package room

import "sync"

// Conn is an opaque connection handle subscribed to live updates. Send must
// not block: it returns false when the payload could not be buffered (the
// connection is stalled or gone), and the caller decides what to do with it.
type Conn interface {
	ID() string
	Send(payload []byte) bool
}

// Registry maps auction ids to the set of connections watching them. Purely
// in-memory bookkeeping with process lifetime; rooms are created implicitly
// on first join and garbage-collected when empty.
type Registry struct {
	mu    sync.RWMutex
	rooms map[int64]map[Conn]struct{} // key: auctionID -> member set
	conns map[Conn]map[int64]struct{} // reverse index for disconnect cleanup
}

// NewRegistry creates an empty room registry
func NewRegistry() *Registry {
	return &Registry{
		rooms: make(map[int64]map[Conn]struct{}),
		conns: make(map[Conn]map[int64]struct{}),
	}
}

// Join adds the connection to the auction's room. Idempotent.
func (r *Registry) Join(auctionID int64, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.rooms[auctionID]
	if !ok {
		members = make(map[Conn]struct{})
		r.rooms[auctionID] = members
	}
	members[c] = struct{}{}

	joined, ok := r.conns[c]
	if !ok {
		joined = make(map[int64]struct{})
		r.conns[c] = joined
	}
	joined[auctionID] = struct{}{}
}

// Leave removes the connection from the auction's room. No-op if absent.
func (r *Registry) Leave(auctionID int64, c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leaveLocked(auctionID, c)
}

func (r *Registry) leaveLocked(auctionID int64, c Conn) {
	if members, ok := r.rooms[auctionID]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(r.rooms, auctionID)
		}
	}
	if joined, ok := r.conns[c]; ok {
		delete(joined, auctionID)
		if len(joined) == 0 {
			delete(r.conns, c)
		}
	}
}

// OnDisconnect removes the connection from every room it belonged to
func (r *Registry) OnDisconnect(c Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for auctionID := range r.conns[c] {
		r.leaveLocked(auctionID, c)
	}
	delete(r.conns, c)
}

// Members returns a point-in-time snapshot of the room's connections
func (r *Registry) Members(auctionID int64) []Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.rooms[auctionID]
	snapshot := make([]Conn, 0, len(members))
	for c := range members {
		snapshot = append(snapshot, c)
	}
	return snapshot
}

// MemberCount returns the number of connections watching an auction
func (r *Registry) MemberCount(auctionID int64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms[auctionID])
}
