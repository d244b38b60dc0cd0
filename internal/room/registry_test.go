package room

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeConn is a minimal Conn for registry tests
type fakeConn struct {
	id string
}

func (f *fakeConn) ID() string         { return f.id }
func (f *fakeConn) Send(_ []byte) bool { return true }

func newFakeConn(id string) *fakeConn { return &fakeConn{id: id} }

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	conn := newFakeConn("c1")

	registry.Join(42, conn)
	registry.Join(42, conn)

	require.Len(t, registry.Members(42), 1)
	require.Equal(t, 1, registry.MemberCount(42))
}

func TestRegistry_LeaveIsNoOpWhenAbsent(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	conn := newFakeConn("c1")
	other := newFakeConn("c2")

	registry.Join(42, conn)
	registry.Leave(42, other)
	registry.Leave(7, conn)

	require.Len(t, registry.Members(42), 1)
}

func TestRegistry_MembersSnapshot(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	c1 := newFakeConn("c1")
	c2 := newFakeConn("c2")
	registry.Join(42, c1)
	registry.Join(42, c2)

	members := registry.Members(42)
	require.ElementsMatch(t, []Conn{c1, c2}, members)

	// mutating after the snapshot does not change it
	registry.Leave(42, c2)
	require.Len(t, members, 2)
	require.Len(t, registry.Members(42), 1)
}

func TestRegistry_OnDisconnectClearsAllRooms(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	conn := newFakeConn("c1")
	stayer := newFakeConn("c2")

	registry.Join(1, conn)
	registry.Join(2, conn)
	registry.Join(2, stayer)

	registry.OnDisconnect(conn)

	require.Empty(t, registry.Members(1))
	require.ElementsMatch(t, []Conn{stayer}, registry.Members(2))

	// a second disconnect is harmless
	registry.OnDisconnect(conn)
	require.Empty(t, registry.Members(1))
}

func TestRegistry_EmptyRoomsAreCollected(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	conn := newFakeConn("c1")

	registry.Join(42, conn)
	registry.Leave(42, conn)

	require.Equal(t, 0, registry.MemberCount(42))
	require.Empty(t, registry.Members(42))
	registry.mu.RLock()
	_, roomExists := registry.rooms[42]
	_, connTracked := registry.conns[conn]
	registry.mu.RUnlock()
	require.False(t, roomExists)
	require.False(t, connTracked)
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	var wg sync.WaitGroup
	connCount := 50

	conns := make([]*fakeConn, connCount)
	for i := range conns {
		conns[i] = newFakeConn(fmt.Sprintf("c%d", i))
	}

	for i, conn := range conns {
		wg.Add(1)
		i, conn := i, conn
		go func() {
			defer wg.Done()
			registry.Join(42, conn)
			registry.Join(int64(100+i), conn)
			if i%2 == 0 {
				registry.Leave(42, conn)
			}
		}()
	}

	wg.Wait()

	require.Equal(t, connCount/2, registry.MemberCount(42))
	for i, conn := range conns {
		require.ElementsMatch(t, []Conn{conn}, registry.Members(int64(100+i)))
	}
}
