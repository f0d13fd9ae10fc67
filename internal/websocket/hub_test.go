package websocket

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockClient is a test double for Client that captures sent messages
type mockClient struct {
	id       string
	orgID    uuid.UUID
	messages [][]byte
	mu       sync.Mutex
	closed   bool
	only     EntityType // empty means every entity
}

func newMockClient(id string, orgID uuid.UUID) *mockClient {
	return &mockClient{
		id:       id,
		orgID:    orgID,
		messages: make([][]byte, 0),
	}
}

func (m *mockClient) ID() string {
	return m.id
}

func (m *mockClient) OrganizationID() uuid.UUID {
	return m.orgID
}

func (m *mockClient) Subscribed(entity EntityType) bool {
	return m.only == "" || m.only == entity
}

func (m *mockClient) Send(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClientClosed
	}
	m.messages = append(m.messages, data)
	return nil
}

func (m *mockClient) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockClient) GetMessages() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := make([][]byte, len(m.messages))
	copy(copied, m.messages)
	return copied
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	orgA, orgB := uuid.New(), uuid.New()

	client1 := newMockClient("client-1", orgA)
	client2 := newMockClient("client-2", orgA)
	client3 := newMockClient("client-3", orgB)

	hub.Register(client1)
	hub.Register(client2)
	hub.Register(client3)

	assert.Equal(t, 2, hub.ClientCount(orgA))
	assert.Equal(t, 1, hub.ClientCount(orgB))
	assert.Equal(t, 0, hub.ClientCount(uuid.New()))
	assert.Equal(t, 3, hub.TotalClientCount())
	assert.ElementsMatch(t, []uuid.UUID{orgA, orgB}, hub.ConnectedOrganizations())

	hub.Unregister(client1)
	assert.Equal(t, 1, hub.ClientCount(orgA))

	hub.Unregister(client2)
	hub.Unregister(client3)
	assert.Equal(t, 0, hub.TotalClientCount())
	assert.Empty(t, hub.ConnectedOrganizations())
}

func TestHub_Broadcast_OrganizationIsolation(t *testing.T) {
	hub := NewHub()
	orgA, orgB := uuid.New(), uuid.New()

	clientA1 := newMockClient("client-a1", orgA)
	clientA2 := newMockClient("client-a2", orgA)
	clientB := newMockClient("client-b", orgB)

	hub.Register(clientA1)
	hub.Register(clientA2)
	hub.Register(clientB)

	hub.Broadcast(orgA, BaselineUpdated(map[string]interface{}{"startingCash": "500.00"}))

	// Give goroutines time to process
	time.Sleep(10 * time.Millisecond)

	assert.Len(t, clientA1.GetMessages(), 1, "clientA1 should receive 1 message")
	assert.Len(t, clientA2.GetMessages(), 1, "clientA2 should receive 1 message")
	assert.Len(t, clientB.GetMessages(), 0, "clientB must not receive another organization's event")
}

func TestHub_Broadcast_RespectsSubscriptions(t *testing.T) {
	hub := NewHub()
	orgID := uuid.New()

	everything := newMockClient("client-all", orgID)
	dashboardOnly := newMockClient("client-dashboard", orgID)
	dashboardOnly.only = EntityTypeDashboard

	hub.Register(everything)
	hub.Register(dashboardOnly)

	hub.Broadcast(orgID, BaselineCleared(nil))
	hub.Broadcast(orgID, DashboardRefreshed(map[string]interface{}{"cashPosition": nil}))

	time.Sleep(10 * time.Millisecond)

	assert.Len(t, everything.GetMessages(), 2)
	require.Len(t, dashboardOnly.GetMessages(), 1)
	assert.Contains(t, string(dashboardOnly.GetMessages()[0]), `"dashboard.refreshed"`)
}

func TestHub_ConcurrentAccess(t *testing.T) {
	hub := NewHub()

	orgs := make([]uuid.UUID, 5)
	for i := range orgs {
		orgs[i] = uuid.New()
	}

	var wg sync.WaitGroup
	clientCount := 50

	clients := make([]*mockClient, clientCount)
	for i := 0; i < clientCount; i++ {
		clients[i] = newMockClient(fmt.Sprintf("client-%d", i), orgs[i%len(orgs)])
	}

	for i := 0; i < clientCount; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()

	assert.Equal(t, clientCount, hub.TotalClientCount())

	for i := 0; i < clientCount; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			hub.Broadcast(orgs[idx%len(orgs)], DashboardRefreshed(nil))
		}(i)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()

	for _, org := range orgs {
		assert.Equal(t, 0, hub.ClientCount(org))
	}
}

func TestHub_UnregisterNonexistent(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Unregister(newMockClient("client-1", uuid.New()))
	})
}

func TestHub_BroadcastToEmptyOrganization(t *testing.T) {
	hub := NewHub()

	require.NotPanics(t, func() {
		hub.Broadcast(uuid.New(), DashboardRefreshed(nil))
	})
}
