package websocket

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

// fakeClient is an in-memory ClientInterface for hub tests
type fakeClient struct {
	id       string
	userID   uuid.UUID
	received [][]byte
	sendErr  error
	closed   bool
}

func (f *fakeClient) ID() string { return f.id }

func (f *fakeClient) UserID() uuid.UUID { return f.userID }

func (f *fakeClient) Close() error { f.closed = true; return nil }

func (f *fakeClient) Send(data []byte) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.received = append(f.received, data)
	return nil
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	client := &fakeClient{id: "c1", userID: userID}

	hub.Register(client)
	if hub.ClientCount(userID) != 1 {
		t.Errorf("expected 1 client, got %d", hub.ClientCount(userID))
	}

	hub.Unregister(client)
	if hub.ClientCount(userID) != 0 {
		t.Errorf("expected 0 clients, got %d", hub.ClientCount(userID))
	}

	// Unregistering twice is a no-op
	hub.Unregister(client)
}

func TestHub_BroadcastScopedToUser(t *testing.T) {
	hub := NewHub()
	userA := uuid.New()
	userB := uuid.New()

	clientA1 := &fakeClient{id: "a1", userID: userA}
	clientA2 := &fakeClient{id: "a2", userID: userA}
	clientB := &fakeClient{id: "b1", userID: userB}
	hub.Register(clientA1)
	hub.Register(clientA2)
	hub.Register(clientB)

	hub.Broadcast(userA, TransactionCreated(map[string]int{"id": 1}))

	if len(clientA1.received) != 1 || len(clientA2.received) != 1 {
		t.Error("expected both of user A's clients to receive the event")
	}
	if len(clientB.received) != 0 {
		t.Error("expected user B to receive nothing")
	}

	var event Event
	if err := json.Unmarshal(clientA1.received[0], &event); err != nil {
		t.Fatalf("expected valid JSON payload, got: %v", err)
	}
	if event.Type != "transaction.created" {
		t.Errorf("expected transaction.created, got %s", event.Type)
	}
	if event.Entity != EntityTypeTransaction {
		t.Errorf("expected transaction entity, got %s", event.Entity)
	}
}

func TestHub_BroadcastDropsFailingClients(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()

	healthy := &fakeClient{id: "ok", userID: userID}
	stuck := &fakeClient{id: "stuck", userID: userID, sendErr: ErrClientClosed}
	hub.Register(healthy)
	hub.Register(stuck)

	hub.Broadcast(userID, BudgetUpdated(nil))

	if !stuck.closed {
		t.Error("expected failing client closed")
	}
	if hub.ClientCount(userID) != 1 {
		t.Errorf("expected failing client dropped, got %d clients", hub.ClientCount(userID))
	}
	if len(healthy.received) != 1 {
		t.Error("expected healthy client to still receive the event")
	}
}

func TestHub_BroadcastToUnknownUser(t *testing.T) {
	hub := NewHub()
	// No clients registered: must not panic
	hub.Broadcast(uuid.New(), CategoryUpdated(nil))
}
