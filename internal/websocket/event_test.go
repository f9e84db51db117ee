package websocket

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewEvent(t *testing.T) {
	event := NewEvent(EventTypeCreated, EntityTypeTransaction, map[string]int{"id": 42})

	if event.Type != "transaction.created" {
		t.Errorf("expected type transaction.created, got %s", event.Type)
	}
	if event.Entity != EntityTypeTransaction {
		t.Errorf("expected transaction entity, got %s", event.Entity)
	}
	if event.Timestamp.IsZero() {
		t.Error("expected a timestamp")
	}
	if time.Since(event.Timestamp) > time.Minute {
		t.Error("expected a recent timestamp")
	}
}

func TestEventToJSON(t *testing.T) {
	event := ImportCompleted(map[string]string{"batchId": "abc"})

	data, err := event.ToJSON()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("expected valid JSON, got: %v", err)
	}
	if decoded["type"] != "import.completed" {
		t.Errorf("expected import.completed, got %v", decoded["type"])
	}
	if decoded["entity"] != "import" {
		t.Errorf("expected import entity, got %v", decoded["entity"])
	}
	payload, ok := decoded["payload"].(map[string]interface{})
	if !ok || payload["batchId"] != "abc" {
		t.Errorf("unexpected payload: %v", decoded["payload"])
	}
}

func TestEventHelpers(t *testing.T) {
	cases := []struct {
		event Event
		want  string
	}{
		{TransactionCreated(nil), "transaction.created"},
		{TransactionUpdated(nil), "transaction.updated"},
		{TransactionDeleted(nil), "transaction.deleted"},
		{BudgetUpdated(nil), "budget.updated"},
		{BudgetDeleted(nil), "budget.deleted"},
		{CategoryUpdated(nil), "category.updated"},
		{ImportCompleted(nil), "import.completed"},
	}

	for _, tc := range cases {
		if tc.event.Type != tc.want {
			t.Errorf("expected %s, got %s", tc.want, tc.event.Type)
		}
	}
}
