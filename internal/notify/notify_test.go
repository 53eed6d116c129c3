package notify

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// The event encoding is consumed by external subscribers, so the key names
// are a wire contract.
func TestBuildEventWireFormat(t *testing.T) {
	event := BuildEvent{
		RunID:      "0f8fad5b-d9cb-469f-a165-70867728950e",
		Outcome:    "success",
		Pages:      140,
		Rewritten:  120,
		Unchanged:  20,
		DurationMS: 2300,
		Commit:     "0123456789ab",
		Branch:     "main",
		Timestamp:  time.Date(2025, 11, 3, 9, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(&event)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	raw := string(data)
	for _, key := range []string{`"run_id"`, `"outcome"`, `"pages"`, `"rewritten"`, `"unchanged"`, `"duration_ms"`, `"commit"`, `"branch"`, `"timestamp"`} {
		if !strings.Contains(raw, key) {
			t.Errorf("event json %s should contain %s", raw, key)
		}
	}
	if strings.Contains(raw, `"detail"`) {
		t.Errorf("empty detail should be omitted, got %s", raw)
	}
}

func TestNewNATSNotifierUnreachable(t *testing.T) {
	// Port 1 is never a NATS server; the connect must fail rather than hang.
	_, err := NewNATSNotifier("nats://127.0.0.1:1", "docs.builds")
	if err == nil {
		t.Fatal("expected connection error")
	}
}
