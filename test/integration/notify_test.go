package integration_test

import (
	"bufio"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"grove/test/integration/harness"
)

// eventLine is the wire shape of one event log entry
type eventLine struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"eventType"`
	CWD       string    `json:"cwd"`
}

func readEventLog(t *testing.T, env *harness.TestEnvironment) []eventLine {
	t.Helper()

	file, err := os.Open(env.EventLogPath())
	if err != nil {
		t.Fatalf("Failed to open event log: %v", err)
	}
	defer file.Close()

	var events []eventLine
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var event eventLine
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			t.Fatalf("Undecodable event line %q: %v", line, err)
		}
		events = append(events, event)
	}
	return events
}

func TestNotify_AppendsEvent(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "notify", "stop", "--cwd", "/repos/api")
	harness.AssertSuccess(t, result)

	events := readEventLog(t, env)
	if len(events) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(events))
	}
	if events[0].EventType != "stop" || events[0].CWD != "/repos/api" {
		t.Fatalf("Unexpected event: %+v", events[0])
	}
	if events[0].Timestamp.IsZero() {
		t.Fatal("Expected a timestamp on the event")
	}
}

func TestNotify_AppendsInOrder(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	for _, eventType := range []string{"start", "permissionRequest", "stop", "sessionEnd"} {
		harness.AssertSuccess(t, harness.RunCommand(t, env, "notify", eventType, "--cwd", "/repos/api"))
	}

	events := readEventLog(t, env)
	if len(events) != 4 {
		t.Fatalf("Expected 4 events, got %d", len(events))
	}
	want := []string{"start", "permissionRequest", "stop", "sessionEnd"}
	for i, eventType := range want {
		if events[i].EventType != eventType {
			t.Fatalf("Event %d: expected %s, got %s", i, eventType, events[i].EventType)
		}
	}
}

func TestNotify_RejectsUnknownEventType(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "notify", "bogus")
	harness.AssertFailure(t, result)
}

func TestNotify_DefaultsCwdToWorkingDirectory(t *testing.T) {
	env := harness.NewTestEnvironment(t)

	result := harness.RunCommand(t, env, "notify", "start")
	harness.AssertSuccess(t, result)

	events := readEventLog(t, env)
	if len(events) != 1 || events[0].CWD == "" {
		t.Fatalf("Expected one event with a cwd, got %+v", events)
	}
}
