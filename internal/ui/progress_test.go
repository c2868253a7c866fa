package ui

import (
	"errors"
	"strings"
	"testing"

	"eojs/internal/scaffold"
)

func TestApplyEventTracksItems(t *testing.T) {
	m := NewProgressModel("my-app", []string{scaffold.FilesItem}, nil).(*progressModel)

	m.applyEvent(scaffold.Event{Item: scaffold.FilesItem, Status: scaffold.StatusDone})
	m.applyEvent(scaffold.Event{Item: "npm init -y", Status: scaffold.StatusWorking})
	if len(m.items) != 2 {
		t.Fatalf("expected unknown item to be appended, got %d items", len(m.items))
	}
	if got := m.percent(); got != 0.75 {
		t.Fatalf("percent = %v, want 0.75", got)
	}

	m.applyEvent(scaffold.Event{Item: "npm init -y", Status: scaffold.StatusError, Err: errors.New("exit status 1\nnpm ERR!")})
	if !m.failed || m.items[1].status != scaffold.StatusError {
		t.Fatalf("expected failure recorded, got %+v", m.items[1])
	}
	m.applyEvent(scaffold.Event{Status: scaffold.StatusDone})
	if len(m.items) != 2 {
		t.Fatal("events without an item must be ignored")
	}
}

func TestViewShowsFirstErrorLine(t *testing.T) {
	m := NewProgressModel("my-app", nil, nil).(*progressModel)
	m.applyEvent(scaffold.Event{Item: "npm install", Status: scaffold.StatusError, Err: errors.New("exit status 1\nnpm ERR! details")})
	m.done = true
	view := m.View()
	if !strings.Contains(view, "failed: my-app") || !strings.Contains(view, "exit status 1") {
		t.Fatalf("unexpected view:\n%s", view)
	}
	if strings.Contains(view, "npm ERR! details") {
		t.Fatal("expected only the first error line")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"npm install", 20, "npm install"},
		{"npm install express", 10, "npm ins..."},
		{"abcdef", 3, "abc"},
		{"abc", 0, "abc"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
