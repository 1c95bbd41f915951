package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestScreenHandler_Events(t *testing.T) {
	nav := newTestNavigator(t, verifiedGateway(), stillDevice{})
	h := NewScreenHandler(nav)

	server := httptest.NewServer(http.HandlerFunc(h.Events))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	readEvent := func() string {
		t.Helper()
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				t.Fatalf("failed to read event: %v", err)
			}
			if name, ok := strings.CutPrefix(strings.TrimSpace(line), "event: "); ok {
				return name
			}
		}
	}

	if got := readEvent(); got != "screen" {
		t.Fatalf("expected initial screen event, got %q", got)
	}

	go func() {
		if _, err := nav.Navigate(context.Background(), "enroll"); err != nil {
			t.Errorf("Navigate failed: %v", err)
		}
	}()

	if got := readEvent(); got != "navigate" {
		t.Errorf("expected navigate event, got %q", got)
	}
}
