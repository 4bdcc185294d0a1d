package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/samassist/chatwidget/internal/assistant"
	"github.com/samassist/chatwidget/internal/config"
	"github.com/samassist/chatwidget/internal/extract"
	"github.com/samassist/chatwidget/internal/history"
	"github.com/samassist/chatwidget/internal/observability"
)

type stubOrchestrator struct {
	reply         assistant.Reply
	lastSessionID string
	lastMessage   string
	calls         int
}

func (s *stubOrchestrator) Handle(_ context.Context, sessionID, userText, _ string) assistant.Reply {
	s.calls++
	s.lastSessionID = sessionID
	s.lastMessage = userText
	return s.reply
}

func newTestServer(t *testing.T, orch *stubOrchestrator) *httptest.Server {
	t.Helper()
	metrics := observability.NewMetrics("test_httpapi_" + t.Name() + time.Now().Format("150405000000000"))
	store := history.NewMemoryStore(time.Hour)
	srv := New(config.Config{}, orch, store, metrics)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postChat(t *testing.T, ts *httptest.Server, body string) *http.Response {
	t.Helper()
	res, err := http.Post(ts.URL+"/chat", "application/json", bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("POST /chat error = %v", err)
	}
	return res
}

func TestChatHappyPath(t *testing.T) {
	orch := &stubOrchestrator{reply: assistant.Reply{
		Text:           "We build chatbots.",
		CaptureContact: true,
		ContactFields:  extract.Contact{Email: "sam@example.com"},
	}}
	ts := newTestServer(t, orch)

	res := postChat(t, ts, `{"message":"what do you do? my email is sam@example.com","session_id":"s-42"}`)
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var got map[string]any
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["reply"] != "We build chatbots." {
		t.Fatalf("reply = %v", got["reply"])
	}
	if got["capture_contact"] != true {
		t.Fatalf("capture_contact = %v, want true", got["capture_contact"])
	}
	fields, ok := got["contact_fields"].(map[string]any)
	if !ok || fields["email"] != "sam@example.com" {
		t.Fatalf("contact_fields = %v", got["contact_fields"])
	}
	if orch.lastSessionID != "s-42" {
		t.Fatalf("session id = %q, want %q", orch.lastSessionID, "s-42")
	}
}

func TestChatEmptyMessage(t *testing.T) {
	orch := &stubOrchestrator{}
	ts := newTestServer(t, orch)

	res := postChat(t, ts, `{"message":"   "}`)
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}

	var got map[string]string
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["error"] != "Empty message" {
		t.Fatalf("error = %q, want %q", got["error"], "Empty message")
	}
	if orch.calls != 0 {
		t.Fatalf("orchestrator called %d times for an empty message", orch.calls)
	}
}

func TestChatMalformedBody(t *testing.T) {
	orch := &stubOrchestrator{}
	ts := newTestServer(t, orch)

	res := postChat(t, ts, `{"message":`)
	defer res.Body.Close()
	if res.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusBadRequest)
	}
	if orch.calls != 0 {
		t.Fatalf("orchestrator called %d times for a malformed body", orch.calls)
	}
}

func TestChatDefaultSession(t *testing.T) {
	orch := &stubOrchestrator{reply: assistant.Reply{Text: "hi"}}
	ts := newTestServer(t, orch)

	res := postChat(t, ts, `{"message":"hello"}`)
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}
	if orch.lastSessionID != "demo_session" {
		t.Fatalf("session id = %q, want %q", orch.lastSessionID, "demo_session")
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubOrchestrator{})

	res, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var got map[string]string
	if err := json.NewDecoder(res.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got["status"] != "healthy" || got["service"] != "samassist" {
		t.Fatalf("health body = %v", got)
	}
}

func TestIndexServesWidgetPage(t *testing.T) {
	ts := newTestServer(t, &stubOrchestrator{})

	res, err := http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("GET / error = %v", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusOK)
	}

	var body bytes.Buffer
	if _, err := body.ReadFrom(res.Body); err != nil {
		t.Fatalf("reading / body failed: %v", err)
	}
	if !strings.Contains(body.String(), `id="chat-widget-root"`) {
		t.Fatalf("GET / body missing widget root")
	}

	jsRes, err := http.Get(ts.URL + "/static/widget.js")
	if err != nil {
		t.Fatalf("GET /static/widget.js error = %v", err)
	}
	defer jsRes.Body.Close()
	if jsRes.StatusCode != http.StatusOK {
		t.Fatalf("widget.js status = %d, want %d", jsRes.StatusCode, http.StatusOK)
	}
}
