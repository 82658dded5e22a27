package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// ReceivedRequest is one call recorded by ApiMock.
type ReceivedRequest struct {
	Headers map[string]string
	Body    map[string]any
}

type cannedResponse struct {
	status int
	body   any
}

// ApiMock is a fake third-party HTTP API. Responses are keyed by method and
// path; queued responses are served first, then the default one.
type ApiMock struct {
	mu       sync.Mutex
	server   *httptest.Server
	received map[string][]ReceivedRequest
	queued   map[string][]cannedResponse
	defaults map[string]cannedResponse
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		received: map[string][]ReceivedRequest{},
		queued:   map[string][]cannedResponse{},
		defaults: map[string]cannedResponse{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.server.URL
}

// SetResponse sets the default response for method and path.
func (a *ApiMock) SetResponse(method, path string, status int, body any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.defaults[method+path] = cannedResponse{status: status, body: body}
}

// QueueResponse serves a response once, ahead of the default.
func (a *ApiMock) QueueResponse(method, path string, status int, body any) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queued[method+path] = append(a.queued[method+path], cannedResponse{status: status, body: body})
}

// Requests returns the calls received for method and path, oldest first.
func (a *ApiMock) Requests(method, path string) []ReceivedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]ReceivedRequest, len(a.received[method+path]))
	copy(out, a.received[method+path])
	return out
}

// Reset forgets recorded calls and canned responses.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.received = map[string][]ReceivedRequest{}
	a.queued = map[string][]cannedResponse{}
	a.defaults = map[string]cannedResponse{}
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)

	headers := make(map[string]string, len(r.Header))
	for name, values := range r.Header {
		headers[name] = values[0]
	}

	a.mu.Lock()
	a.received[key] = append(a.received[key], ReceivedRequest{Headers: headers, Body: body})
	resp, ok := a.nextResponse(key)
	a.mu.Unlock()

	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no mock response for ` + key + `"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.status)
	_ = json.NewEncoder(w).Encode(resp.body)
}

func (a *ApiMock) nextResponse(key string) (cannedResponse, bool) {
	if queue := a.queued[key]; len(queue) > 0 {
		a.queued[key] = queue[1:]
		return queue[0], true
	}
	resp, ok := a.defaults[key]
	return resp, ok
}
