//go:build integration

package mock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// ApiMock is a scripted HTTP server standing in for third-party APIs such as the
// image host. Paths may use * to match a single segment.
type ApiMock struct {
	mu                 sync.Mutex
	server             *httptest.Server
	requestsReceived   map[string][]map[string]string
	responseMap        map[string]map[int]any
	responseStatus     map[string]map[int]int
	defaultResponseMap map[string]any
	defaultStatus      map[string]int
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requestsReceived:   map[string][]map[string]string{},
		responseMap:        map[string]map[int]any{},
		responseStatus:     map[string]map[int]int{},
		defaultResponseMap: map[string]any{},
		defaultStatus:      map[string]int{},
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

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	// Form values of multipart and urlencoded bodies are recorded, file parts are not.
	_ = r.ParseMultipartForm(32 << 20)
	request := map[string]string{}
	for key, values := range r.Form {
		if len(values) > 0 {
			request[key] = values[0]
		}
	}

	a.mu.Lock()
	key := r.Method + r.URL.Path
	index := len(a.requestsReceived[key])
	a.requestsReceived[key] = append(a.requestsReceived[key], request)
	status, body := a.responseFor(r.Method, r.URL.Path, index)
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// SetResponse scripts the response of the index-th call to method+path. An index of
// -1 sets the response of every call without a scripted one.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	if index == -1 {
		a.defaultStatus[key] = status
		a.defaultResponseMap[key] = response
		return
	}
	if a.responseMap[key] == nil {
		a.responseMap[key] = map[int]any{}
		a.responseStatus[key] = map[int]int{}
	}
	a.responseMap[key][index] = response
	a.responseStatus[key][index] = status
}

// RequestCount counts the calls received on paths matching method+path.
func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := 0
	for key, requests := range a.requestsReceived {
		if strings.HasPrefix(key, method) && matchPath(path, strings.TrimPrefix(key, method)) {
			count += len(requests)
		}
	}
	return count
}

// GetRequestBody returns the form values of the index-th call matching method+path.
func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]string {
	a.mu.Lock()
	defer a.mu.Unlock()

	for key, requests := range a.requestsReceived {
		if strings.HasPrefix(key, method) && matchPath(path, strings.TrimPrefix(key, method)) && index < len(requests) {
			return requests[index]
		}
	}
	return nil
}

// Reset drops received requests and scripted responses, keeping the defaults.
func (a *ApiMock) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.requestsReceived = map[string][]map[string]string{}
	a.responseMap = map[string]map[int]any{}
	a.responseStatus = map[string]map[int]int{}
}

func (a *ApiMock) responseFor(method, path string, index int) (int, any) {
	if key := findMatchingKey(keysOf(a.responseMap), method, path); key != "" {
		if response, ok := a.responseMap[key][index]; ok {
			status := a.responseStatus[key][index]
			if status == 0 {
				status = http.StatusOK
			}
			return status, response
		}
	}

	if key := findMatchingKey(keysOf(a.defaultResponseMap), method, path); key != "" {
		status := a.defaultStatus[key]
		if status == 0 {
			status = http.StatusOK
		}
		return status, a.defaultResponseMap[key]
	}

	// Return 200 as a safe default to prevent panic from WriteHeader(0)
	return http.StatusOK, map[string]any{}
}

func matchPath(pattern string, path string) bool {
	if pattern == path {
		return true
	}

	patternParts := strings.Split(pattern, "/")
	pathParts := strings.Split(path, "/")
	if len(patternParts) != len(pathParts) {
		return false
	}

	for i := range patternParts {
		if patternParts[i] != "*" && patternParts[i] != pathParts[i] {
			return false
		}
	}
	return true
}

func findMatchingKey(keys []string, method string, path string) string {
	exactKey := method + path
	for _, key := range keys {
		if key == exactKey {
			return key
		}
	}

	for _, key := range keys {
		if strings.HasPrefix(key, method) && matchPath(strings.TrimPrefix(key, method), path) {
			return key
		}
	}
	return ""
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}
