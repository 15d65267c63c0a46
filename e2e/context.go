package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var runCounter atomic.Int64

// TestContext carries the HTTP client and the state shared by the steps of
// one scenario.
type TestContext struct {
	BaseURL string
	client  *http.Client

	lastStatus  int
	lastHeaders http.Header
	lastBody    []byte
	lastJSON    map[string]any

	vars     map[string]string
	cleanups []string
}

// NewTestContext returns a context pointed at baseURL, e.g.
// http://localhost:8080/api/v1/internal.
func NewTestContext(baseURL string) *TestContext {
	tc := &TestContext{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	tc.Reset()
	return tc
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.lastStatus = 0
	tc.lastHeaders = nil
	tc.lastBody = nil
	tc.lastJSON = nil
	tc.cleanups = nil
	tc.vars = map[string]string{"run": runSuffix()}
}

// runSuffix is appended to names via {run} so scenarios sharing one server
// never collide on the unique checklist name.
func runSuffix() string {
	stamp := strconv.FormatInt(time.Now().UnixMilli(), 36)
	return stamp + strconv.FormatInt(runCounter.Add(1), 36)
}

// DeleteAfterScenario registers a path to DELETE once the scenario ends.
func (tc *TestContext) DeleteAfterScenario(path string) {
	tc.cleanups = append(tc.cleanups, path)
}

// Cleanup deletes everything registered with DeleteAfterScenario. Resources
// the scenario already removed answer 404, which is ignored.
func (tc *TestContext) Cleanup() error {
	var failed []string
	for i := len(tc.cleanups) - 1; i >= 0; i-- {
		path := tc.cleanups[i]
		if err := tc.DELETE(path); err != nil {
			failed = append(failed, err.Error())
			continue
		}
		if tc.lastStatus >= 500 {
			failed = append(failed, fmt.Sprintf("DELETE %s: status %d", path, tc.lastStatus))
		}
	}
	tc.cleanups = nil
	if len(failed) > 0 {
		return fmt.Errorf("cleanup: %s", strings.Join(failed, "; "))
	}
	return nil
}

func (tc *TestContext) GET(path string, headers map[string]string) error {
	return tc.do(http.MethodGet, path, nil, headers)
}

func (tc *TestContext) POST(path string, body any) error {
	return tc.do(http.MethodPost, path, body, nil)
}

func (tc *TestContext) PUT(path string, body any) error {
	return tc.do(http.MethodPut, path, body, nil)
}

func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil, nil)
}

func (tc *TestContext) do(method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, tc.BaseURL+tc.Expand(path), reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.lastStatus = resp.StatusCode
	tc.lastHeaders = resp.Header
	tc.lastBody, err = io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	tc.lastJSON = nil
	if len(tc.lastBody) > 0 {
		var decoded map[string]any
		if err := json.Unmarshal(tc.lastBody, &decoded); err == nil {
			tc.lastJSON = decoded
		}
	}
	return nil
}

func (tc *TestContext) GetLastResponseStatus() int {
	return tc.lastStatus
}

func (tc *TestContext) GetLastResponseHeader(name string) string {
	return tc.lastHeaders.Get(name)
}

func (tc *TestContext) GetLastResponseBody() []byte {
	return tc.lastBody
}

// GetResponseField resolves a dotted path such as "data.id" or
// "data.0.nome" against the last JSON response.
func (tc *TestContext) GetResponseField(field string) (any, error) {
	if tc.lastJSON == nil {
		return nil, fmt.Errorf("last response is not a JSON object: %s", tc.lastBody)
	}
	var current any = tc.lastJSON
	for _, part := range strings.Split(field, ".") {
		switch node := current.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in response", field)
			}
			current = v
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, fmt.Errorf("index %q out of range for %q", part, field)
			}
			current = node[idx]
		default:
			return nil, fmt.Errorf("field %q not found in response", field)
		}
	}
	return current, nil
}

func (tc *TestContext) ResponseContains(field string) bool {
	_, err := tc.GetResponseField(field)
	return err == nil
}

// Save stores a value under name so later steps can reference it as {name}.
func (tc *TestContext) Save(name, value string) {
	tc.vars[name] = value
}

func (tc *TestContext) Expand(s string) string {
	for k, v := range tc.vars {
		s = strings.ReplaceAll(s, "{"+k+"}", v)
	}
	return s
}
