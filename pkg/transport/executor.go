/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: executor.go
Description: HTTP executor for API inspection. Runs a request, times it, reads a bounded
body and parses it as JSON when possible. Failures are reported on the result instead
of as a separate error so that every attempt can be recorded.
*/

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/jsonlens/pkg/config"
	"github.com/kleascm/jsonlens/pkg/jsonvalue"
	"github.com/kleascm/jsonlens/pkg/logging"
)

// Request describes one outbound call
type Request struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    []byte            `json:"body,omitempty"`
}

// Result is the outcome of one execution. Status is 0 and Err is set when no response
// was received.
type Result struct {
	ID        string
	Request   Request
	Status    int
	Headers   http.Header
	Body      []byte
	Truncated bool
	Duration  time.Duration
	Err       error

	// JSON is the parsed body, or nil when the body is not JSON
	JSON *jsonvalue.Value
}

// OK reports whether a response arrived with a 2xx status
func (r *Result) OK() bool {
	return r.Err == nil && r.Status >= 200 && r.Status < 300
}

// Executor runs requests with a shared client
type Executor struct {
	client *http.Client
	config config.TransportConfig
	logger *logging.Logger
}

// NewExecutor creates an executor from transport settings. logger may be nil.
func NewExecutor(cfg config.TransportConfig, logger *logging.Logger) *Executor {
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if !cfg.FollowRedirects {
				return http.ErrUseLastResponse
			}
			if len(via) >= 10 {
				return fmt.Errorf("stopped after %d redirects", len(via))
			}
			return nil
		},
	}
	return &Executor{client: client, config: cfg, logger: logger}
}

// Execute runs a single request
func (e *Executor) Execute(ctx context.Context, req Request) *Result {
	result := &Result{ID: uuid.New().String(), Request: req}
	start := time.Now()

	defer func() {
		result.Duration = time.Since(start)
		if e.logger != nil {
			e.logger.LogRequest(result.ID, req.Method, req.URL, result.Status, result.Duration, result.Err)
		}
	}()

	httpReq, err := e.newHTTPRequest(ctx, req)
	if err != nil {
		result.Err = fmt.Errorf("failed to create HTTP request: %w", err)
		return result
	}

	resp, err := e.client.Do(httpReq)
	if err != nil {
		result.Err = fmt.Errorf("HTTP request failed: %w", err)
		return result
	}
	defer resp.Body.Close()

	result.Status = resp.StatusCode
	result.Headers = resp.Header

	body, truncated, err := readLimited(resp.Body, e.config.MaxBodyBytes)
	if err != nil {
		result.Status = 0
		result.Err = fmt.Errorf("failed to read response body: %w", err)
		return result
	}
	result.Body = body
	result.Truncated = truncated

	if !truncated {
		if v, err := jsonvalue.Parse(body); err == nil {
			result.JSON = &v
		}
	}
	return result
}

// ExecuteBatch runs requests concurrently, at most concurrency at a time, and returns the
// results in request order
func (e *Executor) ExecuteBatch(ctx context.Context, reqs []Request, concurrency int) []*Result {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]*Result, len(reqs))
	semaphore := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, req := range reqs {
		wg.Add(1)
		go func(index int, r Request) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			results[index] = e.Execute(ctx, r)
		}(i, req)
	}

	wg.Wait()
	return results
}

func (e *Executor) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, err
	}

	if e.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", e.config.UserAgent)
	}
	httpReq.Header.Set("Accept", "application/json")
	if len(req.Body) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	return httpReq, nil
}

// readLimited reads at most limit bytes and reports whether more were available
func readLimited(r io.Reader, limit int64) ([]byte, bool, error) {
	if limit <= 0 {
		body, err := io.ReadAll(r)
		return body, false, err
	}

	body, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, false, err
	}
	if int64(len(body)) > limit {
		return body[:limit], true, nil
	}
	return body, false, nil
}

// ParseHeaders converts "Key: Value" strings into a header map
func ParseHeaders(lines []string) (map[string]string, error) {
	headers := make(map[string]string, len(lines))
	for _, line := range lines {
		key, value, ok := strings.Cut(line, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q, expected \"Key: Value\"", line)
		}
		headers[key] = strings.TrimSpace(value)
	}
	return headers, nil
}

// HeaderNames returns the response header names in sorted order
func (r *Result) HeaderNames() []string {
	names := make([]string, 0, len(r.Headers))
	for k := range r.Headers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
