package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/m3rciful/todobot/core/logger"
)

const (
	dialTimeout      = 5 * time.Second
	tlsHandshake     = 5 * time.Second
	idleConnTimeout  = 30 * time.Second
	responseTimeout  = 10 * time.Second
	maxErrorBodySize = 4 << 10
)

// Client talks to the task persistence service. Every operation runs a
// single attempt; errors come back as *Failure and retry policy, if any,
// belongs to the caller.
type Client struct {
	base string
	http *http.Client
}

// New builds a Client for the given base URL, e.g. "http://localhost:8000/api".
func New(baseURL string, timeout time.Duration) *Client {
	transport := &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       idleConnTimeout,
		TLSHandshakeTimeout:   tlsHandshake,
		ResponseHeaderTimeout: responseTimeout,
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout, Transport: transport},
	}
}

// ListTasks returns all tasks, newest first (server ordering).
func (c *Client) ListTasks(ctx context.Context) ([]Task, error) {
	body, err := c.do(ctx, http.MethodGet, "/tasks/", "list_tasks", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Task](body, "list_tasks")
}

// CreateTask submits a draft and returns the created task.
func (c *Client) CreateTask(ctx context.Context, draft TaskDraft) (*Task, error) {
	if draft.CategoryNames == nil {
		draft.CategoryNames = []string{}
	}
	body, err := c.do(ctx, http.MethodPost, "/tasks/", "create_task", nil, draft)
	if err != nil {
		return nil, err
	}
	var task Task
	if err := json.Unmarshal(body, &task); err != nil {
		return nil, malformed("create_task", err)
	}
	return &task, nil
}

// DeleteTask removes a task by id. The service exposes deletion as a POST
// action rather than a DELETE verb.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	path := fmt.Sprintf("/tasks/%s/delete_task/", url.PathEscape(id))
	_, err := c.do(ctx, http.MethodPost, path, "delete_task", nil, nil)
	return err
}

// ListCategories returns all categories.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	body, err := c.do(ctx, http.MethodGet, "/categories/", "list_categories", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeList[Category](body, "list_categories")
}

// CategoryExists checks a name against the remote registry,
// case-insensitively.
func (c *Client) CategoryExists(ctx context.Context, name string) (bool, error) {
	query := url.Values{"name": {name}}
	body, err := c.do(ctx, http.MethodGet, "/categories/check_category/", "check_category", query, nil)
	if err != nil {
		return false, err
	}
	var out struct {
		Exists bool `json:"exists"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return false, malformed("check_category", err)
	}
	return out.Exists, nil
}

// CreateCategory registers a new category name.
func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	payload := map[string]string{"name": name}
	body, err := c.do(ctx, http.MethodPost, "/categories/create_category/", "create_category", nil, payload)
	if err != nil {
		return nil, err
	}
	var cat Category
	if err := json.Unmarshal(body, &cat); err != nil {
		return nil, malformed("create_category", err)
	}
	return &cat, nil
}

// DeleteCategory removes a category by id.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	path := fmt.Sprintf("/categories/%s/delete_category/", url.PathEscape(id))
	_, err := c.do(ctx, http.MethodPost, path, "delete_category", nil, nil)
	return err
}

// do runs one request and returns the raw response body on 2xx.
func (c *Client) do(ctx context.Context, method, path, op string, query url.Values, payload any) ([]byte, error) {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, &Failure{Kind: FailureTransport, Operation: op, Message: "encode request", cause: err}
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reqBody)
	if err != nil {
		return nil, &Failure{Kind: FailureTransport, Operation: op, Message: "build request", cause: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		logger.API.Warn("request", slog.String("op", op), slog.String("err", logger.Sanitize(err.Error())))
		return nil, &Failure{Kind: FailureTransport, Operation: op, Message: "request failed", cause: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if logger.ShouldSampleDebug() {
		logger.API.Debug("request",
			slog.String("op", op),
			slog.Int("http_code", resp.StatusCode),
			slog.Duration("duration", logger.RoundMS(time.Since(started))),
		)
	}

	switch {
	case resp.StatusCode >= 500:
		return nil, &Failure{Kind: FailureServer, Status: resp.StatusCode, Operation: op, Message: errorMessage(body)}
	case resp.StatusCode >= 400:
		return nil, &Failure{Kind: FailureClient, Status: resp.StatusCode, Operation: op, Message: errorMessage(body)}
	}
	if readErr != nil {
		return nil, malformed(op, readErr)
	}
	return body, nil
}

// decodeList accepts both a bare JSON array and the paginated
// {"results": [...]} envelope.
func decodeList[T any](body []byte, op string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, malformed(op, err)
		}
		return items, nil
	}
	var envelope struct {
		Results []T `json:"results"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, malformed(op, err)
	}
	if envelope.Results == nil {
		return nil, &Failure{Kind: FailureMalformed, Operation: op, Message: "response is neither a list nor a results envelope"}
	}
	return envelope.Results, nil
}

func malformed(op string, err error) *Failure {
	return &Failure{Kind: FailureMalformed, Operation: op, Message: "decode response", cause: err}
}

// errorMessage extracts a short human-readable detail from an error body.
func errorMessage(body []byte) string {
	if len(body) > maxErrorBodySize {
		body = body[:maxErrorBodySize]
	}
	var detail struct {
		Detail string `json:"detail"`
		Error  string `json:"error"`
	}
	if err := json.Unmarshal(body, &detail); err == nil {
		if detail.Detail != "" {
			return detail.Detail
		}
		if detail.Error != "" {
			return detail.Error
		}
	}
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return "no error detail"
	}
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}
