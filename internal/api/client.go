// Package api is the HTTP client for the remote ESS service. It owns the
// wire shapes and the response-envelope normalization; all grouping, gap
// filling and caching happens in the layers above.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ess-tools/attend/internal/model"
	"github.com/ess-tools/attend/internal/timecalc"
)

// Client is an authenticated ESS API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client against baseURL using the provided HTTP client
// (normally the oauth2 client from AuthedHTTPClient).
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// PunchRow is one raw attendance row as returned by the server. Punch times
// are time-of-day strings; LeaveStatus is non-empty when an approved leave
// covers the day.
type PunchRow struct {
	Date            string  `json:"attendance_date"`
	PunchIn         *string `json:"punch_in_time"`
	PunchOut        *string `json:"punch_out_time"`
	DurationSeconds *int64  `json:"duration_seconds"`
	LeaveStatus     string  `json:"leave_status,omitempty"`
	InAddress       string  `json:"in_address,omitempty"`
	OutAddress      string  `json:"out_address,omitempty"`
	InDevice        string  `json:"in_device,omitempty"`
	OutDevice       string  `json:"out_device,omitempty"`
}

// PunchRequest is the body for submitting a clock-in or clock-out.
type PunchRequest struct {
	Direction string `json:"direction"` // "in" or "out"
	Address   string `json:"address,omitempty"`
	Device    string `json:"device,omitempty"`
	Note      string `json:"note,omitempty"`
}

// ListPunches fetches attendance rows for the inclusive day interval
// [from, to] in a single request.
func (c *Client) ListPunches(ctx context.Context, from, to time.Time) ([]PunchRow, error) {
	endpoint := fmt.Sprintf("%s/attendance/punches?from=%s&to=%s",
		c.baseURL,
		url.QueryEscape(timecalc.DateKey(from)),
		url.QueryEscape(timecalc.DateKey(to)),
	)
	return getList[PunchRow](ctx, c, endpoint)
}

// SavePunch submits a punch and returns the server's resulting row for today.
func (c *Client) SavePunch(ctx context.Context, req PunchRequest) (PunchRow, error) {
	var row PunchRow
	body, err := c.do(ctx, http.MethodPost, c.baseURL+"/attendance/punch", req)
	if err != nil {
		return row, err
	}
	if err := json.Unmarshal(body, &row); err != nil {
		return row, fmt.Errorf("decoding punch response: %w", err)
	}
	return row, nil
}

// ListTaskHourCounts fetches the per-day task rollup for the current user.
func (c *Client) ListTaskHourCounts(ctx context.Context) ([]model.HourCountEntry, error) {
	return getList[model.HourCountEntry](ctx, c, c.baseURL+"/timesheet/hour-counts")
}

// ListTasksForDate fetches the tasks logged on one date ("2006-01-02").
func (c *Client) ListTasksForDate(ctx context.Context, date string) ([]model.Task, error) {
	return getList[model.Task](ctx, c, c.baseURL+"/timesheet/tasks?date="+url.QueryEscape(date))
}

// ListProjects fetches the project master list.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	return getList[model.Project](ctx, c, c.baseURL+"/projects")
}

// AddTasks creates the given tasks.
func (c *Client) AddTasks(ctx context.Context, tasks []model.Task) error {
	_, err := c.do(ctx, http.MethodPost, c.baseURL+"/timesheet/tasks", tasks)
	return err
}

// UpdateTask replaces an existing task.
func (c *Client) UpdateTask(ctx context.Context, task model.Task) error {
	_, err := c.do(ctx, http.MethodPut, c.baseURL+"/timesheet/tasks/"+url.PathEscape(task.ID), task)
	return err
}

// DeleteTask deletes a task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.baseURL+"/timesheet/tasks/"+url.PathEscape(id), nil)
	return err
}

// do performs one request and returns the raw response body. Non-2xx
// statuses become errors carrying the body for context.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ess API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("ess API error %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// getList fetches endpoint and decodes a list response through
// normalizeList.
func getList[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	return normalizeList[T](body)
}

// normalizeList decodes a list that the server returns either as a bare
// array or wrapped in a {"data": [...]} envelope. Valid JSON in any other
// shape is treated as an empty list, not an error; only malformed JSON
// fails.
func normalizeList[T any](body []byte) ([]T, error) {
	if !json.Valid(body) {
		return nil, fmt.Errorf("malformed JSON response: %.120s", string(body))
	}
	var items []T
	if err := json.Unmarshal(body, &items); err == nil {
		return items, nil
	}
	var envelope struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}
	return []T{}, nil
}
