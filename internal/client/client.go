// Package client is a typed HTTP client for the timetrack API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	"github.com/geocoder89/timetrack/internal/domain/user"
	"github.com/geocoder89/timetrack/internal/report"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Error is the API error envelope.
type Error struct {
	Status    int    `json:"-"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId"`
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api: status %d", e.Status)
	}
	return fmt.Sprintf("api: %s: %s (status %d)", e.Code, e.Message, e.Status)
}

type AuthResponse struct {
	AccessToken string     `json:"accessToken"`
	TokenType   string     `json:"tokenType"`
	ExpiresIn   int        `json:"expiresIn"`
	User        *user.User `json:"user"`
}

type EntryPage struct {
	Items      []timeentry.TimeEntry `json:"items"`
	Count      int                   `json:"count"`
	HasMore    bool                  `json:"hasMore"`
	NextCursor *string               `json:"nextCursor"`
}

type TaskEntries struct {
	Items      []timeentry.TimeEntry `json:"items"`
	Count      int                   `json:"count"`
	TotalHours float64               `json:"totalHours"`
}

type EntryQuery struct {
	TaskID   string
	From, To string
	Limit    int
	Cursor   string
}

// RangeQuery selects a dashboard range: a named Filter, or From and To.
type RangeQuery struct {
	Filter   string
	From, To string
}

func (q RangeQuery) values() url.Values {
	v := url.Values{}
	if q.From != "" || q.To != "" {
		v.Set("from", q.From)
		v.Set("to", q.To)
		return v
	}
	if q.Filter != "" {
		v.Set("filter", q.Filter)
	}
	return v
}

func (c *Client) Register(ctx context.Context, email, password, name string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/register", nil, user.RegisterRequest{Email: email, Password: password, Name: name}, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResponse, error) {
	var out AuthResponse
	err := c.do(ctx, http.MethodPost, "/login", nil, user.LoginRequest{Email: email, Password: password}, &out)
	return out, err
}

func (c *Client) Profile(ctx context.Context) (user.Profile, error) {
	var out user.Profile
	err := c.do(ctx, http.MethodGet, "/profile", nil, nil, &out)
	return out, err
}

func (c *Client) UpdateProfile(ctx context.Context, req user.UpdateProfileRequest) (user.Profile, error) {
	var out user.Profile
	err := c.do(ctx, http.MethodPatch, "/profile", nil, req, &out)
	return out, err
}

func (c *Client) Projects(ctx context.Context) ([]project.Project, error) {
	var out struct {
		Items []project.Project `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &out)
	return out.Items, err
}

func (c *Client) CreateProject(ctx context.Context, req project.CreateProjectRequest) (project.Project, error) {
	var out project.Project
	err := c.do(ctx, http.MethodPost, "/projects", nil, req, &out)
	return out, err
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil, nil, nil)
}

// Tasks lists the caller's tasks, narrowed to one project when projectID is set.
func (c *Client) Tasks(ctx context.Context, projectID string) ([]task.Task, error) {
	q := url.Values{}
	if projectID != "" {
		q.Set("projectId", projectID)
	}
	var out struct {
		Items []task.Task `json:"items"`
	}
	err := c.do(ctx, http.MethodGet, "/tasks", q, nil, &out)
	return out.Items, err
}

func (c *Client) CreateTask(ctx context.Context, req task.CreateTaskRequest) (task.Task, error) {
	var out task.Task
	err := c.do(ctx, http.MethodPost, "/tasks", nil, req, &out)
	return out, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) TaskEntries(ctx context.Context, taskID string) (TaskEntries, error) {
	var out TaskEntries
	err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID)+"/time-entries", nil, nil, &out)
	return out, err
}

func (c *Client) LogTime(ctx context.Context, req timeentry.CreateTimeEntryRequest) (timeentry.TimeEntry, error) {
	var out timeentry.TimeEntry
	err := c.do(ctx, http.MethodPost, "/time-entries", nil, req, &out)
	return out, err
}

func (c *Client) DeleteTimeEntry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/time-entries/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) TimeEntries(ctx context.Context, q EntryQuery) (EntryPage, error) {
	v := url.Values{}
	if q.TaskID != "" {
		v.Set("taskId", q.TaskID)
	}
	if q.From != "" {
		v.Set("from", q.From)
	}
	if q.To != "" {
		v.Set("to", q.To)
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Cursor != "" {
		v.Set("cursor", q.Cursor)
	}

	var out EntryPage
	err := c.do(ctx, http.MethodGet, "/time-entries", v, nil, &out)
	return out, err
}

func (c *Client) Dashboard(ctx context.Context, q RangeQuery) (report.Summary, error) {
	var out report.Summary
	err := c.do(ctx, http.MethodGet, "/dashboard", q.values(), nil, &out)
	return out, err
}

// ExportProject returns the workbook bytes and the server's suggested filename.
func (c *Client) ExportProject(ctx context.Context, id string) ([]byte, string, error) {
	return c.download(ctx, "/projects/"+url.PathEscape(id)+"/export", nil)
}

func (c *Client) ExportDashboard(ctx context.Context, q RangeQuery) ([]byte, string, error) {
	return c.download(ctx, "/dashboard/export", q.values())
}

func (c *Client) download(ctx context.Context, path string, q url.Values) ([]byte, string, error) {
	resp, err := c.send(ctx, http.MethodGet, path, q, nil)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	filename := ""
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}
	return b, filename, nil
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	resp, err := c.send(ctx, method, path, q, in)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// send returns the response only for 2xx statuses; anything else is
// decoded into *Error.
func (c *Client) send(ctx context.Context, method, path string, q url.Values, in any) (*http.Response, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer resp.Body.Close()

	var envelope struct {
		Error Error `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&envelope)
	envelope.Error.Status = resp.StatusCode

	return nil, &envelope.Error
}
