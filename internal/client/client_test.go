package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/timetrack/internal/client"
	"github.com/geocoder89/timetrack/internal/config"
	"github.com/geocoder89/timetrack/internal/domain/project"
	"github.com/geocoder89/timetrack/internal/domain/task"
	"github.com/geocoder89/timetrack/internal/domain/timeentry"
	httpx "github.com/geocoder89/timetrack/internal/http"
	"github.com/geocoder89/timetrack/internal/repo/memory"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	router := httpx.NewRouter(httpx.Deps{
		Config: config.Config{
			Env:                    "test",
			JWTSecret:              "test-secret",
			JWTAccessTTLMinutes:    15,
			JWTRefreshTTLDays:      7,
			AuthRateLimitPerMinute: 100,
		},
		Stores: httpx.MemoryStores(memory.New()),
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTrip(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	auth, err := client.New(srv.URL, "").Register(ctx, "ada@example.com", "correct-horse", "Ada")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if auth.AccessToken == "" || auth.User == nil || auth.User.Email != "ada@example.com" {
		t.Fatalf("unexpected register response: %+v", auth)
	}

	c := client.New(srv.URL, auth.AccessToken)

	p, err := c.CreateProject(ctx, project.CreateProjectRequest{Name: "Website"})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	tk, err := c.CreateTask(ctx, task.CreateTaskRequest{ProjectID: p.ID, Name: "Design"})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	today := time.Now().UTC().Format(timeentry.DateLayout)
	e, err := c.LogTime(ctx, timeentry.CreateTimeEntryRequest{TaskID: tk.ID, Date: today, Duration: "1h 30m"})
	if err != nil {
		t.Fatalf("log time: %v", err)
	}
	if e.Hours != 1.5 {
		t.Fatalf("expected 1.5h, got %v", e.Hours)
	}

	page, err := c.TimeEntries(ctx, client.EntryQuery{TaskID: tk.ID})
	if err != nil || page.Count != 1 || page.HasMore {
		t.Fatalf("entries: %+v, %v", page, err)
	}

	sum, err := c.Dashboard(ctx, client.RangeQuery{Filter: "all_time"})
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if sum.TotalHours != 1.5 || len(sum.Projects) != 1 || sum.Label != "All Time" {
		t.Fatalf("unexpected summary: %+v", sum)
	}

	b, name, err := c.ExportProject(ctx, p.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(b) == 0 || name != "project-website.xlsx" {
		t.Fatalf("unexpected export: %d bytes, name %q", len(b), name)
	}

	if err := c.DeleteProject(ctx, p.ID); err != nil {
		t.Fatalf("delete project: %v", err)
	}
	if _, err := c.TaskEntries(ctx, tk.ID); !isStatus(err, http.StatusNotFound) {
		t.Fatalf("task should be gone after cascade, got %v", err)
	}
}

func TestClientErrors(t *testing.T) {
	srv := newServer(t)
	ctx := context.Background()

	_, err := client.New(srv.URL, "").Login(ctx, "nobody@example.com", "whatever1")
	var apiErr *client.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized || apiErr.Code != "invalid_credentials" {
		t.Fatalf("expected invalid_credentials 401, got %v", err)
	}

	if _, err := client.New(srv.URL, "").Projects(ctx); !isStatus(err, http.StatusUnauthorized) {
		t.Fatalf("expected 401 without token, got %v", err)
	}
}

func isStatus(err error, status int) bool {
	var apiErr *client.Error
	return errors.As(err, &apiErr) && apiErr.Status == status
}
