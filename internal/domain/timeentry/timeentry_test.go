package timeentry

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{in: "1h 30m", want: 1.5},
		{in: "2h", want: 2},
		{in: "45m", want: 0.75},
		{in: "45min", want: 0.75},
		{in: " 3H15M ", want: 3.25},
		{in: "0h 59m", want: 59.0 / 60},
		{in: "1h 60m", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.5h", wantErr: true},
		{in: "30m 1h", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidDuration) {
				t.Fatalf("%q: expected ErrInvalidDuration, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: unexpected error %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("%q: got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[float64]string{
		1.5:  "1h 30m",
		2:    "2h",
		0.25: "15m",
		7.75: "7h 45m",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestNormalizeHours(t *testing.T) {
	if h, err := NormalizeHours(1.234); err != nil || h != 1.23 {
		t.Fatalf("got %v, %v", h, err)
	}
	for _, bad := range []float64{0, -1, 24.01, 0.004} {
		if _, err := NormalizeHours(bad); !errors.Is(err, ErrInvalidHours) {
			t.Fatalf("%v: expected ErrInvalidHours, got %v", bad, err)
		}
	}
	if h, err := NormalizeHours(24); err != nil || h != 24 {
		t.Fatalf("24 should be accepted, got %v, %v", h, err)
	}
}

func TestNewFromCreateRequest(t *testing.T) {
	hours := 2.0

	t.Run("hours", func(t *testing.T) {
		e, err := NewFromCreateRequest("u1", CreateTimeEntryRequest{TaskID: "t1", Date: "2024-03-04", Hours: &hours, Comment: "x"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if e.ID == "" || e.UserID != "u1" || e.TaskID != "t1" || e.Hours != 2 {
			t.Fatalf("unexpected entry: %+v", e)
		}
		if !e.Date.Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)) {
			t.Fatalf("unexpected date %v", e.Date)
		}
	})

	t.Run("duration", func(t *testing.T) {
		e, err := NewFromCreateRequest("u1", CreateTimeEntryRequest{Date: "2024-03-04", Duration: "1h 30m"})
		if err != nil || e.Hours != 1.5 {
			t.Fatalf("got %+v, %v", e, err)
		}
	})

	t.Run("both", func(t *testing.T) {
		_, err := NewFromCreateRequest("u1", CreateTimeEntryRequest{Date: "2024-03-04", Hours: &hours, Duration: "2h"})
		if !errors.Is(err, ErrAmbiguousTime) {
			t.Fatalf("expected ErrAmbiguousTime, got %v", err)
		}
	})

	t.Run("neither", func(t *testing.T) {
		_, err := NewFromCreateRequest("u1", CreateTimeEntryRequest{Date: "2024-03-04"})
		if !errors.Is(err, ErrMissingHours) {
			t.Fatalf("expected ErrMissingHours, got %v", err)
		}
	})

	t.Run("bad date", func(t *testing.T) {
		_, err := NewFromCreateRequest("u1", CreateTimeEntryRequest{Date: "2024-02-30", Hours: &hours})
		if !errors.Is(err, ErrInvalidDate) {
			t.Fatalf("expected ErrInvalidDate, got %v", err)
		}
	})
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.March, 4)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-03-04"` {
		t.Fatalf("got %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("got %v, want %v", back, d)
	}
	if got := d.AddDays(7).String(); got != "2024-03-11" {
		t.Fatalf("AddDays: got %s", got)
	}
}
