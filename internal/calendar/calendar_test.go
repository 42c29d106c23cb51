package calendar

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/opsline/dailybot/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(append([]Option{WithWebhookURL(srv.URL)}, opts...)...)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return c
}

func TestNewClientRequiresURL(t *testing.T) {
	if _, err := NewClient(); err == nil {
		t.Fatal("expected error without webhook URL")
	}
}

func TestCreateDayOff(t *testing.T) {
	var got eventRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(models.CalendarResult{Status: "ok", EventID: "ev1"})
	})

	result, err := c.CreateDayOff(context.Background(), "Олена", "2025-06-09")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != "day_off" || got.Name != "Олена" || got.Date != "2025-06-09" {
		t.Errorf("unexpected request: %+v", got)
	}
	if result.Status != models.CalendarStatusOK || result.EventID != "ev1" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestCreateVacation(t *testing.T) {
	var got eventRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(models.CalendarResult{Status: "ok"})
	})

	if _, err := c.CreateVacation(context.Background(), "Олена", "2025-06-09", "2025-06-20", "Europe/Kyiv"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Kind != "vacation" || got.Start != "2025-06-09" || got.End != "2025-06-20" || got.TZ != "Europe/Kyiv" {
		t.Errorf("unexpected request: %+v", got)
	}
}

func TestBusinessRejectionIsNotAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.CalendarResult{Status: "error", Message: "зайнято"})
	})

	result, err := c.CreateDayOff(context.Background(), "Олена", "2025-06-09")
	if err != nil {
		t.Fatalf("a non-ok status must surface in the result, not as error: %v", err)
	}
	if result.Status == models.CalendarStatusOK || result.Message != "зайнято" {
		t.Errorf("unexpected result: %+v", result)
	}
}

func TestNon200IsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	if _, err := c.CreateDayOff(context.Background(), "Олена", "2025-06-09"); err == nil {
		t.Fatal("expected error on non-200 response")
	} else if !strings.Contains(err.Error(), "502") {
		t.Errorf("error should carry the status code: %v", err)
	}
}

func TestBearerToken(t *testing.T) {
	var auth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(models.CalendarResult{Status: "ok"})
	}, WithToken("secret"))

	if _, err := c.CreateDayOff(context.Background(), "Олена", "2025-06-09"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
}
