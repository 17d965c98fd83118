package metrics

import (
	"database/sql"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMiddleware(t *testing.T) {
	m := NewMetrics()
	app := fiber.New()
	app.Use(Middleware(m))
	app.Get("/ok/:id", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/fail", func(c *fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "nope") })
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })

	for _, path := range []string{"/ok/1", "/ok/2", "/fail", "/boom"} {
		resp, err := app.Test(httptest.NewRequest("GET", path, nil))
		if err != nil {
			t.Fatalf("GET %s error = %v", path, err)
		}
		resp.Body.Close()
	}

	if got := testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/ok/:id", "200")); got != 2 {
		t.Errorf("requests_total{/ok/:id,200} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/fail", "418")); got != 1 {
		t.Errorf("requests_total{/fail,418} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RequestCounter.WithLabelValues("GET", "/boom", "500")); got != 1 {
		t.Errorf("requests_total{/boom,500} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.RequestsInFlight); got != 0 {
		t.Errorf("requests_in_flight = %v, want 0", got)
	}
}

func TestRecordHelpers(t *testing.T) {
	m := NewMetrics()

	m.RecordUnlock("rose", "demo", false)
	m.RecordUnlock("rose", "demo", false)
	m.RecordUnlock("rose", "live", true)
	if got := testutil.ToFloat64(m.UnlockChecks.WithLabelValues("rose", "demo", "false")); got != 2 {
		t.Errorf("unlock_checks_total{rose,demo,false} = %v, want 2", got)
	}

	m.RecordConfessionSave("kiss", true)
	m.RecordConfessionSave("kiss", false)
	if got := testutil.ToFloat64(m.ConfessionSaves.WithLabelValues("kiss", "failed")); got != 1 {
		t.Errorf("confession_saves_total{kiss,failed} = %v, want 1", got)
	}

	m.RecordDBPoolStats(sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2})
	if got := testutil.ToFloat64(m.DBConnPoolStats.WithLabelValues("idle")); got != 2 {
		t.Errorf("db_connection_pool{idle} = %v, want 2", got)
	}
}

func TestNewMetrics_IndependentRegistries(t *testing.T) {
	a, b := NewMetrics(), NewMetrics()
	a.RecordConfessionSave("rose", true)
	if got := testutil.ToFloat64(b.ConfessionSaves.WithLabelValues("rose", "ok")); got != 0 {
		t.Errorf("second instance saw %v saves, want 0", got)
	}
}
