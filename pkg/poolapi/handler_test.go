package poolapi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"wampcore/pkg/common/worker"
)

type fixedUptime time.Duration

func (f fixedUptime) Uptime() time.Duration { return time.Duration(f) }

func TestStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pool, err := worker.New(3)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	defer pool.Release()
	done := make(chan struct{})
	if err := pool.Submit(func() { close(done) }); err != nil {
		t.Fatalf("submit: %v", err)
	}
	<-done

	r := gin.New()
	RegisterRoutes(r.Group("/pool"), pool, fixedUptime(1500*time.Millisecond))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pool/stats", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp struct {
		Pool     worker.Stats `json:"pool"`
		UptimeMS int64        `json:"uptime_ms"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Pool.Capacity != 3 || resp.Pool.Submitted != 1 {
		t.Fatalf("unexpected pool stats %+v", resp.Pool)
	}
	if resp.UptimeMS != 1500 {
		t.Fatalf("uptime_ms = %d", resp.UptimeMS)
	}
}

func TestStatsWithoutUptime(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pool, err := worker.New(1)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	defer pool.Release()

	r := gin.New()
	RegisterRoutes(r.Group("/pool"), pool, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pool/stats", nil))
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := resp["uptime_ms"]; ok {
		t.Fatalf("uptime reported without source: %v", resp)
	}
}
