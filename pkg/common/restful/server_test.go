package restful

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"wampcore/pkg/common/logger"
)

// initTestLogger sets a global logger that writes to the provided buffer
func initTestLogger(buf *bytes.Buffer) {
	cfg := logger.DefaultConfig()
	cfg.Level = "debug"
	cfg.Format = "json"
	_ = logger.Init(cfg)
	log.Logger = zerolog.New(buf).With().Timestamp().Logger()
}

func TestNewServerDefaults(t *testing.T) {
	var buf bytes.Buffer
	initTestLogger(&buf)
	gin.SetMode(gin.TestMode)

	s := NewServer()
	if s.Engine == nil {
		t.Fatal("Engine should not be nil")
	}
	if s.Addr() != ":8080" {
		t.Errorf("expected default addr :8080, got %s", s.Addr())
	}
	if s.shutdownDur != 5*time.Second {
		t.Errorf("expected default shutdown duration 5s, got %v", s.shutdownDur)
	}
	if s.maxBodyBytes != 8<<20 {
		t.Errorf("expected default body limit 8MiB, got %d", s.maxBodyBytes)
	}
}

func TestNewServerWithOptions(t *testing.T) {
	var buf bytes.Buffer
	initTestLogger(&buf)
	gin.SetMode(gin.TestMode)

	s := NewServer(WithAddress(":12345"), WithShutdownTimeout(2*time.Second), WithMaxBodyBytes(10))
	if s.addr != ":12345" {
		t.Errorf("expected addr :12345, got %s", s.addr)
	}
	if s.shutdownDur != 2*time.Second {
		t.Errorf("expected shutdownDur 2s, got %v", s.shutdownDur)
	}
	if s.maxBodyBytes != 10 {
		t.Errorf("expected body limit 10, got %d", s.maxBodyBytes)
	}
}

func TestRequestLoggerMiddleware(t *testing.T) {
	var buf bytes.Buffer
	initTestLogger(&buf)
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	out := buf.String()
	if !strings.Contains(out, `"path":"/ping"`) || !strings.Contains(out, `"component":"http"`) {
		t.Fatalf("expected request log line, got %s", out)
	}
}

func TestBodyLimitAndFail(t *testing.T) {
	var buf bytes.Buffer
	initTestLogger(&buf)
	gin.SetMode(gin.TestMode)

	s := NewServer(WithMaxBodyBytes(8))
	s.Engine.POST("/frames", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			Fail(c, http.StatusBadRequest, "read", err)
			return
		}
		c.Status(http.StatusNoContent)
	})
	s.Engine.GET("/bad", func(c *gin.Context) {
		Fail(c, http.StatusUnprocessableEntity, "shape", errors.New("nope"))
	})

	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/frames", strings.NewReader("[1,2]")))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for small body, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/frames", strings.NewReader(`[48,1,{},"com.myapp.echo"]`)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 for large body, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))
	if w.Code != http.StatusUnprocessableEntity || !strings.Contains(w.Body.String(), `"kind":"shape"`) {
		t.Fatalf("unexpected error response %d %s", w.Code, w.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewServer()
	w := httptest.NewRecorder()
	s.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/anything", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for preflight, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatal("missing CORS header")
	}
}

func TestServerStartAndShutdown(t *testing.T) {
	var buf bytes.Buffer
	initTestLogger(&buf)
	gin.SetMode(gin.TestMode)

	s := NewServer(WithAddress("127.0.0.1:0"), WithShutdownTimeout(1*time.Second))
	s.Engine.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	if err := s.Start(); err != nil {
		t.Fatalf("failed to start server: %v", err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/ping")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Fatalf("expected pong, got %q", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown returned error: %v", err)
	}
	if !strings.Contains(buf.String(), "REST server started") {
		t.Error("start message not found in logs")
	}
}

func TestStartBindError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewServer(WithAddress("256.0.0.1:bad"))
	if err := s.Start(); err == nil {
		t.Fatal("expected bind error")
	}
}
