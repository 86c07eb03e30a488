package restful

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wampcore/pkg/common/logger"
)

// Server wraps gin.Engine with graceful shutdown support
type Server struct {
	Engine       *gin.Engine
	httpServer   *http.Server
	listener     net.Listener
	addr         string
	shutdownDur  time.Duration
	maxBodyBytes int64
}

// Option pattern for server configuration
type Option func(*Server)

func WithAddress(addr string) Option             { return func(s *Server) { s.addr = addr } }
func WithShutdownTimeout(d time.Duration) Option { return func(s *Server) { s.shutdownDur = d } }

// WithMaxBodyBytes caps request bodies; larger uploads fail with 413.
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.maxBodyBytes = n } }

// NewServer creates a new RESTful server instance
func NewServer(opts ...Option) *Server {
	s := &Server{
		addr:         ":8080",
		shutdownDur:  5 * time.Second,
		maxBodyBytes: 8 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}

	g := gin.New()
	g.Use(RecoveryWithLogger())
	g.Use(CORSMiddleware())
	g.Use(RequestLogger())
	g.Use(BodyLimit(s.maxBodyBytes))
	// direct gin internal output to zerolog
	gin.DefaultWriter = zerologWriter{}
	gin.DefaultErrorWriter = zerologWriter{}

	s.Engine = g
	s.httpServer = &http.Server{Addr: s.addr, Handler: s.Engine}
	return s
}

// zerologWriter adapts gin's writer to zerolog
type zerologWriter struct{}

func (zerologWriter) Write(p []byte) (int, error) {
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		logger.WithComponent("http").Info().Msg(msg)
	}
	return len(p), nil
}

// RecoveryWithLogger routes recovered panics to zerolog.
func RecoveryWithLogger() gin.HandlerFunc {
	return gin.RecoveryWithWriter(zerologWriter{})
}

// Start binds the listen address and serves in the background. Bind errors
// are returned directly.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.listener = ln
	go func() {
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithComponent("http").Error().Err(err).Msg("server error")
		}
	}()
	logger.WithComponent("http").Info().Str("addr", ln.Addr().String()).Msg("REST server started")
	return nil
}

// Addr returns the bound address once started, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, s.shutdownDur)
	defer cancel()
	return s.httpServer.Shutdown(ctxTimeout)
}

// RequestLogger logs basic request info
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.WithComponent("http").Info().
			Int("status", c.Writer.Status()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// BodyLimit wraps request bodies in http.MaxBytesReader.
func BodyLimit(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if n > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		}
		c.Next()
	}
}

// CORSMiddleware handles Cross-Origin Resource Sharing
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// ErrorBody is the JSON shape of every API error.
type ErrorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// Fail aborts the request with status and an ErrorBody. A body over the
// BodyLimit is reported as 413 regardless of status.
func Fail(c *gin.Context, status int, kind string, err error) {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		status = http.StatusRequestEntityTooLarge
		kind = "too_large"
	}
	c.AbortWithStatusJSON(status, ErrorBody{Error: err.Error(), Kind: kind})
}
