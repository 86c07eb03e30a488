// Package inspect serves the frame inspector HTTP API.
package inspect

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"wampcore/pkg/capture"
	"wampcore/pkg/common/worker"
	"wampcore/pkg/conformance"
	"wampcore/pkg/wamp"
)

// Dispatcher routes a decoded frame to local handlers.
type Dispatcher interface {
	Dispatch(ctx context.Context, frame []any) (wamp.Message, error)
}

// Handler holds the collaborators of the inspector routes. Store and
// Archive may be nil, in which case nothing is recorded and the capture
// routes answer 503.
type Handler struct {
	store      *capture.Store
	archive    *capture.Archive
	pool       *worker.Pool
	dispatcher Dispatcher
	local      *conformance.Checker
	strictURIs bool
}

// Option configures a Handler.
type Option func(*Handler)

func WithStore(s *capture.Store) Option     { return func(h *Handler) { h.store = s } }
func WithArchive(a *capture.Archive) Option { return func(h *Handler) { h.archive = a } }
func WithPool(p *worker.Pool) Option        { return func(h *Handler) { h.pool = p } }
func WithDispatcher(d Dispatcher) Option    { return func(h *Handler) { h.dispatcher = d } }
func WithStrictURIs(strict bool) Option     { return func(h *Handler) { h.strictURIs = strict } }

// WithLocalRoles checks decoded frames that name no role as received by a
// peer holding c's roles.
func WithLocalRoles(c *conformance.Checker) Option { return func(h *Handler) { h.local = c } }

// New builds a Handler.
func New(opts ...Option) *Handler {
	h := &Handler{}
	for _, opt := range opts {
		opt(h)
	}
	if h.pool == nil {
		h.pool = worker.Default()
	}
	return h
}

// RegisterRoutes registers frame, role and capture routes under rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	frames := rg.Group("/frames")
	frames.POST("/decode", h.decodeHandler)
	frames.POST("/batch", h.batchHandler)
	frames.POST("/check", h.checkHandler)
	frames.POST("/dispatch", h.dispatchHandler)

	rg.GET("/roles", h.rolesHandler)
	rg.GET("/roles/:role", h.roleHandler)
	rg.GET("/types", h.typesHandler)

	captures := rg.Group("/captures")
	captures.GET("", h.listHandler)
	captures.GET("/stats", h.statsHandler)
	captures.GET("/archives", h.archivesHandler)
	captures.GET("/archive/:name", h.downloadHandler)
	captures.POST("/export", h.exportHandler)
	captures.POST("/import", h.importHandler)
	captures.GET("/:id", h.getHandler)
}

// FrameResult is the API view of one inspected frame.
type FrameResult struct {
	ID        uint       `json:"id,omitempty"`
	Tag       uint64     `json:"tag"`
	Type      string     `json:"type"`
	Known     bool       `json:"known"`
	Canonical string     `json:"canonical,omitempty"`
	Error     string     `json:"error,omitempty"`
	ErrorKind string     `json:"error_kind,omitempty"`
	URIIssues []URIIssue `json:"uri_issues,omitempty"`
}

func (h *Handler) result(rec *capture.FrameRecord, msg wamp.Message) FrameResult {
	res := FrameResult{
		ID:        rec.ID,
		Tag:       rec.Tag,
		Type:      rec.TypeName,
		Known:     rec.Known,
		Canonical: rec.Canonical,
		Error:     rec.ErrorText,
		ErrorKind: rec.ErrorKind,
	}
	if msg != nil {
		res.URIIssues = CheckURIs(msg, h.strictURIs)
	}
	return res
}

func readBody(c *gin.Context) ([]byte, bool) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		fail(c, http.StatusBadRequest, "read_body", err)
		return nil, false
	}
	return body, true
}

func (h *Handler) record(ctx context.Context, rec *capture.FrameRecord) {
	if h.store == nil {
		return
	}
	if err := h.store.Record(ctx, rec); err != nil {
		log().Error().Err(err).Msg("record frame failed")
	}
}
