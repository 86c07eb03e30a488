package inspect

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"wampcore/pkg/capture"
	"wampcore/pkg/common/logger"
	"wampcore/pkg/common/restful"
	"wampcore/pkg/conformance"
	"wampcore/pkg/process"
	"wampcore/pkg/wamp"
)

func log() *zerolog.Logger { return logger.WithComponent("inspect") }

func fail(c *gin.Context, status int, kind string, err error) {
	restful.Fail(c, status, kind, err)
}

// statusOf maps dispatch and codec failures to HTTP statuses.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, wamp.ErrRoleViolation):
		return http.StatusForbidden, "role_violation"
	case errors.Is(err, process.ErrNoHandler):
		return http.StatusNotImplemented, "no_handler"
	case errors.Is(err, process.ErrNotStarted), errors.Is(err, process.ErrStopped):
		return http.StatusServiceUnavailable, "unavailable"
	}
	if kind := wamp.KindOf(err); kind != "" {
		return http.StatusUnprocessableEntity, kind
	}
	return http.StatusInternalServerError, "internal"
}

func (h *Handler) decodeHandler(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	rec, msg := capture.Analyze(body, capture.SourceAPI)
	if role := c.Query("role"); role != "" && msg != nil {
		r, err := wamp.ParseRole(role)
		if err != nil {
			fail(c, http.StatusBadRequest, "bad_role", err)
			return
		}
		send := c.DefaultQuery("direction", "receive") == "send"
		rec.SetVerdict(r.String(), send, checkRole(r, msg, send) == nil)
	} else if h.local != nil && msg != nil {
		rec.SetVerdict(roleNames(h.local.Roles), false, h.local.CheckReceive(msg) == nil)
	}
	h.record(c.Request.Context(), rec)

	status := http.StatusOK
	if rec.Failed() {
		status = http.StatusUnprocessableEntity
	}
	log().Debug().Str("type", rec.TypeName).Uint64("tag", rec.Tag).Bool("failed", rec.Failed()).Msg("frame decoded")
	c.JSON(status, gin.H{"frame": h.result(rec, msg), "permitted": rec.Permitted})
}

func (h *Handler) batchHandler(c *gin.Context) {
	body, ok := readBody(c)
	if !ok {
		return
	}
	var frames []json.RawMessage
	if err := json.Unmarshal(body, &frames); err != nil {
		fail(c, http.StatusBadRequest, "bad_batch", fmt.Errorf("batch must be a JSON array of frames: %w", err))
		return
	}

	recs := make([]*capture.FrameRecord, len(frames))
	results := make([]FrameResult, len(frames))
	msgs := make([]wamp.Message, len(frames))
	if err := h.pool.Map(c.Request.Context(), len(frames), func(i int) {
		recs[i], msgs[i] = capture.Analyze(frames[i], capture.SourceBatch)
	}); err != nil {
		fail(c, http.StatusServiceUnavailable, "pool", err)
		return
	}
	if h.store != nil {
		if err := h.store.RecordAll(c.Request.Context(), recs); err != nil {
			fail(c, http.StatusInternalServerError, "store", err)
			return
		}
	}
	failed := 0
	for i, rec := range recs {
		if rec.Failed() {
			failed++
		}
		results[i] = h.result(rec, msgs[i])
	}
	log().Info().Int("count", len(frames)).Int("failed", failed).Msg("batch decoded")
	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results), "failed": failed})
}

func roleNames(roles []wamp.Role) string {
	names := make([]string, len(roles))
	for i, r := range roles {
		names[i] = r.String()
	}
	return strings.Join(names, ",")
}

func checkRole(r wamp.Role, msg wamp.Message, send bool) error {
	checker := conformance.New(r)
	if send {
		return checker.CheckSend(msg)
	}
	return checker.CheckReceive(msg)
}

func (h *Handler) checkHandler(c *gin.Context) {
	r, err := wamp.ParseRole(c.Query("role"))
	if err != nil {
		fail(c, http.StatusBadRequest, "bad_role", err)
		return
	}
	direction := strings.ToLower(c.DefaultQuery("direction", "receive"))
	if direction != "send" && direction != "receive" {
		fail(c, http.StatusBadRequest, "bad_direction", fmt.Errorf("direction must be send or receive, got %q", direction))
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	rec, msg := capture.Analyze(body, capture.SourceAPI)
	if msg == nil {
		h.record(c.Request.Context(), rec)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"frame": h.result(rec, nil)})
		return
	}

	send := direction == "send"
	verr := checkRole(r, msg, send)
	rec.SetVerdict(r.String(), send, verr == nil)
	h.record(c.Request.Context(), rec)

	resp := gin.H{
		"type":      rec.TypeName,
		"tag":       rec.Tag,
		"role":      r.String(),
		"direction": direction,
		"permitted": verr == nil,
	}
	if verr != nil {
		resp["error"] = verr.Error()
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) dispatchHandler(c *gin.Context) {
	if h.dispatcher == nil {
		fail(c, http.StatusServiceUnavailable, "unavailable", errors.New("no dispatcher configured"))
		return
	}
	body, ok := readBody(c)
	if !ok {
		return
	}
	frame, err := wamp.ParseFrame(body)
	if err != nil {
		fail(c, http.StatusUnprocessableEntity, wamp.KindOf(err), err)
		return
	}
	reply, err := h.dispatcher.Dispatch(c.Request.Context(), frame)
	if err != nil {
		status, kind := statusOf(err)
		fail(c, status, kind, err)
		return
	}
	if reply == nil {
		c.JSON(http.StatusOK, gin.H{"reply": nil})
		return
	}
	out, err := wamp.Marshal(reply)
	if err != nil {
		fail(c, http.StatusInternalServerError, wamp.KindOf(err), err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": json.RawMessage(out), "type": wamp.NameOf(reply.Type())})
}

// RoleEntry is one row of a role's view of the matrix.
type RoleEntry struct {
	Type    string `json:"type"`
	Tag     uint64 `json:"tag"`
	Send    bool   `json:"send"`
	Receive bool   `json:"receive"`
}

func roleTable(r wamp.Role) []RoleEntry {
	types := wamp.Types()
	out := make([]RoleEntry, 0, len(types))
	for _, t := range types {
		d := wamp.DirectionOf(r, t)
		out = append(out, RoleEntry{Type: wamp.NameOf(t), Tag: uint64(t), Send: d.Send, Receive: d.Receive})
	}
	return out
}

func (h *Handler) rolesHandler(c *gin.Context) {
	roles := wamp.Roles()
	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.String())
	}
	c.JSON(http.StatusOK, gin.H{"roles": names})
}

func (h *Handler) roleHandler(c *gin.Context) {
	r, err := wamp.ParseRole(c.Param("role"))
	if err != nil {
		fail(c, http.StatusNotFound, "bad_role", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": r.String(), "router": r.IsRouter(), "messages": roleTable(r)})
}

func (h *Handler) typesHandler(c *gin.Context) {
	types := wamp.Types()
	resp := make([]gin.H, 0, len(types))
	for _, t := range types {
		resp = append(resp, gin.H{"tag": uint64(t), "type": wamp.NameOf(t), "name": t.String()})
	}
	c.JSON(http.StatusOK, gin.H{"types": resp, "count": len(resp)})
}
