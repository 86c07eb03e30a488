package inspect

import (
	"errors"
	"fmt"
	"io"
	iofs "io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"wampcore/pkg/capture"
	"wampcore/pkg/common/file"
)

var errNoStore = errors.New("capture store not configured")

func (h *Handler) requireStore(c *gin.Context) bool {
	if h.store == nil {
		fail(c, http.StatusServiceUnavailable, "unavailable", errNoStore)
		return false
	}
	return true
}

func (h *Handler) requireArchive(c *gin.Context) bool {
	if h.archive == nil {
		fail(c, http.StatusServiceUnavailable, "unavailable", errNoStore)
		return false
	}
	return true
}

func (h *Handler) listHandler(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}
	if pageSize > 500 {
		pageSize = 500
	}

	var f capture.Filter
	if s := c.Query("tag"); s != "" {
		tag, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			fail(c, http.StatusBadRequest, "bad_tag", fmt.Errorf("tag must be an unsigned integer: %w", err))
			return
		}
		f.Tag = &tag
	}
	f.FailedOnly = c.Query("failed") == "true"

	recs, total, err := h.store.List(c.Request.Context(), f, pageSize, (page-1)*pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, "store", err)
		return
	}
	pages := (total + int64(pageSize) - 1) / int64(pageSize)
	log().Info().Int("count", len(recs)).Int64("total", total).Int("page", page).Int("page_size", pageSize).Msg("captures listed paginated")
	c.JSON(http.StatusOK, gin.H{"captures": recs, "count": len(recs), "total": total, "page": page, "page_size": pageSize, "pages": pages})
}

func (h *Handler) getHandler(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		fail(c, http.StatusBadRequest, "bad_id", fmt.Errorf("invalid capture id %q", c.Param("id")))
		return
	}
	rec, err := h.store.Get(c.Request.Context(), uint(id))
	if errors.Is(err, capture.ErrNotFound) {
		fail(c, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "store", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *Handler) statsHandler(c *gin.Context) {
	if !h.requireStore(c) {
		return
	}
	st, err := h.store.Stats(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "store", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) exportHandler(c *gin.Context) {
	if !h.requireArchive(c) {
		return
	}
	name, n, err := h.archive.Export(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, "export", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"name": name, "frames": n})
}

func (h *Handler) archivesHandler(c *gin.Context) {
	if !h.requireArchive(c) {
		return
	}
	names, err := h.archive.List()
	if err != nil {
		fail(c, http.StatusInternalServerError, "archive", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"archives": names, "count": len(names)})
}

func (h *Handler) downloadHandler(c *gin.Context) {
	if !h.requireArchive(c) {
		return
	}
	name := c.Param("name")
	data, err := h.archive.Open(name)
	if errors.Is(err, iofs.ErrNotExist) {
		fail(c, http.StatusNotFound, "not_found", err)
		return
	}
	if err != nil {
		fail(c, http.StatusBadRequest, "archive", err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, file.DetectMIME(data), data)
}

// importHandler accepts an archive either as a multipart "file" field or as
// the raw request body.
func (h *Handler) importHandler(c *gin.Context) {
	if !h.requireArchive(c) {
		return
	}
	var data []byte
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			fail(c, http.StatusBadRequest, "read_body", err)
			return
		}
		f, err := fh.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, "read_body", err)
			return
		}
		defer f.Close()
		if data, err = io.ReadAll(f); err != nil {
			fail(c, http.StatusBadRequest, "read_body", err)
			return
		}
	} else {
		var ok bool
		if data, ok = readBody(c); !ok {
			return
		}
	}

	res, err := h.archive.Import(c.Request.Context(), data)
	if errors.Is(err, capture.ErrUnsupported) {
		fail(c, http.StatusUnsupportedMediaType, "unsupported", err)
		return
	}
	if err != nil {
		fail(c, http.StatusInternalServerError, "import", err)
		return
	}
	c.JSON(http.StatusOK, res)
}
