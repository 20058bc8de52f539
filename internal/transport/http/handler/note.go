package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"notekeeper/internal/app"
	"notekeeper/internal/observability"
	"notekeeper/internal/transport/http/middleware"
	"notekeeper/internal/transport/http/response"
)

type NoteHandler struct {
	notes   *app.NoteService
	metrics *observability.Metrics
	logger  *slog.Logger
}

func NewNoteHandler(notes *app.NoteService, metrics *observability.Metrics, logger *slog.Logger) *NoteHandler {
	return &NoteHandler{
		notes:   notes,
		metrics: metrics,
		logger:  logger,
	}
}

func (h *NoteHandler) List(c *gin.Context) {
	user := middleware.CurrentUser(c)
	page := queryInt(c, "page", 1)
	perPage := queryInt(c, "per_page", 10)

	result, err := h.notes.List(c.Request.Context(), user.ID, page, perPage)
	if err != nil {
		h.fail(c, "list notes failed", err)
		return
	}

	items := make([]noteResponse, 0, len(result.Items))
	for i := range result.Items {
		items = append(items, toNoteResponse(&result.Items[i]))
	}
	response.OK(c, notePageResponse{
		Items:   items,
		Page:    result.Page,
		PerPage: result.PerPage,
		Total:   result.Total,
		Pages:   result.Pages,
	})
}

func (h *NoteHandler) Create(c *gin.Context) {
	user := middleware.CurrentUser(c)
	data := readObject(c)
	title, _ := stringField(data, "title")
	content, _ := stringField(data, "content")

	note, err := h.notes.Create(c.Request.Context(), user.ID, app.CreateNoteInput{
		Title:   title,
		Content: content,
	})
	if err != nil {
		var verr *app.ValidationError
		if errors.As(err, &verr) {
			response.Errors(c, http.StatusBadRequest, verr.Messages)
			return
		}
		h.fail(c, "create note failed", err)
		return
	}

	h.metrics.NoteOperation("create")
	response.Created(c, toNoteResponse(note))
}

func (h *NoteHandler) Update(c *gin.Context) {
	user := middleware.CurrentUser(c)
	noteID, ok := noteIDParam(c)
	if !ok {
		response.Error(c, http.StatusNotFound, response.MsgNoteNotFound)
		return
	}

	data := readObject(c)
	var input app.UpdateNoteInput
	if title, ok := stringField(data, "title"); ok {
		input.Title = &title
	}
	if content, ok := stringField(data, "content"); ok {
		input.Content = &content
	}

	note, err := h.notes.Update(c.Request.Context(), user.ID, noteID, input)
	if err != nil {
		if errors.Is(err, app.ErrNoteNotFound) {
			response.Error(c, http.StatusNotFound, response.MsgNoteNotFound)
			return
		}
		h.fail(c, "update note failed", err)
		return
	}

	h.metrics.NoteOperation("update")
	response.OK(c, toNoteResponse(note))
}

func (h *NoteHandler) Delete(c *gin.Context) {
	user := middleware.CurrentUser(c)
	noteID, ok := noteIDParam(c)
	if !ok {
		response.Error(c, http.StatusNotFound, response.MsgNoteNotFound)
		return
	}

	if err := h.notes.Delete(c.Request.Context(), user.ID, noteID); err != nil {
		if errors.Is(err, app.ErrNoteNotFound) {
			response.Error(c, http.StatusNotFound, response.MsgNoteNotFound)
			return
		}
		h.fail(c, "delete note failed", err)
		return
	}

	h.metrics.NoteOperation("delete")
	response.NoContent(c)
}

func (h *NoteHandler) fail(c *gin.Context, msg string, err error) {
	h.logger.ErrorContext(c.Request.Context(), msg, "error", err)
	response.Internal(c)
}

// queryInt falls back when the parameter is absent or not an integer.
func queryInt(c *gin.Context, key string, fallback int) int {
	raw, ok := c.GetQuery(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func noteIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}
