package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/notes-service/internal/api/metrics"
	"github.com/99minutos/notes-service/internal/core/domain"
	"github.com/99minutos/notes-service/internal/core/ports"
)

// NoteHandler handles the notes of the authenticated user.
type NoteHandler struct {
	service ports.NoteService
}

func NewNoteHandler(service ports.NoteService) *NoteHandler {
	return &NoteHandler{service: service}
}

// Create handles POST /note.
//
// @Summary      Create a note
// @Tags         notes
// @Accept       json
// @Produce      json
// @Security     CookieAuth
// @Param        body  body      createNoteRequest  true  "Note body"
// @Success      201   {object}  noteResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /note [post]
func (h *NoteHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createNoteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	note, err := h.service.Create(c.Request().Context(), identity.ID, req.Body)
	if err != nil {
		return err
	}

	metrics.NotesCreatedTotal.Inc()
	return c.JSON(http.StatusCreated, toNoteResponse(note))
}

// List handles GET /note.
//
// @Summary      List my notes, newest first
// @Tags         notes
// @Produce      json
// @Security     CookieAuth
// @Success      200  {array}   noteResponse
// @Failure      401  {object}  errorResponse
// @Router       /note [get]
func (h *NoteHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	notes, err := h.service.ListForOwner(c.Request().Context(), identity.ID)
	if err != nil {
		return err
	}

	items := make([]noteResponse, 0, len(notes))
	for _, n := range notes {
		items = append(items, toNoteResponse(n))
	}
	metrics.NotesListedSize.Observe(float64(len(items)))
	return c.JSON(http.StatusOK, items)
}

func toNoteResponse(n *domain.Note) noteResponse {
	return noteResponse{
		ID:        n.ID,
		Body:      n.Body,
		AuthorID:  n.AuthorID,
		CreatedAt: n.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: n.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}
