package httpserver

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/validation"
	"github.com/labstack/echo/v4"
)

type noteRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	Color   int64  `json:"color"`
}

type noteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Color     int64     `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

func toNoteResponse(n *models.Note) noteResponse {
	return noteResponse{ID: n.ID, Title: n.Title, Content: n.Content, Color: n.Color, CreatedAt: n.CreatedAt}
}

func (s *Server) listNotes(c echo.Context) error {
	list, err := s.notes.List(c.Request().Context(), currentUser(c))
	if err != nil {
		return err
	}

	out := make([]noteResponse, 0, len(list))
	for _, n := range list {
		out = append(out, toNoteResponse(n))
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) saveNote(c echo.Context) error {
	var req noteRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := validation.Note(req.Title); err != nil {
		return err
	}

	saved, err := s.notes.Save(c.Request().Context(), &models.Note{
		ID:      req.ID,
		OwnerID: currentUser(c),
		Title:   req.Title,
		Content: req.Content,
		Color:   req.Color,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoteResponse(saved))
}

func (s *Server) deleteNote(c echo.Context) error {
	if err := s.notes.Delete(c.Request().Context(), currentUser(c), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
