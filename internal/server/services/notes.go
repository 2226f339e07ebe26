package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NotesService scopes every operation to the calling user.
type NotesService struct {
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewNotesService(m repomanager.RepositoryManager, log logging.Logger) *NotesService {
	return &NotesService{repomanager: m, log: log.With("service", "notes")}
}

// Save creates a note, or updates it when note.ID names one of the owner's
// notes. IDs that are malformed or belong to someone else yield
// common.ErrorNotFound.
func (s *NotesService) Save(ctx context.Context, note *models.Note) (*models.Note, error) {
	if note.ID != "" {
		if _, err := uuid.Parse(note.ID); err != nil {
			return nil, common.ErrorNotFound
		}
	}

	saved, err := s.repomanager.Notes().Save(ctx, note)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.warnForeign(ctx, note.ID, note.OwnerID, "save")
		}
		return nil, err
	}
	s.log.Debug(ctx, "note saved", "note_id", saved.ID, "user_id", saved.OwnerID)
	return saved, nil
}

func (s *NotesService) List(ctx context.Context, ownerID string) ([]*models.Note, error) {
	list, err := s.repomanager.Notes().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return list, nil
}

func (s *NotesService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}
	if err := s.repomanager.Notes().Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.warnForeign(ctx, id, ownerID, "delete")
		}
		return err
	}
	s.log.Debug(ctx, "note deleted", "note_id", id, "user_id", ownerID)
	return nil
}

// warnForeign logs when a rejected note ID exists but belongs to another user.
func (s *NotesService) warnForeign(ctx context.Context, id, userID, op string) {
	n, err := s.repomanager.Notes().GetByID(ctx, id)
	if err != nil || n.OwnerID == userID {
		return
	}
	s.log.Warn(ctx, "note access by non-owner", "op", op, "note_id", id, "user_id", userID)
}
