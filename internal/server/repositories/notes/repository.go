// Package notes persists user notes. Every operation is scoped to an owner.
package notes

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

type Repository interface {
	// Save inserts note, or updates it when a note with the same ID already
	// belongs to note.OwnerID. An ID owned by someone else yields
	// common.ErrorNotFound.
	Save(ctx context.Context, note *models.Note) (*models.Note, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Note, error)
	GetByID(ctx context.Context, id string) (*models.Note, error)
	// Delete removes the note only if ownerID owns it; otherwise
	// common.ErrorNotFound.
	Delete(ctx context.Context, id, ownerID string) error
}
