package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

type notesRepo struct {
	s  *store
	tx *txLog
}

func (r *notesRepo) Save(_ context.Context, note *models.Note) (*models.Note, error) {
	defer r.s.lock(r.tx)()

	if note.ID == "" {
		note.ID = uuid.NewString()
	}

	prev, exists := r.s.notes[note.ID]
	switch {
	case exists && prev.OwnerID != note.OwnerID:
		return nil, common.ErrorNotFound
	case exists:
		note.CreatedAt = prev.CreatedAt
		record(r.tx, func() { r.s.notes[prev.ID] = prev })
	default:
		note.CreatedAt = time.Now().UTC()
		id := note.ID
		record(r.tx, func() { delete(r.s.notes, id) })
	}

	r.s.notes[note.ID] = cloneNote(note)
	return note, nil
}

// ListByOwner returns newest first.
func (r *notesRepo) ListByOwner(_ context.Context, ownerID string) ([]*models.Note, error) {
	defer r.s.lock(r.tx)()

	result := []*models.Note{}
	for _, n := range r.s.notes {
		if n.OwnerID == ownerID {
			result = append(result, cloneNote(n))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *notesRepo) GetByID(_ context.Context, id string) (*models.Note, error) {
	defer r.s.lock(r.tx)()

	n, ok := r.s.notes[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneNote(n), nil
}

func (r *notesRepo) Delete(_ context.Context, id, ownerID string) error {
	defer r.s.lock(r.tx)()

	n, ok := r.s.notes[id]
	if !ok || n.OwnerID != ownerID {
		return common.ErrorNotFound
	}
	delete(r.s.notes, id)
	record(r.tx, func() { r.s.notes[id] = n })
	return nil
}
