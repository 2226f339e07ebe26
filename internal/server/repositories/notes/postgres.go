package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/dbx"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements note storage over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Save upserts by ID. The conflict update only fires for the same owner, so
// a foreign ID returns no row.
func (r *PostgresRepository) Save(ctx context.Context, note *models.Note) (*models.Note, error) {
	if note.ID == "" {
		note.ID = uuid.NewString()
	}

	query := `
		INSERT INTO notes (id, owner_id, title, content, color)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id)
		DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			color = EXCLUDED.color
			WHERE notes.owner_id = EXCLUDED.owner_id
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, note.ID, note.OwnerID, note.Title, note.Content, note.Color).Scan(&note.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return note, nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Note, error) {
	query := `
		SELECT id, owner_id, title, content, color, created_at FROM notes
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to select notes: %w", err)
	}
	defer rows.Close()

	result := []*models.Note{}
	for rows.Next() {
		var item models.Note
		if err := rows.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Content, &item.Color, &item.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Note, error) {
	query := `
		SELECT id, owner_id, title, content, color, created_at FROM notes
		WHERE id = $1
	`
	var item models.Note
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&item.ID, &item.OwnerID, &item.Title, &item.Content, &item.Color, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &item, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := `
		DELETE FROM notes
		WHERE id = $1 AND owner_id = $2
	`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
