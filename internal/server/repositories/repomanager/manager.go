// Package repomanager hands out the repositories of one storage backend and
// runs groups of repository calls in a single transaction.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Ping(ctx context.Context) error

	Users() users.Repository
	RefreshTokens() refreshtokens.Repository
	Notes() notes.Repository

	// WithTx calls fn with a manager whose repositories share one
	// transaction. It commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx RepositoryManager) error) error

	Close() error
}
