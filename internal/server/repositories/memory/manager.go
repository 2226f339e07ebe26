// Package memory is an in-process storage backend. It implements the same
// repository contracts as the PostgreSQL backend and is used for local runs
// and tests. Data is lost on exit.
package memory

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/notes"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/notekeeper/internal/server/repositories/users"
)

// store is shared by a manager and every transactional view of it. All
// access goes through mu. gate is held by a running transaction for its whole
// duration and by every call made outside one, so no other request observes
// a transaction's changes before it commits or is rolled back.
type store struct {
	gate    sync.Mutex
	mu      sync.Mutex
	users   map[string]*models.User
	byEmail map[string]string
	tokens  map[string]*models.RefreshToken
	notes   map[string]*models.Note
}

// txLog collects undo steps of one transaction. Steps run under store.mu.
type txLog struct {
	undo []func()
}

// Manager is a repomanager.RepositoryManager kept entirely in memory.
type Manager struct {
	s  *store
	tx *txLog
}

var _ repomanager.RepositoryManager = (*Manager)(nil)

func NewManager() *Manager {
	return &Manager{s: &store{
		users:   map[string]*models.User{},
		byEmail: map[string]string{},
		tokens:  map[string]*models.RefreshToken{},
		notes:   map[string]*models.Note{},
	}}
}

func (m *Manager) Users() users.Repository                 { return &usersRepo{s: m.s, tx: m.tx} }
func (m *Manager) RefreshTokens() refreshtokens.Repository { return &tokensRepo{s: m.s, tx: m.tx} }
func (m *Manager) Notes() notes.Repository                 { return &notesRepo{s: m.s, tx: m.tx} }

func (m *Manager) RunMigrations(context.Context) error { return nil }
func (m *Manager) Ping(context.Context) error          { return nil }
func (m *Manager) Close() error                        { return nil }

// WithTx runs fn with the store to itself. Changes are applied as fn goes
// and undone in reverse order when fn fails or panics, which restores
// consumed refresh records and drops rows the failed transaction created.
// Concurrent callers wait until the transaction has finished.
func (m *Manager) WithTx(ctx context.Context, fn func(ctx context.Context, tx repomanager.RepositoryManager) error) (err error) {
	if m.tx != nil {
		return fn(ctx, m)
	}

	m.s.gate.Lock()
	defer m.s.gate.Unlock()

	log := &txLog{}
	defer func() {
		if p := recover(); p != nil {
			m.rollback(log)
			panic(p)
		}
		if err != nil {
			m.rollback(log)
		}
	}()

	return fn(ctx, &Manager{s: m.s, tx: log})
}

func (m *Manager) rollback(log *txLog) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	for i := len(log.undo) - 1; i >= 0; i-- {
		log.undo[i]()
	}
}

// lock acquires the store for one repository call. Calls outside a
// transaction also wait on the gate; calls inside one already hold it.
func (s *store) lock(tx *txLog) (unlock func()) {
	if tx == nil {
		s.gate.Lock()
	}
	s.mu.Lock()
	return func() {
		s.mu.Unlock()
		if tx == nil {
			s.gate.Unlock()
		}
	}
}

// record must be called with store.mu held.
func record(tx *txLog, undo func()) {
	if tx != nil {
		tx.undo = append(tx.undo, undo)
	}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	return &c
}

func cloneToken(t *models.RefreshToken) *models.RefreshToken {
	c := *t
	return &c
}

func cloneNote(n *models.Note) *models.Note {
	c := *n
	return &c
}
