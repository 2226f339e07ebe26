package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
	"github.com/google/uuid"
)

type usersRepo struct {
	s  *store
	tx *txLog
}

func (r *usersRepo) Create(_ context.Context, user *models.User) (*models.User, error) {
	defer r.s.lock(r.tx)()

	if _, taken := r.s.byEmail[user.Email]; taken {
		return nil, common.ErrorAlreadyExists
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if _, taken := r.s.users[user.ID]; taken {
		return nil, common.ErrorAlreadyExists
	}
	user.CreatedAt = time.Now().UTC()

	stored := cloneUser(user)
	r.s.users[stored.ID] = stored
	r.s.byEmail[stored.Email] = stored.ID
	record(r.tx, func() {
		delete(r.s.users, stored.ID)
		delete(r.s.byEmail, stored.Email)
	})
	return user, nil
}

func (r *usersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	defer r.s.lock(r.tx)()

	id, ok := r.s.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(r.s.users[id]), nil
}

func (r *usersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	defer r.s.lock(r.tx)()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return cloneUser(u), nil
}
