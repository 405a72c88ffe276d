package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/inkwell-app/inkwell/internal/apperr"
	"github.com/inkwell-app/inkwell/internal/server/models"
)

// InMemoryRepository is a mutex-guarded user store for development and tests.
// The uniqueness check and insert run under one lock, so Create is atomic
// with respect to concurrent callers.
type InMemoryRepository struct {
	mu         sync.RWMutex
	byID       map[string]*models.User
	byUsername map[string]string
	byEmail    map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:       make(map[string]*models.User),
		byUsername: make(map[string]string),
		byEmail:    make(map[string]string),
	}
}

func clone(u *models.User) *models.User {
	c := *u
	return &c
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUsername[strings.ToLower(user.Username)]; ok {
		return nil, apperr.Duplicate("username already taken")
	}
	if _, ok := r.byEmail[strings.ToLower(user.Email)]; ok {
		return nil, apperr.Duplicate("email already registered")
	}

	stored := clone(user)
	if stored.ID == "" {
		stored.ID = uuid.NewString()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	r.byID[stored.ID] = stored
	r.byUsername[strings.ToLower(stored.Username)] = stored.ID
	r.byEmail[strings.ToLower(stored.Email)] = stored.ID

	return clone(stored), nil
}

func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return clone(user), nil
}

func (r *InMemoryRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	key := strings.ToLower(identifier)
	if id, ok := r.byUsername[key]; ok {
		return clone(r.byID[id]), nil
	}
	if id, ok := r.byEmail[key]; ok {
		return clone(r.byID[id]), nil
	}
	return nil, apperr.NotFound("user not found")
}

func (r *InMemoryRepository) Update(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[user.ID]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}

	newName := strings.ToLower(user.Username)
	oldName := strings.ToLower(stored.Username)
	if newName != oldName {
		if _, taken := r.byUsername[newName]; taken {
			return nil, apperr.Duplicate("username already taken")
		}
		delete(r.byUsername, oldName)
		r.byUsername[newName] = stored.ID
	}

	stored.Username = user.Username
	stored.Bio = user.Bio
	stored.Avatar = user.Avatar

	return clone(stored), nil
}

func (r *InMemoryRepository) SetActive(ctx context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return apperr.NotFound("user not found")
	}
	stored.Active = active
	return nil
}
