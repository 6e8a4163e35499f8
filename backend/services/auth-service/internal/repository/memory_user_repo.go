package repository

import (
	"context"
	"sync"
	"time"

	"evcharge/backend/services/auth-service/internal/models"
)

// MemoryUserRepository keeps users in process memory. Used when no database is configured.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byEmail map[string]models.User
	now     func() time.Time
}

// NewMemoryUserRepository returns an empty repository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{byEmail: make(map[string]models.User), now: time.Now}
}

// Create stores user unless the email is taken.
func (r *MemoryUserRepository) Create(_ context.Context, user *models.User) error {
	user.Email = normalizeEmail(user.Email)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[user.Email]; ok {
		return ErrDuplicateEmail
	}
	user.CreatedAt = r.now().UTC()
	r.byEmail[user.Email] = *user
	return nil
}

// GetByEmail fetches a user by email.
func (r *MemoryUserRepository) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &user, nil
}
