package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"messpay/internal/core/domain"
)

// userRepository implements UserRepository interface
type userRepository struct {
	store Store
}

// NewUserRepository creates a new user repository
func NewUserRepository(store Store) UserRepository {
	return &userRepository{store: store}
}

// GetUser gets the persisted user, nil when nobody is logged in
func (r *userRepository) GetUser(ctx context.Context) (*domain.User, error) {
	var user domain.User
	found, err := getJSON(ctx, r.store, KeyUser, &user)
	if err != nil || !found {
		return nil, err
	}
	return &user, nil
}

// SaveUser persists the user
func (r *userRepository) SaveUser(ctx context.Context, user *domain.User) error {
	return setJSON(ctx, r.store, KeyUser, user)
}

// ClearUser removes the persisted user
func (r *userRepository) ClearUser(ctx context.Context) error {
	return r.store.Remove(ctx, KeyUser)
}

// GetRole gets the persisted role; the record is a plain string
func (r *userRepository) GetRole(ctx context.Context) (domain.Role, error) {
	raw, err := r.store.Get(ctx, KeyRole)
	if err != nil {
		return "", fmt.Errorf("get %s: %w", KeyRole, err)
	}
	return domain.Role(raw), nil
}

// SaveRole persists the role
func (r *userRepository) SaveRole(ctx context.Context, role domain.Role) error {
	if err := r.store.Set(ctx, KeyRole, []byte(role)); err != nil {
		return fmt.Errorf("set %s: %w", KeyRole, err)
	}
	return nil
}

// ClearRole removes the persisted role
func (r *userRepository) ClearRole(ctx context.Context) error {
	return r.store.Remove(ctx, KeyRole)
}

// ClearAll removes user, wallet, orders and role in one call
func (r *userRepository) ClearAll(ctx context.Context) error {
	return r.store.RemoveAll(ctx, SessionKeys)
}

// getJSON decodes the record under key into dst; found is false when the key is absent
func getJSON(ctx context.Context, store Store, key string, dst interface{}) (bool, error) {
	raw, err := store.Get(ctx, key)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// setJSON encodes src and writes it as one record under key
func setJSON(ctx context.Context, store Store, key string, src interface{}) error {
	raw, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := store.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
