package repositories

import (
	"context"

	"messpay/internal/core/domain"
)

// catalogRepository implements CatalogRepository interface
type catalogRepository struct {
	store Store
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(store Store) CatalogRepository {
	return &catalogRepository{store: store}
}

// ListMesses lists all messes
func (r *catalogRepository) ListMesses(ctx context.Context) ([]domain.Mess, error) {
	messes := []domain.Mess{}
	if _, err := getJSON(ctx, r.store, KeyMesses, &messes); err != nil {
		return nil, err
	}
	return messes, nil
}

// SaveMesses replaces the mess list
func (r *catalogRepository) SaveMesses(ctx context.Context, messes []domain.Mess) error {
	return setJSON(ctx, r.store, KeyMesses, messes)
}

// ListMenuItems lists all menu items
func (r *catalogRepository) ListMenuItems(ctx context.Context) ([]domain.MenuItem, error) {
	items := []domain.MenuItem{}
	if _, err := getJSON(ctx, r.store, KeyMenuItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// ListMenuItemsByMess lists menu items of one mess
func (r *catalogRepository) ListMenuItemsByMess(ctx context.Context, messID string) ([]domain.MenuItem, error) {
	all, err := r.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]domain.MenuItem, 0, len(all))
	for _, item := range all {
		if item.MessID == messID {
			items = append(items, item)
		}
	}
	return items, nil
}

// SaveMenuItems replaces the menu item list
func (r *catalogRepository) SaveMenuItems(ctx context.Context, items []domain.MenuItem) error {
	return setJSON(ctx, r.store, KeyMenuItems, items)
}
