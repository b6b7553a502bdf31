package store

import (
	"context"

	"github.com/yyvop9/modify-final-project/internal/profile"
)

// Store provides database access to catalog records.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) GetProduct(ctx context.Context, find *FindProduct) (*Product, error) {
	return s.driver.GetProduct(ctx, find)
}

// SearchProductsByKeyword performs a substring match restricted to eligible records.
func (s *Store) SearchProductsByKeyword(ctx context.Context, search *KeywordProductSearch) ([]*Product, error) {
	return s.driver.SearchProductsByKeyword(ctx, search)
}

// SearchProductsByTextVector performs nearest-neighbor search over the 768-dim text embedding.
func (s *Store) SearchProductsByTextVector(ctx context.Context, search *VectorProductSearch) ([]*Product, error) {
	if err := search.Validate(TextVectorDim); err != nil {
		return nil, err
	}
	return s.driver.SearchProductsByTextVector(ctx, search)
}

// SearchProductsByVisualVector performs nearest-neighbor search over the 512-dim visual embedding.
func (s *Store) SearchProductsByVisualVector(ctx context.Context, search *VectorProductSearch) ([]*Product, error) {
	if err := search.Validate(VisualVectorDim); err != nil {
		return nil, err
	}
	return s.driver.SearchProductsByVisualVector(ctx, search)
}

// ListLatestProducts lists the most recently created eligible records.
func (s *Store) ListLatestProducts(ctx context.Context, search *LatestProductSearch) ([]*Product, error) {
	return s.driver.ListLatestProducts(ctx, search)
}
