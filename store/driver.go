package store

import "context"

// Driver is an interface for the catalog database access.
type Driver interface {
	GetDB() any
	Close() error

	Migrate(ctx context.Context) error

	GetProduct(ctx context.Context, find *FindProduct) (*Product, error)
	SearchProductsByKeyword(ctx context.Context, search *KeywordProductSearch) ([]*Product, error)
	SearchProductsByTextVector(ctx context.Context, search *VectorProductSearch) ([]*Product, error)
	SearchProductsByVisualVector(ctx context.Context, search *VectorProductSearch) ([]*Product, error)
	ListLatestProducts(ctx context.Context, search *LatestProductSearch) ([]*Product, error)
}
