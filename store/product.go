package store

import (
	"github.com/pkg/errors"
)

// Gender values carried by catalog records and gender filters.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderUnisex = "Unisex"
)

// Vector dimensions of the two representation spaces.
const (
	TextVectorDim   = 768
	VisualVectorDim = 512
)

// Product represents a catalog record. Records are read-only from the
// retrieval core's perspective.
type Product struct {
	ID          int32
	Name        string
	Description string
	Category    string
	Gender      *string // nil means untagged; untagged matches any gender filter
	Price       float64
	ImageURL    string
	IsActive    bool
	CreatedTs   int64
	UpdatedTs   int64
}

// FindProduct is the find condition for products.
type FindProduct struct {
	ID       *int32
	Category *string
	Limit    int
}

// KeywordProductSearch is a substring match against name/description/category.
// When OrderVector is set (768-dim), matches are ordered by text-vector
// distance; otherwise by recency.
type KeywordProductSearch struct {
	Keyword     string
	Gender      *string
	OrderVector []float32
	ExcludeIDs  []int32
	Limit       int
}

// VectorProductSearch is a nearest-neighbor search over one embedding column.
type VectorProductSearch struct {
	Vector     []float32
	Gender     *string
	ExcludeIDs []int32
	Limit      int
}

// LatestProductSearch lists the most recently created eligible records.
type LatestProductSearch struct {
	Gender     *string
	ExcludeIDs []int32
	Limit      int
}

// Validate validates the VectorProductSearch against the expected dimension.
func (s *VectorProductSearch) Validate(dim int) error {
	if len(s.Vector) != dim {
		return errors.Errorf("invalid vector dimension: got %d, want %d", len(s.Vector), dim)
	}
	if s.Limit < 0 {
		return errors.Errorf("limit cannot be negative: %d", s.Limit)
	}
	if s.Limit == 0 {
		s.Limit = 10
	}
	return nil
}
