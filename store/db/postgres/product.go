package postgres

import (
	"context"
	"database/sql"
	"strings"

	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
	"github.com/pkg/errors"

	"github.com/yyvop9/modify-final-project/store"
)

const productFields = `id, name, description, category, gender, price, image_url, is_active, created_ts, updated_ts`

// eligible returns the base conditions shared by every retrieval query.
// A record is eligible only while active and not soft-deleted.
func eligible() []string {
	return []string{"is_active = TRUE", "deleted_at IS NULL"}
}

// genderCondition builds the inclusive-OR gender filter: a target gender also
// matches Unisex and untagged records. A nil target applies no filter.
func genderCondition(gender *string, args *[]any) string {
	if gender == nil {
		return ""
	}
	*args = append(*args, *gender)
	return "(gender = " + placeholder(len(*args)) + " OR gender = 'Unisex' OR gender IS NULL)"
}

func excludeCondition(excludeIDs []int32, args *[]any) string {
	if len(excludeIDs) == 0 {
		return ""
	}
	*args = append(*args, pq.Array(excludeIDs))
	return "NOT (id = ANY(" + placeholder(len(*args)) + "))"
}

func appendNonEmpty(where []string, conds ...string) []string {
	for _, cond := range conds {
		if cond != "" {
			where = append(where, cond)
		}
	}
	return where
}

// GetProduct gets a product by find condition.
func (d *DB) GetProduct(ctx context.Context, find *store.FindProduct) (*store.Product, error) {
	where, args := eligible(), []any{}
	if find.ID != nil {
		args = append(args, *find.ID)
		where = append(where, "id = "+placeholder(len(args)))
	}
	if find.Category != nil {
		args = append(args, *find.Category)
		where = append(where, "category = "+placeholder(len(args)))
	}

	query := `SELECT ` + productFields + ` FROM product WHERE ` + strings.Join(where, " AND ") + ` LIMIT 1`
	row := d.db.QueryRowContext(ctx, query, args...)
	product, err := scanProduct(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to get product")
	}
	return product, nil
}

// SearchProductsByKeyword performs a substring match against name, description
// and category. When an order vector is present, matches with a text embedding
// are returned nearest-first; otherwise newest-first.
func (d *DB) SearchProductsByKeyword(ctx context.Context, search *store.KeywordProductSearch) ([]*store.Product, error) {
	args := []any{"%" + search.Keyword + "%"}
	where := append(eligible(), "(name ILIKE $1 OR description ILIKE $1 OR category ILIKE $1)")
	where = appendNonEmpty(where,
		genderCondition(search.Gender, &args),
		excludeCondition(search.ExcludeIDs, &args),
	)

	orderBy := "created_ts DESC"
	if len(search.OrderVector) == store.TextVectorDim {
		where = append(where, "embedding IS NOT NULL")
		args = append(args, pgvector.NewVector(search.OrderVector))
		orderBy = "embedding <=> " + placeholder(len(args))
	}

	args = append(args, search.Limit)
	query := `
		SELECT ` + productFields + `
		FROM product
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + orderBy + `
		LIMIT ` + placeholder(len(args))

	return d.queryProducts(ctx, query, args...)
}

// SearchProductsByTextVector performs nearest-neighbor search on the 768-dim
// text embedding using pgvector cosine distance.
func (d *DB) SearchProductsByTextVector(ctx context.Context, search *store.VectorProductSearch) ([]*store.Product, error) {
	return d.searchByVector(ctx, "embedding", search)
}

// SearchProductsByVisualVector performs nearest-neighbor search on the 512-dim
// visual embedding.
func (d *DB) SearchProductsByVisualVector(ctx context.Context, search *store.VectorProductSearch) ([]*store.Product, error) {
	return d.searchByVector(ctx, "embedding_clip", search)
}

func (d *DB) searchByVector(ctx context.Context, column string, search *store.VectorProductSearch) ([]*store.Product, error) {
	args := []any{}
	where := append(eligible(), column+" IS NOT NULL")
	where = appendNonEmpty(where,
		genderCondition(search.Gender, &args),
		excludeCondition(search.ExcludeIDs, &args),
	)

	// The <=> operator computes cosine distance (1 - cosine_similarity),
	// so ordering ascending returns the most similar records first.
	args = append(args, pgvector.NewVector(search.Vector))
	orderBy := column + " <=> " + placeholder(len(args))
	args = append(args, search.Limit)

	query := `
		SELECT ` + productFields + `
		FROM product
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY ` + orderBy + `
		LIMIT ` + placeholder(len(args))

	return d.queryProducts(ctx, query, args...)
}

// ListLatestProducts lists the most recently created eligible records.
func (d *DB) ListLatestProducts(ctx context.Context, search *store.LatestProductSearch) ([]*store.Product, error) {
	args := []any{}
	where := appendNonEmpty(eligible(),
		genderCondition(search.Gender, &args),
		excludeCondition(search.ExcludeIDs, &args),
	)

	args = append(args, search.Limit)
	query := `
		SELECT ` + productFields + `
		FROM product
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY created_ts DESC
		LIMIT ` + placeholder(len(args))

	return d.queryProducts(ctx, query, args...)
}

func (d *DB) queryProducts(ctx context.Context, query string, args ...any) ([]*store.Product, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "failed to query products")
	}
	defer rows.Close()

	list := []*store.Product{}
	for rows.Next() {
		product, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan product")
		}
		list = append(list, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

func scanProduct(scan func(dest ...any) error) (*store.Product, error) {
	var product store.Product
	var gender sql.NullString
	if err := scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Category,
		&gender,
		&product.Price,
		&product.ImageURL,
		&product.IsActive,
		&product.CreatedTs,
		&product.UpdatedTs,
	); err != nil {
		return nil, err
	}
	if gender.Valid {
		product.Gender = &gender.String
	}
	return &product, nil
}
