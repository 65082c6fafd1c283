package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian/marketplace-api/internal/model"
)

// ProductFilter narrows List results. Zero values disable the
// corresponding predicate.
type ProductFilter struct {
	CategorySlug string
	ShopID       uuid.UUID
	Search       string
	Limit        int
	Offset       int
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type pgProductRepo struct{ pool *pgxpool.Pool }

func NewProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &pgProductRepo{pool: pool}
}

// Products are read together with their shop and category so callers can
// build nested responses without extra round trips.
const productSelect = `
	SELECT p.id, p.shop_id, p.category_id, p.title, p.description, p.price,
	       p.inventory, p.images, p.is_active, p.created_at, p.updated_at,
	       s.user_id, s.name, s.description, s.logo, s.commission_rate, s.is_verified,
	       c.name, c.slug
	FROM products p
	JOIN shops s ON s.id = p.shop_id
	JOIN categories c ON c.id = p.category_id`

const productListWhere = ` WHERE p.is_active
	AND ($1 = '' OR c.slug = $1)
	AND ($2::uuid IS NULL OR p.shop_id = $2)
	AND ($3 = '' OR p.title ILIKE '%' || $3 || '%' OR p.description ILIKE '%' || $3 || '%')`

func (r *pgProductRepo) Create(ctx context.Context, product *model.Product) error {
	product.ID = uuid.New()
	if product.Images == nil {
		product.Images = []string{}
	}
	query := `INSERT INTO products (id, shop_id, category_id, title, description, price, inventory, images, is_active, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, NOW(), NOW())
			  RETURNING is_active, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.ShopID, product.CategoryID, product.Title,
		product.Description, product.Price, product.Inventory, product.Images,
	).Scan(&product.IsActive, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx, productSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (r *pgProductRepo) List(ctx context.Context, filter ProductFilter) ([]model.Product, int, error) {
	var shopID any
	if filter.ShopID != uuid.Nil {
		shopID = filter.ShopID
	}

	var total int
	countQ := `SELECT COUNT(*) FROM products p
		JOIN shops s ON s.id = p.shop_id
		JOIN categories c ON c.id = p.category_id` + productListWhere
	if err := r.pool.QueryRow(ctx, countQ, filter.CategorySlug, shopID, filter.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		productSelect+productListWhere+` ORDER BY p.created_at DESC LIMIT $4 OFFSET $5`,
		filter.CategorySlug, shopID, filter.Search, filter.Limit, filter.Offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, total, nil
}

func (r *pgProductRepo) Update(ctx context.Context, product *model.Product) error {
	query := `UPDATE products SET category_id=$2, title=$3, description=$4, price=$5, inventory=$6, images=$7, is_active=$8, updated_at=NOW()
			  WHERE id=$1 RETURNING updated_at`
	err := r.pool.QueryRow(ctx, query,
		product.ID, product.CategoryID, product.Title, product.Description,
		product.Price, product.Inventory, product.Images, product.IsActive,
	).Scan(&product.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	return nil
}

func (r *pgProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	p := &model.Product{Shop: &model.Shop{}, Category: &model.Category{}}
	err := row.Scan(
		&p.ID, &p.ShopID, &p.CategoryID, &p.Title, &p.Description, &p.Price,
		&p.Inventory, &p.Images, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
		&p.Shop.UserID, &p.Shop.Name, &p.Shop.Description, &p.Shop.Logo,
		&p.Shop.CommissionRate, &p.Shop.IsVerified,
		&p.Category.Name, &p.Category.Slug,
	)
	if err != nil {
		return nil, err
	}
	p.Shop.ID = p.ShopID
	p.Category.ID = p.CategoryID
	return p, nil
}
