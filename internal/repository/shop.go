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

type ShopRepository interface {
	Create(ctx context.Context, shop *model.Shop) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Shop, error)
	GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Shop, error)
	List(ctx context.Context) ([]model.Shop, error)
	SetVerified(ctx context.Context, id uuid.UUID) error
}

type pgShopRepo struct{ pool *pgxpool.Pool }

func NewShopRepository(pool *pgxpool.Pool) ShopRepository {
	return &pgShopRepo{pool: pool}
}

// Shop rows are always read together with the owner's public fields and
// the number of products listed under the shop.
const shopSelect = `
	SELECT s.id, s.user_id, s.name, s.description, s.logo, s.commission_rate,
	       s.is_verified, s.created_at, s.updated_at,
	       u.email, u.first_name, u.last_name,
	       (SELECT COUNT(*) FROM products p WHERE p.shop_id = s.id) AS product_count
	FROM shops s
	JOIN users u ON u.id = s.user_id`

func (r *pgShopRepo) Create(ctx context.Context, shop *model.Shop) error {
	shop.ID = uuid.New()
	query := `INSERT INTO shops (id, user_id, name, description, logo, commission_rate, is_verified, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, false, NOW(), NOW())
			  RETURNING created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		shop.ID, shop.UserID, shop.Name, shop.Description, shop.Logo, shop.CommissionRate,
	).Scan(&shop.CreatedAt, &shop.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create shop: %w", err)
	}
	return nil
}

func (r *pgShopRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Shop, error) {
	shop, err := r.scanOne(r.pool.QueryRow(ctx, shopSelect+` WHERE s.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get shop: %w", err)
	}
	return shop, nil
}

func (r *pgShopRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Shop, error) {
	shop, err := r.scanOne(r.pool.QueryRow(ctx, shopSelect+` WHERE s.user_id = $1`, userID))
	if err != nil {
		return nil, fmt.Errorf("get shop by user: %w", err)
	}
	return shop, nil
}

func (r *pgShopRepo) List(ctx context.Context) ([]model.Shop, error) {
	rows, err := r.pool.Query(ctx, shopSelect+` ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list shops: %w", err)
	}
	defer rows.Close()

	var shops []model.Shop
	for rows.Next() {
		shop, err := scanShop(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shop: %w", err)
		}
		shops = append(shops, *shop)
	}
	return shops, nil
}

func (r *pgShopRepo) SetVerified(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE shops SET is_verified = true, updated_at = NOW() WHERE id = $1`, id,
	)
	if err != nil {
		return fmt.Errorf("verify shop: %w", err)
	}
	return nil
}

func (r *pgShopRepo) scanOne(row pgx.Row) (*model.Shop, error) {
	shop, err := scanShop(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return shop, nil
}

func scanShop(row pgx.Row) (*model.Shop, error) {
	shop := &model.Shop{User: &model.User{}}
	err := row.Scan(
		&shop.ID, &shop.UserID, &shop.Name, &shop.Description, &shop.Logo,
		&shop.CommissionRate, &shop.IsVerified, &shop.CreatedAt, &shop.UpdatedAt,
		&shop.User.Email, &shop.User.FirstName, &shop.User.LastName,
		&shop.ProductCount,
	)
	if err != nil {
		return nil, err
	}
	shop.User.ID = shop.UserID
	return shop, nil
}
