package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian/marketplace-api/internal/model"
)

func seedUser(t *testing.T, email string) *model.User {
	t.Helper()
	user := &model.User{
		Email: email, Password: "hashed",
		FirstName: "Test", LastName: "User", Role: model.RoleCustomer,
	}
	require.NoError(t, NewUserRepository(testPool).Create(context.Background(), user))
	return user
}

func seedShop(t *testing.T, userID uuid.UUID, name string) *model.Shop {
	t.Helper()
	shop := &model.Shop{
		UserID: userID, Name: name,
		CommissionRate: decimal.RequireFromString("0.10"),
	}
	require.NoError(t, NewShopRepository(testPool).Create(context.Background(), shop))
	return shop
}

func seedCategory(t *testing.T, name, slug string) *model.Category {
	t.Helper()
	c := &model.Category{ID: uuid.New(), Name: name, Slug: slug}
	_, err := testPool.Exec(context.Background(),
		`INSERT INTO categories (id, name, slug, created_at, updated_at) VALUES ($1, $2, $3, NOW(), NOW())`,
		c.ID, c.Name, c.Slug,
	)
	require.NoError(t, err)
	return c
}

func seedProduct(t *testing.T, shopID, categoryID uuid.UUID, title string, price string) *model.Product {
	t.Helper()
	product := &model.Product{
		ShopID: shopID, CategoryID: categoryID,
		Title: title, Description: "seeded",
		Price: decimal.RequireFromString(price), Inventory: 10,
	}
	require.NoError(t, NewProductRepository(testPool).Create(context.Background(), product))
	return product
}

func TestUserRepo_CreateAndGetByEmail(t *testing.T) {
	cleanupTable(t, "reviews", "order_items", "orders", "products", "shops", "categories", "users")

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "repo@example.com")
	assert.NotEqual(t, uuid.Nil, user.ID)

	found, err := repo.GetByEmail(ctx, "repo@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Equal(t, model.RoleCustomer, found.Role)

	missing, err := repo.GetByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestUserRepo_UpdateRole(t *testing.T) {
	cleanupTable(t, "reviews", "order_items", "orders", "products", "shops", "categories", "users")

	repo := NewUserRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "promote@example.com")
	require.NoError(t, repo.UpdateRole(ctx, user.ID, model.RoleSeller))

	found, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleSeller, found.Role)
}

func TestShopRepo_CreateAndGetByUserID(t *testing.T) {
	cleanupTable(t, "reviews", "order_items", "orders", "products", "shops", "categories", "users")

	repo := NewShopRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "owner@example.com")
	shop := seedShop(t, user.ID, "Owner Shop")

	found, err := repo.GetByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, shop.ID, found.ID)
	assert.False(t, found.IsVerified)
	assert.Equal(t, 0, found.ProductCount)
	require.NotNil(t, found.User)
	assert.Equal(t, "owner@example.com", found.User.Email)

	missing, err := repo.GetByUserID(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestShopRepo_SetVerified(t *testing.T) {
	cleanupTable(t, "reviews", "order_items", "orders", "products", "shops", "categories", "users")

	repo := NewShopRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "verify@example.com")
	shop := seedShop(t, user.ID, "Pending Shop")

	require.NoError(t, repo.SetVerified(ctx, shop.ID))

	found, err := repo.GetByID(ctx, shop.ID)
	require.NoError(t, err)
	assert.True(t, found.IsVerified)
}

func TestCategoryRepo_ProductCount(t *testing.T) {
	cleanupTable(t, "reviews", "order_items", "orders", "products", "shops", "categories", "users")

	repo := NewCategoryRepository(testPool)
	ctx := context.Background()

	user := seedUser(t, "cat@example.com")
	shop := seedShop(t, user.ID, "Cat Shop")
	category := seedCategory(t, "Electronics", "electronics")
	seedProduct(t, shop.ID, category.ID, "Keyboard", "49.99")
	seedProduct(t, shop.ID, category.ID, "Mouse", "19.99")

	found, err := repo.GetBySlug(ctx, "electronics")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 2, found.ProductCount)

	missing, err := repo.GetBySlug(ctx, "no-such-slug")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestOrderRepo_CreateWithItems(t *testing.T) {
	cleanupTable(t, "reviews", "order_items", "orders", "products", "shops", "categories", "users")

	repo := NewOrderRepository(testPool)
	ctx := context.Background()

	buyer := seedUser(t, "buyer@example.com")
	seller := seedUser(t, "seller@example.com")
	shop := seedShop(t, seller.ID, "Seller Shop")
	category := seedCategory(t, "Books", "books")
	product := seedProduct(t, shop.ID, category.ID, "Novel", "20.00")

	order := &model.Order{
		UserID:     buyer.ID,
		Status:     model.OrderStatusPending,
		Subtotal:   decimal.RequireFromString("40.00"),
		Commission: decimal.RequireFromString("4.00"),
		Total:      decimal.RequireFromString("45.00"),
		ShippingAddress: model.ShippingAddress{
			Street: "1 Main St", City: "Springfield", State: "IL",
			Zip: "62701", Country: "US",
		},
		Items: []model.OrderItem{{
			ProductID:  product.ID,
			Quantity:   2,
			Price:      decimal.RequireFromString("20.00"),
			Commission: decimal.RequireFromString("2.00"),
		}},
	}
	require.NoError(t, repo.CreateWithItems(ctx, order))
	assert.NotEqual(t, uuid.Nil, order.ID)

	found, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, model.OrderStatusPending, found.Status)
	assert.Equal(t, "Springfield", found.ShippingAddress.City)
	assert.True(t, found.Total.Equal(decimal.RequireFromString("45.00")))
	require.Len(t, found.Items, 1)
	assert.Equal(t, product.ID, found.Items[0].ProductID)
	assert.Equal(t, 2, found.Items[0].Quantity)
	assert.True(t, found.Items[0].Commission.Equal(decimal.RequireFromString("2.00")))
}

func TestOrderRepo_UpdateStatus(t *testing.T) {
	cleanupTable(t, "reviews", "order_items", "orders", "products", "shops", "categories", "users")

	repo := NewOrderRepository(testPool)
	ctx := context.Background()

	buyer := seedUser(t, "status@example.com")
	order := &model.Order{
		UserID: buyer.ID, Status: model.OrderStatusPending,
		Subtotal: decimal.Zero, Commission: decimal.Zero, Total: decimal.Zero,
	}
	require.NoError(t, repo.CreateWithItems(ctx, order))

	require.NoError(t, repo.UpdateStatus(ctx, order.ID, model.OrderStatusShipped))

	found, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.OrderStatusShipped, found.Status)
}

func TestOrderRepo_ListByUserID(t *testing.T) {
	cleanupTable(t, "reviews", "order_items", "orders", "products", "shops", "categories", "users")

	repo := NewOrderRepository(testPool)
	ctx := context.Background()

	buyer := seedUser(t, "history@example.com")
	other := seedUser(t, "other@example.com")

	first := &model.Order{
		UserID: buyer.ID, Status: model.OrderStatusPending,
		Subtotal: decimal.Zero, Commission: decimal.Zero, Total: decimal.RequireFromString("10"),
	}
	require.NoError(t, repo.CreateWithItems(ctx, first))
	second := &model.Order{
		UserID: buyer.ID, Status: model.OrderStatusPaid,
		Subtotal: decimal.Zero, Commission: decimal.Zero, Total: decimal.RequireFromString("20"),
	}
	require.NoError(t, repo.CreateWithItems(ctx, second))
	require.NoError(t, repo.CreateWithItems(ctx, &model.Order{
		UserID: other.ID, Status: model.OrderStatusPending,
		Subtotal: decimal.Zero, Commission: decimal.Zero, Total: decimal.Zero,
	}))

	orders, err := repo.ListByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	// Newest first.
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestOrderRepo_StatsQueries(t *testing.T) {
	cleanupTable(t, "reviews", "order_items", "orders", "products", "shops", "categories", "users")

	repo := NewOrderRepository(testPool)
	ctx := context.Background()

	buyer := seedUser(t, "stats@example.com")
	for _, o := range []struct {
		status model.OrderStatus
		total  string
	}{
		{model.OrderStatusPending, "100"},
		{model.OrderStatusPaid, "50"},
		{model.OrderStatusDelivered, "25"},
		{model.OrderStatusCancelled, "30"},
	} {
		require.NoError(t, repo.CreateWithItems(ctx, &model.Order{
			UserID: buyer.ID, Status: o.status,
			Subtotal: decimal.Zero, Commission: decimal.Zero,
			Total: decimal.RequireFromString(o.total),
		}))
	}

	count, err := repo.CountByUser(ctx, buyer.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, count)

	// Pending and cancelled totals do not count toward spend.
	spent, err := repo.SumTotalByUserAndStatuses(ctx, buyer.ID, model.SpendStatuses)
	require.NoError(t, err)
	assert.True(t, spent.Equal(decimal.RequireFromString("75")), "expected 75, got %s", spent)
}

func TestReviewRepo_CreateAndList(t *testing.T) {
	cleanupTable(t, "reviews", "order_items", "orders", "products", "shops", "categories", "users")

	repo := NewReviewRepository(testPool)
	ctx := context.Background()

	reviewer := seedUser(t, "reviewer@example.com")
	seller := seedUser(t, "rseller@example.com")
	shop := seedShop(t, seller.ID, "Review Shop")
	category := seedCategory(t, "Toys", "toys")
	product := seedProduct(t, shop.ID, category.ID, "Puzzle", "9.99")

	review := &model.Review{
		UserID: reviewer.ID, ProductID: product.ID,
		Rating: 4, Comment: "solid",
	}
	require.NoError(t, repo.Create(ctx, review))
	assert.NotEqual(t, uuid.Nil, review.ID)

	reviews, err := repo.ListByProduct(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, 4, reviews[0].Rating)

	count, err := repo.CountByUser(ctx, reviewer.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
