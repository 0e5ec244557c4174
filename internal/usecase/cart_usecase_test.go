package usecase

import (
	"context"
	"net/http"
	"testing"

	"app/internal/domain/model"
	infraRepo "app/internal/infra/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartUsecase_AddToCart_MergesQuantity(t *testing.T) {
	db := newTestDB(t)
	uc := NewCartUsecase(
		infraRepo.NewCartItemGormRepository(db),
		infraRepo.NewProductGormRepository(db),
	)
	ctx := context.Background()

	p := seedProduct(t, db, "X", 100, 10)

	first, err := uc.AddToCart(ctx, 1, AddCartInput{ProductID: p.ID, Quantity: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Quantity)

	second, err := uc.AddToCart(ctx, 1, AddCartInput{ProductID: p.ID, Quantity: 2})
	require.NoError(t, err)

	//明細は1行のまま、数量は3
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(3), second.Quantity)

	var count int64
	require.NoError(t, db.Model(&model.CartItem{}).Where("user_id = ?", 1).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCartUsecase_AddToCart_InvalidQuantity(t *testing.T) {
	db := newTestDB(t)
	uc := NewCartUsecase(
		infraRepo.NewCartItemGormRepository(db),
		infraRepo.NewProductGormRepository(db),
	)

	_, err := uc.AddToCart(context.Background(), 1, AddCartInput{ProductID: 1, Quantity: 0})
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, he.Status)
}

func TestCartUsecase_GetCart_WithProducts(t *testing.T) {
	db := newTestDB(t)
	uc := NewCartUsecase(
		infraRepo.NewCartItemGormRepository(db),
		infraRepo.NewProductGormRepository(db),
	)
	ctx := context.Background()

	p := seedProduct(t, db, "X", 100, 10)
	seedCartItem(t, db, 1, p.ID, 2)
	//商品が消えた明細
	seedCartItem(t, db, 1, 9999, 1)

	lines, err := uc.GetCart(ctx, 1)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	require.NotNil(t, lines[0].Product)
	assert.Equal(t, p.ID, lines[0].Product.ID)
	assert.Equal(t, int64(2), lines[0].Quantity)

	//消えた商品はProductがnilになるだけで明細は返る
	assert.Nil(t, lines[1].Product)
	assert.Equal(t, int64(9999), lines[1].ProductID)
}

func TestCartUsecase_UpdateQuantity_Overrides(t *testing.T) {
	db := newTestDB(t)
	uc := NewCartUsecase(
		infraRepo.NewCartItemGormRepository(db),
		infraRepo.NewProductGormRepository(db),
	)
	ctx := context.Background()

	p := seedProduct(t, db, "X", 100, 10)
	seedCartItem(t, db, 1, p.ID, 2)

	//加算ではなく上書き
	item, err := uc.UpdateQuantity(ctx, 1, p.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), item.Quantity)
}

func TestCartUsecase_UpdateQuantity_NotFound(t *testing.T) {
	db := newTestDB(t)
	uc := NewCartUsecase(
		infraRepo.NewCartItemGormRepository(db),
		infraRepo.NewProductGormRepository(db),
	)

	_, err := uc.UpdateQuantity(context.Background(), 1, 42, 5)
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "cart item not found", he.Message)
}

func TestCartUsecase_RemoveFromCart(t *testing.T) {
	db := newTestDB(t)
	uc := NewCartUsecase(
		infraRepo.NewCartItemGormRepository(db),
		infraRepo.NewProductGormRepository(db),
	)
	ctx := context.Background()

	p := seedProduct(t, db, "X", 100, 10)
	seedCartItem(t, db, 1, p.ID, 2)

	require.NoError(t, uc.RemoveFromCart(ctx, 1, p.ID))

	//2回目は404
	err := uc.RemoveFromCart(ctx, 1, p.ID)
	require.Error(t, err)

	he, ok := AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "item not found in cart", he.Message)
}
