package repository

import (
	"app/internal/domain/model"
	"context"
)

type CartItemRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error)
	//チェックアウト用。FOR UPDATE で読み、同一ユーザーの同時確定を直列化する
	ListByUserIDForUpdate(ctx context.Context, userID int64) ([]model.CartItem, error)
	// 同一商品はプラス
	UpsertByUserAndProduct(ctx context.Context, userID int64, productID int64, addQty int64) (model.CartItem, error)
	UpdateQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartItem, error)
	DeleteByUserAndProduct(ctx context.Context, userID int64, productID int64) error
	DeleteAllByUserID(ctx context.Context, userID int64) error
}
