package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 一覧検索
type ProductListQuery struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	SortBy   string
	Page     int
	PageSize int
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	ListPublic(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	//nameの部分一致（大文字小文字を区別しない）
	SearchByName(ctx context.Context, keyword string) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)

	ListAll(ctx context.Context) ([]model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	Delete(ctx context.Context, id int64) error
	FindByName(ctx context.Context, name string) (model.Product, error)
}
