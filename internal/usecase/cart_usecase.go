package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	"app/internal/logging"
	repo "app/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

// price は表示用に現在の商品価格を返す。確定価格はチェックアウトで凍結する
type CartLineResponse struct {
	ID        int64          `json:"id"`
	Quantity  int64          `json:"quantity"`
	Product   *model.Product `json:"product,omitempty"`
	ProductID int64          `json:"product_id"`
}

type AddCartInput struct {
	ProductID int64
	Quantity  int64
}

// AddToCart はカートに追加（同一商品は数量加算）。
// 商品の存在チェックはここでは行わない。チェックアウトで検証する
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (model.CartItem, error) {
	if userID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	item, err := u.cartItemRepo.UpsertByUserAndProduct(ctx, userID, in.ProductID, in.Quantity)
	if err != nil {
		return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logging.FromContext(ctx).Info("cart_add",
		"user_id", userID, "product_id", in.ProductID, "quantity", in.Quantity)

	return item, nil
}

// GetCart は商品情報付きでカートを返す
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) ([]CartLineResponse, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	resp := make([]CartLineResponse, 0, len(items))
	for _, it := range items {
		line := CartLineResponse{
			ID:        it.ID,
			Quantity:  it.Quantity,
			ProductID: it.ProductID,
		}

		//商品が消えていても明細は返す（productはnull）
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err == nil {
			line.Product = &p
		} else if err != repo.ErrNotFound {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		resp = append(resp, line)
	}

	return resp, nil
}

// 数量を上書きする（加算ではない）
func (u *CartUsecase) UpdateQuantity(ctx context.Context, userID int64, productID int64, qty int64) (model.CartItem, error) {
	if userID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if qty < 1 {
		return model.CartItem{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	item, err := u.cartItemRepo.UpdateQuantity(ctx, userID, productID, qty)
	if err == repo.ErrNotFound {
		return model.CartItem{}, NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	if err != nil {
		return model.CartItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return item, nil
}

func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID int64, productID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	err := u.cartItemRepo.DeleteByUserAndProduct(ctx, userID, productID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "item not found in cart")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	logging.FromContext(ctx).Info("cart_remove", "user_id", userID, "product_id", productID)
	return nil
}
