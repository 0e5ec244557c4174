package model

// カートの明細
// (user_id, product_id) につき1行。同一商品の追加は数量加算
type CartItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64 `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"user_id"`
	ProductID int64 `gorm:"not null;uniqueIndex:idx_cart_user_product" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`
}
