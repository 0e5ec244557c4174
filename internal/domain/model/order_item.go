package model

// 注文明細
// price_at_purchase は注文時点の商品価格の凍結コピー。後から再計算しない
type OrderItem struct {
	ID              int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID         int64   `gorm:"not null;index" json:"order_id"`
	ProductID       int64   `gorm:"not null;index" json:"product_id"`
	Quantity        int64   `gorm:"not null" json:"quantity"`
	PriceAtPurchase float64 `gorm:"not null" json:"price_at_purchase"`
}
