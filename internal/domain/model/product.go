package model

// 商品。price>0 / stock>=0 は書き込み時に検証する
type Product struct {
	ID          int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"type:varchar(255);not null" json:"name"`
	Description string  `gorm:"type:text;not null" json:"description"`
	Price       float64 `gorm:"not null" json:"price"`
	Stock       int64   `gorm:"not null" json:"stock"`
	Category    string  `gorm:"type:varchar(100);not null;index" json:"category"`
	ImageURL    string  `gorm:"type:varchar(512);not null" json:"image_url"`
}
