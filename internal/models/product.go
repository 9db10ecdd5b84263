package models

// Product — products table. Prices are stored as integer cents.
type Product struct {
	Base
	SellerID    uint   `gorm:"index" json:"seller_id,omitempty"`
	CategoryID  uint   `gorm:"index" json:"category_id,omitempty"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	PriceCents  int    `gorm:"not null" json:"price_cents"`
	Stock       int    `gorm:"not null;default:0" json:"stock"`
	ImagePath   string `json:"image_path,omitempty"` // relative path, e.g. "/uploads/abc123.jpg"
}
