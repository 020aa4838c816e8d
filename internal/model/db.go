package model

import "time"

type Lead struct {
	ID        uint      `gorm:"primaryKey" json:"-"`
	Email     string    `gorm:"size:255;index;not null" json:"email"`
	Name      string    `gorm:"size:255" json:"name"`
	Source    string    `gorm:"size:64;index" json:"source"`
	CreatedAt time.Time `json:"timestamp"`
}

type Purchase struct {
	OrderID     string `gorm:"primaryKey;size:64;not null"`
	Email       string `gorm:"size:255;index;not null"`
	Name        string `gorm:"size:255"`
	PayerID     string `gorm:"size:32"`
	Verified    bool   `gorm:"not null"`
	MainProduct bool   `gorm:"not null"`
	OrderBump   bool   `gorm:"not null"`
	Upsell      bool   `gorm:"not null"`
	Downsell    bool   `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Purchase) Products() Products {
	return Products{
		MainProduct: p.MainProduct,
		OrderBump:   p.OrderBump,
		Upsell:      p.Upsell,
		Downsell:    p.Downsell,
	}
}

// Delivery records that a fulfillment notification went out for an order.
// One row per order id is what makes the notifier at-most-once.
type Delivery struct {
	OrderID    string `gorm:"primaryKey;size:64;not null"`
	Email      string `gorm:"size:255;not null"`
	Products   string `gorm:"size:255"`
	NotifiedAt time.Time
	CreatedAt  time.Time
}
