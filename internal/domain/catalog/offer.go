package catalog

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductOffer struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	Merchant     string    `gorm:"column:merchant;not null" json:"merchant"`
	URL          string    `gorm:"column:url;not null" json:"url"`
	CurrentPrice *int      `gorm:"column:current_price" json:"current_price,omitempty"`
	Currency     string    `gorm:"column:currency;not null;default:KRW" json:"currency"`
	IsPrimary    bool      `gorm:"column:is_primary;not null;default:false" json:"is_primary"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ProductOffer) TableName() string { return "product_offers" }

func (o *ProductOffer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
