package ingredients

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type HarmfulIngredient struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	Severity    int       `gorm:"column:severity;not null;default:1" json:"severity"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (HarmfulIngredient) TableName() string { return "harmful_ingredients" }

func (h *HarmfulIngredient) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

type AllergenKeyword struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AllergenCode string    `gorm:"column:allergen_code;not null;index" json:"allergen_code"`
	Keyword      string    `gorm:"column:keyword;not null" json:"keyword"`
	Language     string    `gorm:"column:language;not null;default:ko" json:"language"`
	IsActive     bool      `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (AllergenKeyword) TableName() string { return "allergen_keywords" }

func (k *AllergenKeyword) BeforeCreate(tx *gorm.DB) error {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	return nil
}
