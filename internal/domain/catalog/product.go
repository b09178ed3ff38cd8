package catalog

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Product struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Category    string    `gorm:"column:category;not null;default:FOOD" json:"category"`
	BrandName   string    `gorm:"column:brand_name;not null" json:"brand_name"`
	ProductName string    `gorm:"column:product_name;not null" json:"product_name"`
	SizeLabel   *string   `gorm:"column:size_label" json:"size_label,omitempty"`
	// Species is nil for all-species products.
	Species    *string   `gorm:"column:species;index" json:"species,omitempty"`
	PricePerKg *float64  `gorm:"column:price_per_kg" json:"price_per_kg,omitempty"`
	IsActive   bool      `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`

	IngredientProfile *ProductIngredientProfile `gorm:"foreignKey:ProductID" json:"ingredient_profile,omitempty"`
	NutritionFacts    *ProductNutritionFacts    `gorm:"foreignKey:ProductID" json:"nutrition_facts,omitempty"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

var sizeLabelRe = regexp.MustCompile(`(?i)^\s*([0-9]+(?:\.[0-9]+)?)\s*(kg|g|lb)\b`)

// PackageKg parses SizeLabel ("3kg", "500g", "4.4lb") into kilograms.
func (p *Product) PackageKg() (float64, bool) {
	if p == nil || p.SizeLabel == nil {
		return 0, false
	}
	m := sizeLabelRe.FindStringSubmatch(*p.SizeLabel)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil || v <= 0 {
		return 0, false
	}
	switch strings.ToLower(m[2]) {
	case "g":
		v /= 1000
	case "lb":
		v *= 0.45359237
	}
	return v, true
}

type ProductIngredientProfile struct {
	ProductID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	IngredientsText *string   `gorm:"column:ingredients_text" json:"ingredients_text,omitempty"`
	// Parsed holds a ParsedIngredients document; nil until the parser has run.
	Parsed        datatypes.JSON `gorm:"column:parsed" json:"parsed,omitempty"`
	ParserVersion string         `gorm:"column:parser_version" json:"parser_version,omitempty"`
	UpdatedAt     time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ProductIngredientProfile) TableName() string { return "product_ingredient_profiles" }

type ProductNutritionFacts struct {
	ProductID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"product_id"`
	ProteinPct  *float64  `gorm:"column:protein_pct" json:"protein_pct,omitempty"`
	FatPct      *float64  `gorm:"column:fat_pct" json:"fat_pct,omitempty"`
	FiberPct    *float64  `gorm:"column:fiber_pct" json:"fiber_pct,omitempty"`
	MoisturePct *float64  `gorm:"column:moisture_pct" json:"moisture_pct,omitempty"`
	AshPct      *float64  `gorm:"column:ash_pct" json:"ash_pct,omitempty"`
	KcalPer100g *float64  `gorm:"column:kcal_per_100g" json:"kcal_per_100g,omitempty"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (ProductNutritionFacts) TableName() string { return "product_nutrition_facts" }
