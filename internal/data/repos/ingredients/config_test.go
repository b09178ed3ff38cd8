package ingredients

import (
	"context"
	"testing"

	"github.com/yungbote/petfit-backend/internal/data/repos/testutil"
	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
)

func TestIngredientConfigRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := dbctx.Context{Ctx: context.Background(), Tx: tx}
	repo := NewIngredientConfigRepo(db, testutil.Logger(t))

	if err := repo.CreateHarmful(dbc, []*types.HarmfulIngredient{
		{Name: "BHA", Severity: 3, IsActive: true},
		{Name: "ethoxyquin", Severity: 4, IsActive: true},
	}); err != nil {
		t.Fatalf("CreateHarmful: %v", err)
	}
	if err := tx.Model(&types.HarmfulIngredient{}).Where("name = ?", "ethoxyquin").Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	harmful, err := repo.ListActiveHarmful(dbc)
	if err != nil {
		t.Fatalf("ListActiveHarmful: %v", err)
	}
	if len(harmful) != 1 || harmful[0].Name != "BHA" {
		t.Fatalf("want only BHA got=%+v", harmful)
	}

	if err := repo.CreateAllergenKeywords(dbc, []*types.AllergenKeyword{
		{AllergenCode: "CHICKEN", Keyword: "chicken", Language: "en", IsActive: true},
		{AllergenCode: "BEEF", Keyword: "소고기", Language: "ko", IsActive: true},
	}); err != nil {
		t.Fatalf("CreateAllergenKeywords: %v", err)
	}
	kws, err := repo.ListActiveAllergenKeywords(dbc)
	if err != nil {
		t.Fatalf("ListActiveAllergenKeywords: %v", err)
	}
	if len(kws) != 2 || kws[0].AllergenCode != "BEEF" {
		t.Fatalf("unexpected keywords: %+v", kws)
	}
}
