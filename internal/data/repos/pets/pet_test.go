package pets

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/petfit-backend/internal/data/repos/testutil"
	types "github.com/yungbote/petfit-backend/internal/domain"
	"github.com/yungbote/petfit-backend/internal/pkg/dbctx"
)

func TestPetRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewPetRepo(db, testutil.Logger(t))

	created, err := repo.Create(dbc, []*types.Pet{{
		OwnerUserID:    uuid.New(),
		Name:           "Coco",
		Species:        types.SpeciesCat,
		WeightKg:       4.2,
		HealthConcerns: []types.PetHealthConcern{{ConcernCode: "URINARY"}},
		FoodAllergies:  []types.PetFoodAllergy{{AllergenCode: "FISH"}},
		OtherAllergies: []types.PetOtherAllergy{{OtherText: "duck"}},
	}})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(created) != 1 || created[0].ID == uuid.Nil {
		t.Fatalf("Create: unexpected result: %+v", created)
	}

	got, err := repo.GetByID(dbc, created[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got == nil {
		t.Fatalf("GetByID: expected pet")
	}
	if len(got.HealthConcerns) != 1 || got.HealthConcerns[0].ConcernCode != "URINARY" {
		t.Fatalf("GetByID: health concerns not preloaded: %+v", got.HealthConcerns)
	}
	if len(got.FoodAllergies) != 1 || len(got.OtherAllergies) != 1 {
		t.Fatalf("GetByID: allergies not preloaded: %+v / %+v", got.FoodAllergies, got.OtherAllergies)
	}

	if err := repo.UpdateFields(dbc, got.ID, map[string]interface{}{"weight_kg": 5.0}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	got, _ = repo.GetByID(dbc, got.ID)
	if got.WeightKg != 5.0 {
		t.Fatalf("UpdateFields: want=5 got=%v", got.WeightKg)
	}

	missing, err := repo.GetByID(dbc, uuid.New())
	if err != nil || missing != nil {
		t.Fatalf("GetByID missing: want (nil,nil) got (%v,%v)", missing, err)
	}
}
