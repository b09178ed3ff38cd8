package catalog

import (
	"math"
	"testing"

	"github.com/yungbote/petfit-backend/internal/pkg/pointers"
)

func TestPackageKg(t *testing.T) {
	cases := []struct {
		label string
		want  float64
		ok    bool
	}{
		{"3kg", 3, true},
		{"500g", 0.5, true},
		{" 1.5 KG ", 1.5, true},
		{"10lb", 4.5359237, true},
		{"large bag", 0, false},
	}
	for _, tc := range cases {
		p := &Product{SizeLabel: pointers.String(tc.label)}
		got, ok := p.PackageKg()
		if ok != tc.ok || math.Abs(got-tc.want) > 1e-9 {
			t.Fatalf("label=%q want=(%v,%v) got=(%v,%v)", tc.label, tc.want, tc.ok, got, ok)
		}
	}
}

func TestParsedRoundTripStampsVersion(t *testing.T) {
	prof := &ProductIngredientProfile{}
	if doc, err := prof.DecodeParsed(); err != nil || doc != nil {
		t.Fatalf("empty profile should decode to nil, got=%v err=%v", doc, err)
	}
	if err := prof.EncodeParsed(ParsedIngredients{QualityScore: 80, PotentialAllergens: []string{"CHICKEN"}}); err != nil {
		t.Fatalf("encode: %v", err)
	}
	doc, err := prof.DecodeParsed()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.SchemaVersion != ParsedSchemaVersion || doc.QualityScore != 80 || len(doc.PotentialAllergens) != 1 {
		t.Fatalf("unexpected decoded doc: %+v", doc)
	}
}
