package scoring

import "strings"

type Species uint8

const (
	// SpeciesAny marks a candidate sold for every species.
	SpeciesAny Species = iota
	SpeciesDog
	SpeciesCat
)

func (s Species) String() string {
	switch s {
	case SpeciesDog:
		return "DOG"
	case SpeciesCat:
		return "CAT"
	case SpeciesAny:
		return "ANY"
	}
	return "INVALID"
}

func ParseSpecies(raw string) (Species, bool) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "DOG":
		return SpeciesDog, true
	case "CAT":
		return SpeciesCat, true
	case "", "ANY", "ALL":
		return SpeciesAny, true
	}
	return SpeciesAny, false
}

type AgeStage uint8

const (
	AgeUnknown AgeStage = iota
	AgePuppy
	AgeAdult
	AgeSenior
)

func (a AgeStage) String() string {
	switch a {
	case AgePuppy:
		return "PUPPY"
	case AgeAdult:
		return "ADULT"
	case AgeSenior:
		return "SENIOR"
	case AgeUnknown:
		return ""
	}
	return "INVALID"
}

func ParseAgeStage(raw string) AgeStage {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PUPPY", "KITTEN":
		return AgePuppy
	case "ADULT":
		return AgeAdult
	case "SENIOR":
		return AgeSenior
	}
	return AgeUnknown
}

// LifeStage is the stage a food is formulated for.
type LifeStage uint8

const (
	LifeUnknown LifeStage = iota
	LifePuppy
	LifeAdult
	LifeSenior
	LifeAll
)

func (l LifeStage) String() string {
	switch l {
	case LifePuppy:
		return "puppy"
	case LifeAdult:
		return "adult"
	case LifeSenior:
		return "senior"
	case LifeAll:
		return "all_life_stages"
	case LifeUnknown:
		return "unknown"
	}
	return "invalid"
}

var lifeStageNameHints = []struct {
	stage    LifeStage
	keywords []string
}{
	{LifePuppy, []string{"puppy", "kitten", "퍼피", "키튼"}},
	{LifeSenior, []string{"senior", "시니어"}},
	{LifeAdult, []string{"adult", "어덜트"}},
}

// ParseLifeStage reads the parsed tag and falls back to hints in the product name.
func ParseLifeStage(tag, productName string) LifeStage {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "puppy", "kitten":
		return LifePuppy
	case "adult":
		return LifeAdult
	case "senior":
		return LifeSenior
	case "all", "all_life_stages", "all_stages":
		return LifeAll
	}
	name := strings.ToLower(productName)
	for _, h := range lifeStageNameHints {
		for _, kw := range h.keywords {
			if strings.Contains(name, kw) {
				return h.stage
			}
		}
	}
	return LifeUnknown
}

type Confidence uint8

const (
	ConfidenceUnknown Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

func ParseConfidence(raw string) Confidence {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return ConfidenceHigh
	case "medium":
		return ConfidenceMedium
	case "low":
		return ConfidenceLow
	}
	return ConfidenceUnknown
}

type ProteinQuality uint8

const (
	ProteinUnknown ProteinQuality = iota
	ProteinLow
	ProteinMedium
	ProteinHigh
)

func ParseProteinQuality(raw string) ProteinQuality {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "high":
		return ProteinHigh
	case "medium":
		return ProteinMedium
	case "low":
		return ProteinLow
	}
	return ProteinUnknown
}

type BreedGroup uint8

const (
	BreedNone BreedGroup = iota
	BreedSmall
	BreedLarge
	BreedBrachycephalic
)

func (b BreedGroup) String() string {
	switch b {
	case BreedSmall:
		return "small"
	case BreedLarge:
		return "large"
	case BreedBrachycephalic:
		return "brachycephalic"
	case BreedNone:
		return "none"
	}
	return "invalid"
}

type WeightsPreset uint8

const (
	PresetBalanced WeightsPreset = iota
	PresetSafe
	PresetValue
)

func (w WeightsPreset) String() string {
	switch w {
	case PresetSafe:
		return "SAFE"
	case PresetValue:
		return "VALUE"
	case PresetBalanced:
		return "BALANCED"
	}
	return "INVALID"
}

func ParseWeightsPreset(raw string) WeightsPreset {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SAFE":
		return PresetSafe
	case "VALUE":
		return PresetValue
	}
	return PresetBalanced
}

type SortPreference uint8

const (
	SortDefault SortPreference = iota
	SortPriceAsc
)

func (s SortPreference) String() string {
	switch s {
	case SortPriceAsc:
		return "price_asc"
	case SortDefault:
		return "default"
	}
	return "invalid"
}

func ParseSortPreference(raw string) SortPreference {
	if strings.EqualFold(strings.TrimSpace(raw), "price_asc") {
		return SortPriceAsc
	}
	return SortDefault
}
