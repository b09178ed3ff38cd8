package scoring

import (
	"fmt"
	"strings"
)

const (
	speciesComponentMax = 20.0
	healthComponentMax  = 30.0
	healthTagMultiplier = 1.5
	healthPriorityBoost = 1.5
	breedBase           = 10.0
	breedComponentMax   = 15.0
	fitnessMax          = 100.0
)

type ageCell struct {
	score   float64
	penalty float64
}

// ageTable is indexed by [subject stage][food life stage].
var ageTable = [AgeSenior + 1][LifeAll + 1]ageCell{
	AgeUnknown: {
		LifeUnknown: {20, 0}, LifePuppy: {20, 0}, LifeAdult: {20, 0}, LifeSenior: {20, 0}, LifeAll: {20, 0},
	},
	AgePuppy: {
		LifeUnknown: {15, 0}, LifePuppy: {25, 0}, LifeAdult: {15, 0}, LifeSenior: {0, 20}, LifeAll: {20, 0},
	},
	AgeAdult: {
		LifeUnknown: {20, 0}, LifePuppy: {15, 0}, LifeAdult: {25, 0}, LifeSenior: {20, 0}, LifeAll: {22, 0},
	},
	AgeSenior: {
		LifeUnknown: {15, 0}, LifePuppy: {0, 15}, LifeAdult: {20, 0}, LifeSenior: {25, 0}, LifeAll: {20, 0},
	},
}

type healthRule struct {
	weight   float64
	tag      string
	keywords []string
}

var healthRules = map[string]healthRule{
	"OBESITY":      {10, "weight_management", []string{"저칼로리", "다이어트", "light", "weight"}},
	"DIABETES":     {10, "weight_management", []string{"저탄수화물", "low carb", "grain free", "diabetic"}},
	"SKIN_ALLERGY": {8, "hypoallergenic", []string{"저알레르기", "hypoallergenic", "단일단백질", "limited ingredient"}},
	"JOINT":        {8, "joint_support", []string{"글루코사민", "콘드로이틴", "glucosamine", "chondroitin", "joint"}},
	"DIGESTIVE":    {7, "digestive", []string{"섬유질", "프로바이오틱스", "probiotic", "fiber", "digestive"}},
	"URINARY":      {7, "urinary", []string{"저인", "저마그네슘", "urinary", "low phosphorus"}},
	"DENTAL":       {6, "dental", []string{"dental", "구강", "치아", "tartar"}},
	"SKIN_COAT":    {6, "skin_coat", []string{"skin", "coat", "피모", "오메가", "omega"}},
	"IMMUNE":       {6, "immune_support", []string{"immune", "면역", "antioxidant"}},
}

var breedGroups = map[string]BreedGroup{
	"MALTESE":            BreedSmall,
	"POODLE":             BreedSmall,
	"YORKSHIRE_TERRIER":  BreedSmall,
	"CHIHUAHUA":          BreedSmall,
	"POMERANIAN":         BreedSmall,
	"말티즈":                BreedSmall,
	"푸들":                 BreedSmall,
	"요크셔테리어":             BreedSmall,
	"치와와":                BreedSmall,
	"포메라니안":              BreedSmall,
	"GOLDEN_RETRIEVER":   BreedLarge,
	"LABRADOR_RETRIEVER": BreedLarge,
	"HUSKY":              BreedLarge,
	"SAINT_BERNARD":      BreedLarge,
	"골든리트리버":             BreedLarge,
	"래브라도리트리버":           BreedLarge,
	"허스키":                BreedLarge,
	"세인트버나드":             BreedLarge,
	"PUG":                BreedBrachycephalic,
	"FRENCH_BULLDOG":     BreedBrachycephalic,
	"BOSTON_TERRIER":     BreedBrachycephalic,
	"BULLDOG":            BreedBrachycephalic,
	"퍼그":                 BreedBrachycephalic,
	"프렌치불독":              BreedBrachycephalic,
	"보스턴테리어":             BreedBrachycephalic,
	"불독":                 BreedBrachycephalic,
}

func ClassifyBreed(code string) BreedGroup {
	key := strings.ToUpper(strings.TrimSpace(code))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	if g, ok := breedGroups[key]; ok {
		return g
	}
	if g, ok := breedGroups[strings.ReplaceAll(key, "_", "")]; ok {
		return g
	}
	return BreedNone
}

// Fitness scores how well a safe cand suits subj on a 0-100 scale. AgePenalty is kept
// outside that scale and subtracted after combination.
func (s *Scorer) Fitness(subj *Subject, cand *Candidate) FitnessResult {
	var reasons []string

	if cand.Species != SpeciesAny && cand.Species != subj.Species {
		return FitnessResult{
			SpeciesMismatch: true,
			Reasons:         []string{fmt.Sprintf("excluded: made for %s", strings.ToLower(cand.Species.String()))},
		}
	}
	species := speciesComponentMax
	if cand.Species == SpeciesAny {
		reasons = append(reasons, "suitable for all species")
	} else {
		reasons = append(reasons, fmt.Sprintf("made for %s", strings.ToLower(subj.Species.String())))
	}

	age, agePenalty, ageReason := scoreAge(subj.AgeStage, cand.LifeStage)
	if ageReason != "" {
		reasons = append(reasons, ageReason)
	}

	health, healthReasons := s.scoreHealth(subj, cand)
	reasons = append(reasons, healthReasons...)

	breed, breedReasons := scoreBreed(subj.BreedCode, cand)
	reasons = append(reasons, breedReasons...)

	nutrition := ScoreNutrition(subj, cand)
	reasons = append(reasons, nutrition.Reasons...)

	total := species + age + health + breed + nutrition.Score
	if total > fitnessMax {
		total = fitnessMax
	}
	return FitnessResult{
		Score:              total,
		Reasons:            reasons,
		AgePenalty:         agePenalty,
		SpeciesComponent:   species,
		AgeComponent:       age,
		HealthComponent:    health,
		BreedComponent:     breed,
		NutritionComponent: nutrition.Score,
	}
}

func scoreAge(stage AgeStage, life LifeStage) (float64, float64, string) {
	if int(stage) >= len(ageTable) || int(life) >= len(ageTable[0]) {
		return 0, 0, ""
	}
	cell := ageTable[stage][life]
	switch {
	case stage == AgeUnknown:
		return cell.score, 0, ""
	case cell.penalty > 0:
		return cell.score, cell.penalty, fmt.Sprintf("unsuitable life stage: %s food for a %s pet", life, strings.ToLower(stage.String()))
	case cell.score >= 25:
		return cell.score, 0, "matches life stage"
	case life == LifeAll:
		return cell.score, 0, "formulated for all life stages"
	default:
		return cell.score, 0, ""
	}
}

func (s *Scorer) scoreHealth(subj *Subject, cand *Candidate) (float64, []string) {
	if len(subj.HealthConcerns) == 0 {
		return 0, nil
	}
	haystack := strings.ToLower(cand.Notes) + " " + cand.ingredientText()
	var total float64
	var reasons []string
	for _, concern := range normalizeCodes(subj.HealthConcerns) {
		rule, ok := healthRules[concern]
		if !ok {
			continue
		}
		if cand.hasTag(rule.tag) {
			total += rule.weight * healthTagMultiplier
			reasons = append(reasons, fmt.Sprintf("supports %s (%s)", strings.ToLower(concern), rule.tag))
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				total += rule.weight
				reasons = append(reasons, fmt.Sprintf("may help with %s", strings.ToLower(concern)))
				break
			}
		}
	}
	if subj.HealthPriority {
		total *= healthPriorityBoost
	}
	return clamp(total, 0, healthComponentMax), reasons
}

func scoreBreed(breedCode string, cand *Candidate) (float64, []string) {
	score := breedBase
	var reasons []string
	name := strings.ToLower(cand.ProductName)

	switch ClassifyBreed(breedCode) {
	case BreedSmall:
		if cand.GrainFree {
			score += 5
			reasons = append(reasons, "grain free for small breeds")
		}
		if strings.Contains(name, "small") || strings.Contains(name, "소형견") {
			score += 5
			reasons = append(reasons, "small breed formula")
		}
		if cand.hasTag("hypoallergenic") {
			score += 3
		}
	case BreedLarge:
		if strings.Contains(name, "large") || strings.Contains(name, "대형견") {
			score += 5
			reasons = append(reasons, "large breed formula")
		}
		if cand.hasTag("joint_support") {
			score += 5
			reasons = append(reasons, "joint support for large breeds")
		} else if containsAny(strings.ToLower(cand.Notes)+" "+cand.ingredientText(), healthRules["JOINT"].keywords) {
			score += 3.5
		}
	case BreedBrachycephalic:
		if strings.Contains(name, "다이어트") || strings.Contains(name, "light") {
			score += 5
			reasons = append(reasons, "light formula for brachycephalic breeds")
		}
		if cand.hasTag("weight_management") {
			score += 5
			reasons = append(reasons, "weight management for brachycephalic breeds")
		}
	case BreedNone:
	}
	return clamp(score, 0, breedComponentMax), reasons
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
