package cache

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const Namespace = "petfood"

const (
	DefaultRecommendationTTL = 7 * 24 * time.Hour
	DefaultSummaryTTL        = time.Hour
	DefaultScoreTTL          = time.Hour
	DefaultFreshnessWindow   = 7 * 24 * time.Hour
	DefaultOpTimeout         = 500 * time.Millisecond
)

func ResultKey(petID uuid.UUID) string {
	return fmt.Sprintf("%s:rec:result:%s", Namespace, petID)
}

func MetaKey(petID uuid.UUID) string {
	return fmt.Sprintf("%s:rec:meta:%s", Namespace, petID)
}

func TagsKey(petID uuid.UUID) string {
	return fmt.Sprintf("%s:rec:tags:%s", Namespace, petID)
}

func SummaryKey(petID uuid.UUID) string {
	return fmt.Sprintf("%s:pet:summary:%s", Namespace, petID)
}

func ScoreKey(petID, productID uuid.UUID) string {
	return fmt.Sprintf("%s:rec:score:%s:%s", Namespace, petID, productID)
}

func petScorePattern(petID uuid.UUID) string {
	return fmt.Sprintf("%s:rec:score:%s:*", Namespace, petID)
}

func productScorePattern(productID uuid.UUID) string {
	return fmt.Sprintf("%s:rec:score:*:%s", Namespace, productID)
}

func allRecommendationsPattern() string {
	return Namespace + ":rec:*"
}

// Watermarks live outside rec:* so a bulk delete cannot erase them.
func petWatermarkKey(petID uuid.UUID) string {
	return fmt.Sprintf("%s:inv:pet:%s", Namespace, petID)
}

func globalWatermarkKey() string {
	return Namespace + ":inv:all"
}
