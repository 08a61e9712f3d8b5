package wardrobe

import (
	"strings"

	"github.com/loom-social/loom/internal/store"
)

// Fallback values for unmapped inputs. The helpers below are total over
// their domains: any input maps to something.
const (
	FallbackName      = "Unnamed Item"
	FallbackCategory  = "other"
	FallbackCondition = "good"
)

// Condition statuses accepted by the platform.
const (
	ConditionNew           = "new"
	ConditionExcellentUsed = "excellent-used"
	ConditionGood          = "good"
	ConditionFair          = "fair"
	ConditionPoor          = "poor"
)

// conditionTable maps free-form condition spellings to canonical statuses.
var conditionTable = map[string]string{
	"new":            ConditionNew,
	"brand new":      ConditionNew,
	"nwt":            ConditionNew,
	"excellent":      ConditionExcellentUsed,
	"excellent used": ConditionExcellentUsed,
	"excellent-used": ConditionExcellentUsed,
	"excellent_used": ConditionExcellentUsed,
	"like new":       ConditionExcellentUsed,
	"good":           ConditionGood,
	"used":           ConditionGood,
	"fair":           ConditionFair,
	"worn":           ConditionFair,
	"poor":           ConditionPoor,
	"damaged":        ConditionPoor,
}

// categoryTable maps category spellings to the canonical page-level buckets.
var categoryTable = map[string]string{
	"top":         "tops",
	"tops":        "tops",
	"shirt":       "tops",
	"shirts":      "tops",
	"tee":         "tops",
	"tees":        "tops",
	"blouse":      "tops",
	"bottom":      "bottoms",
	"bottoms":     "bottoms",
	"pants":       "bottoms",
	"trousers":    "bottoms",
	"jeans":       "bottoms",
	"skirt":       "bottoms",
	"skirts":      "bottoms",
	"shorts":      "bottoms",
	"dress":       "dresses",
	"dresses":     "dresses",
	"gown":        "dresses",
	"outerwear":   "outerwear",
	"jacket":      "outerwear",
	"jackets":     "outerwear",
	"coat":        "outerwear",
	"coats":       "outerwear",
	"blazer":      "outerwear",
	"shoe":        "shoes",
	"shoes":       "shoes",
	"sneakers":    "shoes",
	"boots":       "shoes",
	"heels":       "shoes",
	"accessory":   "accessories",
	"accessories": "accessories",
	"bag":         "accessories",
	"bags":        "accessories",
	"belt":        "accessories",
	"scarf":       "accessories",
	"jewelry":     "accessories",
	"hat":         "accessories",
}

// CanonicalCondition maps a free-form condition string to its canonical
// status, defaulting to "good".
func CanonicalCondition(s string) string {
	if c, ok := conditionTable[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return FallbackCondition
}

// CanonicalCategory maps a category spelling to its page-level bucket,
// defaulting to "other".
func CanonicalCategory(s string) string {
	if c, ok := categoryTable[strings.ToLower(strings.TrimSpace(s))]; ok {
		return c
	}
	return FallbackCategory
}

// ExtractItemName derives a display name for a possibly partial item.
// Preference order: explicit name, brand plus deepest category, deepest
// category alone, then "Unnamed Item".
func ExtractItemName(item *store.Item) string {
	if name := strings.TrimSpace(item.Name); name != "" {
		return name
	}

	category := deepestCategory(item)
	brand := strings.TrimSpace(item.Brand)
	switch {
	case brand != "" && category != "":
		return brand + " " + category
	case brand != "":
		return brand
	case category != "":
		return strings.ToUpper(category[:1]) + category[1:]
	default:
		return FallbackName
	}
}

// deepestCategory walks gray -> white -> blue -> page and returns the most
// specific label present.
func deepestCategory(item *store.Item) string {
	for _, c := range []string{item.CategoryGray, item.CategoryWhite, item.CategoryBlue, item.CategoryPage} {
		if c = strings.TrimSpace(c); c != "" {
			return c
		}
	}
	return ""
}
