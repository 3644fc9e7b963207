// Package schema holds the rules shared by every ingestion path: category
// resolution, source detection, identifier generation, defaults, validation
// and duplicate detection.
package schema

import (
	"strings"

	"clawledge/pkg/models"
)

// categoryAliases maps free-text labels onto canonical categories. Keys are
// lowercase.
var categoryAliases = map[string]models.Category{
	"dev":         models.CategoryDevelopment,
	"code":        models.CategoryDevelopment,
	"coding":      models.CategoryDevelopment,
	"programming": models.CategoryDevelopment,

	"money":        models.CategoryMoneyMaking,
	"monetization": models.CategoryMoneyMaking,
	"income":       models.CategoryMoneyMaking,
	"earning":      models.CategoryMoneyMaking,

	"home":            models.CategorySmartHome,
	"iot":             models.CategorySmartHome,
	"home-automation": models.CategorySmartHome,
	"homeassistant":   models.CategorySmartHome,

	"content": models.CategoryContentCreation,
	"writing": models.CategoryContentCreation,
	"blog":    models.CategoryContentCreation,
	"social":  models.CategoryContentCreation,

	"freelance":   models.CategoryFreelancer,
	"business":    models.CategoryFreelancer,
	"solopreneur": models.CategoryFreelancer,
	"invoice":     models.CategoryFreelancer,

	"fitness": models.CategoryHealth,
	"medical": models.CategoryHealth,

	"art":    models.CategoryCreative,
	"design": models.CategoryCreative,
	"music":  models.CategoryCreative,

	"banking":    models.CategoryFinance,
	"tax":        models.CategoryFinance,
	"accounting": models.CategoryFinance,

	"science":  models.CategoryResearch,
	"academic": models.CategoryResearch,

	"email":     models.CategoryCommunication,
	"chat":      models.CategoryCommunication,
	"messaging": models.CategoryCommunication,

	"defi":       models.CategoryCrypto,
	"trading":    models.CategoryCrypto,
	"blockchain": models.CategoryCrypto,

	"crazy":        models.CategoryWild,
	"fun":          models.CategoryWild,
	"experimental": models.CategoryWild,

	"automation": models.CategoryProductivity,
	"workflow":   models.CategoryProductivity,
}

// ResolveCategory maps a label (canonical name or alias, any case) to a
// canonical category. The boolean is false when the label is unrecognized;
// callers pick their own fallback.
func ResolveCategory(input string) (models.Category, bool) {
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "" {
		return "", false
	}
	if c := models.Category(lower); c.Valid() {
		return c, true
	}
	c, ok := categoryAliases[lower]
	return c, ok
}
