package sheet

import (
	"strings"

	"clawledge/pkg/models"
)

type keywordRule struct {
	category models.Category
	words    []string
}

// categoryKeywords is scanned in order; a later category needs a strictly
// higher score to win.
var categoryKeywords = []keywordRule{
	{models.CategoryDevelopment, []string{"code", "developer", "github", "api", "build", "deploy", "debug", "programming"}},
	{models.CategoryProductivity, []string{"automat", "workflow", "task", "calendar", "schedule", "organize", "notion"}},
	{models.CategoryMoneyMaking, []string{"revenue", "income", "monetiz", "earning", "sell", "saas", "business"}},
	{models.CategorySmartHome, []string{"home assistant", "smart home", "iot", "raspberry", "sensor", "light", "thermostat"}},
	{models.CategoryContentCreation, []string{"blog", "content", "write", "newsletter", "social media", "post", "youtube"}},
	{models.CategoryFreelancer, []string{"invoice", "freelanc", "client", "billing", "contract", "solopreneur", "accounting"}},
	{models.CategoryCrypto, []string{"crypto", "trading", "defi", "blockchain", "nft", "token", "wallet"}},
	{models.CategoryHealth, []string{"health", "fitness", "workout", "medical", "sleep", "nutrition", "exercise"}},
	{models.CategoryFinance, []string{"finance", "budget", "expense", "tax", "bank", "invest", "portfolio"}},
	{models.CategoryResearch, []string{"research", "paper", "study", "academic", "science", "analysis"}},
	{models.CategoryCommunication, []string{"email", "slack", "telegram", "whatsapp", "message", "notification", "chat"}},
	{models.CategoryCreative, []string{"music", "art", "design", "video", "photo", "creative", "animation"}},
	{models.CategoryWild, []string{"crazy", "wild", "hack", "experiment", "tinder", "dating"}},
}

// GuessCategory scores text against the keyword table by substring hits.
// Text with no hits is productivity.
func GuessCategory(text string) models.Category {
	lower := strings.ToLower(text)
	best, bestScore := models.CategoryProductivity, 0
	for _, rule := range categoryKeywords {
		score := 0
		for _, w := range rule.words {
			if strings.Contains(lower, w) {
				score++
			}
		}
		if score > bestScore {
			best, bestScore = rule.category, score
		}
	}
	return best
}
