package taxonomy

import (
	"strings"

	"VeloDigest/internal/domain"
)

// The keyword taxonomy is the single source of truth for relevance filtering,
// classification, and keyword scoring. All matching is case-insensitive
// substring containment over the concatenated title and summary; there is no
// stemming or fuzzy matching.

// rule binds a category to its keyword group. Rules are evaluated in slice
// order and the first match wins.
type rule struct {
	category string
	keywords []string
}

var classificationRules = []rule{
	{domain.CategoryGoverningBody, []string{"uci", "championship", "world cup"}},
	{domain.CategoryGrandTours, []string{"tour de france", "giro", "vuelta"}},
	{domain.CategoryTechnology, []string{"technology", "tech", "innovation"}},
	{domain.CategorySafety, []string{"safety", "helmet", "protection"}},
	{domain.CategoryOffRoad, []string{"mountain", "mtb", "trail"}},
	{domain.CategoryCommunity, []string{"charity", "community", "local"}},
	{domain.CategoryTraining, []string{"training", "fitness", "workout"}},
}

// relevanceKeywords keeps everything the aggregator considers on-topic:
// generic cycling terms, named recurring events, and a short list of
// current-affairs terms with high editorial value.
var relevanceKeywords = []string{
	"cycling", "bike", "bicycle", "cyclist", "biker", "biking",
	"uci", "tour de france", "giro", "vuelta", "velodrome",
	"mountain bike", "mtb", "road cycling", "track cycling",
	"cycling championship", "bike race", "cycling race",
	"cycling team", "cycling event", "cycling news",
	"bike safety", "cycling safety", "bike helmet",
	"cycling technology", "bike technology", "cycling gear",
	"cycling training", "bike training", "cycling fitness",
	"world championships", "european championship", "championship",
	"paris-roubaix", "milan-san remo", "liège-bastogne-liège",
	"israel", "team name change", "professional cycling",
	"grand tour", "classic", "monument", "spring classic",
}

// Keyword score weights, in descending order of editorial importance.
const (
	bonusWorlds        = 35
	bonusTeamNews      = 30
	bonusContinental   = 30
	bonusMonuments     = 28
	bonusGoverningBody = 25
	bonusGrandTours    = 25
	bonusProCycling    = 20
	bonusSourceBrand   = 20
	bonusRaceResults   = 18
	bonusTechnology    = 12
	bonusSourceSport   = 10
	bonusSafety        = 10
	bonusOffRoad       = 8
	bonusTraining      = 6
)

// IsRelevant reports whether an item belongs to the cycling domain at all.
// Items failing this predicate never reach the article stage.
func IsRelevant(title, summary string) bool {
	return containsAny(fold(title, summary), relevanceKeywords)
}

// Classify assigns exactly one category from the closed set. The rule order is
// a deliberate precedence contract: an item matching both "championship" and
// "technology" is always governing-body news.
func Classify(title, summary string) string {
	text := fold(title, summary)
	for _, r := range classificationRules {
		if containsAny(text, r.keywords) {
			return r.category
		}
	}
	return domain.CategoryGeneral
}

// KeywordBonus accumulates the additive keyword score for an item. The
// world-championship tier supersedes the generic governing-body tier; every
// other group stacks independently.
func KeywordBonus(title, summary string) int {
	text := fold(title, summary)

	bonus := 0
	switch {
	case containsAny(text, []string{"uci world championships", "world championships"}):
		bonus += bonusWorlds
	case containsAny(text, []string{"uci", "championship", "world cup"}):
		bonus += bonusGoverningBody
	}

	if containsAny(text, []string{"european championship", "european cycling"}) {
		bonus += bonusContinental
	}
	if containsAny(text, []string{"tour de france", "giro", "vuelta"}) {
		bonus += bonusGrandTours
	}
	if containsAny(text, []string{"paris-roubaix", "milan-san remo", "liège-bastogne-liège", "flanders"}) {
		bonus += bonusMonuments
	}
	if strings.Contains(text, "israel") && (strings.Contains(text, "team") || strings.Contains(text, "name change")) {
		bonus += bonusTeamNews
	}
	if containsAny(text, []string{"professional cycling", "pro cycling"}) {
		bonus += bonusProCycling
	}
	if containsAny(text, []string{"cycling results", "race results", "cycling news", "cycling event"}) {
		bonus += bonusRaceResults
	}
	if containsAny(text, []string{"technology", "innovation", "tech"}) {
		bonus += bonusTechnology
	}
	if containsAny(text, []string{"safety", "helmet", "protection"}) {
		bonus += bonusSafety
	}
	if containsAny(text, []string{"mountain", "mtb", "trail"}) {
		bonus += bonusOffRoad
	}
	if containsAny(text, []string{"training", "fitness", "workout"}) {
		bonus += bonusTraining
	}

	return bonus
}

// SourceBonus rewards outlets whose name signals cycling focus, with a smaller
// bonus for generic sports outlets.
func SourceBonus(source string) int {
	name := strings.ToLower(source)
	if containsAny(name, []string{"cycling", "bike", "velo", "bicycle"}) {
		return bonusSourceBrand
	}
	if containsAny(name, []string{"sport", "athletic"}) {
		return bonusSourceSport
	}
	return 0
}

func fold(title, summary string) string {
	return strings.ToLower(title + " " + summary)
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
