package models

// Category is the closed set of use-case categories. Values outside the set
// never leave the category resolver.
type Category string

const (
	CategoryProductivity    Category = "productivity"
	CategoryDevelopment     Category = "development"
	CategoryContentCreation Category = "content-creation"
	CategoryMoneyMaking     Category = "money-making"
	CategorySmartHome       Category = "smart-home"
	CategoryResearch        Category = "research"
	CategoryFinance         Category = "finance"
	CategoryHealth          Category = "health"
	CategoryCommunication   Category = "communication"
	CategoryCreative        Category = "creative"
	CategoryCrypto          Category = "crypto"
	CategoryFreelancer      Category = "freelancer"
	CategoryWild            Category = "wild"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryProductivity,
	CategoryDevelopment,
	CategoryContentCreation,
	CategoryMoneyMaking,
	CategorySmartHome,
	CategoryResearch,
	CategoryFinance,
	CategoryHealth,
	CategoryCommunication,
	CategoryCreative,
	CategoryCrypto,
	CategoryFreelancer,
	CategoryWild,
}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

func (c Category) String() string { return string(c) }

type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced}

func (d Difficulty) Valid() bool {
	for _, v := range Difficulties {
		if d == v {
			return true
		}
	}
	return false
}

// SourceType records where a case was found.
type SourceType string

const (
	SourceXPost      SourceType = "x-post"
	SourceGitHub     SourceType = "github"
	SourceBlog       SourceType = "blog"
	SourceReddit     SourceType = "reddit"
	SourceDiscord    SourceType = "discord"
	SourceYouTube    SourceType = "youtube"
	SourceMedium     SourceType = "medium"
	SourceHackerNews SourceType = "hacker-news"
	SourceSubstack   SourceType = "substack"
)

var SourceTypes = []SourceType{
	SourceXPost,
	SourceGitHub,
	SourceBlog,
	SourceReddit,
	SourceDiscord,
	SourceYouTube,
	SourceMedium,
	SourceHackerNews,
	SourceSubstack,
}

func (s SourceType) Valid() bool {
	for _, v := range SourceTypes {
		if s == v {
			return true
		}
	}
	return false
}
