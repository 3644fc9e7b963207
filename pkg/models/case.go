package models

// Case is one curated use-case as stored in the dataset file.
//
// Field order matches the persisted JSON layout; encoding/json keeps struct
// order, so do not reorder fields without migrating the dataset.
type Case struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	FullContent        string     `json:"fullContent"`
	Category           Category   `json:"category"`
	Tags               []string   `json:"tags"`
	Difficulty         Difficulty `json:"difficulty"`
	EstimatedSetupTime string     `json:"estimatedSetupTime"`
	Source             Source     `json:"source"`
	Requirements       []string   `json:"requirements"`
	MonthlyAPICost     string     `json:"monthlyApiCost"`
	Monetizable        bool       `json:"monetizable"`
	RevenueEstimate    string     `json:"revenueEstimate,omitempty"`
	Verified           bool       `json:"verified"`
	DateAdded          string     `json:"dateAdded"`
	Featured           bool       `json:"featured"`
	ImpactScore        *float64   `json:"impactScore,omitempty"`
	RelatedSkills      []string   `json:"relatedSkills"`
	RelatedRepos       []string   `json:"relatedRepos"`
}

// Source is owned by a Case and has no lifecycle of its own.
type Source struct {
	Type         SourceType `json:"type"`
	URL          string     `json:"url"`
	Author       string     `json:"author"`
	AuthorHandle string     `json:"authorHandle,omitempty"`
	Date         string     `json:"date,omitempty"`
	Quote        string     `json:"quote,omitempty"`
}

// Normalize replaces nil list fields with empty lists so the record encodes
// with [] instead of null.
func (c *Case) Normalize() {
	if c.Tags == nil {
		c.Tags = []string{}
	}
	if c.Requirements == nil {
		c.Requirements = []string{}
	}
	if c.RelatedSkills == nil {
		c.RelatedSkills = []string{}
	}
	if c.RelatedRepos == nil {
		c.RelatedRepos = []string{}
	}
}
