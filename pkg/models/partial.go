package models

// PartialCase is the sparse record handed to the pipeline by editors,
// spreadsheet extraction and the submission sheet. Zero values mean
// "not supplied"; the pointer fields exist where the zero value is a
// meaningful answer.
type PartialCase struct {
	ID                 string         `json:"id,omitempty"`
	Title              string         `json:"title,omitempty"`
	Description        string         `json:"description,omitempty"`
	FullContent        string         `json:"fullContent,omitempty"`
	Category           string         `json:"category,omitempty"`
	Tags               []string       `json:"tags,omitempty"`
	Difficulty         string         `json:"difficulty,omitempty"`
	EstimatedSetupTime string         `json:"estimatedSetupTime,omitempty"`
	Source             *PartialSource `json:"source,omitempty"`
	Requirements       []string       `json:"requirements,omitempty"`
	MonthlyAPICost     string         `json:"monthlyApiCost,omitempty"`
	Monetizable        *bool          `json:"monetizable,omitempty"`
	RevenueEstimate    string         `json:"revenueEstimate,omitempty"`
	Verified           *bool          `json:"verified,omitempty"`
	DateAdded          string         `json:"dateAdded,omitempty"`
	Featured           *bool          `json:"featured,omitempty"`
	ImpactScore        *float64       `json:"impactScore,omitempty"`
	RelatedSkills      []string       `json:"relatedSkills,omitempty"`
	RelatedRepos       []string       `json:"relatedRepos,omitempty"`
}

type PartialSource struct {
	Type         string `json:"type,omitempty"`
	URL          string `json:"url,omitempty"`
	Author       string `json:"author,omitempty"`
	AuthorHandle string `json:"authorHandle,omitempty"`
	Date         string `json:"date,omitempty"`
	Quote        string `json:"quote,omitempty"`
}

// URL returns the source URL or "" when no source was supplied.
func (p PartialCase) URL() string {
	if p.Source == nil {
		return ""
	}
	return p.Source.URL
}

func Bool(v bool) *bool { return &v }

func Float(v float64) *float64 { return &v }
