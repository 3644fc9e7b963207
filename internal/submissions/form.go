package submissions

import (
	"errors"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"golang.org/x/net/html"

	"clawledge/pkg/models"
)

const maxURLLen = 500

var (
	blockedExtensions = regexp.MustCompile(`(?i)\.(exe|msi|bat|cmd|scr|ps1|vbs|wsf|dll|sys|bin|iso|img|js|zip|rar|7z|tar|gz)$`)
	blockedProtocols  = regexp.MustCompile(`(?i)^(javascript|data|file|ftp|blob):`)
	formulaStart      = regexp.MustCompile(`^[=+\-@\t\r]`)
)

// Form is the public submission payload. Website is a honeypot that humans
// never see.
type Form struct {
	Title            string `form:"title" json:"title"`
	Description      string `form:"description" json:"description"`
	SubmitterName    string `form:"submitterName" json:"submitterName"`
	SubmitterContact string `form:"submitterContact" json:"submitterContact"`
	SourceURL        string `form:"sourceUrl" json:"sourceUrl"`
	Category         string `form:"category" json:"category"`
	Difficulty       string `form:"difficulty" json:"difficulty"`
	EstimatedCost    string `form:"estimatedCost" json:"estimatedCost"`
	Skills           string `form:"skills" json:"skills"`
	Monetizable      string `form:"monetizable" json:"monetizable"`
	AllowAttribution string `form:"allowAttribution" json:"allowAttribution"`
	Website          string `form:"website" json:"website"`
}

// cleanForm is the sanitized form; the tags carry the length floors.
type cleanForm struct {
	Title       string `validate:"min=10,max=100"`
	Description string `validate:"min=50,max=500"`
	Name        string `validate:"min=2"`
	Contact     string `validate:"min=3"`
	Attribution bool   `validate:"required"`
}

var fieldMessages = map[string]string{
	"Title":       "Title must be between 10 and 100 characters.",
	"Description": "Description must be between 50 and 500 characters.",
	"Name":        "Please provide your name.",
	"Contact":     "Please provide a valid contact (X handle or email).",
	"Attribution": "You must allow attribution to submit a use case.",
}

var validate = validator.New()

// FormError is a rejection the submitter can act on.
type FormError struct {
	Message string
}

func (e *FormError) Error() string { return e.Message }

func (e *FormError) Unwrap() error { return ErrInvalid }

// IsSpam reports whether the honeypot field was filled.
func (f Form) IsSpam() bool {
	return strings.TrimSpace(f.Website) != ""
}

// Check sanitizes and validates the form and returns the sheet row to
// append. Text is HTML-stripped before length checks and formula-neutralized
// after them.
func (f Form) Check(now time.Time) (Row, error) {
	if f.IsSpam() {
		return Row{}, ErrSpam
	}

	cf := cleanForm{
		Title:       StripHTML(strings.TrimSpace(f.Title)),
		Description: StripHTML(strings.TrimSpace(f.Description)),
		Name:        StripHTML(strings.TrimSpace(f.SubmitterName)),
		Contact:     StripHTML(strings.TrimSpace(f.SubmitterContact)),
		Attribution: checked(f.AllowAttribution),
	}
	if err := validate.Struct(cf); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return Row{}, &FormError{Message: fieldMessages[ve[0].Field()]}
		}
		return Row{}, err
	}

	sourceURL := strings.TrimSpace(f.SourceURL)
	if msg := CheckURL(sourceURL); msg != "" {
		return Row{}, &FormError{Message: msg}
	}

	category := ""
	if c := models.Category(f.Category); c.Valid() {
		category = string(c)
	}
	difficulty := ""
	if d := models.Difficulty(f.Difficulty); d.Valid() {
		difficulty = string(d)
	}

	return Row{
		Timestamp:   now.UTC().Format(time.RFC3339Nano),
		Title:       NeutralizeFormula(cf.Title),
		Description: NeutralizeFormula(cf.Description),
		Name:        NeutralizeFormula(cf.Name),
		Contact:     NeutralizeFormula(cf.Contact),
		URL:         sourceURL,
		Category:    category,
		Difficulty:  difficulty,
		Cost:        NeutralizeFormula(StripHTML(strings.TrimSpace(f.EstimatedCost))),
		Skills:      NeutralizeFormula(StripHTML(strings.TrimSpace(f.Skills))),
		Monetizable: yesNo(checked(f.Monetizable)),
		Attribution: yesNo(cf.Attribution),
		Status:      StatusPending,
	}, nil
}

// CheckURL returns a message for an unacceptable source URL, or "" when the
// URL is empty or fine.
func CheckURL(u string) string {
	if u == "" {
		return ""
	}
	if utf8.RuneCountInString(u) > maxURLLen {
		return "URL is too long (max 500 characters)."
	}
	if blockedProtocols.MatchString(u) {
		return "Only https:// URLs are allowed."
	}
	if !strings.HasPrefix(u, "https://") && !strings.HasPrefix(u, "http://") {
		return "URL must start with https://"
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.Host == "" {
		return "Invalid URL format."
	}
	if blockedExtensions.MatchString(parsed.Path) {
		return "URLs pointing to downloadable files are not allowed."
	}
	return ""
}

// StripHTML drops every tag and comment and keeps the text between them
// verbatim, entities included.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Raw())
		}
	}
}

// NeutralizeFormula prefixes a quote to values a spreadsheet would evaluate.
func NeutralizeFormula(s string) string {
	if formulaStart.MatchString(s) {
		return "'" + s
	}
	return s
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "yes", "1":
		return true
	}
	return false
}
