package schema

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/multierr"

	"clawledge/pkg/models"
)

const (
	minTitleLen       = 3
	minDescriptionLen = 10
)

// Result reports every rule a case violates.
type Result struct {
	Valid  bool
	Errors []string
}

// Err folds the violations into a single error, nil when valid.
func (r Result) Err() error {
	var err error
	for _, msg := range r.Errors {
		err = multierr.Append(err, errors.New(msg))
	}
	return err
}

// Validate checks a defaulted case. Every rule is evaluated; nothing is
// mutated.
func Validate(c models.Case) Result {
	var errs []string

	if utf8.RuneCountInString(c.Title) < minTitleLen {
		errs = append(errs, "title is missing or too short")
	}
	if utf8.RuneCountInString(c.Description) < minDescriptionLen {
		errs = append(errs, "description is missing or too short")
	}
	if c.Source.URL == "" {
		errs = append(errs, "source.url is missing")
	}
	if c.Source.URL != "" && !strings.HasPrefix(c.Source.URL, "http") {
		errs = append(errs, fmt.Sprintf("source.url invalid: %s", c.Source.URL))
	}
	if c.Category != "" && !c.Category.Valid() {
		errs = append(errs, fmt.Sprintf("invalid category: %s", c.Category))
	}
	if c.Difficulty != "" && !c.Difficulty.Valid() {
		errs = append(errs, fmt.Sprintf("invalid difficulty: %s", c.Difficulty))
	}
	if c.Source.Type != "" && !c.Source.Type.Valid() {
		errs = append(errs, fmt.Sprintf("invalid source type: %s", c.Source.Type))
	}

	return Result{Valid: len(errs) == 0, Errors: errs}
}
