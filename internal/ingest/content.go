package ingest

import (
	"fmt"
	"strings"

	"clawledge/pkg/models"
)

// FullContent renders the long-form body used when a case arrives without one.
func FullContent(c models.Case) string {
	author := c.Source.Author
	if author == "" {
		author = "A user"
	}
	handle := ""
	if c.Source.AuthorHandle != "" {
		handle = fmt.Sprintf(" (%s)", c.Source.AuthorHandle)
	}

	return strings.Join([]string{
		fmt.Sprintf("%s%s shared their OpenClaw setup.", author, handle),
		"",
		"## Overview",
		"",
		c.Description,
		"",
		"## Setup",
		"",
		fmt.Sprintf("**Requirements:** %s", strings.Join(c.Requirements, ", ")),
		"",
		fmt.Sprintf("**Estimated setup time:** %s", c.EstimatedSetupTime),
		fmt.Sprintf("**Monthly API cost:** %s", c.MonthlyAPICost),
		"",
		"## Source",
		"",
		fmt.Sprintf("[Original post](%s)", c.Source.URL),
	}, "\n")
}
