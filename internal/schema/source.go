package schema

import (
	"strings"

	"clawledge/pkg/models"
)

type hostRule struct {
	needles []string
	kind    models.SourceType
}

// Checked in order; the first rule with a matching needle wins.
var sourceRules = []hostRule{
	{[]string{"x.com/", "twitter.com/"}, models.SourceXPost},
	{[]string{"github.com"}, models.SourceGitHub},
	{[]string{"reddit.com"}, models.SourceReddit},
	{[]string{"news.ycombinator.com"}, models.SourceHackerNews},
	{[]string{"medium.com"}, models.SourceMedium},
	{[]string{"youtube.com", "youtu.be"}, models.SourceYouTube},
	{[]string{"discord.com", "discord.gg"}, models.SourceDiscord},
	{[]string{".substack.com"}, models.SourceSubstack},
}

// DetectSourceType classifies a URL by host substring. Unknown or empty URLs
// are blogs.
func DetectSourceType(url string) models.SourceType {
	if url == "" {
		return models.SourceBlog
	}
	u := strings.ToLower(url)
	for _, rule := range sourceRules {
		for _, needle := range rule.needles {
			if strings.Contains(u, needle) {
				return rule.kind
			}
		}
	}
	return models.SourceBlog
}
