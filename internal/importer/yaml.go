package importer

import (
	"fmt"
	"regexp"

	"github.com/nikbrunner/vault/internal/model"
	"gopkg.in/yaml.v3"
)

// HomepageEntry is a single bookmark entry in a Homepage bookmarks.yaml.
type HomepageEntry struct {
	Icon        string `yaml:"icon"`
	Abbr        string `yaml:"abbr"`
	Href        string `yaml:"href"`
	Description string `yaml:"description"`
}

// HomepageCategory maps a category name to its bookmarks.
// The YAML structure is: - CategoryName: [ - BookmarkName: [{ abbr, href }] ]
type HomepageCategory map[string][]map[string][]HomepageEntry

// HomepageBookmarks is the root structure of bookmarks.yaml.
type HomepageBookmarks []HomepageCategory

var templateVar = regexp.MustCompile(`\{\{[^}]+\}\}`)

// stripTemplateVariables removes Homepage template variables from YAML
// Example: {{HOMEPAGE_VAR_GITEA_URL}} -> ""
func stripTemplateVariables(data []byte) []byte {
	return templateVar.ReplaceAll(data, []byte(`""`))
}

// ParseHomepageYAML reads a Homepage dashboard bookmarks.yaml. Each category
// becomes a tag; entries whose href was a template variable come through with
// an empty URL and are rejected later by Classify.
func ParseHomepageYAML(data []byte, rec Recorder) ([]model.Bookmark, error) {
	var config HomepageBookmarks
	if err := yaml.Unmarshal(stripTemplateVariables(data), &config); err != nil {
		return nil, fmt.Errorf("failed to parse bookmarks yaml: %w", err)
	}

	var bookmarks []model.Bookmark
	for _, category := range config {
		for categoryName, entries := range category {
			tag := folderTag(categoryName)
			for _, entry := range entries {
				for name, props := range entry {
					for _, p := range props {
						var tags []string
						if tag != "" {
							tags = []string{tag}
						}
						bookmarks = append(bookmarks, rec.NewRecord(model.CreateInput{
							Title:       name,
							URL:         p.Href,
							Description: p.Description,
							Tags:        tags,
						}))
					}
				}
			}
		}
	}
	return bookmarks, nil
}
