package parser

import (
	"regexp"
	"strings"

	"github.com/pygen-dev/pygen/pkg/document"
)

// Metadata is the project information extracted from the spec's info block,
// cleaned up for use in packaging files.
type Metadata struct {
	ProjectName string
	Description string
	Version     string
}

var projectNameStrip = regexp.MustCompile(`[^a-z0-9-]`)

// ExtractMetadata derives packaging metadata from the info block. The title
// becomes a lowercase hyphenated package name, the description collapses to a
// single line, and a missing version defaults to the initial-development
// release 0.1.0.
func ExtractMetadata(doc *document.Map) Metadata {
	info, _ := doc.ChildMap("info")

	title := "generated-client"
	if info.Has("title") {
		title = info.String("title")
	}
	name := projectNameStrip.ReplaceAllString(
		strings.ReplaceAll(strings.ToLower(title), " ", "-"), "")
	if name == "" {
		name = "generated-client"
	}

	description := "Generated Client"
	if info.Has("description") {
		description = info.String("description")
	}
	description = strings.Join(strings.Fields(description), " ")

	version := "0.1.0"
	if v := info.String("version"); v != "" {
		version = v
	}

	return Metadata{
		ProjectName: name,
		Description: description,
		Version:     version,
	}
}
