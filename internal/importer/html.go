package importer

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nikbrunner/vault/internal/model"
	"golang.org/x/net/html"
)

// Recorder assigns ids and creation timestamps. *store.Store implements it.
type Recorder interface {
	NewRecord(in model.CreateInput) model.Bookmark
}

// ParseHTML parses Netscape bookmark HTML into flat records. The folders a
// bookmark sits in become tags, followed by any TAGS attribute values.
// ADD_DATE, when present, becomes createdAt.
func ParseHTML(r io.Reader, rec Recorder) ([]model.Bookmark, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}

	var bookmarks []model.Bookmark

	// Track current folder stack for hierarchy
	var folderStack []string
	var pendingFolder string // folder waiting to be pushed on next DL

	var parse func(*html.Node)
	parse = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch strings.ToLower(n.Data) {
			case "h3":
				// Folder definition - get name from text content
				pendingFolder = folderTag(getTextContent(n))
				return // Don't recurse into H3

			case "a":
				href := getAttr(n, "href")
				if href == "" {
					// Skip bookmarks without URL
					return
				}

				title := getTextContent(n)
				if title == "" {
					title = href // fallback to URL as title
				}

				tags := append([]string{}, folderStack...)
				tags = append(tags, splitTags(getAttr(n, "tags"))...)

				b := rec.NewRecord(model.CreateInput{
					Title: title,
					URL:   href,
					Tags:  dedupe(tags),
				})

				// Parse ADD_DATE timestamp
				if addDate := getAttr(n, "add_date"); addDate != "" {
					if ts, err := strconv.ParseInt(addDate, 10, 64); err == nil && ts > 0 {
						b.CreatedAt = model.FormatTime(time.Unix(ts, 0))
					}
				}

				bookmarks = append(bookmarks, b)
				return // Don't recurse into A

			case "dd":
				// Description of the preceding bookmark
				if len(bookmarks) > 0 {
					last := &bookmarks[len(bookmarks)-1]
					if last.Description == "" {
						last.Description = ownText(n)
					}
				}

			case "dl":
				// Definition list - marks folder contents
				pushedFolder := false
				if pendingFolder != "" {
					folderStack = append(folderStack, pendingFolder)
					pendingFolder = ""
					pushedFolder = true
				}

				for c := n.FirstChild; c != nil; c = c.NextSibling {
					parse(c)
				}

				if pushedFolder && len(folderStack) > 0 {
					folderStack = folderStack[:len(folderStack)-1]
				}
				return // Don't recurse further, we handled children
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			parse(c)
		}
	}

	parse(doc)
	return bookmarks, nil
}

// folderTag turns a folder name into a tag: "Dev Tools" -> "dev-tools".
func folderTag(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// splitTags parses a comma-separated TAGS attribute.
func splitTags(s string) []string {
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

func dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// getTextContent returns the text content of a node.
func getTextContent(n *html.Node) string {
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(text.String())
}

// ownText returns only the direct text children of n.
func ownText(n *html.Node) string {
	var text strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			text.WriteString(c.Data)
		}
	}
	return strings.TrimSpace(text.String())
}

// getAttr returns the value of an attribute, case-insensitive.
func getAttr(n *html.Node, key string) string {
	key = strings.ToLower(key)
	for _, attr := range n.Attr {
		if strings.ToLower(attr.Key) == key {
			return attr.Val
		}
	}
	return ""
}
