package htmlmeta

import (
	"regexp"
	"strings"
)

// Meta holds the human readable metadata of a page.
type Meta struct {
	Title       string
	Description string
}

var (
	reMetaTag = regexp.MustCompile(`(?is)<meta\b[^>]*>`)
	reAttr    = regexp.MustCompile(`(?is)\b([a-z:-]+)\s*=\s*(?:"([^"]*)"|'([^']*)')`)
	reTitle   = regexp.MustCompile(`(?is)<title[^>]*>([^<]*)</title>`)
	reSpaces  = regexp.MustCompile(`\s+`)
)

// Extract pulls og:title / og:description out of an HTML document, falling
// back to <title> and <meta name="description">. It returns nil when the
// document carries neither a title nor a description.
func Extract(html string) *Meta {
	metas := metaContents(html)

	m := &Meta{
		Title:       firstNonEmpty(metas["og:title"], titleTag(html)),
		Description: firstNonEmpty(metas["og:description"], metas["description"]),
	}
	if m.Title == "" && m.Description == "" {
		return nil
	}
	return m
}

// metaContents maps the property/name of every <meta> tag to its content. The
// first occurrence of a key wins.
func metaContents(html string) map[string]string {
	out := map[string]string{}
	for _, tag := range reMetaTag.FindAllString(html, -1) {
		var key, content string
		hasContent := false
		for _, a := range reAttr.FindAllStringSubmatch(tag, -1) {
			val := a[2]
			if val == "" {
				val = a[3]
			}
			switch strings.ToLower(a[1]) {
			case "property", "name":
				if key == "" {
					key = strings.ToLower(strings.TrimSpace(val))
				}
			case "content":
				content, hasContent = val, true
			}
		}
		if key == "" || !hasContent {
			continue
		}
		if _, seen := out[key]; !seen {
			out[key] = clean(content)
		}
	}
	return out
}

func titleTag(html string) string {
	if m := reTitle.FindStringSubmatch(html); m != nil {
		return clean(m[1])
	}
	return ""
}

func clean(s string) string {
	s = DecodeEntities(strings.TrimSpace(s))
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
