// internal/head/builder.go
//
// The Builder collects the extra tags a page wants inside <head>.  Reing
// uses it for the share-card metadata on answer pages so the image from
// /question/{id}/card.jpg shows up when a link is posted elsewhere.
//
// Features
// --------
//   - Meta  – <meta property|name=… content=…>, deduplicated by key.
//   - Link  – <link rel=… href=…>, deduplicated by rel.
//   - HTML  – every tag, escaped, as template.HTML.
//
// Notes
// -----
// • One Builder per render; it is not shared between requests.
// • Oxford commas, two spaces after periods.
package head

import (
	"html/template"
	"strings"
)

type tag struct {
	attr, key, value string
}

// Builder accumulates head tags in insertion order.
type Builder struct {
	metas []tag
	links []tag
	seen  map[string]struct{}
}

func New() *Builder {
	return &Builder{seen: make(map[string]struct{})}
}

// Meta adds a meta tag.  og: keys use the property attribute, everything
// else uses name.  The first value wins.
func (b *Builder) Meta(key, content string) *Builder {
	attr := "name"
	if strings.HasPrefix(key, "og:") {
		attr = "property"
	}
	b.add(&b.metas, tag{attr: attr, key: key, value: content})
	return b
}

// Link adds a link tag.
func (b *Builder) Link(rel, href string) *Builder {
	b.add(&b.links, tag{attr: "rel", key: rel, value: href})
	return b
}

func (b *Builder) add(dst *[]tag, t tag) {
	k := t.attr + ":" + t.key
	if _, dup := b.seen[k]; dup {
		return
	}
	b.seen[k] = struct{}{}
	*dst = append(*dst, t)
}

// Share fills the OpenGraph and Twitter card tags for one page.
func (b *Builder) Share(title, description, pageURL, imageURL string) *Builder {
	b.Meta("og:type", "article").
		Meta("og:title", title).
		Meta("og:description", description).
		Meta("og:url", pageURL).
		Link("canonical", pageURL)
	if imageURL != "" {
		b.Meta("og:image", imageURL).
			Meta("twitter:card", "summary_large_image")
	}
	return b
}

// HTML renders every tag.  Attribute values are escaped here, so the
// result is safe to emit unquoted in templates.
func (b *Builder) HTML() template.HTML {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	for _, t := range b.metas {
		sb.WriteString(`<meta ` + t.attr + `="` + template.HTMLEscapeString(t.key) +
			`" content="` + template.HTMLEscapeString(t.value) + `">`)
	}
	for _, t := range b.links {
		sb.WriteString(`<link rel="` + template.HTMLEscapeString(t.key) +
			`" href="` + template.HTMLEscapeString(t.value) + `">`)
	}
	return template.HTML(sb.String())
}
