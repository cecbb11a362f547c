// Package render turns stored post bodies into HTML and plain text excerpts.
package render

import (
	"bytes"
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	goldhtml "github.com/yuin/goldmark/renderer/html"
)

var (
	markdownEngine = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Linkify, extension.Table),
		goldmark.WithRendererOptions(goldhtml.WithHardWraps(), goldhtml.WithXHTML()),
	)
	sanitizer   = bluemonday.UGCPolicy()
	textOnly    = bluemonday.StrictPolicy()
	excerptTail = "…"
)

// Markdown renders source as sanitized HTML.
func Markdown(source string) (string, error) {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return sanitizer.Sanitize(buf.String()), nil
}

// Excerpt returns at most limit runes of the body's visible text.
func Excerpt(source string, limit int) string {
	rendered, err := Markdown(source)
	if err != nil {
		rendered = source
	}

	text := html.UnescapeString(textOnly.Sanitize(rendered))
	text = strings.Join(strings.Fields(text), " ")
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	return strings.TrimSpace(string([]rune(text)[:limit])) + excerptTail
}
