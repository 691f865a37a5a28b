// Package security provides input sanitization for user-submitted content.
package security

import "github.com/microcosm-cc/bluemonday"

// ContentSanitizer cleans user-submitted entry content before persistence.
// Titles and tags are stripped to plain text; entry bodies keep a small
// allowlist of formatting tags. Scripts, iframes, styles and on* event
// attributes are always removed. Sanitizing is idempotent.
type ContentSanitizer interface {
	// SanitizeText strips all markup, leaving plain text.
	SanitizeText(raw string) string

	// SanitizeContent keeps basic formatting (p, br, ul, ol, li,
	// blockquote, pre, code, strong, em) and removes everything else.
	SanitizeContent(raw string) string
}

type contentSanitizer struct {
	strict  *bluemonday.Policy
	content *bluemonday.Policy
}

// NewContentSanitizer builds the sanitizer with its policies precompiled.
// Policies are safe for concurrent use.
func NewContentSanitizer() ContentSanitizer {
	content := bluemonday.NewPolicy()
	content.AllowElements(
		"p", "br", "ul", "ol", "li",
		"blockquote", "pre", "code",
		"strong", "em",
	)

	return &contentSanitizer{
		strict:  bluemonday.StrictPolicy(),
		content: content,
	}
}

func (s *contentSanitizer) SanitizeText(raw string) string {
	return s.strict.Sanitize(raw)
}

func (s *contentSanitizer) SanitizeContent(raw string) string {
	return s.content.Sanitize(raw)
}
