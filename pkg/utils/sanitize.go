package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText убирает разметку из свободного текста перед сохранением.
func SanitizeText(s string) string {
	return html.UnescapeString(strings.TrimSpace(strictPolicy.Sanitize(s)))
}

func SanitizePtr(s *string) *string {
	if s == nil {
		return nil
	}
	clean := SanitizeText(*s)
	return &clean
}
