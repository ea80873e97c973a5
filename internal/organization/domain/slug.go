package domain

import (
	"math/rand/v2"
	"regexp"
	"strings"
)

const (
	maxSlugLength = 50
	slugSuffixLen = 4
	slugAlphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
	fallbackSlug  = "organization"
)

var (
	slugStrip      = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugWhitespace = regexp.MustCompile(`\s+`)
	slugHyphens    = regexp.MustCompile(`-+`)
)

// Slugify turns an organization name into a URL-safe slug.
func Slugify(name string) string {
	s := strings.TrimSpace(strings.ToLower(name))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugWhitespace.ReplaceAllString(s, "-")
	s = slugHyphens.ReplaceAllString(s, "-")
	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
	}
	if strings.Trim(s, "-") == "" {
		return fallbackSlug
	}
	return s
}

// WithSuffix appends "-" and suffix to a slug.
func WithSuffix(slug, suffix string) string {
	return slug + "-" + suffix
}

// RandomSuffix returns four random base36 characters.
func RandomSuffix() string {
	b := make([]byte, slugSuffixLen)
	for i := range b {
		b[i] = slugAlphabet[rand.IntN(len(slugAlphabet))]
	}
	return string(b)
}
