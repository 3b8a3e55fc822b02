package geocoding

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"
)

// Languages is a parsed Accept-Language preference list.
type Languages struct {
	tags    []language.Tag
	weights []float32
}

// ParseLanguages parses an Accept-Language style list such as "ru-RU,ru,en".
// An empty value yields an empty list.
func ParseLanguages(value string) (Languages, error) {
	if strings.TrimSpace(value) == "" {
		return Languages{}, nil
	}
	tags, weights, err := language.ParseAcceptLanguage(value)
	if err != nil {
		return Languages{}, fmt.Errorf("parse language list %q: %w", value, err)
	}
	return Languages{tags: tags, weights: weights}, nil
}

// Header renders the list in canonical Accept-Language form.
func (l Languages) Header() string {
	parts := make([]string, 0, len(l.tags))
	for i, tag := range l.tags {
		if l.weights[i] >= 1 {
			parts = append(parts, tag.String())
			continue
		}
		parts = append(parts, tag.String()+";q="+strconv.FormatFloat(float64(l.weights[i]), 'f', -1, 32))
	}
	return strings.Join(parts, ",")
}

// Primary returns the base language of the most preferred tag ("ru" for
// "ru-RU"), or "" when the list is empty. APIs that take a single language
// code as a query parameter use this.
func (l Languages) Primary() string {
	if len(l.tags) == 0 {
		return ""
	}
	base, _ := l.tags[0].Base()
	return base.String()
}
