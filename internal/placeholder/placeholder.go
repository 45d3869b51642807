// Package placeholder extracts {{key}} tokens from template strings.
// Substitution itself happens outside this package.
package placeholder

import (
	"regexp"
	"strings"
	"unicode"
)

// tokenRE matches {{ key }} with optional whitespace inside the braces.
var tokenRE = regexp.MustCompile(`\{\{\s*([a-zA-Z0-9_]+)\s*\}\}`)

// Placeholder is one extracted key with its display label and 0-based
// first-seen position.
type Placeholder struct {
	Key        string
	Label      string
	OrderIndex int
}

// Extract scans the given template strings in order (subject, text, html)
// and returns the deduplicated placeholders in first-seen order.
func Extract(texts ...*string) []Placeholder {
	var order []string
	seen := make(map[string]struct{})

	for _, text := range texts {
		if text == nil || *text == "" {
			continue
		}
		for _, match := range tokenRE.FindAllStringSubmatch(*text, -1) {
			key := match[1]
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				order = append(order, key)
			}
		}
	}

	result := make([]Placeholder, 0, len(order))
	for idx, key := range order {
		result = append(result, Placeholder{
			Key:        key,
			Label:      labelFromKey(key),
			OrderIndex: idx,
		})
	}
	return result
}

// labelFromKey turns "company_name" into "Company Name".
func labelFromKey(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.TrimSpace(strings.Join(words, " "))
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
