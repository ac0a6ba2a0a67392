package extractor

/*
Extractor (C5) - locates the embedded schema.org/Recipe JSON-LD block
inside an HTML document and returns it as a generic JSON object,
resolving `@graph` wrappers down to the single Recipe element.

A pure in-language implementation is used here (goquery for the
script-tag scan, a brace-matching scanner for the object extent); the
spec allows a native regex-based helper as a throughput equivalent;
the unexported extractFromRaw below (a script-block regex plus the
same brace scanner) handles documents without a parseable DOM.
*/

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// schemaMarker and recipeTypeMarker are the two literal substrings
// spec.md §4.5 step 1 requires a candidate block to contain.
const schemaMarker = "schema"
const recipeTypeMarker = `"@type": "Recipe"`

// Extract scans an HTML document body for the first ld+json block
// matching the schema marker, parses it as JSON, and resolves any
// `@graph` wrapper to its Recipe element. Returns (nil, nil) when no
// matching block is found at all.
func Extract(body []byte) (map[string]any, *Error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return extractFromRaw(body)
	}

	var found map[string]any
	var parseErr *Error

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		block, ok := findCandidateBlock(text)
		if !ok {
			return true
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(block), &obj); err != nil {
			parseErr = newError(ErrCauseParseFailure, "failed to parse ld+json block: %v", err)
			return false
		}

		resolved, resolveErr := resolveGraph(obj)
		if resolveErr != nil {
			parseErr = resolveErr
			return false
		}
		if resolved == nil {
			// @graph present with no Recipe element: keep scanning
			// other script blocks per step 2's "if none, return None"
			// being scoped to this block, not the whole document.
			return true
		}

		found = resolved
		return false
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return found, nil
}

// extractFromRaw is the regex-based equivalent of step 1, used when
// the body does not parse as a DOM at all (e.g. a bare JSON response,
// or a malformed fragment). Grounded on spec.md §9's two-regex
// design: an anchor-free scan for <script>...</script> blocks,
// followed by the same brace-matching candidate search.
func extractFromRaw(body []byte) (map[string]any, *Error) {
	for _, match := range scriptBlockRegexp.FindAllStringSubmatch(string(body), -1) {
		if len(match) < 2 {
			continue
		}
		block, ok := findCandidateBlock(match[1])
		if !ok {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(block), &obj); err != nil {
			return nil, newError(ErrCauseParseFailure, "failed to parse ld+json block: %v", err)
		}

		resolved, resolveErr := resolveGraph(obj)
		if resolveErr != nil {
			return nil, resolveErr
		}
		if resolved != nil {
			return resolved, nil
		}
	}
	return nil, nil
}

var scriptBlockRegexp = regexp.MustCompile(`(?is)<script[^>]*>(.*?)</script>`)

// findCandidateBlock finds the first `{...}` extent in text that
// contains either the literal "schema" or the `"@type": "Recipe"`
// marker, per spec.md §4.5 step 1.
func findCandidateBlock(text string) (string, bool) {
	markerIdx := strings.Index(text, recipeTypeMarker)
	if markerIdx == -1 {
		markerIdx = strings.Index(text, schemaMarker)
	}
	if markerIdx == -1 {
		return "", false
	}

	for start := strings.IndexByte(text, '{'); start != -1 && start < markerIdx; {
		end, ok := matchingBrace(text, start)
		if ok && end > markerIdx {
			return text[start : end+1], true
		}
		next := strings.IndexByte(text[start+1:], '{')
		if next == -1 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchingBrace returns the index of the '}' matching the '{' at
// start, skipping over brace characters inside quoted JSON strings.
func matchingBrace(text string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
			// inside a string literal, braces don't count
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}

// resolveGraph implements spec.md §4.5 step 2: if obj has an @graph
// array, replace obj with its first Recipe-typed element; if none
// found, returns (nil, nil) so the caller keeps scanning other blocks.
func resolveGraph(obj map[string]any) (map[string]any, *Error) {
	graphRaw, ok := obj["@graph"]
	if !ok {
		return obj, nil
	}

	graph, ok := graphRaw.([]any)
	if !ok {
		return nil, newError(ErrCauseNoGraphMatch, "@graph is not an array")
	}

	for _, entryRaw := range graph {
		entry, ok := entryRaw.(map[string]any)
		if !ok {
			continue
		}
		if typeMatches(entry["@type"], "Recipe") {
			return entry, nil
		}
	}

	return nil, nil
}

func typeMatches(value any, want string) bool {
	switch v := value.(type) {
	case string:
		return v == want
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && s == want {
				return true
			}
		}
	}
	return false
}
