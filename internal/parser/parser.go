package parser

/*
Parser (C6) - converts the extractor's generic JSON-LD object into a
typed recipe.RawRecipe. Every field is tried in isolation and is
failure-tolerant: a missing or malformed source field simply leaves
the corresponding RawRecipe field unset. The one hard rule is ingredients
and instructions: either being empty makes the whole parse fail (the
caller moves the URL to ParsingFailed) per spec.md §4.6.
*/

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/rohmanhakim/recipe-crawler/internal/recipe"
	"github.com/rohmanhakim/recipe-crawler/pkg/urlutil"
)

// Parse converts a JSON-LD schema object into a RawRecipe. Returns
// (nil, false) when either the ingredient or instruction list is
// empty, per spec.md §4.6's terminal ParsingFailed rule.
func Parse(link string, schema map[string]any) (*recipe.RawRecipe, bool) {
	ingredients := ingredients(schema)
	if len(ingredients) == 0 {
		return nil, false
	}

	instructions := instructions(schema)
	if len(instructions) == 0 {
		return nil, false
	}

	total := totalTime(schema)
	if total == nil {
		if prep, cook := prepTime(schema), cookTime(schema); prep != nil && cook != nil {
			sum := *prep + *cook
			total = &sum
		}
	}

	return &recipe.RawRecipe{
		Link:             link,
		Title:            title(schema),
		Description:      description(schema),
		Ingredients:      ingredients,
		Instructions:     instructions,
		Keywords:         keywords(schema),
		Authors:          authors(schema, link),
		Images:           images(schema),
		Date:             date(schema),
		Servings:         servings(schema),
		Rating:           rating(schema),
		RatingCount:      ratingCount(schema),
		PrepTimeSeconds:  prepTime(schema),
		CookTimeSeconds:  cookTime(schema),
		TotalTimeSeconds: total,
		Calories:         nutritionField(schema, "calories", "kcal", "calories"),
		Carbohydrates:    nutritionField(schema, "carbohydrateContent", "g"),
		Cholesterol:      nutritionField(schema, "cholesterolContent", "mg"),
		Fat:              nutritionField(schema, "fatContent", "g"),
		Fiber:            nutritionField(schema, "fiberContent", "g"),
		Protein:          nutritionField(schema, "proteinContent", "g"),
		SaturatedFat:     nutritionField(schema, "saturatedFatContent", "g"),
		Sodium:           nutritionField(schema, "sodiumContent", "mg"),
		Sugar:            nutritionField(schema, "sugarContent", "g"),
	}, true
}

func title(v map[string]any) string {
	s, _ := v["name"].(string)
	return s
}

func description(v map[string]any) string {
	s, _ := v["description"].(string)
	return s
}

// images implements spec.md §4.6's four image shapes, in the same
// precedence order as the original: single string, array of strings,
// single {"url": ...} object, array of such objects.
func images(v map[string]any) []string {
	raw, ok := v["image"]
	if !ok {
		return nil
	}

	if s, ok := raw.(string); ok {
		return []string{s}
	}

	if arr, ok := raw.([]any); ok {
		var strs []string
		for _, item := range arr {
			if s, ok := item.(string); ok {
				strs = append(strs, s)
			}
		}
		if len(strs) > 0 {
			return strs
		}
	}

	if obj, ok := raw.(map[string]any); ok {
		if s, ok := obj["url"].(string); ok {
			return []string{s}
		}
	}

	if arr, ok := raw.([]any); ok {
		var strs []string
		for _, item := range arr {
			obj, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if s, ok := obj["url"].(string); ok {
				strs = append(strs, s)
			}
		}
		if len(strs) > 0 {
			return strs
		}
	}

	return nil
}

// authors reads author.name (single object or array of objects);
// falls back to the URL's registrable domain when no named author is
// found, per spec.md §4.6.
func authors(v map[string]any, link string) []string {
	var items []any
	if arr, ok := v["author"].([]any); ok {
		items = arr
	} else if raw, ok := v["author"]; ok {
		items = []any{raw}
	}

	var names []string
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		if name, ok := obj["name"].(string); ok {
			names = append(names, name)
		}
	}

	if len(names) > 0 {
		return names
	}

	domain, err := urlutil.DomainOfString(link)
	if err != nil {
		return nil
	}
	return []string{domain}
}

// malformedTimeRegexp matches the non-standard "...Tnn:nnZ" shorthand
// some sites emit instead of "...Tnn:nn:00Z".
var malformedTimeRegexp = regexp.MustCompile(`T\d{2}:\d{2}Z`)

// dateFormats are the two strftime-style fallbacks tried after the
// lenient ISO parse, in order, per spec.md §4.6.
var dateFormats = []string{
	"January 2, 2006 at 3:04PM",
	"January 2, 2006",
}

// date reads datePublished (falling back to dateCreated), normalises
// the malformed "Tnn:nnZ" shorthand, and tries a lenient ISO parse
// followed by two fixed layouts. Emits YYYY-MM-DD.
func date(v map[string]any) *string {
	raw, ok := v["datePublished"].(string)
	if !ok {
		raw, ok = v["dateCreated"].(string)
		if !ok {
			return nil
		}
	}

	if malformedTimeRegexp.MatchString(raw) {
		raw = strings.ReplaceAll(raw, "Z", ":00Z")
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return formatDate(t)
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return formatDate(t)
		}
	}

	return nil
}

func formatDate(t time.Time) *string {
	s := t.Format("2006-01-02")
	return &s
}

// servings implements the six-way recipeYield fallback from spec.md
// §4.6, tried in the same order the original source does: array of
// non-numeric text, non-numeric text, array of numeric-looking text,
// numeric-looking text, array of numbers, number.
func servings(v map[string]any) *string {
	raw, ok := v["recipeYield"]
	if !ok {
		return nil
	}

	if arr, ok := raw.([]any); ok {
		for _, item := range arr {
			if s, ok := item.(string); ok {
				if _, err := strconv.Atoi(s); err != nil {
					return &s
				}
			}
		}
	}

	if s, ok := raw.(string); ok {
		if _, err := strconv.Atoi(s); err != nil {
			return &s
		}
	}

	if arr, ok := raw.([]any); ok {
		for _, item := range arr {
			if s, ok := item.(string); ok {
				if _, err := strconv.Atoi(s); err == nil {
					return &s
				}
			}
		}
	}

	if s, ok := raw.(string); ok {
		if _, err := strconv.Atoi(s); err == nil {
			return &s
		}
	}

	if arr, ok := raw.([]any); ok {
		for _, item := range arr {
			if n, ok := item.(float64); ok {
				s := strconv.FormatInt(int64(n), 10)
				return &s
			}
		}
	}

	if n, ok := raw.(float64); ok {
		s := strconv.FormatInt(int64(n), 10)
		return &s
	}

	return nil
}

func prepTime(v map[string]any) *int64 {
	return parseDurationField(v, "prepTime")
}

func cookTime(v map[string]any) *int64 {
	return parseDurationField(v, "cookTime")
}

func totalTime(v map[string]any) *int64 {
	return parseDurationField(v, "totalTime")
}

func parseDurationField(v map[string]any, key string) *int64 {
	s, ok := v[key].(string)
	if !ok {
		return nil
	}
	seconds, ok := parseISO8601Duration(s)
	if !ok {
		return nil
	}
	return &seconds
}

// ingredients reads recipeIngredient as an array of plain strings; any
// non-string element invalidates the whole list (matching the
// original's all-or-nothing collect).
func ingredients(v map[string]any) []string {
	arr, ok := v["recipeIngredient"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			return nil
		}
		out = append(out, s)
	}
	return out
}

// instructions reads recipeInstructions as an array of either plain
// strings or objects with a "text" field; any element matching
// neither shape invalidates the whole list.
func instructions(v map[string]any) []string {
	arr, ok := v["recipeInstructions"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			out = append(out, s)
			continue
		}
		if obj, ok := item.(map[string]any); ok {
			if s, ok := obj["text"].(string); ok {
				out = append(out, s)
				continue
			}
		}
		return nil
	}
	return out
}

func rating(v map[string]any) *float64 {
	agg, ok := v["aggregateRating"].(map[string]any)
	if !ok {
		return nil
	}
	s, ok := agg["ratingValue"].(string)
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

func ratingCount(v map[string]any) *int {
	agg, ok := v["aggregateRating"].(map[string]any)
	if !ok {
		return nil
	}

	ratings := parseOptionalInt(agg["ratingCount"])
	reviews := parseOptionalInt(agg["reviewCount"])

	switch {
	case ratings != nil && reviews != nil:
		sum := *ratings + *reviews
		return &sum
	case ratings != nil:
		return ratings
	default:
		return reviews
	}
}

func parseOptionalInt(v any) *int {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// keywords comma-splits the "keywords" string, unions it with
// recipeCategory[]/recipeCuisine[], sorts, and dedups, per spec.md
// §4.6.
func keywords(v map[string]any) []string {
	var out []string

	if s, ok := v["keywords"].(string); ok {
		for _, part := range strings.Split(s, ",") {
			out = append(out, strings.TrimSpace(part))
		}
	}

	out = append(out, stringArray(v["recipeCategory"])...)
	out = append(out, stringArray(v["recipeCuisine"])...)

	return sortedDedup(out)
}

func stringArray(raw any) []string {
	arr, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(arr))
	for _, item := range arr {
		s, ok := item.(string)
		if !ok {
			continue
		}
		out = append(out, strings.TrimSpace(s))
	}
	return out
}

func sortedDedup(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(in))
	unique := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		unique = append(unique, s)
	}
	sort.Strings(unique)
	return unique
}

// nutritionField reads nutrition.<key>, removes every occurrence of
// each of suffixes (in order) wherever it appears in the value, and
// parses the trimmed remainder as a float. Suffixes mirror the unit labels spec.md §4.6 names
// ("kcal"/"calories" for energy, "g" for macros, "mg" for
// cholesterol/sodium).
func nutritionField(v map[string]any, key string, suffixes ...string) *float64 {
	nutrition, ok := v["nutrition"].(map[string]any)
	if !ok {
		return nil
	}
	s, ok := nutrition[key].(string)
	if !ok {
		return nil
	}
	for _, suffix := range suffixes {
		s = strings.ReplaceAll(s, suffix, "")
	}
	s = strings.TrimSpace(s)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
