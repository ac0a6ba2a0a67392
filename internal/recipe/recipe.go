package recipe

import "strings"

// IsComplete reports whether every field the recipe store treats as
// mandatory for a "complete" record is populated. A recipe missing any
// one of these stays searchable but is never reported complete.
func (r RawRecipe) IsComplete() bool {
	return len(r.Images) > 0 &&
		len(r.Authors) > 0 &&
		r.Date != nil &&
		r.Servings != nil &&
		r.TotalTimeSeconds != nil &&
		len(r.Ingredients) > 0 &&
		r.Rating != nil &&
		r.RatingCount != nil &&
		len(r.Keywords) > 0 &&
		r.Calories != nil &&
		r.Carbohydrates != nil &&
		r.Cholesterol != nil &&
		r.Fat != nil &&
		r.Fiber != nil &&
		r.Protein != nil &&
		r.SaturatedFat != nil &&
		r.Sodium != nil &&
		r.Sugar != nil
}

// Terms extracts the search-index terms for this recipe: a literal
// space-split (not strings.Fields) of title, description, each
// keyword, each ingredient and each instruction, in that order, with
// duplicates kept.
func (r RawRecipe) Terms() []string {
	var terms []string
	terms = append(terms, splitBySpace(r.Title)...)
	terms = append(terms, splitBySpace(r.Description)...)
	for _, keyword := range r.Keywords {
		terms = append(terms, splitBySpace(keyword)...)
	}
	for _, ingredient := range r.Ingredients {
		terms = append(terms, splitBySpace(ingredient)...)
	}
	for _, instruction := range r.Instructions {
		terms = append(terms, splitBySpace(instruction)...)
	}
	return terms
}

// Tags derives the vegetarian/vegan/gluten-free whitelist: a tag is
// present iff its name is a case-insensitive substring of any keyword.
// There is no per-ingredient inference; keywords are the only signal.
func (r RawRecipe) Tags() []string {
	var tags []string
	for _, tag := range tagKeywords {
		if keywordsContain(r.Keywords, tag) {
			tags = append(tags, tag)
		}
	}
	return tags
}

func keywordsContain(keywords []string, tag string) bool {
	for _, keyword := range keywords {
		if strings.Contains(strings.ToLower(keyword), tag) {
			return true
		}
	}
	return false
}

// splitBySpace is a literal ' '-delimited split, matching the
// original recipe index's term extraction exactly: it does not
// collapse runs of whitespace the way strings.Fields does, so
// consecutive spaces yield empty terms.
func splitBySpace(s string) []string {
	return strings.Split(s, " ")
}
