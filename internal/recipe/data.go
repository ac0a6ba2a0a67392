package recipe

/*
 RawRecipe - the parsed, field-by-field shape a page yields once the
 Parser (C6) has run. It carries no storage identity: the recipe store
 assigns that on Add.
*/

// RawRecipe is the parser's output for a single page. Every field is
// failure-tolerant on the way in (missing ⇒ zero value / nil pointer);
// IsComplete reports whether every field the store considers mandatory
// for a "complete" record was actually populated.
type RawRecipe struct {
	Link         string
	Title        string
	Description  string
	Ingredients  []string
	Instructions []string
	Keywords     []string
	Authors      []string
	Images       []string

	Date     *string
	Servings *string

	Rating      *float64
	RatingCount *int

	PrepTimeSeconds  *int64
	CookTimeSeconds  *int64
	TotalTimeSeconds *int64

	Calories      *float64
	Carbohydrates *float64
	Cholesterol   *float64
	Fat           *float64
	Fiber         *float64
	Protein       *float64
	SaturatedFat  *float64
	Sodium        *float64
	Sugar         *float64
}

// tagKeywords is the whitelist substring-matched against Keywords to
// derive Tags. Lowercase; matched case-insensitively against each
// keyword.
var tagKeywords = []string{"vegetarian", "vegan", "gluten-free"}
