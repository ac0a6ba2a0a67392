package parser_test

import (
	"testing"

	"github.com/rohmanhakim/recipe-crawler/internal/parser"
)

func TestParse_EmptyIngredientsReturnsNotOk(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"recipeIngredient":   []any{},
		"recipeInstructions": []any{"Boil water"},
	}

	_, ok := parser.Parse("https://example.com/soup", schema)
	if ok {
		t.Fatal("expected parse to fail with empty ingredients")
	}
}

func TestParse_EmptyInstructionsReturnsNotOk(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"recipeIngredient":   []any{"water"},
		"recipeInstructions": []any{},
	}

	_, ok := parser.Parse("https://example.com/soup", schema)
	if ok {
		t.Fatal("expected parse to fail with empty instructions")
	}
}

func TestParse_MinimalRecipeSucceeds(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"description":        "A warm soup",
		"recipeIngredient":   []any{"water", "salt"},
		"recipeInstructions": []any{"Boil water", map[string]any{"text": "Add salt"}},
	}

	recipe, ok := parser.Parse("https://example.com/soup", schema)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if recipe.Title != "Soup" {
		t.Errorf("expected title 'Soup', got %q", recipe.Title)
	}
	if len(recipe.Instructions) != 2 || recipe.Instructions[1] != "Add salt" {
		t.Errorf("unexpected instructions: %v", recipe.Instructions)
	}
}

func TestParse_AuthorFallsBackToURLDomain(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"recipeIngredient":   []any{"water"},
		"recipeInstructions": []any{"Boil"},
	}

	recipe, ok := parser.Parse("https://www.example.com/soup", schema)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if len(recipe.Authors) != 1 || recipe.Authors[0] != "example.com" {
		t.Errorf("expected author fallback to domain 'example.com', got %v", recipe.Authors)
	}
}

func TestParse_AuthorFromObjectArray(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"recipeIngredient":   []any{"water"},
		"recipeInstructions": []any{"Boil"},
		"author": []any{
			map[string]any{"name": "Alex"},
			map[string]any{"name": "Sam"},
		},
	}

	recipe, ok := parser.Parse("https://example.com/soup", schema)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if len(recipe.Authors) != 2 || recipe.Authors[0] != "Alex" || recipe.Authors[1] != "Sam" {
		t.Errorf("unexpected authors: %v", recipe.Authors)
	}
}

func TestParse_ImageShapes(t *testing.T) {
	tests := []struct {
		name  string
		image any
		want  []string
	}{
		{"single string", "https://img/a.jpg", []string{"https://img/a.jpg"}},
		{"string array", []any{"https://img/a.jpg", "https://img/b.jpg"}, []string{"https://img/a.jpg", "https://img/b.jpg"}},
		{"single object", map[string]any{"url": "https://img/a.jpg"}, []string{"https://img/a.jpg"}},
		{"object array", []any{map[string]any{"url": "https://img/a.jpg"}}, []string{"https://img/a.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := map[string]any{
				"name":               "Soup",
				"recipeIngredient":   []any{"water"},
				"recipeInstructions": []any{"Boil"},
				"image":              tt.image,
			}
			recipe, ok := parser.Parse("https://example.com/soup", schema)
			if !ok {
				t.Fatal("expected parse to succeed")
			}
			if len(recipe.Images) != len(tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, recipe.Images)
			}
			for i := range tt.want {
				if recipe.Images[i] != tt.want[i] {
					t.Errorf("expected %v, got %v", tt.want, recipe.Images)
				}
			}
		})
	}
}

func TestParse_DateNormalisesMalformedTimezone(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"recipeIngredient":   []any{"water"},
		"recipeInstructions": []any{"Boil"},
		"datePublished":      "2009-09-06T20:07Z",
	}

	recipe, ok := parser.Parse("https://example.com/soup", schema)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if recipe.Date == nil || *recipe.Date != "2009-09-06" {
		t.Errorf("expected date '2009-09-06', got %v", recipe.Date)
	}
}

func TestParse_DateFallbackFormats(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"at-time format", "January 2, 2020 at 3:04PM", "2020-01-02"},
		{"plain long format", "January 2, 2020", "2020-01-02"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := map[string]any{
				"name":               "Soup",
				"recipeIngredient":   []any{"water"},
				"recipeInstructions": []any{"Boil"},
				"dateCreated":        tt.value,
			}
			recipe, ok := parser.Parse("https://example.com/soup", schema)
			if !ok {
				t.Fatal("expected parse to succeed")
			}
			if recipe.Date == nil || *recipe.Date != tt.want {
				t.Errorf("expected date %q, got %v", tt.want, recipe.Date)
			}
		})
	}
}

func TestParse_ServingsSixWayFallback(t *testing.T) {
	tests := []struct {
		name  string
		yield any
		want  string
	}{
		{"array text", []any{"4 servings"}, "4 servings"},
		{"text", "4 servings", "4 servings"},
		{"array numeric string", []any{"4"}, "4"},
		{"numeric string", "4", "4"},
		{"array number", []any{float64(4)}, "4"},
		{"number", float64(4), "4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := map[string]any{
				"name":               "Soup",
				"recipeIngredient":   []any{"water"},
				"recipeInstructions": []any{"Boil"},
				"recipeYield":        tt.yield,
			}
			recipe, ok := parser.Parse("https://example.com/soup", schema)
			if !ok {
				t.Fatal("expected parse to succeed")
			}
			if recipe.Servings == nil || *recipe.Servings != tt.want {
				t.Errorf("expected servings %q, got %v", tt.want, recipe.Servings)
			}
		})
	}
}

func TestParse_DurationsRejectYearsMonthsWeeks(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"recipeIngredient":   []any{"water"},
		"recipeInstructions": []any{"Boil"},
		"prepTime":           "PT15M",
		"cookTime":           "PT30M",
		"totalTime":          "P1Y",
	}

	recipe, ok := parser.Parse("https://example.com/soup", schema)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if recipe.PrepTimeSeconds == nil || *recipe.PrepTimeSeconds != 900 {
		t.Errorf("expected prep time 900s, got %v", recipe.PrepTimeSeconds)
	}
	if recipe.CookTimeSeconds == nil || *recipe.CookTimeSeconds != 1800 {
		t.Errorf("expected cook time 1800s, got %v", recipe.CookTimeSeconds)
	}
	// totalTime is a rejected Y-bearing duration, so the sum-of-prep-
	// and-cook fallback should kick in instead.
	if recipe.TotalTimeSeconds == nil || *recipe.TotalTimeSeconds != 2700 {
		t.Errorf("expected total time fallback 2700s, got %v", recipe.TotalTimeSeconds)
	}
}

func TestParse_RatingCountSumsAvailableFields(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"recipeIngredient":   []any{"water"},
		"recipeInstructions": []any{"Boil"},
		"aggregateRating": map[string]any{
			"ratingValue": "4.5",
			"ratingCount": "10",
			"reviewCount": "5",
		},
	}

	recipe, ok := parser.Parse("https://example.com/soup", schema)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if recipe.Rating == nil || *recipe.Rating != 4.5 {
		t.Errorf("expected rating 4.5, got %v", recipe.Rating)
	}
	if recipe.RatingCount == nil || *recipe.RatingCount != 15 {
		t.Errorf("expected rating count 15, got %v", recipe.RatingCount)
	}
}

func TestParse_KeywordsUnionSortedDeduped(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"recipeIngredient":   []any{"water"},
		"recipeInstructions": []any{"Boil"},
		"keywords":           "soup, dinner, soup",
		"recipeCategory":     []any{"dinner"},
		"recipeCuisine":      []any{"french"},
	}

	recipe, ok := parser.Parse("https://example.com/soup", schema)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := []string{"dinner", "french", "soup"}
	if len(recipe.Keywords) != len(want) {
		t.Fatalf("expected %v, got %v", want, recipe.Keywords)
	}
	for i := range want {
		if recipe.Keywords[i] != want[i] {
			t.Errorf("expected %v, got %v", want, recipe.Keywords)
		}
	}
}

func TestParse_NutritionStripsUnitSuffixes(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"recipeIngredient":   []any{"water"},
		"recipeInstructions": []any{"Boil"},
		"nutrition": map[string]any{
			"calories":           "120 calories",
			"carbohydrateContent": "10g",
			"sodiumContent":      "200mg",
		},
	}

	recipe, ok := parser.Parse("https://example.com/soup", schema)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	if recipe.Calories == nil || *recipe.Calories != 120 {
		t.Errorf("expected calories 120, got %v", recipe.Calories)
	}
	if recipe.Carbohydrates == nil || *recipe.Carbohydrates != 10 {
		t.Errorf("expected carbohydrates 10, got %v", recipe.Carbohydrates)
	}
	if recipe.Sodium == nil || *recipe.Sodium != 200 {
		t.Errorf("expected sodium 200, got %v", recipe.Sodium)
	}
}

func TestParse_InstructionsInvalidShapeInvalidatesWholeList(t *testing.T) {
	schema := map[string]any{
		"name":               "Soup",
		"recipeIngredient":   []any{"water"},
		"recipeInstructions": []any{"Boil water", 42},
	}

	_, ok := parser.Parse("https://example.com/soup", schema)
	if ok {
		t.Fatal("expected parse to fail when an instruction element has no string or text shape")
	}
}
