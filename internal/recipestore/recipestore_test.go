package recipestore_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/rohmanhakim/recipe-crawler/internal/recipe"
	"github.com/rohmanhakim/recipe-crawler/internal/recipestore"
)

func newTestStore(t *testing.T) *recipestore.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return recipestore.NewStore(client)
}

func ptrFloat(v float64) *float64 { return &v }
func ptrInt(v int) *int           { return &v }
func ptrInt64(v int64) *int64     { return &v }
func ptrString(v string) *string  { return &v }

func sampleRecipe() recipe.RawRecipe {
	return recipe.RawRecipe{
		Link:             "https://example.com/soup",
		Title:            "Soup",
		Description:      "A warm soup",
		Ingredients:      []string{"water", "salt"},
		Instructions:     []string{"Boil water", "Add salt"},
		Keywords:         []string{"dinner"},
		Authors:          []string{"Alex"},
		Images:           []string{"https://img/a.jpg"},
		Date:             ptrString("2020-01-02"),
		Servings:         ptrString("4"),
		Rating:           ptrFloat(4.5),
		RatingCount:      ptrInt(10),
		PrepTimeSeconds:  ptrInt64(900),
		CookTimeSeconds:  ptrInt64(1800),
		TotalTimeSeconds: ptrInt64(2700),
		Calories:         ptrFloat(120),
		Carbohydrates:    ptrFloat(10),
		Cholesterol:      ptrFloat(5),
		Fat:              ptrFloat(3),
		Fiber:            ptrFloat(2),
		Protein:          ptrFloat(8),
		SaturatedFat:     ptrFloat(1),
		Sodium:           ptrFloat(200),
		Sugar:            ptrFloat(6),
	}
}

func TestAdd_NewRecipeReturnsTrue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	added, err := s.Add(ctx, sampleRecipe())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added {
		t.Fatal("expected a new recipe to be added")
	}
}

func TestAdd_DuplicateTitleAndDescriptionReturnsFalse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := sampleRecipe()
	if _, err := s.Add(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r2 := r
	r2.Link = "https://example.com/soup-2"
	added, err := s.Add(ctx, r2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if added {
		t.Fatal("expected duplicate (title, description) to be rejected")
	}
}

func TestAdd_DifferentDescriptionIsNotADuplicate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := sampleRecipe()
	if _, err := s.Add(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	r2 := r
	r2.Description = "A different soup entirely"
	added, err := s.Add(ctx, r2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !added {
		t.Fatal("expected a recipe with a different description to be added")
	}
}

func TestCount_ReflectsAddedRecipes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r1 := sampleRecipe()
	r2 := sampleRecipe()
	r2.Title = "Stew"
	r2.Description = "A hearty stew"

	if _, err := s.Add(ctx, r1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := s.Add(ctx, r2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("expected count 2, got %d", count)
	}
}

func TestSearchByTerm_FindsRecipeByIngredientWord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Add(ctx, sampleRecipe()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ids, err := s.SearchByTerm(ctx, "salt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("expected 1 matching recipe, got %d", len(ids))
	}
}

func TestGet_RoundTripsAllFields(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	r := sampleRecipe()
	if _, err := s.Add(ctx, r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := s.Get(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Title != r.Title || got.Description != r.Description || got.Link != r.Link {
		t.Errorf("scalar fields mismatch: got %+v", got)
	}
	if len(got.Ingredients) != 2 || got.Ingredients[0] != "water" || got.Ingredients[1] != "salt" {
		t.Errorf("unexpected ingredients: %v", got.Ingredients)
	}
	if got.Rating == nil || *got.Rating != 4.5 {
		t.Errorf("expected rating 4.5, got %v", got.Rating)
	}
	if got.RatingCount == nil || *got.RatingCount != 10 {
		t.Errorf("expected rating count 10, got %v", got.RatingCount)
	}
	if got.TotalTimeSeconds == nil || *got.TotalTimeSeconds != 2700 {
		t.Errorf("expected total time 2700, got %v", got.TotalTimeSeconds)
	}
	if got.Sugar == nil || *got.Sugar != 6 {
		t.Errorf("expected sugar 6, got %v", got.Sugar)
	}
}

func TestGet_UnknownIDReturnsError(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, 999); err == nil {
		t.Fatal("expected an error for an unknown recipe id")
	}
}
