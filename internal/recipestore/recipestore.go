package recipestore

/*
Recipe store - the append-only external sink the Parser's output is
submitted to (spec.md §6's "recipe store contract"). Grounded key for
key on the original `recipe-common/src/rawcipe.rs` Redis schema: a
per-scalar-field STRING key, a per-list-field LIST key, an
auto-incrementing numeric id allocated from a counter STRING, a SET of
all ids, and two dedup indexes (by title, by description) whose
intersection is the store's existence check.
*/

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rohmanhakim/recipe-crawler/internal/recipe"
)

// Store is the Redis-backed recipe sink.
type Store struct {
	client *redis.Client
}

// NewStore returns a Store backed by client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Add submits r for storage. Returns false without writing if a
// recipe with the same (title, description) pair already exists, per
// spec.md §6's "store deduplicates by (title, description) equality".
func (s *Store) Add(ctx context.Context, r recipe.RawRecipe) (bool, error) {
	exists, err := s.exists(ctx, r)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	id, err := s.client.Incr(ctx, keyID()).Result()
	if err != nil {
		return false, err
	}
	rawcipeID := uint64(id)

	pipe := s.client.TxPipeline()

	pipe.SAdd(ctx, keyRawcipes(), rawcipeID)

	pipe.Set(ctx, keyRawcipeLink(rawcipeID), r.Link, 0)

	pipe.SAdd(ctx, keyTitleRawcipes(r.Title), rawcipeID)
	pipe.Set(ctx, keyRawcipeTitle(rawcipeID), r.Title, 0)

	pipe.SAdd(ctx, keyDescriptionRawcipes(r.Description), rawcipeID)
	pipe.Set(ctx, keyRawcipeDescription(rawcipeID), r.Description, 0)

	setOptionalString(pipe, ctx, keyRawcipeDate(rawcipeID), r.Date)
	setOptionalFloat(pipe, ctx, keyRawcipeRating(rawcipeID), r.Rating)
	setOptionalInt(pipe, ctx, keyRawcipeRatingCount(rawcipeID), r.RatingCount)
	setOptionalInt64(pipe, ctx, keyRawcipePrepTimeSeconds(rawcipeID), r.PrepTimeSeconds)
	setOptionalInt64(pipe, ctx, keyRawcipeCookTimeSeconds(rawcipeID), r.CookTimeSeconds)
	setOptionalInt64(pipe, ctx, keyRawcipeTotalTimeSeconds(rawcipeID), r.TotalTimeSeconds)
	setOptionalString(pipe, ctx, keyRawcipeServings(rawcipeID), r.Servings)
	setOptionalFloat(pipe, ctx, keyRawcipeCalories(rawcipeID), r.Calories)
	setOptionalFloat(pipe, ctx, keyRawcipeCarbohydrates(rawcipeID), r.Carbohydrates)
	setOptionalFloat(pipe, ctx, keyRawcipeCholesterol(rawcipeID), r.Cholesterol)
	setOptionalFloat(pipe, ctx, keyRawcipeFat(rawcipeID), r.Fat)
	setOptionalFloat(pipe, ctx, keyRawcipeFiber(rawcipeID), r.Fiber)
	setOptionalFloat(pipe, ctx, keyRawcipeProtein(rawcipeID), r.Protein)
	setOptionalFloat(pipe, ctx, keyRawcipeSaturatedFat(rawcipeID), r.SaturatedFat)
	setOptionalFloat(pipe, ctx, keyRawcipeSodium(rawcipeID), r.Sodium)
	setOptionalFloat(pipe, ctx, keyRawcipeSugar(rawcipeID), r.Sugar)

	pushList(pipe, ctx, keyRawcipeKeywords(rawcipeID), r.Keywords)
	pushList(pipe, ctx, keyRawcipeAuthors(rawcipeID), r.Authors)
	pushList(pipe, ctx, keyRawcipeImages(rawcipeID), r.Images)
	pushList(pipe, ctx, keyRawcipeIngredients(rawcipeID), r.Ingredients)
	pushList(pipe, ctx, keyRawcipeInstructions(rawcipeID), r.Instructions)

	for _, term := range r.Terms() {
		pipe.SAdd(ctx, keyTermRawcipes(term), rawcipeID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// exists reports whether a recipe with the same title and description
// is already stored, by intersecting the two dedup index sets.
func (s *Store) exists(ctx context.Context, r recipe.RawRecipe) (bool, error) {
	titleIDs, err := s.client.SMembers(ctx, keyTitleRawcipes(r.Title)).Result()
	if err != nil {
		return false, err
	}
	descriptionIDs, err := s.client.SMembers(ctx, keyDescriptionRawcipes(r.Description)).Result()
	if err != nil {
		return false, err
	}

	descriptionSet := make(map[string]struct{}, len(descriptionIDs))
	for _, id := range descriptionIDs {
		descriptionSet[id] = struct{}{}
	}
	for _, id := range titleIDs {
		if _, ok := descriptionSet[id]; ok {
			return true, nil
		}
	}
	return false, nil
}

// Count returns the number of stored recipes.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.client.SCard(ctx, keyRawcipes()).Result()
}

// SearchByTerm returns the ids of every recipe indexed under term, one
// of recipe.RawRecipe.Terms()'s space-split tokens.
func (s *Store) SearchByTerm(ctx context.Context, term string) ([]uint64, error) {
	members, err := s.client.SMembers(ctx, keyTermRawcipes(term)).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(members))
	for _, member := range members {
		id, err := strconv.ParseUint(member, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Get reconstructs the stored recipe for id.
func (s *Store) Get(ctx context.Context, id uint64) (recipe.RawRecipe, error) {
	pipe := s.client.Pipeline()

	linkCmd := pipe.Get(ctx, keyRawcipeLink(id))
	titleCmd := pipe.Get(ctx, keyRawcipeTitle(id))
	descriptionCmd := pipe.Get(ctx, keyRawcipeDescription(id))
	ingredientsCmd := pipe.LRange(ctx, keyRawcipeIngredients(id), 0, -1)
	instructionsCmd := pipe.LRange(ctx, keyRawcipeInstructions(id), 0, -1)
	dateCmd := pipe.Get(ctx, keyRawcipeDate(id))
	keywordsCmd := pipe.LRange(ctx, keyRawcipeKeywords(id), 0, -1)
	authorsCmd := pipe.LRange(ctx, keyRawcipeAuthors(id), 0, -1)
	imagesCmd := pipe.LRange(ctx, keyRawcipeImages(id), 0, -1)
	ratingCmd := pipe.Get(ctx, keyRawcipeRating(id))
	ratingCountCmd := pipe.Get(ctx, keyRawcipeRatingCount(id))
	prepTimeCmd := pipe.Get(ctx, keyRawcipePrepTimeSeconds(id))
	cookTimeCmd := pipe.Get(ctx, keyRawcipeCookTimeSeconds(id))
	totalTimeCmd := pipe.Get(ctx, keyRawcipeTotalTimeSeconds(id))
	servingsCmd := pipe.Get(ctx, keyRawcipeServings(id))
	caloriesCmd := pipe.Get(ctx, keyRawcipeCalories(id))
	carbohydratesCmd := pipe.Get(ctx, keyRawcipeCarbohydrates(id))
	cholesterolCmd := pipe.Get(ctx, keyRawcipeCholesterol(id))
	fatCmd := pipe.Get(ctx, keyRawcipeFat(id))
	fiberCmd := pipe.Get(ctx, keyRawcipeFiber(id))
	proteinCmd := pipe.Get(ctx, keyRawcipeProtein(id))
	saturatedFatCmd := pipe.Get(ctx, keyRawcipeSaturatedFat(id))
	sodiumCmd := pipe.Get(ctx, keyRawcipeSodium(id))
	sugarCmd := pipe.Get(ctx, keyRawcipeSugar(id))

	// Exec's aggregate error is ignored: a missing optional STRING key
	// surfaces as redis.Nil on that individual command, which is a
	// valid "unset field" outcome here, not a failure.
	_, _ = pipe.Exec(ctx)

	if err := linkCmd.Err(); err != nil {
		return recipe.RawRecipe{}, err
	}

	return recipe.RawRecipe{
		Link:             linkCmd.Val(),
		Title:            titleCmd.Val(),
		Description:      descriptionCmd.Val(),
		Ingredients:      ingredientsCmd.Val(),
		Instructions:     instructionsCmd.Val(),
		Keywords:         keywordsCmd.Val(),
		Authors:          authorsCmd.Val(),
		Images:           imagesCmd.Val(),
		Date:             optionalString(dateCmd),
		Servings:         optionalString(servingsCmd),
		Rating:           optionalFloat(ratingCmd),
		RatingCount:      optionalInt(ratingCountCmd),
		PrepTimeSeconds:  optionalInt64(prepTimeCmd),
		CookTimeSeconds:  optionalInt64(cookTimeCmd),
		TotalTimeSeconds: optionalInt64(totalTimeCmd),
		Calories:         optionalFloat(caloriesCmd),
		Carbohydrates:    optionalFloat(carbohydratesCmd),
		Cholesterol:      optionalFloat(cholesterolCmd),
		Fat:              optionalFloat(fatCmd),
		Fiber:            optionalFloat(fiberCmd),
		Protein:          optionalFloat(proteinCmd),
		SaturatedFat:     optionalFloat(saturatedFatCmd),
		Sodium:           optionalFloat(sodiumCmd),
		Sugar:            optionalFloat(sugarCmd),
	}, nil
}

func setOptionalString(pipe redis.Pipeliner, ctx context.Context, key string, v *string) {
	if v == nil {
		return
	}
	pipe.Set(ctx, key, *v, 0)
}

func setOptionalFloat(pipe redis.Pipeliner, ctx context.Context, key string, v *float64) {
	if v == nil {
		return
	}
	pipe.Set(ctx, key, strconv.FormatFloat(*v, 'f', -1, 64), 0)
}

func setOptionalInt(pipe redis.Pipeliner, ctx context.Context, key string, v *int) {
	if v == nil {
		return
	}
	pipe.Set(ctx, key, *v, 0)
}

func setOptionalInt64(pipe redis.Pipeliner, ctx context.Context, key string, v *int64) {
	if v == nil {
		return
	}
	pipe.Set(ctx, key, *v, 0)
}

// pushList writes values in order via RPUSH. This is the original's
// reversed-LPUSH trick expressed directly: RPUSH already appends in
// call order, so LRANGE 0 -1 returns the same order without needing
// to push the slice backwards.
func pushList(pipe redis.Pipeliner, ctx context.Context, key string, values []string) {
	if len(values) == 0 {
		return
	}
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	pipe.RPush(ctx, key, args...)
}

func optionalString(cmd *redis.StringCmd) *string {
	v, err := cmd.Result()
	if err != nil {
		return nil
	}
	return &v
}

func optionalFloat(cmd *redis.StringCmd) *float64 {
	v, err := cmd.Result()
	if err != nil {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}

func optionalInt(cmd *redis.StringCmd) *int {
	v, err := cmd.Result()
	if err != nil {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

func optionalInt64(cmd *redis.StringCmd) *int64 {
	v, err := cmd.Result()
	if err != nil {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &n
}
