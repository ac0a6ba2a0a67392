package recipestore

import "fmt"

func keyID() string {
	return "static:id"
}

func keyRawcipes() string {
	return "rawcipes"
}

func keyTermRawcipes(term string) string {
	return fmt.Sprintf("term:%s:rawcipes", term)
}

func keyTitleRawcipes(title string) string {
	return fmt.Sprintf("title:%s:titles", title)
}

func keyDescriptionRawcipes(description string) string {
	return fmt.Sprintf("description:%s:rawcipes", description)
}

func keyRawcipeLink(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:link", id)
}

func keyRawcipeTitle(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:title", id)
}

func keyRawcipeDescription(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:description", id)
}

func keyRawcipeDate(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:date", id)
}

func keyRawcipeRating(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:rating", id)
}

func keyRawcipeRatingCount(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:rating-count", id)
}

func keyRawcipePrepTimeSeconds(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:prep_time_seconds", id)
}

func keyRawcipeCookTimeSeconds(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:cook_time_seconds", id)
}

func keyRawcipeTotalTimeSeconds(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:total_time_seconds", id)
}

func keyRawcipeServings(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:servings", id)
}

func keyRawcipeCalories(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:calories", id)
}

func keyRawcipeCarbohydrates(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:carbohydrates", id)
}

func keyRawcipeCholesterol(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:cholesterol", id)
}

func keyRawcipeFat(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:fat", id)
}

func keyRawcipeFiber(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:fiber", id)
}

func keyRawcipeProtein(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:protein", id)
}

func keyRawcipeSaturatedFat(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:saturated_fat", id)
}

func keyRawcipeSodium(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:sodium", id)
}

func keyRawcipeSugar(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:sugar", id)
}

func keyRawcipeKeywords(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:keywords", id)
}

func keyRawcipeAuthors(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:authors", id)
}

func keyRawcipeImages(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:images", id)
}

func keyRawcipeIngredients(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:ingredients", id)
}

func keyRawcipeInstructions(id uint64) string {
	return fmt.Sprintf("rawcipe:%d:instructions", id)
}
