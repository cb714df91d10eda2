package domain

import "time"

// Session titles written by the generation lifecycle.
const (
	TitleGenerating       = "레시피 생성중…"
	TitleGenerationFailed = "레시피 생성에 실패했습니다"
	TitleUntitled         = "이름 없는 레시피"
)

// RecipeSession is one recipe-generation "room": created synchronously with a
// placeholder title and payload, overwritten exactly once by the background
// job, reorderable and renamable by its owner afterwards.
type RecipeSession struct {
	ID           int64     `json:"id" db:"recipe_id"`
	MemberID     int64     `json:"member_id" db:"member_id"`
	Title        string    `json:"title" db:"recipe_name"`
	Detail       string    `json:"-" db:"recipe_detail"`
	DisplayOrder int64     `json:"display_order" db:"display_order"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// IsPlaceholder reports whether the background job has not written a terminal
// title yet.
func (s RecipeSession) IsPlaceholder() bool {
	return s.Title == TitleGenerating
}
