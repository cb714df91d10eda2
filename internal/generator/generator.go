// Package generator produces recipe suggestions from a member's ingredient
// inventory via an Ollama-compatible chat API.
package generator

import (
	"context"
	"strings"

	"github.com/ncb6206/SIKBOO/internal/domain"
)

// Input carries everything the external call needs, resolved up front by the
// coordinator so the background job never touches request state.
type Input struct {
	Ingredients []string
	Diseases    []string
	Allergies   []string
}

// Result is the structured payload persisted onto a generation session.
type Result struct {
	Notice string   `json:"notice"`
	Have   []Recipe `json:"have"`
	Need   []Recipe `json:"need"`
}

// Recipe is one suggested dish.
type Recipe struct {
	Title       string      `json:"title"`
	Ingredients Ingredients `json:"ingredients"`
	Steps       []string    `json:"steps"`
}

// Ingredients splits a recipe's inputs into owned, missing and pantry staples.
type Ingredients struct {
	Have      []string `json:"have"`
	Need      []string `json:"need"`
	Seasoning []string `json:"seasoning"`
}

// RecipeGenerator is the opaque text-in/JSON-out generation function.
type RecipeGenerator interface {
	Generate(ctx context.Context, input Input) (*Result, error)
}

// Pantry staples that must never appear as a missing ingredient.
var basicAlwaysHave = []string{"밥", "흰쌀밥", "쌀", "백미", "물", "정수"}

// IsEmpty reports whether the result carries no suggestions at all.
func (r *Result) IsEmpty() bool {
	return len(r.Have) == 0 && len(r.Need) == 0
}

// Sanitize normalizes a decoded result in place and returns it: nil slices
// become empty, blank entries are dropped, untitled recipes get a default
// title, and pantry staples or already-owned items are removed from every
// "need" list.
func (r *Result) Sanitize(owned []string) *Result {
	ownedSet := make(map[string]struct{}, len(owned))
	for _, o := range owned {
		ownedSet[strings.TrimSpace(o)] = struct{}{}
	}

	if r.Have == nil {
		r.Have = []Recipe{}
	}
	if r.Need == nil {
		r.Need = []Recipe{}
	}

	for i := range r.Have {
		rec := &r.Have[i]
		if rec.Title == "" {
			rec.Title = domain.TitleUntitled
		}
		rec.Ingredients.Have = cleanList(rec.Ingredients.Have)
		rec.Ingredients.Need = []string{}
		rec.Ingredients.Seasoning = cleanList(rec.Ingredients.Seasoning)
		rec.Steps = cleanList(rec.Steps)
	}

	for i := range r.Need {
		rec := &r.Need[i]
		if rec.Title == "" {
			rec.Title = domain.TitleUntitled
		}

		usedHave := cleanList(rec.Ingredients.Have)
		needs := cleanList(rec.Ingredients.Need)

		usedSet := make(map[string]struct{}, len(usedHave))
		for _, u := range usedHave {
			usedSet[u] = struct{}{}
		}

		filtered := needs[:0]
		for _, n := range needs {
			if isBasicAlwaysHave(n) {
				continue
			}
			if _, ok := ownedSet[n]; ok {
				continue
			}
			if _, ok := usedSet[n]; ok {
				continue
			}
			filtered = append(filtered, n)
		}

		rec.Ingredients.Have = usedHave
		rec.Ingredients.Need = filtered
		rec.Ingredients.Seasoning = cleanList(rec.Ingredients.Seasoning)
		rec.Steps = cleanList(rec.Steps)
	}

	return r
}

// SessionTitle derives the display title for the owning session: the first
// suggestion of each half joined with a separator, or the failure title when
// the result is empty.
func (r *Result) SessionTitle() string {
	var haveTitle, needTitle string
	if len(r.Have) > 0 {
		haveTitle = r.Have[0].Title
	}
	if len(r.Need) > 0 {
		needTitle = r.Need[0].Title
	}

	switch {
	case haveTitle != "" && needTitle != "":
		return haveTitle + " · " + needTitle
	case haveTitle != "":
		return haveTitle
	case needTitle != "":
		return needTitle
	default:
		return domain.TitleGenerationFailed
	}
}

// EmptyPayload is the placeholder payload stored until a result lands.
func EmptyPayload() string {
	return `{"notice":"","have":[],"need":[]}`
}

// ExtractJSON pulls the JSON object out of a raw model reply that may be
// wrapped in code fences, prose or an extra layer of quoting.
func ExtractJSON(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}

	if first, last := strings.Index(s, "{"), strings.LastIndex(s, "}"); first >= 0 && last > first {
		return strings.TrimSpace(s[first : last+1])
	}

	// Some models return the object as one quoted string.
	if strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		unq := strings.NewReplacer(`\n`, "\n", `\t`, "\t", `\"`, `"`).Replace(s[1 : len(s)-1])
		if first, last := strings.Index(unq, "{"), strings.LastIndex(unq, "}"); first >= 0 && last > first {
			return strings.TrimSpace(unq[first : last+1])
		}
	}

	return ""
}

func cleanList(src []string) []string {
	out := make([]string, 0, len(src))
	seen := make(map[string]struct{}, len(src))
	for _, s := range src {
		t := strings.TrimSpace(s)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func isBasicAlwaysHave(s string) bool {
	t := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for _, key := range basicAlwaysHave {
		if strings.Contains(t, key) {
			return true
		}
	}
	return false
}
