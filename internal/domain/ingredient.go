package domain

import "time"

// Storage locations for ingredients.
const (
	LocationFridge  = "FRIDGE"
	LocationFreezer = "FREEZER"
	LocationPantry  = "PANTRY"
)

// Ingredient is one inventory entry owned by a member.
type Ingredient struct {
	ID          int64      `json:"id" db:"ingredient_id"`
	MemberID    int64      `json:"member_id" db:"member_id"`
	Name        string     `json:"name" db:"ingredient_name"`
	Category    string     `json:"category" db:"category"`
	Quantity    int        `json:"quantity" db:"quantity"`
	Location    string     `json:"location" db:"location"`
	PurchasedAt time.Time  `json:"purchased_at" db:"purchased_at"`
	ExpiresAt   *time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}
