package user

import "time"

type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProfileUpdate holds the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}
