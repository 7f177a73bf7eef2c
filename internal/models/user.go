package models

import "time"

// Gender values accepted at registration and profile update.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// ValidGender reports whether g is one of the accepted gender values.
func ValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale || g == GenderOther
}

// User is an account row in PostgreSQL. ID is the registration id generated
// when the account is created; it never changes afterwards.
type User struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name         string  `json:"name"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"` // Don't return password hash in JSON
	Gender       string  `json:"gender"`
	Height       float64 `json:"height"`
	Weight       float64 `json:"weight"`
	PhotoURL     string  `json:"photo_url,omitempty"`
}

// PublicProfile returns the user attributes safe to send to clients.
func (u *User) PublicProfile() map[string]interface{} {
	profile := map[string]interface{}{
		"id":     u.ID,
		"name":   u.Name,
		"email":  u.Email,
		"gender": u.Gender,
		"height": u.Height,
		"weight": u.Weight,
	}
	if u.PhotoURL != "" {
		profile["photo_url"] = u.PhotoURL
	}
	return profile
}
