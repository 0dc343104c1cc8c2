package domain

import "time"

// User stores the hashed password and onboarding state for an email that has
// both purchased and registered. Created exactly once per email; the only
// mutation afterwards is completing onboarding.
type User struct {
	Email                  string    `json:"email" bson:"_id"`
	Name                   string    `json:"name" bson:"name"`
	PasswordHash           string    `json:"-" bson:"password_hash"`
	HasCompletedOnboarding bool      `json:"has_completed_onboarding" bson:"has_completed_onboarding"`
	CreatedAt              time.Time `json:"created_at" bson:"created_at"`
}

// Profile is the client-facing view of a User returned on authentication.
type Profile struct {
	Email                  string `json:"email"`
	Name                   string `json:"name"`
	HasCompletedOnboarding bool   `json:"hasCompletedOnboarding"`
}

// Profile returns the client-facing view of the user.
func (u *User) Profile() *Profile {
	return &Profile{
		Email:                  u.Email,
		Name:                   u.Name,
		HasCompletedOnboarding: u.HasCompletedOnboarding,
	}
}
