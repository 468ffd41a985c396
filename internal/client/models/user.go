// Package models defines the client-side data model: the user profile and
// credential owned by the session layer, and the topic/note records served
// by the StudyNotes backend.
package models

// UserProfile is the identity record returned by the backend and cached
// next to the session token.
type UserProfile struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	StudyLevel string `json:"study_level,omitempty"`
}

// Credential is the persisted session slot: an opaque token plus the user
// snapshot it belongs to. It is stored and removed as a whole, never
// partially.
type Credential struct {
	Token string
	User  UserProfile
}
