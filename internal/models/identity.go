package models

// Identity is the authenticated principal attached to a request.
// A nil *Identity means the request is anonymous.
type Identity struct {
	UserID int64  `json:"user_id"`
	Login  string `json:"login"`
}
