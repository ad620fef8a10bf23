package models

import "time"

// Publication represents a single feed post. It is immutable once created.
type Publication struct {
	ID          int64     `json:"id"`
	Message     string    `json:"message"`
	PublishedAt time.Time `json:"published_at"`
	AuthorID    int64     `json:"author_id"`
	AuthorLogin string    `json:"author_login,omitempty"`
}

// NewPublication builds a publication authored by the given identity.
// The publication date is stamped here, exactly once. The author always
// comes from the authenticated identity, never from client input.
func NewPublication(message string, author Identity) *Publication {
	return &Publication{
		Message:     message,
		PublishedAt: time.Now().UTC(),
		AuthorID:    author.UserID,
		AuthorLogin: author.Login,
	}
}
