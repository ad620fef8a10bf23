package service

import (
	"context"

	"github.com/acourtin/thefeed/internal/models"
)

// UserStore is the persistence surface the user workflows rely on.
// The store commits each call atomically and enforces the unique
// constraints on login and email.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	FindUserByLogin(ctx context.Context, login string) (*models.User, error)
	ProfileImageNames(ctx context.Context) (map[string]struct{}, error)
}

// PublicationStore is the persistence surface the feed workflows rely on.
type PublicationStore interface {
	CreatePublication(ctx context.Context, p *models.Publication) error
	ListPublications(ctx context.Context) ([]models.Publication, error)
	ListPublicationsByAuthor(ctx context.Context, authorID int64) ([]models.Publication, error)
}

// WelcomeMailer notifies a freshly registered user.
type WelcomeMailer interface {
	SendWelcome(to, login string) error
}
