package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/acourtin/thefeed/internal/forms"
	"github.com/acourtin/thefeed/internal/models"
)

// FeedService accepts new publications and lists the shared feed.
type FeedService struct {
	publications PublicationStore
	users        UserStore
	log          *logrus.Logger
}

// NewFeedService initializes a new feed service
func NewFeedService(publications PublicationStore, users UserStore, log *logrus.Logger) *FeedService {
	return &FeedService{publications: publications, users: users, log: log}
}

// Publish creates a publication authored by the authenticated identity.
// Author and publication date are both assigned server-side; client
// values for either are never read. A rejected message comes back as a
// ValidationError carrying every message, never a partial list.
func (s *FeedService) Publish(ctx context.Context, identity models.Identity, message string) (*models.Publication, error) {
	form := forms.PublicationForm{Message: message}
	if msgs := form.Validate(); len(msgs) > 0 {
		return nil, &ValidationError{Messages: msgs}
	}

	p := models.NewPublication(message, identity)
	if err := s.publications.CreatePublication(ctx, p); err != nil {
		return nil, err
	}
	s.log.Infof("Publication %d created by %s", p.ID, identity.Login)
	return p, nil
}

// List returns every publication, most recent first. Equal timestamps
// keep insertion order (identifier ascending).
func (s *FeedService) List(ctx context.Context) ([]models.Publication, error) {
	return s.publications.ListPublications(ctx)
}

// ListByAuthor returns a user's profile and publications. An unknown
// login is an absent result (repository.ErrNotFound), not a failure.
func (s *FeedService) ListByAuthor(ctx context.Context, login string) (*models.User, []models.Publication, error) {
	user, err := s.users.FindUserByLogin(ctx, login)
	if err != nil {
		return nil, nil, err
	}
	publications, err := s.publications.ListPublicationsByAuthor(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, publications, nil
}
