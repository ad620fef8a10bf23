package service

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/acourtin/thefeed/internal/models"
	"github.com/acourtin/thefeed/internal/repository"
)

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type fakeUserStore struct {
	created   []*models.User
	byLogin   map[string]*models.User
	images    map[string]struct{}
	createErr error
	imagesErr error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byLogin: map[string]*models.User{}, images: map[string]struct{}{}}
}

func (f *fakeUserStore) CreateUser(_ context.Context, user *models.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	user.ID = int64(len(f.created) + 1)
	f.created = append(f.created, user)
	f.byLogin[user.Login] = user
	return nil
}

func (f *fakeUserStore) FindUserByLogin(_ context.Context, login string) (*models.User, error) {
	if user, ok := f.byLogin[login]; ok {
		return user, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserStore) ProfileImageNames(_ context.Context) (map[string]struct{}, error) {
	if f.imagesErr != nil {
		return nil, f.imagesErr
	}
	return f.images, nil
}

type fakePublicationStore struct {
	created   []*models.Publication
	listed    []models.Publication
	createErr error
}

func (f *fakePublicationStore) CreatePublication(_ context.Context, p *models.Publication) error {
	if f.createErr != nil {
		return f.createErr
	}
	p.ID = int64(len(f.created) + 1)
	f.created = append(f.created, p)
	return nil
}

func (f *fakePublicationStore) ListPublications(_ context.Context) ([]models.Publication, error) {
	return f.listed, nil
}

func (f *fakePublicationStore) ListPublicationsByAuthor(_ context.Context, authorID int64) ([]models.Publication, error) {
	var out []models.Publication
	for _, p := range f.listed {
		if p.AuthorID == authorID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeMailer struct {
	sent chan string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{sent: make(chan string, 1)}
}

func (f *fakeMailer) SendWelcome(to, _ string) error {
	f.sent <- to
	return nil
}
