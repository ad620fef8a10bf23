package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/acourtin/thefeed/internal/models"
)

func newManager(t *testing.T, store *fakeUserStore, mailer WelcomeMailer) *UserManager {
	t.Helper()
	return NewUserManager(store, NewPasswordPolicy(), NewProfileImageStore(t.TempDir()), mailer, discardLogger())
}

func TestProcessNewUserHashesPassword(t *testing.T) {
	m := newManager(t, newFakeUserStore(), nil)
	user := &models.User{Login: "alice", Email: "alice@example.org"}

	require.NoError(t, m.ProcessNewUser(user, "Abcdefg1", nil))

	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "Abcdefg1", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("Abcdefg1")))
	assert.Empty(t, user.ProfileImage, "no image supplied, field stays unset")
}

func TestProcessNewUserStoresImage(t *testing.T) {
	m := newManager(t, newFakeUserStore(), nil)
	user := &models.User{Login: "alice", Email: "alice@example.org"}

	require.NoError(t, m.ProcessNewUser(user, "Abcdefg1", uploadedFile(t, "me.jpg", []byte("jpg"))))

	assert.NotEmpty(t, user.ProfileImage)
	assert.Contains(t, user.ProfileImage, "alice_")
}

func TestProcessNewUserDoesNotPersist(t *testing.T) {
	store := newFakeUserStore()
	m := newManager(t, store, nil)
	user := &models.User{Login: "alice", Email: "alice@example.org"}

	require.NoError(t, m.ProcessNewUser(user, "Abcdefg1", nil))

	// The caller owns the persistence transaction.
	assert.Empty(t, store.created)
}

func TestRegisterPersistsAndNotifies(t *testing.T) {
	store := newFakeUserStore()
	mailer := newFakeMailer()
	m := newManager(t, store, mailer)
	user := &models.User{Login: "alice", Email: "alice@example.org"}

	require.NoError(t, m.Register(context.Background(), user, "Abcdefg1", nil))

	require.Len(t, store.created, 1)
	assert.Equal(t, []string{models.RoleUser}, user.Roles)
	assert.NotZero(t, user.ID)

	select {
	case to := <-mailer.sent:
		assert.Equal(t, "alice@example.org", to)
	case <-time.After(time.Second):
		t.Fatal("welcome email was never sent")
	}
}

func TestRegisterPropagatesStoreError(t *testing.T) {
	store := newFakeUserStore()
	store.createErr = errors.New("duplicate")
	m := newManager(t, store, nil)
	user := &models.User{Login: "alice", Email: "alice@example.org"}

	err := m.Register(context.Background(), user, "Abcdefg1", nil)
	assert.ErrorIs(t, err, store.createErr)
}

func TestAuthenticate(t *testing.T) {
	store := newFakeUserStore()
	m := newManager(t, store, nil)
	user := &models.User{Login: "alice", Email: "alice@example.org"}
	require.NoError(t, m.Register(context.Background(), user, "Abcdefg1", nil))

	got, err := m.Authenticate(context.Background(), "alice", "Abcdefg1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, err = m.Authenticate(context.Background(), "alice", "WrongPass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = m.Authenticate(context.Background(), "nobody", "Abcdefg1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
