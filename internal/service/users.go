package service

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/acourtin/thefeed/internal/models"
)

// UserManager orchestrates account creation and authentication.
type UserManager struct {
	users  UserStore
	policy *PasswordPolicy
	images *ProfileImageStore
	mailer WelcomeMailer
	log    *logrus.Logger
}

// NewUserManager initializes a new user manager
func NewUserManager(users UserStore, policy *PasswordPolicy, images *ProfileImageStore, mailer WelcomeMailer, log *logrus.Logger) *UserManager {
	return &UserManager{users: users, policy: policy, images: images, mailer: mailer, log: log}
}

// ProcessNewUser prepares an already-validated aggregate for persistence:
// the password is hashed and assigned, then the optional profile image is
// stored and its name assigned. The caller owns the persistence
// transaction, which keeps business failures distinguishable from commit
// failures. The image may land on disk even if that later commit fails;
// the two writes are not transactionally coupled.
func (m *UserManager) ProcessNewUser(user *models.User, plainPassword string, image *multipart.FileHeader) error {
	hash, err := m.policy.Hash(user, plainPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash

	if image != nil {
		name, err := m.images.Save(user.Login, image)
		if err != nil {
			return fmt.Errorf("failed to store profile image: %w", err)
		}
		user.ProfileImage = name
	}
	return nil
}

// Register runs ProcessNewUser then persists the account. Duplicate login
// or email surfaces as the repository's sentinel error so exactly one of
// two concurrent registrations can succeed. The welcome mail is sent
// asynchronously; a mail failure never fails the registration.
func (m *UserManager) Register(ctx context.Context, user *models.User, plainPassword string, image *multipart.FileHeader) error {
	if len(user.Roles) == 0 {
		user.Roles = []string{models.RoleUser}
	}
	if err := m.ProcessNewUser(user, plainPassword, image); err != nil {
		return err
	}
	if err := m.users.CreateUser(ctx, user); err != nil {
		return err
	}
	m.log.Infof("User registered: %s", user.Login)

	if m.mailer != nil {
		go func(to, login string) {
			if err := m.mailer.SendWelcome(to, login); err != nil {
				m.log.Errorf("Failed to send welcome email to %s: %v", to, err)
			}
		}(user.Email, user.Login)
	}
	return nil
}

// Authenticate verifies credentials and returns the matching user.
// Any failure collapses into ErrInvalidCredentials.
func (m *UserManager) Authenticate(ctx context.Context, login, password string) (*models.User, error) {
	user, err := m.users.FindUserByLogin(ctx, login)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	m.log.Infof("User logged in: %s", user.Login)
	return user, nil
}
