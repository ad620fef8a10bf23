package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/acourtin/thefeed/internal/models"
)

// Sentinel errors surfaced to the service layer.
var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateLogin = errors.New("login already taken")
	ErrDuplicateEmail = errors.New("email already registered")
)

// Repository provides database operations
type Repository struct {
	db *sql.DB
}

// NewRepository initializes a new repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user in the database. The unique constraints
// on login and email are enforced by Postgres, so of two concurrent
// registrations with the same login exactly one succeeds; the loser gets
// the matching duplicate sentinel.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (login, email, roles, password_hash, profile_image, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), CURRENT_TIMESTAMP)
		RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		user.Login, user.Email, pq.Array(user.Roles), user.PasswordHash, user.ProfileImage).
		Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			switch pqErr.Constraint {
			case "users_login_key":
				return ErrDuplicateLogin
			case "users_email_key":
				return ErrDuplicateEmail
			}
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindUserByLogin retrieves a user by login. A missing row is ErrNotFound.
func (r *Repository) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	user := &models.User{}
	query := `
		SELECT id, login, email, roles, password_hash, COALESCE(profile_image, ''), created_at
		FROM users
		WHERE login = $1`
	err := r.db.QueryRowContext(ctx, query, login).
		Scan(&user.ID, &user.Login, &user.Email, pq.Array(&user.Roles),
			&user.PasswordHash, &user.ProfileImage, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// ProfileImageNames returns the set of profile image names any user
// references. Used by the image sweeper.
func (r *Repository) ProfileImageNames(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT profile_image FROM users WHERE profile_image IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile images: %w", err)
	}
	defer rows.Close()

	names := make(map[string]struct{})
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan profile image: %w", err)
		}
		names[name] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list profile images: %w", err)
	}
	return names, nil
}

// CreatePublication creates a new publication in the database
func (r *Repository) CreatePublication(ctx context.Context, p *models.Publication) error {
	query := `
		INSERT INTO publications (message, published_at, author_id)
		VALUES ($1, $2, $3)
		RETURNING id`
	err := r.db.QueryRowContext(ctx, query, p.Message, p.PublishedAt, p.AuthorID).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("failed to create publication: %w", err)
	}
	return nil
}

// ListPublications retrieves all publications, most recent first.
// Rows with equal timestamps stay in insertion order.
func (r *Repository) ListPublications(ctx context.Context) ([]models.Publication, error) {
	query := `
		SELECT p.id, p.message, p.published_at, p.author_id, u.login
		FROM publications p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.published_at DESC, p.id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}
	defer rows.Close()
	return scanPublications(rows)
}

// ListPublicationsByAuthor retrieves one author's publications, most
// recent first.
func (r *Repository) ListPublicationsByAuthor(ctx context.Context, authorID int64) ([]models.Publication, error) {
	query := `
		SELECT p.id, p.message, p.published_at, p.author_id, u.login
		FROM publications p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.published_at DESC, p.id ASC`
	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}
	defer rows.Close()
	return scanPublications(rows)
}

func scanPublications(rows *sql.Rows) ([]models.Publication, error) {
	var publications []models.Publication
	for rows.Next() {
		var p models.Publication
		if err := rows.Scan(&p.ID, &p.Message, &p.PublishedAt, &p.AuthorID, &p.AuthorLogin); err != nil {
			return nil, fmt.Errorf("failed to scan publication: %w", err)
		}
		publications = append(publications, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list publications: %w", err)
	}
	return publications, nil
}
