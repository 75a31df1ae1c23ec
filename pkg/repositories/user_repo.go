package repositories

import (
	"context"
	"strings"

	"github.com/Seer7-SWE/PayTM-clone/pkg/database"
	"github.com/Seer7-SWE/PayTM-clone/pkg/models"
)

// UserRepository defines the interface for user repository.
// Username comparisons are case-insensitive everywhere.
type UserRepository interface {
	// Create inserts the user and fills ID and timestamps.
	Create(ctx context.Context, q database.Querier, user *models.User) error
	// FindByUsername returns pgx.ErrNoRows when no user matches.
	FindByUsername(ctx context.Context, q database.Querier, username string) (models.User, error)
	FindByID(ctx context.Context, q database.Querier, userID int64) (models.User, error)
	// Search returns users whose username contains term, excluding excludeUserID.
	Search(ctx context.Context, q database.Querier, term string, excludeUserID int64, limit int) ([]models.User, error)
}

type UserRepositoryImpl struct {
}

func NewUserRepository() UserRepository {
	return &UserRepositoryImpl{}
}

func (u UserRepositoryImpl) Create(ctx context.Context, q database.Querier, user *models.User) error {
	return q.QueryRow(ctx, `INSERT INTO users (username, password_hash)
				VALUES ($1, $2)
				RETURNING id, created_at, updated_at`,
		user.Username,
		user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (u UserRepositoryImpl) FindByUsername(ctx context.Context, q database.Querier, username string) (models.User, error) {
	var user models.User
	err := q.QueryRow(ctx, `SELECT id, username, password_hash, created_at, updated_at
				FROM users WHERE lower(username) = lower($1)`, username).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (u UserRepositoryImpl) FindByID(ctx context.Context, q database.Querier, userID int64) (models.User, error) {
	var user models.User
	err := q.QueryRow(ctx, `SELECT id, username, password_hash, created_at, updated_at
				FROM users WHERE id = $1`, userID).Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	return user, err
}

func (u UserRepositoryImpl) Search(ctx context.Context, q database.Querier, term string, excludeUserID int64, limit int) ([]models.User, error) {
	rows, err := q.Query(ctx, `SELECT id, username, created_at, updated_at
				FROM users
				WHERE username ILIKE '%' || $1 || '%' ESCAPE '\' AND id <> $2
				ORDER BY lower(username), id
				LIMIT $3`, EscapeLike(term), excludeUserID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var user models.User
		if err = rows.Scan(&user.ID, &user.Username, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike neutralises LIKE wildcards so user input matches literally.
func EscapeLike(term string) string {
	return likeEscaper.Replace(term)
}
