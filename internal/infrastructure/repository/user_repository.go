package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/litblc/account-service/internal/domain"
	"github.com/litblc/account-service/internal/infrastructure/database"
	"go.uber.org/zap"
)

const userColumns = `id, uuid, name, email, mobile, password, avatar, gender, birthday,
	reside_city, bio, closure, is_rename, github_id, created_at, updated_at`

type UserRepository struct {
	db  *database.Postgres
	log *zap.Logger
}

func NewUserRepository(db *database.Postgres, log *zap.Logger) *UserRepository {
	return &UserRepository{db: db, log: log}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO users (uuid, name, email, mobile, password, avatar, gender, birthday,
			reside_city, bio, closure, is_rename, github_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id
	`, user.UUID, user.Name, user.Email, user.Mobile, user.Password, user.Avatar,
		user.Gender, user.Birthday, user.ResideCity, user.Bio, user.Closure,
		user.IsRename, user.GithubID, user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		r.log.Error("failed to create user", zap.Error(err))
		return domain.ErrPersistence
	}
	return nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findBy(ctx, "email = $1 AND email <> ''", email)
}

func (r *UserRepository) FindByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	return r.findBy(ctx, "mobile = $1 AND mobile <> ''", mobile)
}

func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*domain.User, error) {
	return r.findBy(ctx, "uuid = $1", uuid)
}

func (r *UserRepository) FindByGithubID(ctx context.Context, githubID int64) (*domain.User, error) {
	return r.findBy(ctx, "github_id = $1 AND github_id <> 0", githubID)
}

func (r *UserRepository) findBy(ctx context.Context, where string, arg interface{}) (*domain.User, error) {
	user := &domain.User{}
	err := r.db.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE `+where, arg,
	).Scan(
		&user.ID, &user.UUID, &user.Name, &user.Email, &user.Mobile, &user.Password,
		&user.Avatar, &user.Gender, &user.Birthday, &user.ResideCity, &user.Bio,
		&user.Closure, &user.IsRename, &user.GithubID, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		r.log.Error("failed to find user", zap.Error(err))
		return nil, domain.ErrPersistence
	}
	return user, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int64, hashedPassword string) error {
	err := r.db.Exec(ctx, `
		UPDATE users
		SET password = $1, updated_at = now()
		WHERE id = $2
	`, hashedPassword, userID)
	if err != nil {
		return domain.ErrPersistence
	}
	return nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, userID int64, update domain.ProfileUpdate) error {
	err := r.db.Exec(ctx, `
		UPDATE users
		SET avatar = $1, gender = $2, birthday = $3, reside_city = $4, bio = $5, updated_at = now()
		WHERE id = $6
	`, update.Avatar, update.Gender, update.Birthday, update.ResideCity, update.Bio, userID)
	if err != nil {
		return domain.ErrPersistence
	}
	return nil
}

func (r *UserRepository) UpdateName(ctx context.Context, userID int64, name, isRename string) error {
	err := r.db.Exec(ctx, `
		UPDATE users
		SET name = $1, is_rename = $2, updated_at = now()
		WHERE id = $3
	`, name, isRename, userID)
	if err != nil {
		return domain.ErrPersistence
	}
	return nil
}
