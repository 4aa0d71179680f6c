package repository

import (
	"context"
	"database/sql"

	"modutime/core/database"
	"modutime/core/logger"
	"modutime/modules/auth/entity"

	"github.com/google/uuid"
)

type AuthRepository struct {
	DB database.IDatabase
}

func NewAuthRepository(db database.IDatabase) *AuthRepository {
	return &AuthRepository{DB: db}
}

type AuthRepositoryInterface interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

func (r *AuthRepository) CreateUser(ctx context.Context, user *entity.User) (*entity.User, error) {
	query := `
		INSERT INTO users (email, password_hash, nickname)
		VALUES ($1, $2, $3)
		RETURNING id, email, password_hash, nickname, created_at, updated_at
	`

	var created entity.User
	err := r.DB.GetContext(ctx, &created, query, user.Email, user.PasswordHash, user.Nickname)
	if err != nil {
		if !database.IsUniqueViolation(err, "") {
			logger.Error("AuthRepository:CreateUser", err)
		}
		return nil, err
	}

	return &created, nil
}

func (r *AuthRepository) GetUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT id, email, password_hash, nickname, created_at, updated_at FROM users WHERE email = $1`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByEmail", err)
		return nil, err
	}

	return &user, nil
}

func (r *AuthRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT id, email, password_hash, nickname, created_at, updated_at FROM users WHERE id = $1`

	var user entity.User
	err := r.DB.GetContext(ctx, &user, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		logger.Error("AuthRepository:GetUserByID", err)
		return nil, err
	}

	return &user, nil
}
