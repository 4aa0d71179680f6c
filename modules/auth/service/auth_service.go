package service

import (
	"context"
	"strings"

	"modutime/core/cache"
	"modutime/core/config"
	"modutime/core/database"
	"modutime/core/errors"
	"modutime/core/logger"
	"modutime/core/utils"
	"modutime/modules/auth/dto"
	"modutime/modules/auth/entity"
	"modutime/modules/auth/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ParticipantLinker claims anonymous participant rows for a freshly
// authenticated user. Implemented by the participant module.
type ParticipantLinker interface {
	MergeOnLogin(ctx context.Context, userID uuid.UUID, email string)
}

type AuthService struct {
	repo   repository.AuthRepositoryInterface
	cache  cache.Cache
	linker ParticipantLinker
}

func NewAuthService(repo repository.AuthRepositoryInterface, c cache.Cache, linker ParticipantLinker) *AuthService {
	return &AuthService{
		repo:   repo,
		cache:  c,
		linker: linker,
	}
}

func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, *errors.AppError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	nickname := strings.TrimSpace(req.Nickname)
	if email == "" || nickname == "" {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "email and nickname are required", nil)
	}
	if len(req.Password) < 8 {
		return nil, errors.NewAppError(errors.ErrInvalidInput, "password must be at least 8 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to hash password", err)
	}

	user, err := s.repo.CreateUser(ctx, &entity.User{
		Email:        email,
		PasswordHash: string(hash),
		Nickname:     nickname,
	})
	if err != nil {
		if database.IsUniqueViolation(err, "") {
			return nil, errors.NewAppError(errors.ErrAlreadyExists, "email already registered", err)
		}
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to create user", err)
	}

	logger.Info("AuthService:Register", "user_id", user.ID)
	return s.issueToken(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, *errors.AppError) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "invalid email or password", nil)
	}

	if s.linker != nil {
		s.linker.MergeOnLogin(ctx, user.ID, user.Email)
	}

	return s.issueToken(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, token string) *errors.AppError {
	if s.cache == nil {
		return nil
	}
	if err := s.cache.AddToTokenBlacklist(ctx, token); err != nil {
		return errors.NewAppError(errors.ErrInternalServer, "failed to revoke token", err)
	}
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, *errors.AppError) {
	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to get user", err)
	}
	if user == nil {
		return nil, errors.NewAppError(errors.ErrNotFound, "user not found", nil)
	}
	resp := dto.ToUserResponse(user)
	return &resp, nil
}

func (s *AuthService) issueToken(_ context.Context, user *entity.User) (*dto.AuthResponse, *errors.AppError) {
	token, err := utils.GenerateToken(config.Get().JWT.Secret, user.ID, user.Email, user.Nickname)
	if err != nil {
		return nil, errors.NewAppError(errors.ErrInternalServer, "failed to issue token", err)
	}
	return &dto.AuthResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}
