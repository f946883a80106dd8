package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"skoolife/backend/config"
	"skoolife/backend/internal/dto"
	"skoolife/backend/internal/model"
	"skoolife/backend/internal/repository"
	"skoolife/backend/pkg/jwt"
	"skoolife/backend/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrNotRefreshToken    = errors.New("token is not a refresh token")
	ErrWrongPassword      = errors.New("current password does not match")
)

// AuthService is the authentication business interface.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	// Logout blacklists the access token's jti for its remaining lifetime.
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, userID string) (*dto.UserDetailResponse, error)
	ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService creates the AuthService.
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.User.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("lookup user by email failed", zap.Error(err))
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:        email,
		Name:         req.Name,
		PasswordHash: string(hash),
		Role:         "user",
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("create user failed", zap.Error(err))
		return nil, err
	}

	return s.issueTokens(user, false)
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.repo.User.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("lookup user by email failed", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user, req.RememberMe)
}

func (s *authService) Refresh(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, ErrNotRefreshToken
	}

	if s.rdb != nil {
		blocked, err := s.rdb.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			s.logger.Error("blacklist check failed", zap.Error(err))
			return nil, err
		}
		if blocked {
			return nil, jwt.ErrTokenInvalid
		}
	}

	user, err := s.repo.User.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	// one-shot refresh: the used token is retired
	if s.rdb != nil {
		if err := s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
			s.logger.Warn("retire refresh token failed", zap.Error(err))
		}
	}

	return s.issueTokens(user, claims.RememberMe)
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if s.rdb == nil {
		// without Redis the token simply ages out
		return nil
	}
	return s.rdb.BlacklistToken(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

func (s *authService) Me(ctx context.Context, userID string) (*dto.UserDetailResponse, error) {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &dto.UserDetailResponse{
		ID:        user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, req *dto.ChangePasswordRequest) error {
	user, err := s.repo.User.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.PasswordHash = string(hash)
	return s.repo.User.Update(ctx, user)
}

func (s *authService) issueTokens(user *model.User, rememberMe bool) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(user.UserID, user.Role)
	if err != nil {
		s.logger.Error("generate access token failed", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(user.UserID, user.Role, rememberMe)
	if err != nil {
		s.logger.Error("generate refresh token failed", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.cfg.Auth.AccessTokenTTL.Seconds()),
		User: dto.UserResponse{
			ID:    user.UserID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
	}, nil
}
