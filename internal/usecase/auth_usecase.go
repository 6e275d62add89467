package usecase

import (
	"context"
	"errors"

	"vacancy-board/internal/domain/user"
	"vacancy-board/internal/pkg/jwt"
	ucauth "vacancy-board/internal/usecase/auth"

	"github.com/sirupsen/logrus"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type AuthUsecase interface {
	Register(ctx context.Context, in ucauth.RegisterInput) (user.User, TokenPair, error)
	Login(ctx context.Context, in ucauth.LoginInput) (user.User, TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
}

type Auth struct {
	authSvc *ucauth.Service
	users   user.Repository
	jwt     jwt.Service
	cache   SearchCache
	logger  logrus.FieldLogger
}

func NewAuthUsecase(users user.Repository, jwtSvc jwt.Service, cache SearchCache, logger logrus.FieldLogger) *Auth {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Auth{
		authSvc: ucauth.NewService(users),
		users:   users,
		jwt:     jwtSvc,
		cache:   cache,
		logger:  logger.WithField("component", "auth"),
	}
}

func (u *Auth) Register(ctx context.Context, in ucauth.RegisterInput) (user.User, TokenPair, error) {
	usr, err := u.authSvc.Register(ctx, in)
	if err != nil {
		return user.User{}, TokenPair{}, mapAuthError(err)
	}

	// the per-user report lists every user
	if u.cache != nil {
		if err := u.cache.InvalidateVacancies(ctx); err != nil {
			u.logger.WithError(err).Warn("cache invalidation failed")
		}
	}

	pair, err := u.issue(usr)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return usr, pair, nil
}

func (u *Auth) Login(ctx context.Context, in ucauth.LoginInput) (user.User, TokenPair, error) {
	usr, err := u.authSvc.Login(ctx, in)
	if err != nil {
		return user.User{}, TokenPair{}, mapAuthError(err)
	}

	pair, err := u.issue(usr)
	if err != nil {
		return user.User{}, TokenPair{}, err
	}
	return usr, pair, nil
}

func (u *Auth) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	if refreshToken == "" {
		return TokenPair{}, ErrUnauthorized
	}

	claims, err := u.jwt.ValidateToken(refreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return TokenPair{}, ErrRefreshTokenExpired
		}
		return TokenPair{}, ErrInvalidRefreshToken
	}

	if !u.jwt.IsRefreshToken(claims) || claims.TokenType != jwt.TokenTypeRefresh {
		return TokenPair{}, ErrInvalidRefreshToken
	}

	usr, err := u.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return TokenPair{}, ErrInvalidRefreshToken
		}
		return TokenPair{}, ErrInternal
	}

	return u.issue(usr)
}

func (u *Auth) issue(usr user.User) (TokenPair, error) {
	access, err := u.jwt.GenerateAccessToken(usr.ID, usr.Username, string(usr.Role))
	if err != nil {
		u.logger.WithError(err).Error("issue access token failed")
		return TokenPair{}, ErrInternal
	}
	refresh, err := u.jwt.GenerateRefreshToken(usr.ID)
	if err != nil {
		u.logger.WithError(err).Error("issue refresh token failed")
		return TokenPair{}, ErrInternal
	}
	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func mapAuthError(err error) error {
	var inErr *ucauth.InputError
	switch {
	case errors.As(err, &inErr):
		verr := &ValidationError{}
		for field, msg := range inErr.Fields {
			verr.Add(field, msg)
		}
		return verr
	case errors.Is(err, ucauth.ErrUsernameTaken):
		return ErrUsernameTaken
	case errors.Is(err, ucauth.ErrInvalidCredentials):
		return ErrInvalidCredentials
	default:
		return ErrInternal
	}
}
