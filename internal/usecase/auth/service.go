package auth

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"vacancy-board/internal/domain/user"
)

const (
	MinPasswordLength = 8
	MaxUsernameLength = 150
)

var (
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInternal           = errors.New("internal error")
)

// InputError lists the rejected registration fields.
type InputError struct {
	Fields map[string]string
}

func (e *InputError) Error() string {
	return "invalid input"
}

type RegisterInput struct {
	Username string
	Password string
	Role     string
	Sex      string
}

type LoginInput struct {
	Username string
	Password string
}

type Service struct {
	users user.Repository
	cost  int
}

func NewService(users user.Repository) *Service {
	return &Service{users: users, cost: bcrypt.DefaultCost}
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (user.User, error) {
	fields := map[string]string{}

	username := normalizeUsername(in.Username)
	switch {
	case username == "":
		fields["username"] = "This field may not be blank."
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		fields["username"] = "Ensure this field has no more than 150 characters."
	}
	if !isValidPassword(in.Password) {
		fields["password"] = "Ensure this field has at least 8 characters."
	}
	role, err := user.ParseRole(in.Role)
	if err != nil {
		fields["role"] = "\"" + in.Role + "\" is not a valid choice."
	}
	sex, err := user.ParseSex(in.Sex)
	if err != nil {
		fields["sex"] = "\"" + in.Sex + "\" is not a valid choice."
	}
	if len(fields) > 0 {
		return user.User{}, &InputError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return user.User{}, ErrInternal
	}

	created, err := s.users.Create(ctx, user.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		Sex:          sex,
	})
	if err != nil {
		if errors.Is(err, user.ErrAlreadyExists) {
			return user.User{}, ErrUsernameTaken
		}
		return user.User{}, ErrInternal
	}
	return sanitizeUser(created), nil
}

func (s *Service) Login(ctx context.Context, in LoginInput) (user.User, error) {
	username := normalizeUsername(in.Username)
	if username == "" || in.Password == "" {
		return user.User{}, ErrInvalidCredentials
	}

	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, ErrInvalidCredentials
		}
		return user.User{}, ErrInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return user.User{}, ErrInvalidCredentials
	}

	return sanitizeUser(u), nil
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= MinPasswordLength
}

func sanitizeUser(u user.User) user.User {
	u.PasswordHash = ""
	return u
}
