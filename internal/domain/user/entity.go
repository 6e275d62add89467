package user

import (
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
	RoleUnknown  Role = "unknown"
)

type Sex string

const (
	SexMale   Sex = "m"
	SexFemale Sex = "f"
)

var (
	ErrInvalidRole = errors.New("invalid role")
	ErrInvalidSex  = errors.New("invalid sex")
)

type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	Sex          Sex
	CreatedAt    time.Time
}

// ParseRole maps an empty value to RoleUnknown.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case "", RoleUnknown:
		return RoleUnknown, nil
	case RoleHR:
		return RoleHR, nil
	case RoleEmployee:
		return RoleEmployee, nil
	default:
		return "", ErrInvalidRole
	}
}

// ParseSex maps an empty value to SexMale.
func ParseSex(s string) (Sex, error) {
	switch Sex(strings.ToLower(strings.TrimSpace(s))) {
	case "", SexMale:
		return SexMale, nil
	case SexFemale:
		return SexFemale, nil
	default:
		return "", ErrInvalidSex
	}
}

func (r Role) CanCreateVacancy() bool {
	return r == RoleHR || r == RoleEmployee
}
