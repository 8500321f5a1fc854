package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/gymlog"
)

var (
	ErrWrongCredentials = errors.New("wrong credentials")
	ErrSessionNotFound  = errors.New("session not found")
)

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Credentials struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Password string `json:"password" validate:"required,min=8"`
}

func (c *Credentials) normalize() error {
	c.Username = strings.TrimSpace(c.Username)
	return gymlog.Validate(c)
}
