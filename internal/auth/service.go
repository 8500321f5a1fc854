package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/gymlog/internal/gymlog"
	"github.com/2beens/gymlog/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "gymlog-session||"
	tokenBytes       = 35
	usernameKey      = "gymlog_user_username_key"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=auth_test

type usersRepo interface {
	Create(ctx context.Context, username, passwordHash string) (_ *User, err error)
	GetByUsername(ctx context.Context, username string) (_ *User, err error)
}

// Service registers users and keeps their login sessions in redis. A session is the key
// sessionKeyPrefix+token holding the user id, expiring after the TTL.
type Service struct {
	users       usersRepo
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(
	users usersRepo,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		users:          users,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) Register(ctx context.Context, creds Credentials) (*User, error) {
	if err := creds.normalize(); err != nil {
		return nil, err
	}

	passwordHash, err := pkg.HashPassword(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := as.users.Create(ctx, creds.Username, passwordHash)
	if err != nil {
		if pkg.IsUniqueViolationError(err) && pkg.ConstraintName(err) == usernameKey {
			return nil, gymlog.NewValidationError("username", "username is already taken")
		}
		return nil, err
	}

	return user, nil
}

// Login checks the credentials and opens a new session, returning its token.
func (as *Service) Login(ctx context.Context, creds Credentials) (string, error) {
	user, err := as.users.GetByUsername(ctx, creds.Username)
	if err != nil {
		if errors.Is(err, gymlog.ErrNotFound) {
			log.Tracef("[username] failed login attempt for user: %s", creds.Username)
			return "", ErrWrongCredentials
		}
		return "", err
	}

	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		log.Tracef("[password] failed login attempt for user: %s", creds.Username)
		return "", ErrWrongCredentials
	}

	token, err := as.RandStringFunc(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}

	if err := as.redisClient.Set(ctx, sessionKeyPrefix+token, user.ID, as.ttl).Err(); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	return token, nil
}

func (as *Service) Logout(ctx context.Context, token string) error {
	deleted, err := as.redisClient.Del(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if deleted == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// UserForToken returns the id of the user owning the session, or ErrSessionNotFound.
func (as *Service) UserForToken(ctx context.Context, token string) (int, error) {
	val, err := as.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, fmt.Errorf("get session: %w", err)
	}

	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("session user id %q: %w", val, err)
	}
	return userID, nil
}
