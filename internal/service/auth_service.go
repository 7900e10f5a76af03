package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/greenhabit/internal/metrics"
	"github.com/xxxsen/greenhabit/internal/model"
	appErr "github.com/xxxsen/greenhabit/internal/pkg/errors"
	"github.com/xxxsen/greenhabit/internal/pkg/jwt"
	"github.com/xxxsen/greenhabit/internal/pkg/password"
	"github.com/xxxsen/greenhabit/internal/pkg/timeutil"
	"github.com/xxxsen/greenhabit/internal/repo"
)

const (
	TokenTypeBearer = "bearer"

	// bcrypt ignores input beyond 72 bytes and newer versions reject it.
	maxPasswordBytes = 72
)

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type AuthService struct {
	users     *repo.UserRepo
	jwtSecret []byte
	jwtTTL    time.Duration
	metrics   metrics.Recorder
}

func NewAuthService(users *repo.UserRepo, secret []byte, ttl time.Duration, recorder metrics.Recorder) *AuthService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AuthService{users: users, jwtSecret: secret, jwtTTL: ttl, metrics: recorder}
}

// NormalizeEmail is applied before every lookup so that logins are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Signup(ctx context.Context, email, plainPassword string) (*model.User, error) {
	email = NormalizeEmail(email)
	if email == "" || plainPassword == "" {
		return nil, appErr.ErrInvalid
	}
	if len(plainPassword) > maxPasswordBytes {
		return nil, fmt.Errorf("%w: password too long", appErr.ErrInvalid)
	}
	hash, err := password.Hash(plainPassword)
	if err != nil {
		return nil, err
	}
	now := timeutil.NowUnix()
	user := &model.User{
		ID:           newID(),
		Email:        email,
		PasswordHash: hash,
		Ctime:        now,
		Mtime:        now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.metrics.IncSignup()
	logutil.GetLogger(ctx).Info("user signed up", zap.String("user_id", user.ID))
	return user, nil
}

// Login does not reveal whether the email or the password was wrong.
func (s *AuthService) Login(ctx context.Context, email, plainPassword string) (*model.User, *Token, error) {
	user, err := s.users.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if appErr.IsNotFound(err) {
			s.metrics.IncLogin(false)
			return nil, nil, appErr.ErrUnauthorized
		}
		return nil, nil, err
	}
	if !password.Matches(user.PasswordHash, plainPassword) {
		s.metrics.IncLogin(false)
		return nil, nil, appErr.ErrUnauthorized
	}
	token, err := s.IssueToken(user)
	if err != nil {
		return nil, nil, err
	}
	s.metrics.IncLogin(true)
	return user, token, nil
}

func (s *AuthService) IssueToken(user *model.User) (*Token, error) {
	signed, err := jwt.GenerateToken(user.ID, user.Email, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, err
	}
	return &Token{AccessToken: signed, TokenType: TokenTypeBearer}, nil
}

// Authenticate resolves a bearer token to the id of an existing user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (string, error) {
	claims, err := jwt.ParseToken(token, s.jwtSecret)
	if err != nil {
		return "", appErr.ErrUnauthorized
	}
	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, appErr.ErrNotFound) {
			return "", appErr.ErrUnauthorized
		}
		return "", err
	}
	return claims.UserID, nil
}
