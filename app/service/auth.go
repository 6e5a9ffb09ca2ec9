package service

import (
	"context"
	"crypto/md5"
	"database/sql"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vibast-solutions/ms-go-contacts/app/entity"
	"github.com/vibast-solutions/ms-go-contacts/config"
)

var (
	ErrUserExists          = errors.New("account already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidEmail        = errors.New("invalid email")
	ErrInvalidPassword     = errors.New("invalid password")
	ErrEmailNotConfirmed   = errors.New("email not confirmed")
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrAlreadyConfirmed    = errors.New("email is already confirmed")
	ErrInvalidEmailToken   = errors.New("invalid token for email verification")
	ErrUnauthorized        = errors.New("could not validate credentials")
)

type userRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateRefreshToken(ctx context.Context, userID uint64, token sql.NullString) error
	ConfirmEmail(ctx context.Context, email string) error
}

type identityCache interface {
	Get(ctx context.Context, email string) *entity.User
	Set(ctx context.Context, user *entity.User)
	Invalidate(ctx context.Context, email string)
}

// EmailSender delivers the account-confirmation mail. Best effort: it runs
// after the originating request has already been answered.
type EmailSender interface {
	Send(to, username, baseURL string) error
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type AsyncRunner func(task func())

type AuthServiceOption func(*AuthService)

// AuthService resolves caller identity from bearer tokens and manages the
// signup/login/refresh/confirmation flows.
type AuthService struct {
	userRepo    userRepository
	cache       identityCache
	tokens      *TokenIssuer
	sender      EmailSender
	cfg         *config.Config
	asyncRunner AsyncRunner
}

func NewAuthService(
	userRepo userRepository,
	cache identityCache,
	tokens *TokenIssuer,
	sender EmailSender,
	cfg *config.Config,
	opts ...AuthServiceOption,
) *AuthService {
	svc := &AuthService{
		userRepo: userRepo,
		cache:    cache,
		tokens:   tokens,
		sender:   sender,
		cfg:      cfg,
		asyncRunner: func(task func()) {
			go task()
		},
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func WithAsyncRunner(runner AsyncRunner) AuthServiceOption {
	return func(s *AuthService) {
		if runner != nil {
			s.asyncRunner = runner
		}
	}
}

func (s *AuthService) Signup(ctx context.Context, username, email, password string) (*entity.User, error) {
	email = NormalizeEmail(email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &entity.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Avatar:       sql.NullString{String: gravatarURL(email), Valid: true},
		IsActive:     true,
		IsConfirmed:  false,
		Role:         entity.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendConfirmationEmail(user.Email, user.Username)

	return user, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	email = NormalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidEmail
	}
	if !user.IsConfirmed {
		return nil, ErrEmailNotConfirmed
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidPassword
	}

	return s.issueTokenPair(ctx, user)
}

// Refresh rotates the token pair. A presented token that no longer matches
// the stored one is treated as stale or stolen: the stored token is cleared
// so the holder of either copy has to log in again.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.Parse(refreshToken, ScopeRefresh)
	if err != nil {
		return nil, ErrUnauthorized
	}

	user, err := s.userRepo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	if !user.RefreshToken.Valid || user.RefreshToken.String != refreshToken {
		if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, sql.NullString{}); err != nil {
			return nil, err
		}
		s.cache.Invalidate(ctx, user.Email)
		return nil, ErrInvalidRefreshToken
	}

	return s.issueTokenPair(ctx, user)
}

// Authenticate resolves the caller from an access token, consulting the
// cache first and falling back to the user directory on a miss.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*entity.User, error) {
	claims, err := s.tokens.Parse(accessToken, ScopeAccess)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, ErrUnauthorized
	}

	if user := s.cache.Get(ctx, claims.Subject); user != nil {
		return user, nil
	}

	user, err := s.userRepo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	s.cache.Set(ctx, user)
	return user, nil
}

// ConfirmEmail is idempotent; the returned flag reports whether the account
// was already confirmed so the caller can phrase its acknowledgement.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error) {
	claims, err := s.tokens.Parse(token, ScopeEmail)
	if err != nil {
		return false, ErrInvalidEmailToken
	}

	user, err := s.userRepo.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, ErrUserNotFound
	}
	if user.IsConfirmed {
		return true, nil
	}

	if err := s.userRepo.ConfirmEmail(ctx, user.Email); err != nil {
		return false, err
	}
	s.cache.Invalidate(ctx, user.Email)
	return false, nil
}

// RequestConfirmation re-sends the confirmation mail for an unconfirmed
// account.
func (s *AuthService) RequestConfirmation(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if user.IsConfirmed {
		return ErrAlreadyConfirmed
	}

	s.sendConfirmationEmail(user.Email, user.Username)
	return nil
}

// IssueEmailToken mints the confirmation-scoped token embedded in the
// mailed link. The TTL is fixed, not caller-configurable.
func (s *AuthService) IssueEmailToken(email string) (string, error) {
	return s.tokens.Issue(email, ScopeEmail, s.cfg.EmailTokenTTL)
}

func (s *AuthService) issueTokenPair(ctx context.Context, user *entity.User) (*TokenPair, error) {
	accessToken, err := s.tokens.Issue(user.Email, ScopeAccess, s.cfg.JWTAccessTokenTTL)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.Issue(user.Email, ScopeRefresh, s.cfg.JWTRefreshTokenTTL)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateRefreshToken(ctx, user.ID, sql.NullString{String: refreshToken, Valid: true}); err != nil {
		return nil, err
	}
	s.cache.Invalidate(ctx, user.Email)

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) sendConfirmationEmail(email, username string) {
	if s.sender == nil {
		return
	}
	baseURL := s.cfg.BaseURL
	s.asyncRunner(func() {
		if err := s.sender.Send(email, username, baseURL); err != nil {
			logrus.WithError(err).WithField("email", email).Error("Failed to send confirmation email")
		}
	})
}

// NormalizeEmail lowercases and trims the address used as the identity key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func gravatarURL(email string) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:])
}
