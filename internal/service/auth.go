package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/storefront/internal/events"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/repo"
	pkg_hash "github.com/Skotchmaster/storefront/pkg/hash"
	"github.com/Skotchmaster/storefront/pkg/logging"
	"github.com/Skotchmaster/storefront/pkg/tokens"
)

type AuthService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
	Secret []byte
	TTL    time.Duration
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Redirect is where the client goes after signing in.
func (r *LoginResult) Redirect() string {
	if r.User.IsAdmin() {
		return "/admin"
	}
	return "/"
}

// NormalizeEmail makes email comparison case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *AuthService) Register(ctx context.Context, cmd RegisterCommand) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	cmd.Email = NormalizeEmail(cmd.Email)
	cmd.Name = strings.TrimSpace(cmd.Name)
	cmd.Phone = strings.TrimSpace(cmd.Phone)
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	pwHash, err := pkg_hash.HashPassword(cmd.Password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:         cmd.Name,
		Email:        cmd.Email,
		PasswordHash: pwHash,
		Phone:        cmd.Phone,
		Address:      cmd.Address,
		Role:         models.RoleUser,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExist) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	s.publish(ctx, user.ID.String(), map[string]any{
		"type":   "user_registered",
		"userId": user.ID,
		"email":  user.Email,
	})
	return s.issue(user)
}

// Login fails with ErrUnauthorized for an unknown email and for a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	if err := validateStruct(cmd); err != nil {
		return nil, err
	}

	user, err := s.Repo.GetUserByEmail(ctx, NormalizeEmail(cmd.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !pkg_hash.CheckPassword(user.PasswordHash, cmd.Password) {
		return nil, ErrUnauthorized
	}

	return s.issue(user)
}

// EnsureAdmin gives the account with this email the admin role, creating it
// when a password is provided. Without a password a missing account is
// skipped and nil is returned.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return nil, nil
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsAdmin() {
			return user, nil
		}
		if err := s.Repo.SetUserRole(ctx, user.ID, models.RoleAdmin); err != nil {
			return nil, err
		}
		user.Role = models.RoleAdmin
		return user, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	case password == "":
		return nil, nil
	}

	pwHash, err := pkg_hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user = &models.User{
		Name:         "Administrator",
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleAdmin,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issue(user *models.User) (*LoginResult, error) {
	exp := time.Now().Add(s.TTL)
	token, err := tokens.SignSession(tokens.SessionClaims{
		Name:             user.Name,
		Email:            user.Email,
		Role:             user.Role,
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.ID.String()},
	}, s.Secret, exp)
	if err != nil {
		return nil, fmt.Errorf("sign session: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: user}, nil
}

// PrincipalFromClaims converts verified session claims into a Principal.
func PrincipalFromClaims(c *tokens.SessionClaims) (Principal, error) {
	if c == nil {
		return Principal{}, ErrUnauthorized
	}
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return Principal{}, ErrUnauthorized
	}
	return Principal{UserID: id, Role: c.Role}, nil
}

func (s *AuthService) publish(ctx context.Context, key string, event map[string]any) {
	if s.Events == nil {
		return
	}
	if err := s.Events.Publish(ctx, events.TopicUsers, key, event); err != nil {
		logging.FromContext(ctx).Warn("publish_failed", "topic", events.TopicUsers, "type", event["type"], "error", err)
	}
}
