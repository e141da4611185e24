package authservice

import (
	"context"
	"errors"
	"fmt"

	"github.com/Antonov75/gallery_service/internal/gallery/domain/models"
	"github.com/Antonov75/gallery_service/internal/gallery/repository/userrepo"
	"github.com/Antonov75/gallery_service/internal/pkg/config"
	"github.com/Antonov75/gallery_service/internal/pkg/jwtauth"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Seeded role ids, fixed by the permissions migration.
const (
	RoleUser      = 1
	RoleModerator = 2
	RoleAdmin     = 3
)

var ErrInvalidCredentials = errors.New("invalid username or password")

type AuthService struct {
	userRepo Repository
	tokens   TokenCache
	sender   Sender
	cfg      config.Auth
}

type Repository interface {
	CreateUser(context.Context, models.User) error
	GetUserByUsername(context.Context, string) (models.User, error)
	GetUserByID(context.Context, uuid.UUID) (models.User, error)
	SetVerified(context.Context, uuid.UUID) error
}

type TokenCache interface {
	SaveToken(ctx context.Context, token string, userID uuid.UUID) error
	PopToken(ctx context.Context, token string) (uuid.UUID, error)
}

// Sender delivers the verification token to the user. Mail transport is
// an external collaborator behind this interface.
type Sender interface {
	SendVerification(ctx context.Context, email, token string) error
}

func New(userRepo Repository, tokens TokenCache, sender Sender, cfg config.Auth) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		tokens:   tokens,
		sender:   sender,
		cfg:      cfg,
	}
}

// Register creates an unverified account with the default role and
// hands a verification token to the sender.
func (as *AuthService) Register(ctx context.Context, req RegisterRequest) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{ //nolint:exhaustruct
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		AccessLevel:  RoleUser,
	}

	if err := as.userRepo.CreateUser(ctx, u); err != nil {
		return models.User{}, fmt.Errorf("create user error: %w", err)
	}

	token := uuid.NewString()

	if err := as.tokens.SaveToken(ctx, token, u.ID); err != nil {
		return models.User{}, fmt.Errorf("save verification token error: %w", err)
	}

	if err := as.sender.SendVerification(ctx, u.Email, token); err != nil {
		return models.User{}, fmt.Errorf("send verification error: %w", err)
	}

	return u, nil
}

// ConfirmEmail consumes a verification token and flips the account to
// verified.
func (as *AuthService) ConfirmEmail(ctx context.Context, token string) error {
	userID, err := as.tokens.PopToken(ctx, token)
	if err != nil {
		return fmt.Errorf("pop token error: %w", err)
	}

	if err := as.userRepo.SetVerified(ctx, userID); err != nil {
		return fmt.Errorf("set verified error: %w", err)
	}

	return nil
}

func (as *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := as.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return "", ErrInvalidCredentials
		}

		return "", fmt.Errorf("get user error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token, err := jwtauth.GetToken(u, as.cfg.TTL, as.cfg.Secret)
	if err != nil {
		return "", fmt.Errorf("can't get token error: %w", err)
	}

	return token, nil
}

// Identify resolves a bearer token to the current user, with the
// permission row joined in.
func (as *AuthService) Identify(ctx context.Context, token string) (models.User, error) {
	userID, err := jwtauth.ValidateToken(token, as.cfg.Secret)
	if err != nil {
		return models.User{}, fmt.Errorf("validate token error: %w", err)
	}

	u, err := as.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("get user error: %w", err)
	}

	return u, nil
}

// EnsureAdmin creates the bootstrap superuser on startup when it does
// not exist yet. The account is verified from the start.
func (as *AuthService) EnsureAdmin(ctx context.Context) error {
	if as.cfg.AdminUsername == "" {
		return nil
	}

	_, err := as.userRepo.GetUserByUsername(ctx, as.cfg.AdminUsername)
	if err == nil {
		return nil
	}

	if !errors.Is(err, userrepo.ErrNotFound) {
		return fmt.Errorf("get user error: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(as.cfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("generate from password error: %w", err)
	}

	u := models.User{ //nolint:exhaustruct
		ID:           uuid.New(),
		Username:     as.cfg.AdminUsername,
		Email:        as.cfg.AdminEmail,
		PasswordHash: string(hash),
		IsVerified:   true,
		IsSuperuser:  true,
		AccessLevel:  RoleAdmin,
	}

	if err := as.userRepo.CreateUser(ctx, u); err != nil {
		return fmt.Errorf("create admin error: %w", err)
	}

	return nil
}
