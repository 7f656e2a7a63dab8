package server

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/scrapperhq/scrapper/internal/config"
	"github.com/scrapperhq/scrapper/internal/db"
	"github.com/scrapperhq/scrapper/internal/types"
)

// resetTokenTTL is how long a password reset link stays valid.
const resetTokenTTL = time.Hour

// UserStore is the persistence surface the user service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (uuid.UUID, error)
	GetUser(ctx context.Context, id uuid.UUID) (*db.User, error)
	GetUserByEmail(ctx context.Context, email string) (*db.User, error)
	CheckEmailExists(ctx context.Context, email string) (bool, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdatePremium(ctx context.Context, id uuid.UUID, isPremium bool) (*db.User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expiresAt time.Time) error
	GetUserByResetToken(ctx context.Context, token string) (*db.User, error)
}

// MailSender sends account email. A nil sender disables outbound mail.
type MailSender interface {
	SendVerificationEmail(ctx context.Context, email, userID string) error
	SendPasswordResetEmail(ctx context.Context, email, resetToken string) error
}

// UserService provides business logic for accounts and authentication.
type UserService struct {
	db             UserStore
	passwordConfig *config.PasswordConfig
	mailer         MailSender
}

// NewUserService creates a new UserService with the given dependencies.
func NewUserService(store UserStore, passwordConfig *config.PasswordConfig, mailer MailSender) *UserService {
	return &UserService{
		db:             store,
		passwordConfig: passwordConfig,
		mailer:         mailer,
	}
}

// convertDBUser converts db.User to types.User, excluding the password hash
func convertDBUser(dbUser *db.User) *types.User {
	if dbUser == nil {
		return nil
	}
	return &types.User{
		ID:            dbUser.ID,
		Name:          dbUser.Name,
		Email:         dbUser.Email,
		IsPremium:     dbUser.IsPremium,
		EmailVerified: dbUser.EmailVerified,
		CreatedAt:     dbUser.CreatedAt,
		UpdatedAt:     dbUser.UpdatedAt,
	}
}

// Register creates a new user and sends the verification mail. Mail failure
// is logged, never fatal.
func (s *UserService) Register(ctx context.Context, req *types.CreateUserRequest) (*types.User, error) {
	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.db.CreateUser(ctx, req.Name, req.Email, passwordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.mailer != nil {
		if err := s.mailer.SendVerificationEmail(ctx, req.Email, userID.String()); err != nil {
			log.Printf("[mail] Error sending verification email to %s: %v", req.Email, err)
		}
	}

	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if dbUser == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return convertDBUser(dbUser), nil
}

// Login authenticates a user and returns user data
func (s *UserService) Login(ctx context.Context, req *types.LoginRequest) (*types.User, error) {
	dbUser, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrInvalidCredentials{}
	}

	if !s.passwordConfig.VerifyPassword(dbUser.PasswordHash, req.Password) {
		return nil, &ErrInvalidCredentials{}
	}

	return convertDBUser(dbUser), nil
}

// GetProfile returns the account for a user ID
func (s *UserService) GetProfile(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return convertDBUser(dbUser), nil
}

// UpdatePassword changes the password after verifying the old one. Old and
// new password must differ.
func (s *UserService) UpdatePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	dbUser, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if dbUser == nil {
		return &ErrUserNotFound{UserID: userID}
	}

	if oldPassword == newPassword {
		return &ErrSamePassword{}
	}
	if !s.passwordConfig.VerifyPassword(dbUser.PasswordHash, oldPassword) {
		return &ErrPasswordMismatch{}
	}

	passwordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.UpdatePassword(ctx, userID, passwordHash)
}

// UpdatePremium toggles the premium flag
func (s *UserService) UpdatePremium(ctx context.Context, userID uuid.UUID, isPremium bool) (*types.User, error) {
	dbUser, err := s.db.UpdatePremium(ctx, userID, isPremium)
	if err != nil {
		return nil, fmt.Errorf("failed to update premium flag: %w", err)
	}
	if dbUser == nil {
		return nil, &ErrUserNotFound{UserID: userID}
	}
	return convertDBUser(dbUser), nil
}

// VerifyEmail marks the user's email address as verified
func (s *UserService) VerifyEmail(ctx context.Context, userID uuid.UUID) error {
	return s.db.MarkEmailVerified(ctx, userID)
}

// ForgotPassword issues a reset token and mails the reset link. An unknown
// email is treated as success so the endpoint does not leak which addresses
// are registered.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	dbUser, err := s.db.GetUserByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if dbUser == nil {
		return nil
	}

	token := uuid.NewString()
	if err := s.db.SetResetToken(ctx, dbUser.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return err
	}

	if s.mailer != nil {
		if err := s.mailer.SendPasswordResetEmail(ctx, email, token); err != nil {
			log.Printf("[mail] Error sending password reset email to %s: %v", email, err)
		}
	}
	return nil
}

// ResetPassword completes the reset flow. Updating the password clears the
// stored token.
func (s *UserService) ResetPassword(ctx context.Context, token, newPassword string) error {
	dbUser, err := s.db.GetUserByResetToken(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to look up reset token: %w", err)
	}
	if dbUser == nil {
		return &ErrInvalidResetToken{}
	}

	passwordHash, err := s.passwordConfig.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.db.UpdatePassword(ctx, dbUser.ID, passwordHash)
}
