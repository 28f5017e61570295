package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgauth "github.com/venkateshdh/gotours-backend/pkg/auth"
	"github.com/venkateshdh/gotours-backend/pkg/config"
	"github.com/venkateshdh/gotours-backend/pkg/db"
	"github.com/venkateshdh/gotours-backend/pkg/db/models"
	"github.com/venkateshdh/gotours-backend/pkg/email"
	"github.com/venkateshdh/gotours-backend/pkg/enums"
	pkgerrors "github.com/venkateshdh/gotours-backend/pkg/errors"
	"github.com/venkateshdh/gotours-backend/pkg/logger"
	"github.com/venkateshdh/gotours-backend/pkg/security"
)

type usersRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindActiveByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindActiveByEmail(ctx context.Context, email string) (*models.User, error)
	FindByValidResetTokenHash(ctx context.Context, digest string, now time.Time) (*models.User, error)
	Save(ctx context.Context, user *models.User) error
	ClearResetToken(ctx context.Context, id uuid.UUID) error
}

// SignupInput carries the registration payload. Role is never accepted from
// clients; every signup starts as a regular user.
type SignupInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
}

// Session pairs an authenticated user with a freshly minted token.
type Session struct {
	User  *models.User
	Token string
}

// Service exposes registration, login and the password lifecycle.
type Service interface {
	Signup(ctx context.Context, input SignupInput) (*Session, error)
	Login(ctx context.Context, emailAddr, password string) (*Session, error)
	ForgotPassword(ctx context.Context, emailAddr, resetURLBase string) error
	ResetPassword(ctx context.Context, plainToken, password, passwordConfirm string) (*Session, error)
	UpdatePassword(ctx context.Context, userID uuid.UUID, current, password, passwordConfirm string) (*Session, error)
}

type service struct {
	repo     usersRepository
	mailer   email.Sender
	jwtCfg   config.JWTConfig
	pwCfg    config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(repo usersRepository, mailer email.Sender, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{
		repo:   repo,
		mailer: mailer,
		jwtCfg: jwtCfg,
		pwCfg:  pwCfg,
		logg:   logg,
		now:    time.Now,
	}, nil
}

const minPasswordLength = 8

func (s *service) Signup(ctx context.Context, input SignupInput) (*Session, error) {
	name := strings.TrimSpace(input.Name)
	emailAddr := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "please tell us your name!")
	}
	if emailAddr == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "please provide your email")
	}
	if err := validatePasswordPair(input.Password, input.PasswordConfirm); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := &models.User{
		Name:         name,
		Email:        emailAddr,
		Role:         enums.RoleUser,
		PasswordHash: hash,
		Active:       true,
	}
	if _, err := s.repo.Create(ctx, user); err != nil {
		return nil, db.Translate(err, "user")
	}

	if s.mailer != nil {
		if err := s.mailer.SendWelcomeEmail(ctx, user.Email, user.Name); err != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "auth.welcome_email_failed")
		}
	}

	return s.newSession(user)
}

func (s *service) Login(ctx context.Context, emailAddr, password string) (*Session, error) {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "please provide email and password!")
	}

	user, err := s.repo.FindActiveByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, incorrectCredentials()
		}
		return nil, db.Translate(err, "user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, incorrectCredentials()
	}

	return s.newSession(user)
}

func (s *service) ForgotPassword(ctx context.Context, emailAddr, resetURLBase string) error {
	emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
	if emailAddr == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "please provide your email")
	}

	user, err := s.repo.FindActiveByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "there is no user with that email address.")
		}
		return db.Translate(err, "user")
	}

	plain, digest, err := security.NewResetToken()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate reset token")
	}

	expires := s.now().Add(s.pwCfg.ResetTokenTTL())
	user.PasswordResetToken = &digest
	user.PasswordResetExpires = &expires
	if err := s.repo.Save(ctx, user); err != nil {
		return db.Translate(err, "user")
	}

	resetURL := strings.TrimRight(resetURLBase, "/") + "/" + plain
	if s.mailer == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "there was an error sending the email. try again later!")
	}
	if err := s.mailer.SendPasswordResetEmail(ctx, user.Email, user.Name, resetURL); err != nil {
		// a token the user never received must not stay live
		if clearErr := s.repo.ClearResetToken(ctx, user.ID); clearErr != nil && s.logg != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", clearErr.Error()), "auth.reset_token_clear_failed")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "there was an error sending the email. try again later!")
	}

	return nil
}

func (s *service) ResetPassword(ctx context.Context, plainToken, password, passwordConfirm string) (*Session, error) {
	if strings.TrimSpace(plainToken) == "" {
		return nil, invalidResetToken()
	}
	if err := validatePasswordPair(password, passwordConfirm); err != nil {
		return nil, err
	}

	digest := security.HashResetToken(plainToken)
	user, err := s.repo.FindByValidResetTokenHash(ctx, digest, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidResetToken()
		}
		return nil, db.Translate(err, "user")
	}

	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	changedAt := s.now()
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = nil
	user.PasswordResetExpires = nil
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, db.Translate(err, "user")
	}

	return s.newSession(user)
}

func (s *service) UpdatePassword(ctx context.Context, userID uuid.UUID, current, password, passwordConfirm string) (*Session, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := validatePasswordPair(password, passwordConfirm); err != nil {
		return nil, err
	}

	user, err := s.repo.FindActiveByID(ctx, userID)
	if err != nil {
		return nil, db.Translate(err, "user")
	}

	ok, err := security.VerifyPassword(current, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "your current password is wrong.")
	}
	if password == current {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "new password must differ from the current password")
	}

	hash, err := security.HashPassword(password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	changedAt := s.now()
	user.PasswordHash = hash
	user.PasswordChangedAt = &changedAt
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, db.Translate(err, "user")
	}

	return s.newSession(user)
}

func (s *service) newSession(user *models.User) (*Session, error) {
	token, err := pkgauth.MintAccessToken(s.jwtCfg, s.now(), user.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}
	return &Session{User: user, Token: token}, nil
}

func validatePasswordPair(password, confirm string) error {
	if len(password) < minPasswordLength {
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}
	if password != confirm {
		return pkgerrors.New(pkgerrors.CodeValidation, "passwords are not the same!")
	}
	return nil
}

func incorrectCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "incorrect email or password")
}

func invalidResetToken() error {
	return pkgerrors.New(pkgerrors.CodeValidation, "token is invalid or has expired")
}
