package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/scrybe/scrybe-backend/internal/domain"
	googleinfra "github.com/scrybe/scrybe-backend/internal/infrastructure/google"
	"github.com/scrybe/scrybe-backend/internal/pkg/random"
	"golang.org/x/crypto/bcrypt"
)

const otpTTL = 10 * time.Minute

type Service interface {
	// Signup persists an unverified user and dispatches the OTP email without
	// blocking on delivery.
	Signup(ctx context.Context, req domain.SignupRequest) error
	VerifyOTP(ctx context.Context, req domain.OTPVerifyRequest) error
	Login(ctx context.Context, username, password string) (*domain.TokenResponse, error)
	LoginWithGoogle(ctx context.Context, idToken string) (*domain.TokenResponse, error)
}

type userStore interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	MarkVerified(ctx context.Context, userID int64) error
}

type mailer interface {
	SendEmail(to, subject, body string) error
}

type googleVerifier interface {
	Verify(ctx context.Context, token string) (*googleinfra.Payload, error)
}

type jwtSigner interface {
	Sign(username string) (string, error)
}

type service struct {
	users  userStore
	mailer mailer
	google googleVerifier
	jwt    jwtSigner
}

type ServiceDeps struct {
	UserRepo       userStore
	Mailer         mailer
	GoogleVerifier googleVerifier
	JWTProvider    jwtSigner
}

func NewService(deps ServiceDeps) Service {
	return &service{
		users:  deps.UserRepo,
		mailer: deps.Mailer,
		google: deps.GoogleVerifier,
		jwt:    deps.JWTProvider,
	}
}

func (s *service) Signup(ctx context.Context, req domain.SignupRequest) error {
	if _, err := s.users.GetByUsername(ctx, req.Username); err == nil {
		return fmt.Errorf("username already registered: %w", domain.ErrConflict)
	}
	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return fmt.Errorf("email already registered: %w", domain.ErrConflict)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	otp, err := random.OTP()
	if err != nil {
		return err
	}
	expires := time.Now().UTC().Add(otpTTL)

	u := &domain.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		OTP:          &otp,
		OTPExpiresAt: &expires,
		AuthProvider: domain.AuthProviderLocal,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return err
	}

	// Fire-and-forget: the signup response must not wait on SMTP.
	go func(email, code string) {
		body := fmt.Sprintf("Your OTP code is %s. It is valid for 10 minutes.", code)
		if err := s.mailer.SendEmail(email, "Your Scrybe OTP Code", body); err != nil {
			slog.Warn("failed to send OTP email", "email", email, "err", err)
		}
	}(req.Email, otp)

	return nil
}

func (s *service) VerifyOTP(ctx context.Context, req domain.OTPVerifyRequest) error {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return fmt.Errorf("user not found: %w", domain.ErrNotFound)
	}
	if u.OTP == nil || u.OTPExpiresAt == nil {
		return fmt.Errorf("no pending verification: %w", domain.ErrBadRequest)
	}
	if *u.OTP != req.OTP || u.OTPExpiresAt.Before(time.Now().UTC()) {
		return fmt.Errorf("invalid or expired OTP: %w", domain.ErrBadRequest)
	}
	return s.users.MarkVerified(ctx, u.ID)
}

func (s *service) Login(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("incorrect username or password: %w", domain.ErrUnauthorized)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, fmt.Errorf("incorrect username or password: %w", domain.ErrUnauthorized)
	}
	if !u.IsVerified {
		return nil, fmt.Errorf("email not verified: %w", domain.ErrBadRequest)
	}
	return s.issueToken(u.Username)
}

func (s *service) LoginWithGoogle(ctx context.Context, idToken string) (*domain.TokenResponse, error) {
	payload, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, payload.Email)
	if err != nil {
		// First Google sign-in: provision a pre-verified account with an
		// unusable random password hash.
		pw, err := random.Password()
		if err != nil {
			return nil, err
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		u = &domain.User{
			Username:     payload.Name,
			Email:        payload.Email,
			PasswordHash: string(hash),
			IsVerified:   true,
			AuthProvider: domain.AuthProviderGoogle,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, err
		}
	}
	return s.issueToken(u.Username)
}

func (s *service) issueToken(username string) (*domain.TokenResponse, error) {
	token, err := s.jwt.Sign(username)
	if err != nil {
		return nil, err
	}
	return &domain.TokenResponse{AccessToken: token, TokenType: "bearer"}, nil
}
