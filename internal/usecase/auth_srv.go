package usecase

import (
	"context"
	"fmt"
	"time"

	"identity-service/internal/apperr"
	"identity-service/internal/data/repository"
	"identity-service/internal/dto/request"
	"identity-service/internal/dto/response"
	"identity-service/internal/events"
	"identity-service/pkg/token"
	"identity-service/pkg/utils"

	"go.uber.org/zap"
)

type AuthService interface {
	Register(ctx context.Context, req *request.RegisterRequest) error
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	VerifyEmail(ctx context.Context, verificationToken string) error
}

type authService struct {
	repo      *repository.Repository
	publisher events.Publisher
	config    *utils.Config
	log       *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	publisher events.Publisher,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:      repo,
		publisher: publisher,
		config:    config,
		log:       log,
	}
}

// Register runs the registration workflow: duplicate pre-check, password
// hashing, verification-token issue, persist, then enqueue the
// verification email. A failed enqueue fails the registration but leaves
// the persisted user in place; the email simply never arrives.
func (s *authService) Register(ctx context.Context, req *request.RegisterRequest) error {
	// 1. Pre-check by email. The unique constraint remains the source of
	// truth for the check-then-act race; Create maps its violation to the
	// same AlreadyExists kind.
	existing, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", req.Email))
		return err
	}
	if existing != nil {
		return apperr.New(apperr.AlreadyExists, "user already exists")
	}

	// 2. Hash the password. The raw password is never stored or logged.
	passwordHash, err := utils.HashPassword(req.Password, s.config.Password.BcryptCost)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return apperr.Wrap(apperr.PersistenceFailure, "failed to process password", err)
	}

	// 3. Single-use verification token, 256 bits of entropy.
	verificationToken, err := token.GenerateVerificationToken(32)
	if err != nil {
		s.log.Error("Failed to generate verification token", zap.Error(err))
		return apperr.Wrap(apperr.PersistenceFailure, "failed to register user", err)
	}

	// 4. Persist the unverified user with the token and 1-hour expiry.
	user, err := s.repo.User.Create(ctx, req, passwordHash, verificationToken)
	if err != nil {
		return err
	}

	// 5. Enqueue the verification email.
	if err := s.sendVerificationEmail(ctx, user.Email, user.FullName(), verificationToken); err != nil {
		s.log.Error("Failed to enqueue verification email",
			zap.Error(err),
			zap.Int64("user_id", user.ID),
			zap.String("email", user.Email),
		)
		return apperr.Wrap(apperr.DispatchFailure, "failed to send verification email", err)
	}

	s.log.Info("User registered",
		zap.Int64("user_id", user.ID),
		zap.String("email", user.Email),
	)
	return nil
}

// Login validates credentials and issues a session token. Unknown email,
// wrong password, and unverified email all collapse into one
// InvalidCredentials error so the response leaks nothing about which
// check failed.
func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user for login", zap.Error(err))
		return nil, err
	}

	if user == nil ||
		!utils.CheckPasswordHash(req.Password, user.PasswordHash) ||
		!user.IsEmailVerified {
		return nil, apperr.New(apperr.InvalidCredentials, "invalid credentials")
	}

	validity := time.Duration(s.config.JWT.ExpiryHours) * time.Hour
	accessToken, err := token.GenerateSessionToken(user.ID, user.Email, []byte(s.config.JWT.Secret), validity)
	if err != nil {
		s.log.Error("Failed to issue session token", zap.Error(err), zap.Int64("user_id", user.ID))
		return nil, apperr.Wrap(apperr.PersistenceFailure, "failed to issue token", err)
	}

	s.log.Info("User logged in", zap.Int64("user_id", user.ID))

	return &response.LoginResponse{
		Message:     "Login successful",
		AccessToken: accessToken,
		TokenType:   "bearer",
	}, nil
}

// VerifyEmail consumes a verification token. NotFound and Expired are
// deliberately collapsed into one externally visible failure; the precise
// kind is logged server-side only.
func (s *authService) VerifyEmail(ctx context.Context, verificationToken string) error {
	err := s.repo.User.VerifyEmail(ctx, verificationToken)
	if err == nil {
		return nil
	}

	if kind, ok := apperr.KindOf(err); ok && (kind == apperr.NotFound || kind == apperr.Expired) {
		s.log.Warn("Email verification failed", zap.String("kind", apperr.TypeName(kind)))
		return apperr.New(apperr.ValidationFailure, "invalid or expired token")
	}

	s.log.Error("Failed to verify email", zap.Error(err))
	return err
}

func (s *authService) sendVerificationEmail(ctx context.Context, email, fullName, verificationToken string) error {
	link := fmt.Sprintf("%s/v1/auth/verify-email?token=%s", s.config.Frontend.BaseURL, verificationToken)

	return s.publisher.PublishEmail(ctx, events.EmailMessage{
		ToEmail:  email,
		FullName: fullName,
		Subject:  "Verify your account",
		Body:     fmt.Sprintf("Click the link to verify: %s", link),
	})
}
