package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vezba/fitness-backend/internal/models"
	"github.com/vezba/fitness-backend/internal/notify"
	"github.com/vezba/fitness-backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const (
	challengeTTL         = 10 * time.Minute
	challengeMaxAttempts = 3
	tokenTTL             = 24 * time.Hour
)

// TokenClaims is the JWT payload; the auth middleware parses it back.
type TokenClaims struct {
	UserID uint        `json:"user_id"`
	Role   models.Role `json:"role"`
	jwt.RegisteredClaims
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (uuid.UUID, error)
	VerifyLogin(ctx context.Context, challengeID uuid.UUID, code string) (string, *models.User, error)
	RequestPasswordReset(ctx context.Context, email string) (uuid.UUID, error)
	ResetPassword(ctx context.Context, challengeID uuid.UUID, code, newPassword string) error
	SelectTrainer(ctx context.Context, userID, trainerID uint) error
}

type authService struct {
	userRepo      repository.UserRepository
	challengeRepo repository.ChallengeRepository
	notifier      notify.Notifier
	auditor       *Auditor
	jwtSecret     []byte
}

func NewAuthService(
	userRepo repository.UserRepository,
	challengeRepo repository.ChallengeRepository,
	notifier notify.Notifier,
	auditor *Auditor,
	jwtSecret []byte,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
		notifier:      notifier,
		auditor:       auditor,
		jwtSecret:     jwtSecret,
	}
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         models.RoleClient,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.auditor.Record(ctx, "auth", "register", user.ID, user.FullName(), user.Email)
	return user, nil
}

// Login checks credentials and opens an OTP challenge; the code travels by
// email, never in the response.
func (s *authService) Login(ctx context.Context, email, password string) (uuid.UUID, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return uuid.Nil, ErrInvalidCredentials
	}
	if user.Blocked {
		return uuid.Nil, ErrUserBlocked
	}

	return s.openChallenge(ctx, user, models.PurposeLogin)
}

func (s *authService) VerifyLogin(ctx context.Context, challengeID uuid.UUID, code string) (string, *models.User, error) {
	challenge, err := s.checkChallenge(ctx, challengeID, models.PurposeLogin, code)
	if err != nil {
		return "", nil, err
	}

	user, err := s.userRepo.FindByID(ctx, challenge.UserID)
	if err != nil {
		return "", nil, ErrUserNotFound
	}
	if user.Blocked {
		return "", nil, ErrUserBlocked
	}

	token, err := s.issueToken(user)
	if err != nil {
		return "", nil, err
	}

	s.auditor.Record(ctx, "auth", "login", user.ID, user.FullName(), "")
	return token, user, nil
}

func (s *authService) RequestPasswordReset(ctx context.Context, email string) (uuid.UUID, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		// Do not reveal whether the address exists.
		return uuid.Nil, nil
	}
	return s.openChallenge(ctx, user, models.PurposePasswordReset)
}

func (s *authService) ResetPassword(ctx context.Context, challengeID uuid.UUID, code, newPassword string) error {
	challenge, err := s.checkChallenge(ctx, challengeID, models.PurposePasswordReset, code)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, challenge.UserID, string(hash)); err != nil {
		return err
	}

	s.auditor.Record(ctx, "auth", "password_reset", challenge.UserID, "", "")
	return nil
}

func (s *authService) SelectTrainer(ctx context.Context, userID, trainerID uint) error {
	trainer, err := s.userRepo.FindByID(ctx, trainerID)
	if err != nil {
		return ErrUserNotFound
	}
	if trainer.Role != models.RoleTrainer {
		return ErrNotAllowed
	}
	if err := s.userRepo.SetAssignedTrainer(ctx, userID, trainerID); err != nil {
		return err
	}

	s.auditor.Record(ctx, "auth", "select_trainer", userID, "", fmt.Sprintf("trainer %d", trainerID))
	return nil
}

func (s *authService) openChallenge(ctx context.Context, user *models.User, purpose models.ChallengePurpose) (uuid.UUID, error) {
	code, err := generateCode()
	if err != nil {
		return uuid.Nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, err
	}

	challenge := &models.AuthChallenge{
		ID:        uuid.New(),
		UserID:    user.ID,
		Purpose:   purpose,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(challengeTTL),
	}
	if err := s.challengeRepo.Create(ctx, challenge); err != nil {
		return uuid.Nil, err
	}

	if err := s.notifier.OTPCode(user.Email, code); err != nil {
		log.Printf("[Auth] OTP email to %s failed: %v", user.Email, err)
	}

	return challenge.ID, nil
}

// checkChallenge enforces the single-use, expiry and attempt-cap rules and
// consumes the challenge on success.
func (s *authService) checkChallenge(ctx context.Context, id uuid.UUID, purpose models.ChallengePurpose, code string) (*models.AuthChallenge, error) {
	challenge, err := s.challengeRepo.FindByID(ctx, id)
	if err != nil || challenge.Purpose != purpose {
		return nil, ErrChallengeNotFound
	}
	if challenge.ConsumedAt != nil {
		return nil, ErrChallengeConsumed
	}
	if time.Now().After(challenge.ExpiresAt) {
		return nil, ErrChallengeExpired
	}
	if challenge.Attempts >= challengeMaxAttempts {
		return nil, ErrChallengeLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(code)); err != nil {
		if ierr := s.challengeRepo.IncrementAttempts(ctx, id); ierr != nil {
			log.Printf("[Auth] attempt counter update failed: %v", ierr)
		}
		return nil, ErrBadCode
	}

	if err := s.challengeRepo.Consume(ctx, id, time.Now()); err != nil {
		return nil, ErrChallengeConsumed
	}
	return challenge, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID: user.ID,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
