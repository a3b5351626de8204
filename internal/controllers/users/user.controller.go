package userController

import (
	"context"
	"errors"
	"rmatrack/config"
	"rmatrack/internal/logger"
	. "rmatrack/internal/models"
	"rmatrack/internal/repositories"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrUnauthorized = errors.New("unauthorized")

type UserController struct {
	sessionRepo  repositories.SessionRepository
	emailDomain  string
	passwordHash []byte
	sessionTTL   time.Duration
	now          func() time.Time
	log          logger.Logger
}

// New reads the tester password hash from config, hashing the plain
// password when only that is set.
func New(sessionRepo repositories.SessionRepository, config config.Config) (*UserController, error) {
	log := logger.New("UserController").Function("New")

	hash := []byte(config.TesterPasswordHash)
	if len(hash) == 0 && config.TesterPassword != "" {
		generated, err := bcrypt.GenerateFromPassword([]byte(config.TesterPassword), bcrypt.DefaultCost)
		if err != nil {
			return nil, log.Err("failed to hash tester password", err)
		}
		hash = generated
	}

	if len(hash) == 0 {
		log.Warn("No tester password configured, tester login is disabled")
	}

	return &UserController{
		sessionRepo:  sessionRepo,
		emailDomain:  strings.ToLower(config.TesterEmailDomain),
		passwordHash: hash,
		sessionTTL:   config.SessionTTL(),
		now:          time.Now,
		log:          logger.New("UserController"),
	}, nil
}

// Login checks the tester credentials and returns a new session token.
func (uc *UserController) Login(ctx context.Context, req LoginRequest) (string, error) {
	log := uc.log.Function("Login")

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || !strings.HasSuffix(email, uc.emailDomain) {
		log.Info("Rejected login from outside domain", "email", email)
		return "", ErrUnauthorized
	}

	if len(uc.passwordHash) == 0 ||
		bcrypt.CompareHashAndPassword(uc.passwordHash, []byte(req.Password)) != nil {
		log.Info("Rejected login with bad password", "email", email)
		return "", ErrUnauthorized
	}

	token, err := newToken()
	if err != nil {
		return "", log.Err("failed to generate session token", err)
	}

	session := repositories.TesterSession{Email: email, CreatedAt: uc.now()}
	if err := uc.sessionRepo.Save(ctx, token, session, uc.sessionTTL); err != nil {
		return "", log.Err("failed to save session", err, "email", email)
	}

	return token, nil
}

func (uc *UserController) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := uc.sessionRepo.Delete(ctx, token); err != nil {
		return uc.log.Function("Logout").Err("failed to delete session", err)
	}
	return nil
}

// Validate resolves a bearer token. Unknown and expired tokens yield
// ErrUnauthorized.
func (uc *UserController) Validate(ctx context.Context, token string) (repositories.TesterSession, error) {
	if token == "" {
		return repositories.TesterSession{}, ErrUnauthorized
	}

	session, err := uc.sessionRepo.Get(ctx, token)
	if err != nil {
		return repositories.TesterSession{}, uc.log.Function("Validate").Err("failed to read session", err)
	}
	if session == nil {
		return repositories.TesterSession{}, ErrUnauthorized
	}

	return *session, nil
}

// Tokens are random (v4) rather than time-ordered so they cannot be guessed
// from the login time.
func newToken() (string, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return token.String(), nil
}
