package repositories

import (
	"context"
	"rmatrack/internal/database"
	"rmatrack/internal/logger"
	"time"
)

const sessionKeyPrefix = "session:"

// TesterSession is what a bearer token resolves to.
type TesterSession struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type SessionRepository interface {
	Save(ctx context.Context, token string, session TesterSession, ttl time.Duration) error
	Get(ctx context.Context, token string) (*TesterSession, error)
	Delete(ctx context.Context, token string) error
}

type sessionRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

func NewSession(db database.DB) SessionRepository {
	return &sessionRepository{
		cache: db.Cache.Session,
		log:   logger.New("sessionRepository"),
	}
}

func (r *sessionRepository) Save(
	ctx context.Context,
	token string,
	session TesterSession,
	ttl time.Duration,
) error {
	err := database.NewCacheBuilder(r.cache, sessionKeyPrefix+token).
		WithStruct(session).
		WithTTL(ttl).
		WithContext(ctx).
		Set()
	if err != nil {
		return r.log.Function("Save").Err("failed to save session", err, "email", session.Email)
	}
	return nil
}

// Get returns nil without error for unknown or expired tokens.
func (r *sessionRepository) Get(ctx context.Context, token string) (*TesterSession, error) {
	var session TesterSession
	found, err := database.NewCacheBuilder(r.cache, sessionKeyPrefix+token).
		WithContext(ctx).
		Get(&session)
	if err != nil {
		return nil, r.log.Function("Get").Err("failed to read session", err)
	}
	if !found {
		return nil, nil
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, token string) error {
	err := database.NewCacheBuilder(r.cache, sessionKeyPrefix+token).
		WithContext(ctx).
		Delete()
	if err != nil {
		return r.log.Function("Delete").Err("failed to delete session", err)
	}
	return nil
}
