package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/Dosada05/worldcup/models"
)

const (
	jwtClaimSessionID  = "sid"
	jwtClaimWorldcupID = "wid"
)

// SessionService issues guest session tokens. The token is opaque to the
// player; the collector uses it to count each finished play only once.
type SessionService interface {
	Issue(worldcupID string) (*models.Session, error)
	Verify(token, worldcupID string) (sessionID string, err error)
}

type sessionService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionService(secret string, ttl time.Duration) SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &sessionService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *sessionService) Issue(worldcupID string) (*models.Session, error) {
	now := s.now()
	sess := &models.Session{
		SessionID:  uuid.NewString(),
		WorldcupID: worldcupID,
		ExpiresAt:  now.Add(s.ttl).UTC(),
	}

	claims := jwt.MapClaims{
		jwtClaimSessionID:  sess.SessionID,
		jwtClaimWorldcupID: worldcupID,
		"exp":              sess.ExpiresAt.Unix(),
		"iat":              now.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign session token: %w", err)
	}
	sess.Token = token
	return sess, nil
}

func (s *sessionService) Verify(token, worldcupID string) (string, error) {
	if token == "" {
		return "", ErrInvalidSessionToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrInvalidSessionToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidSessionToken
	}
	sessionID, _ := claims[jwtClaimSessionID].(string)
	tokenWorldcup, _ := claims[jwtClaimWorldcupID].(string)
	if sessionID == "" {
		return "", ErrInvalidSessionToken
	}
	if tokenWorldcup != worldcupID {
		return "", ErrSessionMismatch
	}
	return sessionID, nil
}
