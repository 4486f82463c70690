// Package session issues and resolves login sessions. A session is a JWT
// carrying an opaque session id; the role and identity behind that id live
// in the key-value store under "session:<id>" for the token's lifetime.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"smartalert/backend/internal/models"
	"smartalert/backend/internal/storage"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CookieName is the cookie a browser client keeps its token in.
	CookieName = "smartalert_session"

	issuer     = "smartalert-service"
	authMarker = "1"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = errors.New("session: invalid email or password")

// UserFinder is the part of storage.Storage the manager needs.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type record struct {
	Auth   string      `json:"auth"`
	Role   models.Role `json:"role"`
	UserID string      `json:"user_id"`
	Name   string      `json:"name"`
}

// Manager owns the session lifecycle. Login and Logout are the only ways a
// session changes.
type Manager struct {
	kv     storage.KV
	users  UserFinder
	secret []byte
	ttl    time.Duration

	now func() time.Time
}

func NewManager(kv storage.KV, users UserFinder, secret string, ttl time.Duration) *Manager {
	return &Manager{
		kv:     kv,
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Login verifies the password and persists a fresh session.
func (m *Manager) Login(ctx context.Context, email, password string) (string, models.Session, error) {
	user, err := m.users.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if errors.Is(err, storage.ErrNotFound) {
		return "", models.GuestSession(), ErrInvalidCredentials
	}
	if err != nil {
		return "", models.GuestSession(), err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", models.GuestSession(), ErrInvalidCredentials
	}

	sess := models.NewSession(uuid.NewString(), user.ID, user.Name, user.Role)
	if !sess.Authenticated {
		log.Printf("WARNING: User %s has role %q and cannot sign in", user.ID, user.Role)
		return "", models.GuestSession(), ErrInvalidCredentials
	}

	payload, err := json.Marshal(record{Auth: authMarker, Role: sess.Role, UserID: sess.UserID, Name: sess.DisplayName})
	if err != nil {
		return "", models.GuestSession(), err
	}
	if err := m.kv.Set(ctx, key(sess.ID), string(payload), m.ttl); err != nil {
		return "", models.GuestSession(), fmt.Errorf("persist session: %w", err)
	}

	token, err := m.sign(sess)
	if err != nil {
		_ = m.kv.Delete(ctx, key(sess.ID))
		return "", models.GuestSession(), err
	}
	return token, sess, nil
}

// Load resolves a token. Any failure yields the guest session.
func (m *Manager) Load(ctx context.Context, token string) models.Session {
	sid, err := m.parse(token)
	if err != nil {
		return models.GuestSession()
	}

	raw, err := m.kv.Get(ctx, key(sid))
	if err != nil {
		if !errors.Is(err, storage.ErrMiss) {
			log.Printf("ERROR: Failed to load session %s: %v", sid, err)
		}
		return models.GuestSession()
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.Auth != authMarker {
		return models.GuestSession()
	}
	return models.NewSession(sid, rec.UserID, rec.Name, models.ParseRole(string(rec.Role)))
}

// Logout removes the persisted session. Unknown or invalid tokens are ignored.
func (m *Manager) Logout(ctx context.Context, token string) error {
	sid, err := m.parse(token)
	if err != nil {
		return nil
	}
	return m.kv.Delete(ctx, key(sid))
}

// TTL is the lifetime of issued tokens.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) sign(sess models.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid": sess.ID,
		"sub": sess.UserID,
		"exp": m.now().Add(m.ttl).Unix(),
		"iss": issuer,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) parse(raw string) (string, error) {
	if raw == "" {
		return "", errors.New("empty token")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims")
	}
	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", errors.New("token has no session id")
	}
	return sid, nil
}

func key(sid string) string {
	return "session:" + sid
}

// HashPassword returns the bcrypt hash stored in models.User.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
