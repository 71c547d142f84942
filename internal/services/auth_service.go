package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	authorizer "github.com/localnerve/authorizer-go"
	"github.com/localnerve/covematch/internal/config"
	"github.com/localnerve/covematch/internal/utils"
	"github.com/sirupsen/logrus"
)

// RoleAdmin is the Authorizer role that grants match editing rights
const RoleAdmin = "admin"

// ErrInvalidSession is returned when the session cookie does not validate
var ErrInvalidSession = errors.New("session is not valid")

// Session is the identity behind a validated session cookie
type Session struct {
	UserID string
	Email  string
	Roles  []string
}

// HasRole reports whether the session carries role
func (s *Session) HasRole(role string) bool {
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Caller resolves the session to a lifecycle caller
func (s *Session) Caller() Caller {
	return Caller{ID: s.UserID, IsAdmin: s.HasRole(RoleAdmin)}
}

// SessionValidator validates a session cookie against the required roles
type SessionValidator interface {
	ValidateSession(cookie string, roles []string) (*Session, error)
}

// AuthorizerSessions validates sessions with the Authorizer service
type AuthorizerSessions struct {
	client *authorizer.AuthorizerClient
}

// NewAuthorizerSessions pings the Authorizer service, then creates its client
func NewAuthorizerSessions(ctx context.Context, cfg *config.Config, redirectURL string) (*AuthorizerSessions, error) {
	if err := utils.PingAuthorizer(ctx, cfg.AuthzURL); err != nil {
		return nil, fmt.Errorf("authorizer ping failed: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"authorizer_url": cfg.AuthzURL,
		"client_id":      cfg.AuthzClientID,
		"redirect_url":   redirectURL,
	}).Info("Initializing Authorizer")

	client, err := authorizer.NewAuthorizerClient(cfg.AuthzClientID, cfg.AuthzURL, redirectURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create authorizer client: %w", err)
	}
	return &AuthorizerSessions{client: client}, nil
}

// ValidateSession validates a session cookie for the given roles
func (a *AuthorizerSessions) ValidateSession(cookie string, roles []string) (*Session, error) {
	// Convert roles to []*string
	rolesPtrs := make([]*string, len(roles))
	for i := range roles {
		rolesPtrs[i] = &roles[i]
	}

	res, err := a.client.ValidateSession(&authorizer.ValidateSessionInput{
		Cookie: cookie,
		Roles:  rolesPtrs,
	})
	if err != nil {
		return nil, fmt.Errorf("session validation failed: %w", err)
	}
	if res == nil || !res.IsValid || res.User == nil {
		return nil, ErrInvalidSession
	}

	return sessionFromUser(res.User)
}

// sessionFromUser reads the fields we need from the Authorizer user through
// its JSON form.
func sessionFromUser(user interface{}) (*Session, error) {
	raw, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("failed to read session user: %w", err)
	}

	var fields struct {
		ID    string    `json:"id"`
		Email *string   `json:"email"`
		Roles []*string `json:"roles"`
	}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to read session user: %w", err)
	}
	if fields.ID == "" {
		return nil, ErrInvalidSession
	}

	session := &Session{UserID: fields.ID}
	if fields.Email != nil {
		session.Email = *fields.Email
	}
	for _, role := range fields.Roles {
		if role != nil {
			session.Roles = append(session.Roles, *role)
		}
	}
	return session, nil
}
