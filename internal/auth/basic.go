// Package auth checks HTTP basic credentials for the API routes.
package auth

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/smallbiznis/subscriptions/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredentials = errors.New("api credentials are not configured")
)

var Module = fx.Module("auth",
	fx.Provide(NewAuthenticator),
)

// Authenticator validates a username and password against the configured
// API credentials. A disabled Authenticator accepts every request.
type Authenticator struct {
	enabled      bool
	username     string
	password     string
	passwordHash string
}

func NewAuthenticator(cfg config.Config, log *zap.Logger) (*Authenticator, error) {
	authCfg := cfg.Auth
	if !authCfg.Enabled {
		log.Warn("api authentication disabled")
		return &Authenticator{}, nil
	}

	username := strings.TrimSpace(authCfg.Username)
	if username == "" || (authCfg.Password == "" && authCfg.PasswordHash == "") {
		return nil, ErrMissingCredentials
	}

	return &Authenticator{
		enabled:      true,
		username:     username,
		password:     authCfg.Password,
		passwordHash: strings.TrimSpace(authCfg.PasswordHash),
	}, nil
}

func (a *Authenticator) Enabled() bool {
	return a != nil && a.enabled
}

// Authenticate returns ErrInvalidCredentials unless both values match.
func (a *Authenticator) Authenticate(username, password string) error {
	if !a.Enabled() {
		return nil
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1

	var passOK bool
	if a.passwordHash != "" {
		passOK = VerifyPassword(password, a.passwordHash)
	} else {
		passOK = subtle.ConstantTimeCompare([]byte(password), []byte(a.password)) == 1
	}

	if !userOK || !passOK {
		return ErrInvalidCredentials
	}
	return nil
}
