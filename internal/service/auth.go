package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jask/alerta/internal/api"
	"github.com/jask/alerta/internal/prefs"
	"github.com/jask/alerta/internal/session"
)

// PasswordStore remembers passwords per email.
type PasswordStore interface {
	StorePassword(email, password string) error
	FetchPassword(email string) (string, error)
	DeletePassword(email string) error
}

// AuthService drives login and registration.
type AuthService struct {
	API     *api.Client
	Session *session.Store
	Log     *zap.Logger

	// PrefsDir enables remembering the last email when set.
	PrefsDir string
	// Secrets enables remembering passwords when RememberPassword is set.
	Secrets PasswordStore

	LegacyLogin          bool
	CheckPasswordConfirm bool
	RememberPassword     bool
}

// LoginResult tells the UI what to do after a login attempt that did not fail outright.
type LoginResult struct {
	// Proceed is true when the UI should navigate to the landing screen.
	Proceed bool
	// Notice is server text to show even though the UI proceeds.
	Notice string
	Text   string
}

// Login posts credentials. On 2xx the session user is set. With LegacyLogin a
// rejected login still sets the user and proceeds, carrying the server text as Notice.
func (s *AuthService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	text, err := s.API.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		se, ok := api.AsStatus(err)
		if !ok || !s.LegacyLogin {
			s.log().Info("login failed", zap.Error(err))
			return LoginResult{}, err
		}
		s.log().Warn("legacy login: proceeding after rejected login",
			zap.Int("status", se.StatusCode))
		s.Session.SetUser(session.UserFromEmail(email))
		return LoginResult{Proceed: true, Notice: se.Message}, nil
	}

	user := session.UserFromEmail(email)
	s.Session.SetUser(user)
	s.remember(user.Email, password)
	s.log().Info("logged in", zap.String("user", user.ID))
	return LoginResult{Proceed: true, Text: text}, nil
}

func (s *AuthService) remember(email, password string) {
	if s.PrefsDir != "" {
		if err := prefs.Save(s.PrefsDir, prefs.Prefs{LastEmail: email}); err != nil {
			s.log().Warn("save prefs", zap.Error(err))
		}
	}
	if s.Secrets == nil {
		return
	}
	var err error
	if s.RememberPassword {
		err = s.Secrets.StorePassword(email, password)
	} else {
		err = s.Secrets.DeletePassword(email)
	}
	if err != nil {
		s.log().Warn("update remembered password", zap.Error(err))
	}
}

// Remembered returns the last email and, when enabled, its stored password.
func (s *AuthService) Remembered() (email, password string) {
	if s.PrefsDir == "" {
		return "", ""
	}
	p, err := prefs.Load(s.PrefsDir)
	if err != nil {
		s.log().Warn("load prefs", zap.Error(err))
		return "", ""
	}
	email = p.LastEmail
	if email == "" || s.Secrets == nil || !s.RememberPassword {
		return email, ""
	}
	pw, err := s.Secrets.FetchPassword(email)
	if err != nil {
		return email, ""
	}
	return email, pw
}

// Register creates an account and returns the server text. confirm is only
// compared when CheckPasswordConfirm is set; it is never sent.
func (s *AuthService) Register(ctx context.Context, email, password, confirm string) (string, error) {
	if s.CheckPasswordConfirm && password != confirm {
		return "", ErrPasswordMismatch
	}
	text, err := s.API.Register(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		s.log().Info("register failed", zap.Error(err))
		return "", err
	}
	return text, nil
}

func (s *AuthService) log() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}
