package application

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-auth-service/internal/domain/entity"
	repo "github.com/oksasatya/go-auth-service/internal/domain/repository"
	"github.com/oksasatya/go-auth-service/pkg/helpers"
	"github.com/oksasatya/go-auth-service/pkg/metrics"
)

// Audit actions.
const (
	ActionRegister         = "register_success"
	ActionRegisterRejected = "register_rejected"
	ActionLogin            = "login_success"
	ActionLoginRejected    = "login_rejected"
)

// Internal rejection reasons, recorded for audit only.
const (
	reasonEmailTaken   = "email_taken"
	reasonUnknownEmail = "unknown_email"
	reasonInactive     = "inactive_account"
	reasonBadPassword  = "wrong_password"
	reasonUserVanished = "user_vanished"
)

// dummyPassword is hashed once so that logins for unknown emails spend the
// same bcrypt time as logins for known ones.
const dummyPassword = "dummy-password-for-timing"

// AuthService orchestrates registration, login and profile lookup.
type AuthService struct {
	Repo     repo.UserRepository
	Hasher   PasswordHasher
	Tokens   TokenIssuer
	Notifier Notifier  // optional
	Audit    AuditSink // optional
	Logger   *logrus.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(r repo.UserRepository, hasher PasswordHasher, tokens TokenIssuer, notifier Notifier, audit AuditSink, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Repo:     r,
		Hasher:   hasher,
		Tokens:   tokens,
		Notifier: notifier,
		Audit:    audit,
		Logger:   logger,
	}
}

type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Register creates an account and returns its first session. A taken email,
// whether seen by the pre-check or by the storage unique constraint, yields
// ErrEmailTaken.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthSession, error) {
	email := entity.NormalizeEmail(in.Email)

	exists, err := s.Repo.EmailExists(ctx, email)
	if err != nil {
		return nil, s.registerFailed(email, fmt.Errorf("check email: %w", err))
	}
	if exists {
		s.registerRejected(ctx, email, reasonEmailTaken)
		return nil, ErrEmailTaken
	}

	hash, err := s.Hasher.Hash(in.Password)
	if errors.Is(err, helpers.ErrPasswordTooLong) {
		metrics.RecordRegister(metrics.OutcomeRejected)
		return nil, err
	}
	if err != nil {
		return nil, s.registerFailed(email, fmt.Errorf("hash password: %w", err))
	}

	u, err := entity.NewUser(email, in.FirstName, in.LastName, hash, entity.DefaultRole)
	if err != nil {
		metrics.RecordRegister(metrics.OutcomeRejected)
		return nil, err
	}

	saved, err := s.Repo.Add(ctx, u)
	if errors.Is(err, repo.ErrDuplicateEmail) {
		s.registerRejected(ctx, email, reasonEmailTaken)
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, s.registerFailed(email, fmt.Errorf("add user: %w", err))
	}

	session, err := s.issueSession(saved)
	if err != nil {
		return nil, s.registerFailed(email, err)
	}

	metrics.RecordRegister(metrics.OutcomeSuccess)
	s.audit(ctx, AuditEvent{Action: ActionRegister, UserID: saved.ID(), Email: saved.Email()})
	if s.Notifier != nil {
		s.Notifier.Welcome(ctx, saved)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": saved.ID(), "email": saved.Email()}).Info("user registered")
	}
	return session, nil
}

// Login verifies credentials. Unknown email, inactive account and wrong
// password all yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthSession, error) {
	email = entity.NormalizeEmail(email)

	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, s.loginFailed(email, fmt.Errorf("get user by email: %w", err))
	}
	if u == nil {
		s.Hasher.Verify(password, s.timingHash())
		return nil, s.loginRejected(ctx, email, "", reasonUnknownEmail)
	}
	if !u.IsActive() {
		s.Hasher.Verify(password, s.timingHash())
		return nil, s.loginRejected(ctx, email, u.ID(), reasonInactive)
	}
	if !s.Hasher.Verify(password, u.PasswordHash()) {
		return nil, s.loginRejected(ctx, email, u.ID(), reasonBadPassword)
	}

	u.RecordLogin()
	saved, err := s.Repo.Update(ctx, u)
	if err != nil {
		return nil, s.loginFailed(email, fmt.Errorf("record login: %w", err))
	}
	if saved == nil {
		return nil, s.loginRejected(ctx, email, u.ID(), reasonUserVanished)
	}

	session, err := s.issueSession(saved)
	if err != nil {
		return nil, s.loginFailed(email, err)
	}

	metrics.RecordLogin(metrics.OutcomeSuccess)
	s.audit(ctx, AuditEvent{Action: ActionLogin, UserID: saved.ID(), Email: saved.Email()})
	if s.Notifier != nil {
		s.Notifier.LoginAlert(ctx, saved)
	}
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"user_id": saved.ID(), "email": saved.Email()}).Info("user logged in")
	}
	return session, nil
}

// GetProfile resolves an access token to the sanitized view of its user.
func (s *AuthService) GetProfile(ctx context.Context, accessToken string) (*UserView, error) {
	uid, ok := s.Tokens.ParseSubject(accessToken)
	if !ok {
		return nil, ErrInvalidToken
	}
	u, err := s.Repo.GetByID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	v := NewUserView(u)
	return &v, nil
}

// CheckEmailAvailable reports whether no account uses the normalized email.
func (s *AuthService) CheckEmailAvailable(ctx context.Context, email string) (bool, error) {
	exists, err := s.Repo.EmailExists(ctx, entity.NormalizeEmail(email))
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return !exists, nil
}

func (s *AuthService) issueSession(u *entity.User) (*AuthSession, error) {
	access, exp, err := s.Tokens.IssueAccessToken(helpers.Identity{
		UserID:    u.ID(),
		Email:     u.Email(),
		FirstName: u.FirstName(),
		LastName:  u.LastName(),
		FullName:  u.FullName(),
		Role:      u.Role().String(),
	})
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.Tokens.IssueRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	return NewAuthSession(u, access, refresh, exp), nil
}

func (s *AuthService) timingHash() string {
	s.dummyOnce.Do(func() {
		h, err := s.Hasher.Hash(dummyPassword)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

func (s *AuthService) registerRejected(ctx context.Context, email, reason string) {
	metrics.RecordRegister(metrics.OutcomeRejected)
	s.audit(ctx, AuditEvent{Action: ActionRegisterRejected, Email: email, Reason: reason})
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"email": email, "reason": reason}).Info("registration rejected")
	}
}

func (s *AuthService) registerFailed(email string, err error) error {
	metrics.RecordRegister(metrics.OutcomeError)
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("email", email).Error("registration failed")
	}
	return err
}

func (s *AuthService) loginRejected(ctx context.Context, email, userID, reason string) error {
	metrics.RecordLogin(metrics.OutcomeRejected)
	s.audit(ctx, AuditEvent{Action: ActionLoginRejected, UserID: userID, Email: email, Reason: reason})
	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"email": email, "reason": reason}).Info("login rejected")
	}
	return ErrInvalidCredentials
}

func (s *AuthService) loginFailed(email string, err error) error {
	metrics.RecordLogin(metrics.OutcomeError)
	if s.Logger != nil {
		s.Logger.WithError(err).WithField("email", email).Error("login failed")
	}
	return err
}

func (s *AuthService) audit(ctx context.Context, ev AuditEvent) {
	if s.Audit == nil {
		return
	}
	ci := clientInfoFrom(ctx)
	ev.IP, ev.UserAgent = ci.IP, ci.UserAgent
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}
	if err := s.Audit.Record(ctx, ev); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("action", ev.Action).Warn("audit record failed")
	}
}
