package application

import (
	"context"
	"time"

	"github.com/oksasatya/go-auth-service/pkg/helpers"
)

// PasswordHasher hashes and verifies passwords. Verify must report a
// malformed hash as a mismatch.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// TokenIssuer signs access tokens, mints opaque refresh tokens and resolves
// access tokens back to a user id.
type TokenIssuer interface {
	IssueAccessToken(id helpers.Identity) (token string, expiresAt time.Time, err error)
	IssueRefreshToken() (string, error)
	ParseSubject(token string) (userID string, ok bool)
}

// JobPublisher enqueues background jobs such as emails.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AuditEvent records the outcome of an authentication attempt. Reason is
// internal only and never returned to callers.
type AuditEvent struct {
	Action     string    `json:"action"`
	UserID     string    `json:"user_id,omitempty"`
	Email      string    `json:"email,omitempty"`
	Reason     string    `json:"reason,omitempty"`
	IP         string    `json:"ip,omitempty"`
	UserAgent  string    `json:"user_agent,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditSink stores audit events.
type AuditSink interface {
	Record(ctx context.Context, ev AuditEvent) error
}

// ClientInfo describes the caller of a flow.
type ClientInfo struct {
	IP        string
	UserAgent string
}

type clientInfoKey struct{}

// WithClientInfo attaches caller details to ctx for audit and notifications.
func WithClientInfo(ctx context.Context, ci ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, ci)
}

func clientInfoFrom(ctx context.Context) ClientInfo {
	ci, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return ci
}
