package application

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-auth-service/internal/domain/entity"
)

func TestNewAuthSession_SanitizesUser(t *testing.T) {
	u, err := entity.NewUser("Ada@X.com", "Ada", "Lovelace", "$2a$04$secret-hash", entity.RoleAdmin)
	require.NoError(t, err)

	exp := time.Date(2026, 5, 1, 12, 0, 0, 0, time.FixedZone("WIB", 7*3600))
	s := NewAuthSession(u, "access", "refresh", exp)

	assert.Equal(t, time.UTC, s.ExpiresAt.Location())
	assert.True(t, s.ExpiresAt.Equal(exp))
	assert.Equal(t, "Admin", s.User.Role)
	assert.Equal(t, "Ada Lovelace", s.User.FullName)

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret-hash")
	assert.NotContains(t, string(b), "password")
	assert.Contains(t, string(b), `"access_token":"access"`)
}
