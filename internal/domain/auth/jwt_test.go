package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appctx "ledgerpos/internal/core/context"
)

func TestJWT_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret"))
	user := appctx.UserContext{
		UserID:      "0192f6c4-7a00-7000-8000-000000000001",
		CompanyID:   "0192f6c4-7a00-7000-8000-0000000000aa",
		Email:       "caja@example.com",
		Permissions: []string{"cash:write"},
	}

	token, expiresAt, err := svc.GenerateAccessToken(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expiresAt, time.Minute)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.UserID, got.UserID)
	assert.Equal(t, user.CompanyID, got.CompanyID)
	assert.Equal(t, []string{"cash:write"}, got.Permissions)
}

func TestJWT_Rejects(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig("secret"))
	other := NewJWTService(DefaultJWTConfig("another"))
	expired := NewJWTService(JWTConfig{Secret: "secret", Issuer: "ledgerpos", AccessTokenTTL: -time.Minute})

	foreign, _, err := other.GenerateAccessToken(appctx.UserContext{UserID: "u", CompanyID: "c"})
	require.NoError(t, err)
	old, _, err := expired.GenerateAccessToken(appctx.UserContext{UserID: "u", CompanyID: "c"})
	require.NoError(t, err)
	noCompany, _, err := svc.GenerateAccessToken(appctx.UserContext{UserID: "u"})
	require.NoError(t, err)

	for name, token := range map[string]string{
		"bad signature": foreign,
		"expired":       old,
		"no company":    noCompany,
		"garbage":       "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}
