package auth

import (
	"testing"

	"guardpost/config"
	"guardpost/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := NewBcryptHasher(&config.Config{})

	hash, err := hasher.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, hasher.Check("correct horse battery staple", hash))
	assert.False(t, hasher.Check("wrong password", hash))
	assert.False(t, hasher.Check("correct horse battery staple", "not-a-hash"))
}

func TestJWTService_RoundTrip(t *testing.T) {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	accountID := uuid.New()
	token, err := svc.GenerateToken(accountID, entity.RoleSupervisor)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, accountID, claims.AccountID)
	assert.Equal(t, entity.RoleSupervisor, claims.Role)
}

func TestJWTService_RejectsForeignSecret(t *testing.T) {
	cfgA := &config.Config{}
	cfgA.SecretKey.Access = "secret-a"
	cfgB := &config.Config{}
	cfgB.SecretKey.Access = "secret-b"

	svcA, err := NewJWTService(cfgA)
	require.NoError(t, err)
	svcB, err := NewJWTService(cfgB)
	require.NoError(t, err)

	token, err := svcA.GenerateToken(uuid.New(), entity.RoleGuard)
	require.NoError(t, err)

	_, err = svcB.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_RequiresSecret(t *testing.T) {
	_, err := NewJWTService(&config.Config{})
	assert.Error(t, err)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret"

	svc, err := NewJWTService(cfg)
	require.NoError(t, err)

	_, err = svc.ValidateToken("not.a.token")
	assert.Error(t, err)
}
