package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tadreeshq/tadrees-backend/internal/apperr"
	"github.com/tadreeshq/tadrees-backend/internal/config"
	"github.com/tadreeshq/tadrees-backend/internal/dto"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		JWTAccessExpiry: time.Hour,
	}
}

func TestRegisterValidation(t *testing.T) {
	db, _ := newMockDB(t)
	svc := NewAuthService(db, testAuthConfig())

	cases := []dto.RegisterRequest{
		{Name: "A", Email: "", Password: "longenough", Role: RoleTeacher},
		{Name: "A", Email: "a@b.c", Password: "short", Role: RoleTeacher},
		{Name: "", Email: "a@b.c", Password: "longenough", Role: RoleTeacher},
		{Name: "A", Email: "a@b.c", Password: "longenough", Role: "principal"},
	}
	for _, req := range cases {
		_, err := svc.Register(&req)
		assert.True(t, apperr.IsKind(err, apperr.KindValidation), "%+v", req)
	}
}

func TestIssueTokenClaims(t *testing.T) {
	db, _ := newMockDB(t)
	cfg := testAuthConfig()
	svc := NewAuthService(db, cfg)
	id := uuid.New()

	resp, err := svc.issueToken(id, "teacher@example.com", RoleTeacher)
	require.NoError(t, err)
	assert.Equal(t, id.String(), resp.UserID)
	assert.Equal(t, RoleTeacher, resp.Role)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, id.String(), claims["sub"])
	assert.Equal(t, "teacher@example.com", claims["email"])
	assert.Equal(t, RoleTeacher, claims["role"])
}
