package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pdpi_backend/internals/constants"
	authModel "pdpi_backend/internals/features/users/auth/model"
	authRepo "pdpi_backend/internals/features/users/auth/repository"
)

func newTestAuth(t *testing.T) *AuthService {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&authModel.UserModel{}, &authModel.TokenBlacklist{}))
	return NewAuthService(db, NewTokenService("rahasia-test", time.Hour), zap.NewNop())
}

func TestLoginIssuesClaims(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()
	branch := uuid.New()
	_, err := s.CreateUser(ctx, CreateUserInput{
		Email: "Admin@PDPI.or.id", Name: "Admin PD", Password: "password123",
		Role: constants.RoleAdminPD, BranchID: &branch,
	})
	require.NoError(t, err)

	_, err = s.Login(ctx, "admin@pdpi.or.id", "salah")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = s.Login(ctx, "nobody@pdpi.or.id", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := s.Login(ctx, " ADMIN@pdpi.or.id ", "password123")
	require.NoError(t, err)

	claims, err := s.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdminPD, claims.Role)
	assert.Equal(t, branch.String(), claims.BranchID)
	assert.Equal(t, res.User.UserID.String(), claims.Subject)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()
	_, err := s.EnsureSuperAdmin(ctx, "root@pdpi.or.id", "password123")
	require.NoError(t, err)
	res, err := s.Login(ctx, "root@pdpi.or.id", "password123")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx, res.AccessToken))
	require.NoError(t, s.Logout(ctx, res.AccessToken), "logout ulang idempoten")
	_, err = s.Authenticate(ctx, res.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestEnsureSuperAdminOnce(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()
	created, err := s.EnsureSuperAdmin(ctx, "root@pdpi.or.id", "password123")
	require.NoError(t, err)
	assert.True(t, created)
	created, err = s.EnsureSuperAdmin(ctx, "root@pdpi.or.id", "password123")
	require.NoError(t, err)
	assert.False(t, created)

	_, err = s.CreateUser(ctx, CreateUserInput{Email: "root@pdpi.or.id", Name: "x", Password: "password123", Role: constants.RoleSuperAdmin})
	assert.ErrorIs(t, err, ErrEmailExists)
}

func TestCreateUserRoleRules(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()
	_, err := s.CreateUser(ctx, CreateUserInput{Email: "a@x.id", Name: "A", Password: "password123", Role: constants.RoleAdminPD})
	assert.ErrorIs(t, err, ErrBranchRequired)
	_, err = s.CreateUser(ctx, CreateUserInput{Email: "b@x.id", Name: "B", Password: "password123", Role: constants.RoleMember})
	assert.ErrorIs(t, err, ErrMemberRequired)
	_, err = s.CreateUser(ctx, CreateUserInput{Email: "c@x.id", Name: "C", Password: "password123", Role: "owner"})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func TestTokenExpiredAndTampered(t *testing.T) {
	ts := NewTokenService("k1", time.Minute)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	ts.now = func() time.Time { return base }
	tok, _, err := ts.Issue(&authModel.UserModel{UserID: uuid.New(), UserRole: constants.RoleMember})
	require.NoError(t, err)

	_, err = ts.Parse(tok)
	require.NoError(t, err)

	ts.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, err = ts.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewTokenService("k2", time.Minute)
	other.now = func() time.Time { return base }
	_, err = other.Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDeleteExpiredBlacklist(t *testing.T) {
	s := newTestAuth(t)
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, authRepo.BlacklistToken(ctx, s.DB, HashToken("a"), now.Add(-48*time.Hour)))
	require.NoError(t, authRepo.BlacklistToken(ctx, s.DB, HashToken("b"), now.Add(time.Hour)))

	n, err := authRepo.DeleteExpiredBlacklist(ctx, s.DB, now, 100)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	revoked, err := authRepo.IsTokenBlacklisted(ctx, s.DB, HashToken("b"))
	require.NoError(t, err)
	assert.True(t, revoked)
}
