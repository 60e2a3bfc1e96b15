package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/wastewise/wastewise-api/internal/models"
	appErrors "github.com/wastewise/wastewise-api/pkg/errors"
)

type fakeAuthRepo struct {
	usersByID       map[string]models.User
	usersByUsername map[string]string
	usersByEmail    map[string]string
	refreshTokens   map[string]models.RefreshToken
	auditLogs       []models.AuditLog
	revokedIDs      []string
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		usersByID:       make(map[string]models.User),
		usersByUsername: make(map[string]string),
		usersByEmail:    make(map[string]string),
		refreshTokens:   make(map[string]models.RefreshToken),
	}
}

func (f *fakeAuthRepo) addUser(user models.User) {
	f.usersByID[user.ID] = user
	f.usersByUsername[user.Username] = user.ID
	f.usersByEmail[user.Email] = user.ID
}

func (f *fakeAuthRepo) Create(ctx context.Context, user *models.User) error {
	f.addUser(*user)
	return nil
}

func (f *fakeAuthRepo) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	if id, ok := f.usersByUsername[username]; ok {
		u := f.usersByID[id]
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if id, ok := f.usersByEmail[email]; ok {
		u := f.usersByID[id]
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := f.usersByID[id]; ok {
		return &u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	u, ok := f.usersByID[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.LastLogin = &ts
	f.usersByID[id] = u
	return nil
}

func (f *fakeAuthRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	u, ok := f.usersByID[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = updatedAt
	f.usersByID[id] = u
	return nil
}

func (f *fakeAuthRepo) RevokeUserRefreshTokens(ctx context.Context, userID string) error {
	for token, rt := range f.refreshTokens {
		if rt.UserID == userID {
			rt.Revoked = true
			f.refreshTokens[token] = rt
		}
	}
	return nil
}

func (f *fakeAuthRepo) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	f.refreshTokens[token.Token] = *token
	return nil
}

func (f *fakeAuthRepo) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	if rt, ok := f.refreshTokens[token]; ok {
		return &rt, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	f.revokedIDs = append(f.revokedIDs, id)
	for token, rt := range f.refreshTokens {
		if rt.ID == id {
			rt.Revoked = true
			rt.RevokedAt = &revokedAt
			f.refreshTokens[token] = rt
		}
	}
	return nil
}

func (f *fakeAuthRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	f.auditLogs = append(f.auditLogs, *log)
	return nil
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "wastewise-test",
	}
}

func seedUser(t *testing.T, repo *fakeAuthRepo, username, password string, role models.UserRole, active bool) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		ID:           "user-" + username,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		Active:       active,
	}
	repo.addUser(user)
	return user
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "resident", "password123", models.RoleUser, true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Username: "resident", Email: "new@example.com",
		Password: "password123", ConfirmPassword: "password123",
	})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "resident", "password123", models.RoleUser, true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Signup(context.Background(), models.SignupRequest{
		Username: "someoneelse", Email: "resident@example.com",
		Password: "password123", ConfirmPassword: "password123",
	})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestSignupCreatesUserWithDefaultRole(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	info, err := svc.Signup(context.Background(), models.SignupRequest{
		Username: "newuser", Email: "newuser@example.com",
		Password: "password123", ConfirmPassword: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, info.Role)

	stored := repo.usersByID[info.ID]
	assert.True(t, stored.Active)
	assert.NotEqual(t, "password123", stored.PasswordHash, "passwords must never be stored plain")
	require.Len(t, repo.auditLogs, 1)
	assert.Equal(t, models.AuditActionSignup, repo.auditLogs[0].Action)
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "resident", "password123", models.RoleUser, true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "resident", Password: "password123"})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(900), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-resident", claims.UserID)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.False(t, claims.IsStaff())

	require.Contains(t, repo.refreshTokens, resp.RefreshToken)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "resident", "password123", models.RoleUser, true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "resident", Password: "wrong-password"})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "suspended", "password123", models.RoleUser, false)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "suspended", Password: "password123"})

	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInactiveAccount.Code, appErr.Code)
}

func TestRefreshTokenRotates(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "resident", "password123", models.RoleUser, true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "resident", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	old := repo.refreshTokens[login.RefreshToken]
	assert.True(t, old.Revoked, "the used refresh token must be revoked")

	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUser(t, repo, "resident", "password123", models.RoleUser, true)

	issuer := NewAuthService(repo, nil, nil, testAuthConfig())
	login, err := issuer.Login(context.Background(), models.LoginRequest{Username: "resident", Password: "password123"})
	require.NoError(t, err)

	other := testAuthConfig()
	other.AccessTokenSecret = "different-secret"
	verifier := NewAuthService(repo, nil, nil, other)

	_, err = verifier.ValidateToken(login.AccessToken)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	repo := newFakeAuthRepo()
	user := seedUser(t, repo, "resident", "password123", models.RoleUser, true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Username: "resident", Password: "password123"})
	require.NoError(t, err)

	err = svc.ChangePassword(context.Background(), user.ID, models.ChangePasswordRequest{
		OldPassword: "password123",
		NewPassword: "newpassword456",
	})
	require.NoError(t, err)

	assert.True(t, repo.refreshTokens[login.RefreshToken].Revoked)

	_, err = svc.Login(context.Background(), models.LoginRequest{Username: "resident", Password: "password123"})
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)

	relogin, err := svc.Login(context.Background(), models.LoginRequest{Username: "resident", Password: "newpassword456"})
	require.NoError(t, err)
	assert.NotEmpty(t, relogin.AccessToken)
}
