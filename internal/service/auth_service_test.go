package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/uniadmin/ums-api/internal/models"
	appErrors "github.com/uniadmin/ums-api/pkg/errors"
)

type mockAccountRepo struct {
	accounts map[int64]*models.Account
	nextID   int64
}

func newMockAccountRepo() *mockAccountRepo {
	return &mockAccountRepo{accounts: make(map[int64]*models.Account), nextID: 1}
}

func (m *mockAccountRepo) FindByID(ctx context.Context, id int64) (*models.Account, error) {
	if account, ok := m.accounts[id]; ok {
		cp := *account
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) FindByUsernameOrEmail(ctx context.Context, identifier string) (*models.Account, error) {
	for _, account := range m.accounts {
		if account.Username == identifier || account.Email == identifier {
			cp := *account
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAccountRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	for _, account := range m.accounts {
		if account.Username == username || account.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockAccountRepo) Create(ctx context.Context, account *models.Account) error {
	account.ID = m.nextID
	m.nextID++
	cp := *account
	m.accounts[account.ID] = &cp
	return nil
}

func newAuthServiceForTest(repo *mockAccountRepo) *AuthService {
	return NewAuthService(repo, NewValidator(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "test",
	})
}

func seedAccount(repo *mockAccountRepo, username, password string, active bool) *models.Account {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	account := &models.Account{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		FullName:     "Test Account",
		Role:         models.RoleUser,
		IsActive:     active,
	}
	_ = repo.Create(context.Background(), account)
	return repo.accounts[account.ID]
}

func TestAuthServiceRegister(t *testing.T) {
	repo := newMockAccountRepo()
	svc := newAuthServiceForTest(repo)

	result, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "newuser",
		Email:    "new@example.com",
		Password: "secret123",
		FullName: "Người dùng mới",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, models.RoleUser, result.Account.Role)
	assert.True(t, result.Account.IsActive)
	assert.NotEqual(t, "secret123", result.Account.PasswordHash)
}

func TestAuthServiceRegisterDuplicate(t *testing.T) {
	repo := newMockAccountRepo()
	seedAccount(repo, "taken", "secret123", true)
	svc := newAuthServiceForTest(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "taken",
		Email:    "other@example.com",
		Password: "secret123",
		FullName: "Another",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 400, appErr.Status)
	assert.Contains(t, appErr.Message, "already exists")
}

func TestAuthServiceRegisterRejectsUnknownRole(t *testing.T) {
	repo := newMockAccountRepo()
	svc := newAuthServiceForTest(repo)

	_, err := svc.Register(context.Background(), models.RegisterRequest{
		Username: "roleuser",
		Email:    "role@example.com",
		Password: "secret123",
		FullName: "Role User",
		Role:     "superadmin",
	})
	require.Error(t, err)
	assert.Equal(t, 400, appErrors.FromError(err).Status)
}

func TestAuthServiceLoginMatrix(t *testing.T) {
	repo := newMockAccountRepo()
	seedAccount(repo, "active", "rightpass", true)
	seedAccount(repo, "disabled", "rightpass", false)
	svc := newAuthServiceForTest(repo)

	tests := []struct {
		name     string
		username string
		password string
		status   int
		message  string
	}{
		{"unknown account", "ghost", "whatever", 401, "account does not exist"},
		{"inactive account", "disabled", "rightpass", 403, "disabled"},
		{"wrong password", "active", "wrongpass", 401, "incorrect password"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Login(context.Background(), models.LoginRequest{Username: tc.username, Password: tc.password})
			require.Error(t, err)
			appErr := appErrors.FromError(err)
			assert.Equal(t, tc.status, appErr.Status)
			assert.Contains(t, appErr.Message, tc.message)
		})
	}

	result, err := svc.Login(context.Background(), models.LoginRequest{Username: "active", Password: "rightpass"})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestAuthServiceLoginByEmail(t *testing.T) {
	repo := newMockAccountRepo()
	seedAccount(repo, "mailuser", "rightpass", true)
	svc := newAuthServiceForTest(repo)

	result, err := svc.Login(context.Background(), models.LoginRequest{Username: "mailuser@example.com", Password: "rightpass"})
	require.NoError(t, err)
	assert.Equal(t, "mailuser", result.Account.Username)
}

func TestAuthServiceTokenRoundTrip(t *testing.T) {
	repo := newMockAccountRepo()
	account := seedAccount(repo, "tokenuser", "rightpass", true)
	svc := newAuthServiceForTest(repo)

	result, err := svc.Login(context.Background(), models.LoginRequest{Username: "tokenuser", Password: "rightpass"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, account.ID, claims.AccountID)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestAuthServiceValidateTokenRejectsGarbage(t *testing.T) {
	svc := newAuthServiceForTest(newMockAccountRepo())

	_, err := svc.ValidateToken("not.a.token")
	require.Error(t, err)
	assert.Equal(t, 401, appErrors.FromError(err).Status)
}

func TestAuthServiceValidateTokenExpired(t *testing.T) {
	repo := newMockAccountRepo()
	account := seedAccount(repo, "expired", "rightpass", true)

	issuer := NewAuthService(repo, NewValidator(), zap.NewNop(), AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: -time.Hour,
		Issuer:      "test",
	})
	token, err := issuer.generateToken(account)
	require.NoError(t, err)

	svc := newAuthServiceForTest(repo)
	_, err = svc.ValidateToken(token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 401, appErr.Status)
	assert.True(t, strings.Contains(appErr.Message, "expired"))
}

func TestAuthServiceAuthenticateRejectsDisabledAccount(t *testing.T) {
	repo := newMockAccountRepo()
	account := seedAccount(repo, "soon-disabled", "rightpass", true)
	svc := newAuthServiceForTest(repo)

	result, err := svc.Login(context.Background(), models.LoginRequest{Username: "soon-disabled", Password: "rightpass"})
	require.NoError(t, err)

	repo.accounts[account.ID].IsActive = false

	_, _, err = svc.Authenticate(context.Background(), result.Token)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, 401, appErr.Status)
	assert.Contains(t, appErr.Message, "not found or inactive")
}
