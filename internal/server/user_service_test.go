package server

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrapperhq/scrapper/internal/config"
	"github.com/scrapperhq/scrapper/internal/db"
	"github.com/scrapperhq/scrapper/internal/types"
)

// fakeUserStore is an in-memory UserStore.
type fakeUserStore struct {
	users map[uuid.UUID]*db.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*db.User)}
}

func (f *fakeUserStore) CreateUser(_ context.Context, name, email, passwordHash string) (uuid.UUID, error) {
	id := uuid.New()
	now := time.Now()
	f.users[id] = &db.User{
		ID: id, Name: name, Email: email, PasswordHash: passwordHash,
		CreatedAt: now, UpdatedAt: now,
	}
	return id, nil
}

func (f *fakeUserStore) GetUser(_ context.Context, id uuid.UUID) (*db.User, error) {
	return f.users[id], nil
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*db.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserStore) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	u, _ := f.GetUserByEmail(ctx, email)
	return u != nil, nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, passwordHash string) error {
	u := f.users[id]
	if u == nil {
		return &ErrUserNotFound{UserID: id}
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetExpires = nil
	return nil
}

func (f *fakeUserStore) UpdatePremium(_ context.Context, id uuid.UUID, isPremium bool) (*db.User, error) {
	u := f.users[id]
	if u == nil {
		return nil, nil
	}
	u.IsPremium = isPremium
	return u, nil
}

func (f *fakeUserStore) MarkEmailVerified(_ context.Context, id uuid.UUID) error {
	u := f.users[id]
	if u == nil {
		return &ErrUserNotFound{UserID: id}
	}
	u.EmailVerified = true
	return nil
}

func (f *fakeUserStore) SetResetToken(_ context.Context, id uuid.UUID, token string, expiresAt time.Time) error {
	u := f.users[id]
	if u == nil {
		return &ErrUserNotFound{UserID: id}
	}
	u.ResetToken = &token
	u.ResetExpires = &expiresAt
	return nil
}

func (f *fakeUserStore) GetUserByResetToken(_ context.Context, token string) (*db.User, error) {
	for _, u := range f.users {
		if u.ResetToken != nil && *u.ResetToken == token && u.ResetExpires != nil && u.ResetExpires.After(time.Now()) {
			return u, nil
		}
	}
	return nil, nil
}

// recordingMailer captures sent mail instead of dialing SMTP.
type recordingMailer struct {
	verifications []string
	resets        []string
}

func (m *recordingMailer) SendVerificationEmail(_ context.Context, email, _ string) error {
	m.verifications = append(m.verifications, email)
	return nil
}

func (m *recordingMailer) SendPasswordResetEmail(_ context.Context, email, _ string) error {
	m.resets = append(m.resets, email)
	return nil
}

func newTestUserService(t *testing.T) (*UserService, *fakeUserStore, *recordingMailer) {
	t.Helper()
	t.Setenv("BCRYPT_COST", "10") // keep test hashing fast

	passwordConfig, err := config.NewPasswordConfig()
	require.NoError(t, err)

	store := newFakeUserStore()
	mailer := &recordingMailer{}
	return NewUserService(store, passwordConfig, mailer), store, mailer
}

func TestRegister_Success(t *testing.T) {
	svc, store, mailer := newTestUserService(t)

	user, err := svc.Register(context.Background(), &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada", user.Name)
	assert.False(t, user.IsPremium)
	assert.False(t, user.EmailVerified)

	stored := store.users[user.ID]
	require.NotNil(t, stored)
	assert.NotEqual(t, "hunter2hunter2", stored.PasswordHash, "password must be stored hashed")
	assert.Equal(t, []string{"ada@example.com"}, mailer.verifications)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &types.CreateUserRequest{
		Name: "Other", Email: "ada@example.com", Password: "different-pw",
	})
	require.Error(t, err)

	var dup *ErrEmailAlreadyExists
	assert.ErrorAs(t, err, &dup)
}

func TestLogin_Success(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	user, err := svc.Login(ctx, &types.LoginRequest{
		Email: "ada@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "ada@example.com", Password: "wrong"})
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	_, err := svc.Login(context.Background(), &types.LoginRequest{
		Email: "nobody@example.com", Password: "whatever",
	})
	var invalid *ErrInvalidCredentials
	assert.ErrorAs(t, err, &invalid)
}

func TestUpdatePassword_SamePasswordRejected(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.ID, "hunter2hunter2", "hunter2hunter2")
	var same *ErrSamePassword
	assert.ErrorAs(t, err, &same)
}

func TestUpdatePassword_WrongOldPassword(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	err = svc.UpdatePassword(ctx, user.ID, "not-the-password", "new-password-1")
	var mismatch *ErrPasswordMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestUpdatePassword_Success(t *testing.T) {
	svc, _, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdatePassword(ctx, user.ID, "hunter2hunter2", "new-password-1"))

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "ada@example.com", Password: "new-password-1"})
	assert.NoError(t, err)
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	svc, _, mailer := newTestUserService(t)

	err := svc.ForgotPassword(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Empty(t, mailer.resets)
}

func TestForgotThenResetPassword(t *testing.T) {
	svc, store, mailer := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	require.NoError(t, svc.ForgotPassword(ctx, "ada@example.com"))
	assert.Equal(t, []string{"ada@example.com"}, mailer.resets)

	token := store.users[user.ID].ResetToken
	require.NotNil(t, token)

	require.NoError(t, svc.ResetPassword(ctx, *token, "brand-new-pw-1"))

	// Token is single-use.
	err = svc.ResetPassword(ctx, *token, "another-pw-12")
	var invalid *ErrInvalidResetToken
	assert.ErrorAs(t, err, &invalid)

	_, err = svc.Login(ctx, &types.LoginRequest{Email: "ada@example.com", Password: "brand-new-pw-1"})
	assert.NoError(t, err)
}

func TestResetPassword_BadToken(t *testing.T) {
	svc, _, _ := newTestUserService(t)

	err := svc.ResetPassword(context.Background(), "no-such-token", "new-password-1")
	var invalid *ErrInvalidResetToken
	assert.ErrorAs(t, err, &invalid)
}

func TestVerifyEmail(t *testing.T) {
	svc, store, _ := newTestUserService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, &types.CreateUserRequest{
		Name: "Ada", Email: "ada@example.com", Password: "hunter2hunter2",
	})
	require.NoError(t, err)

	require.NoError(t, svc.VerifyEmail(ctx, user.ID))
	assert.True(t, store.users[user.ID].EmailVerified)
}
