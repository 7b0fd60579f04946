package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redunap/config"
	u "redunap/internal/modules/user"
	"redunap/internal/modules/user/auth"
	"redunap/internal/modules/whatsapp"
)

type fakeAuthRepo struct {
	usernameCollisions int
	createdUsernames   []string
	lastLoginUpdates   []uint
	nextUserId         uint
}

func (f *fakeAuthRepo) CreateUser(user *auth.UserAuth) (uint, error) {
	if f.usernameCollisions > 0 {
		f.usernameCollisions--
		return 0, u.ErrUsernameExists
	}
	f.createdUsernames = append(f.createdUsernames, user.Username)
	f.nextUserId++
	return f.nextUserId, nil
}

func (f *fakeAuthRepo) GetUserByEmail(email string) (*auth.UserAuth, error) {
	return nil, u.ErrUserNotFound
}

func (f *fakeAuthRepo) GetUserByUsername(username string) (*auth.UserAuth, error) {
	return nil, u.ErrUserNotFound
}

func (f *fakeAuthRepo) GetUserById(id uint) (*auth.UserAuth, error) {
	return nil, u.ErrUserNotFound
}

func (f *fakeAuthRepo) UpdateLastLogin(userId uint) error {
	f.lastLoginUpdates = append(f.lastLoginUpdates, userId)
	return nil
}

func (f *fakeAuthRepo) SaveStateCode(state string) error { return nil }

func (f *fakeAuthRepo) VerifyStateCode(state string) (bool, error) { return true, nil }

type fakeNotifier struct {
	calls chan string
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{calls: make(chan string, 1)}
}

func (f *fakeNotifier) SendToSubscribers(ctx context.Context, typeName string, message string, excludeUserID uint) (int, int) {
	f.calls <- typeName
	return 1, 0
}

type fakeRegistry struct {
	reg *whatsapp.UserWhatsapp
	err error
}

func (f *fakeRegistry) GetRegistration(userId uint) (*whatsapp.UserWhatsapp, error) {
	return f.reg, f.err
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSignUp_GeneratesAnonymousUsername(t *testing.T) {
	rp := &fakeAuthRepo{}
	uc := NewAuthUseCase(newTestLogger(), rp, nil, nil, nil, config.OAuthConfig{})

	user, err := uc.SignUp("jperez@unap.edu.pe", "SuperPassword123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(user.Username, "Anónimo#"), "got username %q", user.Username)
	assert.Equal(t, u.RoleUser, user.Role)
	assert.NotZero(t, user.UserId)
}

func TestSignUp_RetriesUsernameCollision(t *testing.T) {
	rp := &fakeAuthRepo{usernameCollisions: 2}
	uc := NewAuthUseCase(newTestLogger(), rp, nil, nil, nil, config.OAuthConfig{})

	user, err := uc.SignUp("jperez@unap.edu.pe", "SuperPassword123")
	require.NoError(t, err)

	// Два столкновения, третья попытка проходит.
	require.Len(t, rp.createdUsernames, 1)
	assert.Equal(t, rp.createdUsernames[0], user.Username)
}

func TestSignUp_NoWelcomeFanoutWithoutRegistration(t *testing.T) {
	rp := &fakeAuthRepo{}
	notifier := newFakeNotifier()
	registry := &fakeRegistry{err: whatsapp.ErrNotRegistered}
	uc := NewAuthUseCase(newTestLogger(), rp, nil, notifier, registry, config.OAuthConfig{})

	_, err := uc.SignUp("jperez@unap.edu.pe", "SuperPassword123")
	require.NoError(t, err)

	assert.Empty(t, notifier.calls)
}

func TestSignUp_NoWelcomeFanoutForUnverifiedWhatsapp(t *testing.T) {
	rp := &fakeAuthRepo{}
	notifier := newFakeNotifier()
	registry := &fakeRegistry{reg: &whatsapp.UserWhatsapp{UserId: 1, IsVerified: false}}
	uc := NewAuthUseCase(newTestLogger(), rp, nil, notifier, registry, config.OAuthConfig{})

	_, err := uc.SignUp("jperez@unap.edu.pe", "SuperPassword123")
	require.NoError(t, err)

	assert.Empty(t, notifier.calls)
}

func TestSignUp_WelcomeFanoutForVerifiedWhatsapp(t *testing.T) {
	rp := &fakeAuthRepo{}
	notifier := newFakeNotifier()
	registry := &fakeRegistry{reg: &whatsapp.UserWhatsapp{UserId: 1, IsVerified: true}}
	uc := NewAuthUseCase(newTestLogger(), rp, nil, notifier, registry, config.OAuthConfig{})

	_, err := uc.SignUp("jperez@unap.edu.pe", "SuperPassword123")
	require.NoError(t, err)

	select {
	case typeName := <-notifier.calls:
		assert.Equal(t, "welcome", typeName)
	case <-time.After(time.Second):
		t.Fatal("expected welcome fan-out for verified whatsapp registration")
	}
}
