package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redunap/config"
	"redunap/internal/modules/notification"
	"redunap/internal/modules/whatsapp"
	"redunap/pkg/lib/whatsappsender"
)

type historyEntry struct {
	userId   uint
	typeName string
	sid      *string
	errMsg   *string
}

type fakeRepo struct {
	registration   *whatsapp.UserWhatsapp
	upserted       *whatsapp.UserWhatsapp
	hasPreferences bool
	seedCalls      int
	prefUpdates    map[string]bool
	knownTypes     map[string]bool
	markedVerified []uint
	deleted        []uint
	history        []historyEntry
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		prefUpdates: map[string]bool{},
		knownTypes: map[string]bool{
			notification.TypeWelcome:     true,
			notification.TypeNewStory:    true,
			notification.TypeStoryUpdate: true,
			notification.TypeSystem:      true,
		},
	}
}

func (f *fakeRepo) GetRegistration(userId uint) (*whatsapp.UserWhatsapp, error) {
	if f.registration == nil {
		return nil, whatsapp.ErrNotRegistered
	}
	return f.registration, nil
}

func (f *fakeRepo) UpsertRegistration(reg *whatsapp.UserWhatsapp) error {
	f.upserted = reg
	return nil
}

func (f *fakeRepo) FindPendingByCode(userId uint, code string, now time.Time) (*whatsapp.UserWhatsapp, error) {
	reg := f.registration
	if reg == nil || reg.VerificationCode == nil || *reg.VerificationCode != code {
		return nil, whatsapp.ErrInvalidOrExpiredCode
	}
	if reg.VerificationExpires == nil || !reg.VerificationExpires.After(now) {
		return nil, whatsapp.ErrInvalidOrExpiredCode
	}
	return reg, nil
}

func (f *fakeRepo) MarkVerified(whatsappId uint) error {
	f.markedVerified = append(f.markedVerified, whatsappId)
	return nil
}

func (f *fakeRepo) DeleteRegistration(userId uint) error {
	if f.registration == nil {
		return whatsapp.ErrNotRegistered
	}
	f.deleted = append(f.deleted, userId)
	f.registration = nil
	return nil
}

func (f *fakeRepo) HasAnyPreferences(userId uint) (bool, error) {
	return f.hasPreferences, nil
}

func (f *fakeRepo) SeedDefaultPreferences(userId uint) error {
	f.seedCalls++
	f.hasPreferences = true
	return nil
}

func (f *fakeRepo) UpdatePreference(userId uint, typeName string, enabled bool) error {
	if !f.knownTypes[typeName] {
		return notification.ErrTypeNotFound
	}
	f.prefUpdates[typeName] = enabled
	return nil
}

func (f *fakeRepo) ListPreferences(userId uint) ([]whatsapp.PreferenceView, error) {
	return []whatsapp.PreferenceView{}, nil
}

func (f *fakeRepo) GetHistoryStats(userId uint) (*whatsapp.HistoryStats, error) {
	return &whatsapp.HistoryStats{}, nil
}

func (f *fakeRepo) UpdateHistoryStatus(messageSid string, status string, errorCode *int, errorMessage *string) error {
	return nil
}

func (f *fakeRepo) InsertHistory(userId uint, typeName string, phoneNumber string, message string, messageSid *string, errorMessage *string) error {
	f.history = append(f.history, historyEntry{userId: userId, typeName: typeName, sid: messageSid, errMsg: errorMessage})
	return nil
}

type fakeSender struct {
	configured bool
	sendErr    error
	sentTo     []string
	sentBodies []string
}

func (f *fakeSender) Send(ctx context.Context, to string, body string) (*whatsappsender.SendResult, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sentTo = append(f.sentTo, to)
	f.sentBodies = append(f.sentBodies, body)
	return &whatsappsender.SendResult{SID: "SM123", Status: "queued"}, nil
}

func (f *fakeSender) GetStatus(ctx context.Context, sid string) (*whatsappsender.StatusResult, error) {
	return &whatsappsender.StatusResult{Status: "sent"}, nil
}

func (f *fakeSender) IsConfigured() bool {
	return f.configured
}

func testConfig() config.WhatsAppConfig {
	return config.WhatsAppConfig{
		Enabled:            true,
		FromNumber:         "whatsapp:+14155238886",
		DefaultRegion:      "PE",
		VerificationExpire: 10 * time.Minute,
		MessagesPerSecond:  1,
	}
}

func newTestUseCase(rp *fakeRepo, sender *fakeSender) *WhatsappUseCase {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWhatsappUseCase(log, rp, sender, testConfig())
}

func strPtr(s string) *string { return &s }

func timePtr(t time.Time) *time.Time { return &t }

func TestRegisterPhone_GatewayNotConfigured(t *testing.T) {
	rp := newFakeRepo()
	uc := newTestUseCase(rp, &fakeSender{configured: false})

	_, err := uc.RegisterPhone(1, &whatsapp.RegisterPhoneRequest{PhoneNumber: "+51987654321"})

	assert.ErrorIs(t, err, whatsapp.ErrGatewayNotConfigured)
	assert.Nil(t, rp.upserted)
}

func TestRegisterPhone_InvalidNumber(t *testing.T) {
	rp := newFakeRepo()
	uc := newTestUseCase(rp, &fakeSender{configured: true})

	_, err := uc.RegisterPhone(1, &whatsapp.RegisterPhoneRequest{PhoneNumber: "12345"})

	assert.ErrorIs(t, err, whatsapp.ErrInvalidPhoneNumber)
}

func TestRegisterPhone_Success(t *testing.T) {
	rp := newFakeRepo()
	sender := &fakeSender{configured: true}
	uc := newTestUseCase(rp, sender)

	result, err := uc.RegisterPhone(1, &whatsapp.RegisterPhoneRequest{
		PhoneNumber: "987654321",
		CountryCode: "+51",
	})
	require.NoError(t, err)

	assert.Equal(t, "+51987654321", result.PhoneNumber)

	require.NotNil(t, rp.upserted)
	assert.False(t, rp.upserted.IsVerified)
	require.NotNil(t, rp.upserted.VerificationCode)
	assert.Len(t, *rp.upserted.VerificationCode, 6)
	require.NotNil(t, rp.upserted.VerificationExpires)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), *rp.upserted.VerificationExpires, time.Minute)

	require.Len(t, sender.sentTo, 1)
	assert.Equal(t, "+51987654321", sender.sentTo[0])
	assert.Contains(t, sender.sentBodies[0], *rp.upserted.VerificationCode)

	require.Len(t, rp.history, 1)
	assert.Equal(t, notification.TypeVerification, rp.history[0].typeName)
	assert.NotNil(t, rp.history[0].sid)
}

func TestRegisterPhone_SeedsDefaultsOnlyOnce(t *testing.T) {
	rp := newFakeRepo()
	sender := &fakeSender{configured: true}
	uc := newTestUseCase(rp, sender)

	_, err := uc.RegisterPhone(1, &whatsapp.RegisterPhoneRequest{PhoneNumber: "+51987654321"})
	require.NoError(t, err)
	assert.Equal(t, 1, rp.seedCalls)

	// Повторная регистрация не сеет настройки заново.
	_, err = uc.RegisterPhone(1, &whatsapp.RegisterPhoneRequest{PhoneNumber: "+51912345678"})
	require.NoError(t, err)
	assert.Equal(t, 1, rp.seedCalls)
}

func TestRegisterPhone_GatewaySendFailureFailsOperation(t *testing.T) {
	rp := newFakeRepo()
	sender := &fakeSender{configured: true, sendErr: errors.New("twilio 500")}
	uc := newTestUseCase(rp, sender)

	_, err := uc.RegisterPhone(1, &whatsapp.RegisterPhoneRequest{PhoneNumber: "+51987654321"})

	assert.ErrorIs(t, err, whatsapp.ErrGatewaySendFailed)
	require.Len(t, rp.history, 1)
	assert.Nil(t, rp.history[0].sid)
	require.NotNil(t, rp.history[0].errMsg)
	assert.Equal(t, "twilio 500", *rp.history[0].errMsg)
}

func TestVerifyPhone_ExpiredCodeNeverMatches(t *testing.T) {
	rp := newFakeRepo()
	rp.registration = &whatsapp.UserWhatsapp{
		WhatsappId:          5,
		UserId:              1,
		PhoneNumber:         "+51987654321",
		VerificationCode:    strPtr("123456"),
		VerificationExpires: timePtr(time.Now().Add(-time.Minute)),
	}
	uc := newTestUseCase(rp, &fakeSender{configured: true})

	// Код верный, но окно истекло.
	err := uc.VerifyPhone(1, "123456")

	assert.ErrorIs(t, err, whatsapp.ErrInvalidOrExpiredCode)
	assert.Empty(t, rp.markedVerified)
}

func TestVerifyPhone_Success(t *testing.T) {
	rp := newFakeRepo()
	rp.registration = &whatsapp.UserWhatsapp{
		WhatsappId:          5,
		UserId:              1,
		PhoneNumber:         "+51987654321",
		VerificationCode:    strPtr("123456"),
		VerificationExpires: timePtr(time.Now().Add(5 * time.Minute)),
	}
	uc := newTestUseCase(rp, &fakeSender{configured: true})

	err := uc.VerifyPhone(1, "123456")

	require.NoError(t, err)
	assert.Equal(t, []uint{5}, rp.markedVerified)
}

func TestVerifyPhone_WrongCode(t *testing.T) {
	rp := newFakeRepo()
	rp.registration = &whatsapp.UserWhatsapp{
		WhatsappId:          5,
		UserId:              1,
		VerificationCode:    strPtr("123456"),
		VerificationExpires: timePtr(time.Now().Add(5 * time.Minute)),
	}
	uc := newTestUseCase(rp, &fakeSender{configured: true})

	err := uc.VerifyPhone(1, "654321")

	assert.ErrorIs(t, err, whatsapp.ErrInvalidOrExpiredCode)
}

func TestUpdatePreferences_RequiresVerifiedPhone(t *testing.T) {
	rp := newFakeRepo()
	rp.registration = &whatsapp.UserWhatsapp{UserId: 1, IsVerified: false}
	uc := newTestUseCase(rp, &fakeSender{configured: true})

	_, err := uc.UpdatePreferences(1, &whatsapp.UpdatePreferencesRequest{
		Notifications: map[string]bool{notification.TypeNewStory: false},
	})

	assert.ErrorIs(t, err, whatsapp.ErrNotVerified)
}

func TestUpdatePreferences_SkipsUnknownTypes(t *testing.T) {
	rp := newFakeRepo()
	rp.registration = &whatsapp.UserWhatsapp{UserId: 1, PhoneNumber: "+51987654321", IsVerified: true}
	uc := newTestUseCase(rp, &fakeSender{configured: true})

	_, err := uc.UpdatePreferences(1, &whatsapp.UpdatePreferencesRequest{
		Notifications: map[string]bool{
			notification.TypeNewStory: false,
			"carrier_pigeon":          true,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, map[string]bool{notification.TypeNewStory: false}, rp.prefUpdates)
}

func TestRemovePhone_DeletesRegistration(t *testing.T) {
	rp := newFakeRepo()
	rp.registration = &whatsapp.UserWhatsapp{UserId: 1, PhoneNumber: "+51987654321", IsVerified: true}
	sender := &fakeSender{configured: true}
	uc := newTestUseCase(rp, sender)

	err := uc.RemovePhone(1)

	require.NoError(t, err)
	assert.Equal(t, []uint{1}, rp.deleted)
	// Прощальное сообщение перед удалением.
	require.Len(t, sender.sentTo, 1)
	assert.Equal(t, "+51987654321", sender.sentTo[0])
}

func TestRemovePhone_GoodbyeFailureDoesNotBlockRemoval(t *testing.T) {
	rp := newFakeRepo()
	rp.registration = &whatsapp.UserWhatsapp{UserId: 1, PhoneNumber: "+51987654321", IsVerified: true}
	sender := &fakeSender{configured: true, sendErr: errors.New("gateway down")}
	uc := newTestUseCase(rp, sender)

	err := uc.RemovePhone(1)

	require.NoError(t, err)
	assert.Equal(t, []uint{1}, rp.deleted)
}

func TestRemovePhone_NotRegistered(t *testing.T) {
	rp := newFakeRepo()
	uc := newTestUseCase(rp, &fakeSender{configured: true})

	err := uc.RemovePhone(1)

	assert.ErrorIs(t, err, whatsapp.ErrNotRegistered)
}

func TestGetStatus_NotRegistered(t *testing.T) {
	rp := newFakeRepo()
	uc := newTestUseCase(rp, &fakeSender{configured: true})

	status, err := uc.GetStatus(1)

	require.NoError(t, err)
	assert.False(t, status.Registered)
	assert.False(t, status.Verified)
	assert.Nil(t, status.PhoneNumber)
}
