package dispatcher

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redunap/internal/modules/notification"
	"redunap/pkg/lib/whatsappsender"
)

type fakeRepo struct {
	candidates []notification.Candidate
	history    []*notification.NotificationHistory
	typeErr    error
}

func (f *fakeRepo) ResolveCandidates(typeName string) ([]notification.Candidate, error) {
	return f.candidates, nil
}

func (f *fakeRepo) GetTypeByName(typeName string) (*notification.NotificationType, error) {
	if f.typeErr != nil {
		return nil, f.typeErr
	}
	return &notification.NotificationType{NotificationTypeId: 1, Name: typeName, IsActive: true}, nil
}

func (f *fakeRepo) InsertHistory(entry *notification.NotificationHistory) error {
	f.history = append(f.history, entry)
	return nil
}

func (f *fakeRepo) UpdateHistoryStatus(messageSid string, status string, errorCode *int, errorMessage *string) error {
	return nil
}

type fakeSender struct {
	configured bool
	sentTo     []string
	failFor    map[string]error
}

func (f *fakeSender) Send(ctx context.Context, to string, body string) (*whatsappsender.SendResult, error) {
	if err, ok := f.failFor[to]; ok {
		return nil, err
	}
	f.sentTo = append(f.sentTo, to)
	return &whatsappsender.SendResult{SID: "SM" + to, Status: "queued"}, nil
}

func (f *fakeSender) GetStatus(ctx context.Context, sid string) (*whatsappsender.StatusResult, error) {
	return &whatsappsender.StatusResult{Status: "sent"}, nil
}

func (f *fakeSender) IsConfigured() bool {
	return f.configured
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func boolPtr(b bool) *bool { return &b }

// Высокий темп, чтобы тесты не ждали реальный token bucket.
const testRate = 1000

func TestSendToSubscribers_UnconfiguredGateway(t *testing.T) {
	repo := &fakeRepo{candidates: []notification.Candidate{{UserId: 1, PhoneNumber: "+51987654321"}}}
	sender := &fakeSender{configured: false}
	d := NewDispatcher(discardLogger(), repo, sender, testRate)

	sent, failed := d.SendToSubscribers(context.Background(), notification.TypeNewStory, "hola", 0)

	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, failed)
	assert.Empty(t, sender.sentTo)
	assert.Empty(t, repo.history)
}

func TestSendToSubscribers_ExcludesAuthor(t *testing.T) {
	repo := &fakeRepo{candidates: []notification.Candidate{
		{UserId: 1, PhoneNumber: "+51900000001"},
		{UserId: 2, PhoneNumber: "+51900000002"},
		{UserId: 3, PhoneNumber: "+51900000003"},
	}}
	sender := &fakeSender{configured: true}
	d := NewDispatcher(discardLogger(), repo, sender, testRate)

	sent, failed := d.SendToSubscribers(context.Background(), notification.TypeNewStory, "hola", 2)

	assert.Equal(t, 2, sent)
	assert.Equal(t, 0, failed)
	assert.NotContains(t, sender.sentTo, "+51900000002")
}

func TestSendToSubscribers_PreferenceResolution(t *testing.T) {
	// nil - записи нет, получатель включен; явный false исключает.
	repo := &fakeRepo{candidates: []notification.Candidate{
		{UserId: 1, PhoneNumber: "+51900000001", Preference: nil},
		{UserId: 2, PhoneNumber: "+51900000002", Preference: boolPtr(false)},
		{UserId: 3, PhoneNumber: "+51900000003", Preference: boolPtr(true)},
	}}
	sender := &fakeSender{configured: true}
	d := NewDispatcher(discardLogger(), repo, sender, testRate)

	sent, failed := d.SendToSubscribers(context.Background(), notification.TypeNewStory, "hola", 0)

	assert.Equal(t, 2, sent)
	assert.Equal(t, 0, failed)
	assert.ElementsMatch(t, []string{"+51900000001", "+51900000003"}, sender.sentTo)
}

func TestSendToSubscribers_EmptyCandidateSet(t *testing.T) {
	repo := &fakeRepo{candidates: []notification.Candidate{
		{UserId: 7, PhoneNumber: "+51900000007"},
	}}
	sender := &fakeSender{configured: true}
	d := NewDispatcher(discardLogger(), repo, sender, testRate)

	// Единственный кандидат и есть автор.
	sent, failed := d.SendToSubscribers(context.Background(), notification.TypeNewStory, "hola", 7)

	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, failed)
	assert.Empty(t, sender.sentTo)
	assert.Empty(t, repo.history, "empty candidate set must not write history")
}

func TestSendToSubscribers_FailureIsolation(t *testing.T) {
	repo := &fakeRepo{candidates: []notification.Candidate{
		{UserId: 1, PhoneNumber: "+51900000001"},
		{UserId: 2, PhoneNumber: "+51900000002"},
		{UserId: 3, PhoneNumber: "+51900000003"},
	}}
	sender := &fakeSender{
		configured: true,
		failFor:    map[string]error{"+51900000002": errors.New("gateway timeout")},
	}
	d := NewDispatcher(discardLogger(), repo, sender, testRate)

	sent, failed := d.SendToSubscribers(context.Background(), notification.TypeNewStory, "hola", 0)

	assert.Equal(t, 2, sent)
	assert.Equal(t, 1, failed)
	require.Len(t, repo.history, 3)

	var failedEntries int
	for _, entry := range repo.history {
		if entry.Status == notification.StatusFailed {
			failedEntries++
			assert.Nil(t, entry.MessageSid)
			require.NotNil(t, entry.ErrorMessage)
			assert.Equal(t, "gateway timeout", *entry.ErrorMessage)
		} else {
			assert.NotNil(t, entry.MessageSid)
		}
	}
	assert.Equal(t, 1, failedEntries)
}

func TestSendToSubscribers_TypeLookupFailure(t *testing.T) {
	repo := &fakeRepo{typeErr: notification.ErrTypeNotFound}
	sender := &fakeSender{configured: true}
	d := NewDispatcher(discardLogger(), repo, sender, testRate)

	sent, failed := d.SendToSubscribers(context.Background(), "bogus", "hola", 0)

	assert.Equal(t, 0, sent)
	assert.Equal(t, 0, failed)
	assert.Empty(t, sender.sentTo)
}
