package JobService

import (
	"context"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeDispatcher struct {
	typeNames []string
	messages  []string
}

func (f *fakeDispatcher) SendToSubscribers(ctx context.Context, typeName string, message string, excludeUserID uint) (int, int) {
	f.typeNames = append(f.typeNames, typeName)
	f.messages = append(f.messages, message)
	return 1, 0
}

// timeNear сверяет time-аргумент запроса с ожидаемым моментом.
type timeNear struct {
	want time.Time
	tol  time.Duration
}

func (m timeNear) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	if !ok {
		return false
	}
	return ts.Sub(m.want).Abs() <= m.tol
}

func newMockedService(t *testing.T, dispatcher *fakeDispatcher) (*JobService, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewJobService(db, log, dispatcher), mock
}

func statusOf(t *testing.T, s *JobService, name string) JobStatus {
	t.Helper()
	for _, st := range s.Status() {
		if st.Name == name {
			return st
		}
	}
	t.Fatalf("job %q not found in status", name)
	return JobStatus{}
}

func TestSendDailyDigest_SkipsWhenNoRecentStories(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc, mock := newMockedService(t, dispatcher)

	mock.ExpectQuery(`SELECT (.+) FROM "stories" WHERE is_active = \$1 AND created_at >= \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"story_id", "title"}))

	svc.SendDailyDigest()

	assert.Empty(t, dispatcher.typeNames)

	st := statusOf(t, svc, JobDailyDigest)
	assert.NotNil(t, st.LastRun)
	assert.Nil(t, st.LastError)
	assert.EqualValues(t, 1, st.RunCount)
	assert.EqualValues(t, 0, st.FailCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSendDailyDigest_SendsSystemDigest(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc, mock := newMockedService(t, dispatcher)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"story_id", "title", "is_active", "created_at"}).
		AddRow(2, "Nueva biblioteca central", true, now).
		AddRow(1, "Resultados del examen", true, now.Add(-time.Hour))
	mock.ExpectQuery(`SELECT (.+) FROM "stories" WHERE is_active = \$1 AND created_at >= \$2`).
		WillReturnRows(rows)

	svc.SendDailyDigest()

	require.Len(t, dispatcher.typeNames, 1)
	assert.Equal(t, "system", dispatcher.typeNames[0])
	assert.Contains(t, dispatcher.messages[0], "1. Nueva biblioteca central")
	assert.Contains(t, dispatcher.messages[0], "2. Resultados del examen")

	st := statusOf(t, svc, JobDailyDigest)
	assert.Nil(t, st.LastError)
	assert.EqualValues(t, 1, st.RunCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSendDailyDigest_RecordsQueryFailure(t *testing.T) {
	dispatcher := &fakeDispatcher{}
	svc, mock := newMockedService(t, dispatcher)

	mock.ExpectQuery(`SELECT (.+) FROM "stories"`).
		WillReturnError(errors.New("connection refused"))

	svc.SendDailyDigest()

	assert.Empty(t, dispatcher.typeNames)

	st := statusOf(t, svc, JobDailyDigest)
	require.NotNil(t, st.LastError)
	assert.Contains(t, *st.LastError, "connection refused")
	assert.EqualValues(t, 1, st.RunCount)
	assert.EqualValues(t, 1, st.FailCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClearExpiredCodes_NullsOnlyExpiredCodes(t *testing.T) {
	svc, mock := newMockedService(t, &fakeDispatcher{})

	mock.ExpectExec(`UPDATE "user_whatsapp" SET (.+) WHERE verification_expires IS NOT NULL AND verification_expires < \$`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	svc.ClearExpiredCodes()

	st := statusOf(t, svc, JobClearExpiredCodes)
	assert.NotNil(t, st.LastRun)
	assert.Nil(t, st.LastError)
	assert.EqualValues(t, 1, st.RunCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPruneHistory_DeletesOnlyRowsOlderThan30Days(t *testing.T) {
	svc, mock := newMockedService(t, &fakeDispatcher{})

	// Граница отсечения ровно 30 дней назад: запись возрастом 40 дней
	// попадает под sent_at < cutoff, запись возрастом 10 дней - нет.
	cutoff := timeNear{want: time.Now().AddDate(0, 0, -historyRetentionDays), tol: time.Minute}
	mock.ExpectExec(`DELETE FROM "notification_history" WHERE sent_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 1))

	svc.PruneHistory()

	st := statusOf(t, svc, JobPruneHistory)
	assert.Nil(t, st.LastError)
	assert.EqualValues(t, 1, st.RunCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatus_TracksErrorsAcrossRuns(t *testing.T) {
	svc, mock := newMockedService(t, &fakeDispatcher{})

	mock.ExpectExec(`DELETE FROM "notification_history"`).
		WillReturnError(errors.New("deadlock detected"))
	svc.PruneHistory()

	st := statusOf(t, svc, JobPruneHistory)
	require.NotNil(t, st.LastError)
	assert.Contains(t, *st.LastError, "deadlock detected")
	assert.EqualValues(t, 1, st.FailCount)

	// Успешный прогон сбрасывает last_error, но счётчик ошибок остаётся.
	mock.ExpectExec(`DELETE FROM "notification_history"`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	svc.PruneHistory()

	st = statusOf(t, svc, JobPruneHistory)
	assert.Nil(t, st.LastError)
	assert.EqualValues(t, 2, st.RunCount)
	assert.EqualValues(t, 1, st.FailCount)

	require.NoError(t, mock.ExpectationsWereMet())
}
