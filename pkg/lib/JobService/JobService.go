package JobService

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"redunap/internal/modules/notification"
	"redunap/internal/modules/story"
	"redunap/internal/modules/whatsapp"
)

const (
	JobDailyDigest       = "daily_digest"
	JobClearExpiredCodes = "clear_expired_codes"
	JobPruneHistory      = "prune_history"
)

const (
	digestStoryLimit     = 5
	historyRetentionDays = 30
)

// JobStatus - снимок состояния одной фоновой задачи.
type JobStatus struct {
	Name      string     `json:"name"`
	LastRun   *time.Time `json:"last_run,omitempty"`
	LastError *string    `json:"last_error,omitempty"`
	RunCount  int64      `json:"run_count"`
	FailCount int64      `json:"fail_count"`
}

type jobState struct {
	lastRun   *time.Time
	lastError *string
	runCount  int64
	failCount int64
}

// JobService выполняет периодические задачи по расписанию cron. Ошибки
// внутри задач логируются и запоминаются, но никогда не останавливают
// планировщик.
type JobService struct {
	db         *gorm.DB
	log        *slog.Logger
	dispatcher notification.Dispatcher

	mu     sync.Mutex
	states map[string]*jobState
}

func NewJobService(db *gorm.DB, log *slog.Logger, dispatcher notification.Dispatcher) *JobService {
	return &JobService{
		db:         db,
		log:        log,
		dispatcher: dispatcher,
		states: map[string]*jobState{
			JobDailyDigest:       {},
			JobClearExpiredCodes: {},
			JobPruneHistory:      {},
		},
	}
}

// Status возвращает снимок всех задач для админского эндпоинта.
func (s *JobService) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	statuses := make([]JobStatus, 0, len(s.states))
	for _, name := range []string{JobDailyDigest, JobClearExpiredCodes, JobPruneHistory} {
		st := s.states[name]
		statuses = append(statuses, JobStatus{
			Name:      name,
			LastRun:   st.lastRun,
			LastError: st.lastError,
			RunCount:  st.runCount,
			FailCount: st.failCount,
		})
	}
	return statuses
}

func (s *JobService) record(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.states[name]
	now := time.Now()
	st.lastRun = &now
	st.runCount++
	if err != nil {
		msg := err.Error()
		st.lastError = &msg
		st.failCount++
	} else {
		st.lastError = nil
	}
}

// SendDailyDigest собирает истории за последние сутки и рассылает дайджест
// подписчикам типа "system". Без новых историй рассылка не делается.
func (s *JobService) SendDailyDigest() {
	log := s.log.With(slog.String("op", "JobService.SendDailyDigest"))

	var stories []story.Story
	since := time.Now().Add(-24 * time.Hour)
	err := s.db.Where("is_active = ? AND created_at >= ?", true, since).
		Order("created_at DESC").
		Limit(digestStoryLimit).
		Find(&stories).Error
	if err != nil {
		log.Error("failed to fetch stories for digest", slog.String("error", err.Error()))
		s.record(JobDailyDigest, err)
		return
	}

	if len(stories) == 0 {
		log.Info("no stories in the last 24h, skipping digest")
		s.record(JobDailyDigest, nil)
		return
	}

	var b strings.Builder
	b.WriteString("📬 *Resumen diario de RED UNAP*\n\n")
	for i, st := range stories {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, st.Title))
	}
	b.WriteString("\nEntra a la plataforma para leer las historias completas.")

	sent, failed := s.dispatcher.SendToSubscribers(context.Background(), notification.TypeSystem, b.String(), 0)
	log.Info("daily digest dispatched",
		slog.Int("stories", len(stories)),
		slog.Int("sent", sent),
		slog.Int("failed", failed),
	)
	s.record(JobDailyDigest, nil)
}

// ClearExpiredCodes обнуляет просроченные коды верификации. Сама запись
// регистрации сохраняется.
func (s *JobService) ClearExpiredCodes() {
	log := s.log.With(slog.String("op", "JobService.ClearExpiredCodes"))

	result := s.db.Model(&whatsapp.UserWhatsapp{}).
		Where("verification_expires IS NOT NULL AND verification_expires < ?", time.Now()).
		Updates(map[string]interface{}{
			"verification_code":    nil,
			"verification_expires": nil,
		})
	if result.Error != nil {
		log.Error("failed to clear expired codes", slog.String("error", result.Error.Error()))
		s.record(JobClearExpiredCodes, result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Info("cleared expired verification codes", slog.Int64("count", result.RowsAffected))
	}
	s.record(JobClearExpiredCodes, nil)
}

// PruneHistory удаляет записи истории старше 30 дней.
func (s *JobService) PruneHistory() {
	log := s.log.With(slog.String("op", "JobService.PruneHistory"))

	threshold := time.Now().AddDate(0, 0, -historyRetentionDays)
	result := s.db.Where("sent_at < ?", threshold).Delete(&notification.NotificationHistory{})
	if result.Error != nil {
		log.Error("failed to prune notification history", slog.String("error", result.Error.Error()))
		s.record(JobPruneHistory, result.Error)
		return
	}

	log.Info("pruned notification history", slog.Int64("deleted", result.RowsAffected))
	s.record(JobPruneHistory, nil)
}
