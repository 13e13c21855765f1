// Package reminders sends MATCH_REMINDER notifications to registered players
// ahead of a match. A cron job scans the next 48 hours; each registration is
// reminded at most once, tracked by Registration.ReminderSentAt.
package reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/PetrH630/hobbyhokej/internal/models"
	"github.com/PetrH630/hobbyhokej/internal/notify"
)

const (
	// Window is how far ahead the job looks for matches.
	Window = 48 * time.Hour
	// DefaultHoursBefore applies to players without a settings row.
	DefaultHoursBefore = 24
)

// Pending is a registered player on an upcoming match who has not been reminded yet.
type Pending struct {
	Match        models.Match
	Registration models.Registration
	Settings     *models.PlayerSettings // nil means defaults
}

// Due reports whether the reminder should go out at now.
func (p Pending) Due(now time.Time) bool {
	enabled, hours := true, DefaultHoursBefore
	if p.Settings != nil {
		enabled = p.Settings.RemindersEnabled
		if p.Settings.ReminderHoursBefore > 0 {
			hours = p.Settings.ReminderHoursBefore
		}
	}
	if !enabled || !now.Before(p.Match.StartsAt) {
		return false
	}
	return !now.Before(p.Match.StartsAt.Add(-time.Duration(hours) * time.Hour))
}

type Store interface {
	// Pending lists REGISTERED, not yet reminded registrations of scheduled
	// matches starting in (from, to].
	Pending(ctx context.Context, from, to time.Time) ([]Pending, error)
	// Claim stamps reminder_sent_at. It returns false when another run got there first
	// or the player is no longer registered.
	Claim(ctx context.Context, registrationID uuid.UUID, at time.Time) (bool, error)
}

type Notifier interface {
	Notify(ctx context.Context, ev notify.Event)
}

// Job is one reminder sweep.
type Job struct {
	store    Store
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewJob(store Store, notifier Notifier, logger zerolog.Logger) *Job {
	return &Job{store: store, notifier: notifier, log: logger, now: time.Now}
}

// Run sends every due reminder and returns how many went out.
func (j *Job) Run(ctx context.Context) (int, error) {
	now := j.now().UTC()
	pending, err := j.store.Pending(ctx, now, now.Add(Window))
	if err != nil {
		return 0, fmt.Errorf("load pending reminders: %w", err)
	}

	sent := 0
	for _, p := range pending {
		if !p.Due(now) {
			continue
		}
		claimed, err := j.store.Claim(ctx, p.Registration.ID, now)
		if err != nil {
			return sent, fmt.Errorf("claim reminder %s: %w", p.Registration.ID, err)
		}
		if !claimed {
			continue
		}
		match, reg := p.Match, p.Registration
		j.notifier.Notify(ctx, notify.Event{
			Type:         notify.EventMatchReminder,
			PlayerID:     reg.PlayerID,
			Match:        &match,
			Registration: &reg,
		})
		sent++
	}
	return sent, nil
}

// Scheduler runs the Job on a cron schedule with seconds precision.
type Scheduler struct {
	cron *cron.Cron
	job  *Job
	log  zerolog.Logger
}

// NewScheduler registers the job under spec, e.g. "0 */15 * * * *".
func NewScheduler(job *Job, spec string, logger zerolog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithSeconds(), cron.WithLogger(cronLogger{logger})),
		job:  job,
		log:  logger,
	}
	if _, err := s.cron.AddFunc(spec, s.RunNow); err != nil {
		return nil, fmt.Errorf("schedule reminders %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.log.Info().Msg("reminder scheduler started")
	s.cron.Start()
}

// Stop waits for a running sweep to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("reminder scheduler stopped")
}

// RunNow performs one sweep outside the schedule.
func (s *Scheduler) RunNow() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	sent, err := s.job.Run(ctx)
	if err != nil {
		s.log.Error().Err(err).Int("sent", sent).Msg("reminder sweep failed")
		return
	}
	if sent > 0 {
		s.log.Info().Int("sent", sent).Msg("match reminders sent")
	}
}

// cronLogger routes cron's own messages into zerolog.
type cronLogger struct {
	log zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}

// GormStore implements Store on Postgres.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Pending(ctx context.Context, from, to time.Time) ([]Pending, error) {
	db := s.db.WithContext(ctx)

	var matches []models.Match
	err := db.Where("status = ? AND starts_at > ? AND starts_at <= ?", models.MatchStatusScheduled, from, to).
		Order("starts_at ASC").
		Find(&matches).Error
	if err != nil {
		return nil, fmt.Errorf("list upcoming matches: %w", err)
	}
	if len(matches) == 0 {
		return nil, nil
	}
	byMatch := make(map[uuid.UUID]models.Match, len(matches))
	matchIDs := make([]uuid.UUID, 0, len(matches))
	for _, m := range matches {
		byMatch[m.ID] = m
		matchIDs = append(matchIDs, m.ID)
	}

	var regs []models.Registration
	err = db.Where("match_id IN ? AND status = ? AND reminder_sent_at IS NULL", matchIDs, models.RegistrationStatusRegistered).
		Order("queued_at ASC, id ASC").
		Find(&regs).Error
	if err != nil {
		return nil, fmt.Errorf("list unreminded registrations: %w", err)
	}
	if len(regs) == 0 {
		return nil, nil
	}
	playerIDs := make([]uuid.UUID, 0, len(regs))
	for _, r := range regs {
		playerIDs = append(playerIDs, r.PlayerID)
	}

	var settings []models.PlayerSettings
	if err := db.Where("player_id IN ?", playerIDs).Find(&settings).Error; err != nil {
		return nil, fmt.Errorf("load player settings: %w", err)
	}
	byPlayer := make(map[uuid.UUID]*models.PlayerSettings, len(settings))
	for i := range settings {
		byPlayer[settings[i].PlayerID] = &settings[i]
	}

	out := make([]Pending, 0, len(regs))
	for _, r := range regs {
		out = append(out, Pending{
			Match:        byMatch[r.MatchID],
			Registration: r,
			Settings:     byPlayer[r.PlayerID],
		})
	}
	return out, nil
}

func (s *GormStore) Claim(ctx context.Context, registrationID uuid.UUID, at time.Time) (bool, error) {
	res := s.db.WithContext(ctx).Model(&models.Registration{}).
		Where("id = ? AND status = ? AND reminder_sent_at IS NULL", registrationID, models.RegistrationStatusRegistered).
		Update("reminder_sent_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
