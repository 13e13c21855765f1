package registration

// store.go: persistence for the registration state machine.
// The service only sees the Store and Tx interfaces, so tests run it against an
// in-memory store and production runs it against Postgres through gorm.

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	// gorm is the ORM used to run queries against PostgreSQL
	"gorm.io/gorm"
	// clause builds SQL fragments gorm has no method for, like FOR UPDATE
	"gorm.io/gorm/clause"

	"github.com/PetrH630/hobbyhokej/internal/models"
)

// Store is the persistence the service needs. Every state change runs inside
// WithinMatch, which holds the match lock until fn returns; fn's error rolls back.
type Store interface {
	WithinMatch(ctx context.Context, matchID uuid.UUID, fn func(tx Tx, match *models.Match) error) error
	FindMatch(ctx context.Context, matchID uuid.UUID) (*models.Match, error)
	FindPlayer(ctx context.Context, playerID uuid.UUID) (*models.Player, error)
	ListRegistrations(ctx context.Context, matchID uuid.UUID) ([]models.Registration, error)
	ListHistory(ctx context.Context, matchID uuid.UUID) ([]models.RegistrationHistory, error)
}

// Tx is the view of the store inside one match-locked transaction.
type Tx interface {
	FindPlayer(playerID uuid.UUID) (*models.Player, error)
	// FindRegistration returns nil, nil when the pair has no row.
	FindRegistration(matchID, playerID uuid.UUID) (*models.Registration, error)
	// CountRegistered counts REGISTERED rows of the match, skipping exclude (uuid.Nil skips nobody).
	CountRegistered(matchID, exclude uuid.UUID) (int, error)
	// FindOldestReserve returns the head of the waitlist (QueuedAt, then id) or nil, nil.
	FindOldestReserve(matchID uuid.UUID) (*models.Registration, error)
	// ListRegistrations returns every row of the match with its Player loaded.
	ListRegistrations(matchID uuid.UUID) ([]models.Registration, error)
	CreateRegistration(reg *models.Registration) error
	SaveRegistration(reg *models.Registration) error
	AppendHistory(entry *models.RegistrationHistory) error
	SaveMatch(match *models.Match) error
}

// GormStore implements Store on Postgres. The match row is locked with
// SELECT ... FOR UPDATE, which serializes all registration changes of one match.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore wraps the shared *gorm.DB opened in main.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// WithinMatch runs fn in a database transaction holding the match row lock.
// db.Transaction commits when fn returns nil and rolls back on any error.
func (s *GormStore) WithinMatch(ctx context.Context, matchID uuid.UUID, fn func(tx Tx, match *models.Match) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// SELECT ... FOR UPDATE: a second request for the same match waits here
		// until this transaction ends, so two players can never take the last slot.
		var match models.Match
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&match, "id = ?", matchID).Error
		if err != nil {
			// gorm.ErrRecordNotFound is gorm's "no rows"; turn it into our own 404 error
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
			}
			return fmt.Errorf("lock match: %w", err)
		}
		// Every query fn makes goes through tx so it joins the same transaction
		return fn(gormTx{db: tx}, &match)
	})
}

func (s *GormStore) FindMatch(ctx context.Context, matchID uuid.UUID) (*models.Match, error) {
	var match models.Match
	if err := s.db.WithContext(ctx).First(&match, "id = ?", matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrMatchNotFound, matchID)
		}
		return nil, fmt.Errorf("load match: %w", err)
	}
	return &match, nil
}

func (s *GormStore) FindPlayer(ctx context.Context, playerID uuid.UUID) (*models.Player, error) {
	return gormTx{db: s.db.WithContext(ctx)}.FindPlayer(playerID)
}

func (s *GormStore) ListRegistrations(ctx context.Context, matchID uuid.UUID) ([]models.Registration, error) {
	return gormTx{db: s.db.WithContext(ctx)}.ListRegistrations(matchID)
}

func (s *GormStore) ListHistory(ctx context.Context, matchID uuid.UUID) ([]models.RegistrationHistory, error) {
	var out []models.RegistrationHistory
	err := s.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return out, nil
}

// gormTx implements Tx on a *gorm.DB that is already inside a transaction.
type gormTx struct {
	db *gorm.DB
}

func (t gormTx) FindPlayer(playerID uuid.UUID) (*models.Player, error) {
	var p models.Player
	// Preload("User") also fetches the linked account so callers can check ownership
	if err := t.db.Preload("User").First(&p, "id = ?", playerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, playerID)
		}
		return nil, fmt.Errorf("load player: %w", err)
	}
	return &p, nil
}

func (t gormTx) FindRegistration(matchID, playerID uuid.UUID) (*models.Registration, error) {
	var reg models.Registration
	err := t.db.Where("match_id = ? AND player_id = ?", matchID, playerID).Take(&reg).Error
	// No row is not an error here: it is the NO_RESPONSE state
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load registration: %w", err)
	}
	return &reg, nil
}

func (t gormTx) CountRegistered(matchID, exclude uuid.UUID) (int, error) {
	q := t.db.Model(&models.Registration{}).
		Where("match_id = ? AND status = ?", matchID, models.RegistrationStatusRegistered)
	if exclude != uuid.Nil {
		q = q.Where("player_id <> ?", exclude)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count registered: %w", err)
	}
	return int(n), nil
}

func (t gormTx) FindOldestReserve(matchID uuid.UUID) (*models.Registration, error) {
	var reg models.Registration
	// First come, first served: earliest queue time wins, the id breaks ties
	err := t.db.
		Where("match_id = ? AND status = ?", matchID, models.RegistrationStatusReserve).
		Order("queued_at ASC, id ASC").
		Take(&reg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load oldest reserve: %w", err)
	}
	return &reg, nil
}

func (t gormTx) ListRegistrations(matchID uuid.UUID) ([]models.Registration, error) {
	var out []models.Registration
	err := t.db.Preload("Player").
		Where("match_id = ?", matchID).
		Order("queued_at ASC, id ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return out, nil
}

func (t gormTx) CreateRegistration(reg *models.Registration) error {
	// Omit the association so gorm does not try to upsert the player row.
	if err := t.db.Omit(clause.Associations).Create(reg).Error; err != nil {
		// ErrDuplicatedKey comes from the unique (match_id, player_id) index;
		// database.Connect turns on TranslateError so gorm reports it this way
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateRegistration
		}
		return fmt.Errorf("create registration: %w", err)
	}
	return nil
}

func (t gormTx) SaveRegistration(reg *models.Registration) error {
	// Save writes every column, which is what a state change wants
	if err := t.db.Omit(clause.Associations).Save(reg).Error; err != nil {
		return fmt.Errorf("save registration: %w", err)
	}
	return nil
}

func (t gormTx) AppendHistory(entry *models.RegistrationHistory) error {
	if err := t.db.Create(entry).Error; err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (t gormTx) SaveMatch(match *models.Match) error {
	if err := t.db.Save(match).Error; err != nil {
		return fmt.Errorf("save match: %w", err)
	}
	return nil
}
