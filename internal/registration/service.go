// Package registration is the match registration state machine.
//
// A player's participation on a match is one Registration row whose status moves
// between REGISTERED, RESERVE, EXCUSED, UNREGISTERED and NO_EXCUSED (no row at all
// means NO_RESPONSE). Capacity is enforced when a player asks to play: REGISTERED
// while the match has room, RESERVE otherwise. Freeing a REGISTERED slot promotes
// the head of the waitlist. Every change appends a RegistrationHistory row and
// raises a notification event once the transaction has committed.
package registration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	// zerolog writes structured JSON logs; the logger is handed in by main
	"github.com/rs/zerolog"

	// lineup holds the pure capacity math: slot tables, team balance, auto-lineup
	"github.com/PetrH630/hobbyhokej/internal/lineup"
	"github.com/PetrH630/hobbyhokej/internal/models"
	// notify defines the event types raised after each committed change
	"github.com/PetrH630/hobbyhokej/internal/notify"
)

// History actions.
const (
	ActionCreated   = "CREATED"
	ActionUpdated   = "UPDATED"
	ActionPromoted  = "PROMOTED"
	ActionNoExcused = "NO_EXCUSED"
	ActionPlaced    = "PLACED"
	ActionLineup    = "LINEUP"
)

// Notifier receives events after the change that raised them has committed.
type Notifier interface {
	Notify(ctx context.Context, ev notify.Event)
}

// Service runs every registration change of the app.
type Service struct {
	store    Store
	notifier Notifier
	log      zerolog.Logger
	now      func() time.Time // swapped out in tests for a predictable clock
	newID    func() uuid.UUID
}

// Option customises a Service at construction time.
type Option func(*Service)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces uuid.New for new registration and history rows.
func WithIDGenerator(fn func() uuid.UUID) Option {
	return func(s *Service) { s.newID = fn }
}

// NewService builds the service. notifier may be nil.
func NewService(store Store, notifier Notifier, logger zerolog.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		notifier: notifier,
		log:      logger,
		now:      time.Now,
		newID:    uuid.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpsertRequest is the single create-or-update entry point for players.
// Unregister wins over an excuse; a non-blank ExcuseReason excuses the player;
// otherwise the player asks to play.
type UpsertRequest struct {
	MatchID      uuid.UUID
	PlayerID     uuid.UUID
	Team         *models.Team     // nil keeps the current team or balances a new player
	Position     *models.Position // optional wish, must be free on the team
	ExcuseReason *string
	ExcuseNote   *string
	Unregister   bool
	ActorID      *uuid.UUID
	Origin       models.RegistrationOrigin // defaults to user
}

// Outcome is the state after a change. Promoted is the waitlisted registration that
// took a freed slot, if any.
type Outcome struct {
	Registration models.Registration
	Promoted     *models.Registration
}

// changeSet collects the events raised inside a transaction.
type changeSet struct {
	events []notify.Event
}

func (c *changeSet) raise(t notify.EventType, match models.Match, reg models.Registration) {
	c.events = append(c.events, notify.Event{
		Type:         t,
		PlayerID:     reg.PlayerID,
		Match:        &match,
		Registration: &reg,
	})
}

func (s *Service) publish(ctx context.Context, c changeSet) {
	if s.notifier == nil {
		return
	}
	for _, ev := range c.events {
		s.notifier.Notify(ctx, ev)
	}
}

// Upsert creates or changes the registration of one player on one match.
func (s *Service) Upsert(ctx context.Context, req UpsertRequest) (Outcome, error) {
	// Reject unknown enum values before taking any lock.
	if req.Team != nil && !req.Team.Valid() {
		return Outcome{}, fmt.Errorf("%w: team %q", ErrInvalidInput, *req.Team)
	}
	if req.Position != nil && !req.Position.Valid() {
		return Outcome{}, fmt.Errorf("%w: position %q", ErrInvalidInput, *req.Position)
	}
	origin := req.Origin
	if origin == "" {
		origin = models.OriginUser
	}
	excuse := trimmed(req.ExcuseReason) != nil

	var out Outcome
	var changes changeSet
	// Everything below runs while holding the match lock, so the capacity count
	// cannot change between reading it and writing the new status.
	err := s.store.WithinMatch(ctx, req.MatchID, func(tx Tx, match *models.Match) error {
		if match.Cancelled() {
			return ErrMatchCancelled
		}
		player, err := tx.FindPlayer(req.PlayerID)
		if err != nil {
			return err
		}
		// Only admins may register players whose membership is still pending
		if origin != models.OriginAdmin && player.Status != models.PlayerStatusApproved {
			return ErrPlayerNotApproved
		}
		reg, err := tx.FindRegistration(match.ID, player.ID)
		if err != nil {
			return err
		}
		if req.Unregister && reg == nil {
			return ErrRegistrationNotFound
		}
		all, err := tx.ListRegistrations(match.ID)
		if err != nil {
			return err
		}
		others := entriesExcept(all, player.ID)

		now := s.now().UTC()
		isNew := reg == nil
		var prev *models.RegistrationStatus
		if isNew {
			// First answer for this match: start a row on the smaller team
			reg = &models.Registration{
				ID:       s.newID(),
				MatchID:  match.ID,
				PlayerID: player.ID,
				Team:     lineup.BalancedTeam(others),
				QueuedAt: now,
			}
		} else {
			// Copy the old status so the history row can record where we came from
			p := reg.Status
			prev = &p
		}
		wasRegistered := !isNew && reg.Status == models.RegistrationStatusRegistered
		wasActive := !isNew && reg.Active()
		// Remember the placement so a repeated request that changes nothing stays quiet.
		prevTeam := reg.Team
		prevPosition := reg.Position
		reg.Origin = origin

		// Decide the new status. The order matters: unregister beats an excuse,
		// and an excuse beats a request to play.
		var event notify.EventType
		switch {
		case req.Unregister:
			if reg.Status != models.RegistrationStatusUnregistered {
				event = notify.EventRegistrationCanceled
			}
			reg.Status = models.RegistrationStatusUnregistered
			reg.Position = nil

		case excuse:
			event = notify.EventExcuseCreated
			if prev != nil && *prev == models.RegistrationStatusExcused {
				event = notify.EventExcuseUpdated
			}
			reg.Status = models.RegistrationStatusExcused
			reg.Position = nil
			reg.ExcuseReason = trimmed(req.ExcuseReason)
			reg.ExcuseNote = trimmed(req.ExcuseNote)

		default:
			if !wasActive {
				// Coming back from an excuse or an unregister queues behind everyone.
				reg.QueuedAt = now
				reg.ExcuseReason = nil
				reg.ExcuseNote = nil
			}
			// Count everyone else who holds a slot; a player already REGISTERED keeps theirs
			count, err := tx.CountRegistered(match.ID, player.ID)
			if err != nil {
				return err
			}
			status := models.RegistrationStatusReserve
			if wasRegistered || count < match.MaxPlayers {
				status = models.RegistrationStatusRegistered
			}

			// An explicit team wins; otherwise keep the current one
			team := reg.Team
			if req.Team != nil {
				team = *req.Team
			} else if !team.Valid() {
				team = lineup.BalancedTeam(others)
			}
			if team != reg.Team {
				reg.Position = nil
			}
			reg.Team = team

			if status == models.RegistrationStatusReserve {
				reg.Position = nil
			} else if req.Position != nil && !samePosition(reg.Position, req.Position) {
				if err := checkSlot(match.Mode, others, team, *req.Position); err != nil {
					return err
				}
				p := *req.Position
				reg.Position = &p
			}

			unchanged := prev != nil && *prev == status && team == prevTeam && samePosition(prevPosition, reg.Position)
			switch {
			case unchanged:
				// Same status, team and position: history only, nobody is notified.
			case status == models.RegistrationStatusReserve && prev != nil && *prev == models.RegistrationStatusReserve:
				event = notify.EventRegistrationUpdated
			case status == models.RegistrationStatusReserve:
				event = notify.EventRegistrationReserved
			case wasRegistered:
				event = notify.EventRegistrationUpdated
			case prev != nil && *prev == models.RegistrationStatusReserve:
				event = notify.EventRegistrationPromoted
			default:
				event = notify.EventRegistrationCreated
			}
			reg.Status = status
		}

		// Persist the row, then the audit trail entry for it
		if isNew {
			err = tx.CreateRegistration(reg)
		} else {
			err = tx.SaveRegistration(reg)
		}
		if err != nil {
			return err
		}
		action := ActionUpdated
		if isNew {
			action = ActionCreated
		}
		if err := tx.AppendHistory(s.historyFor(reg, action, prev, req.ActorID, origin, now)); err != nil {
			return err
		}
		if event != "" {
			changes.raise(event, *match, *reg)
		}

		// Leaving a REGISTERED slot hands it to the head of the waitlist
		if wasRegistered && reg.Status != models.RegistrationStatusRegistered {
			promoted, err := s.promote(tx, match, now, &changes)
			if err != nil {
				return err
			}
			out.Promoted = promoted
		}
		out.Registration = *reg
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	// Notify only after commit: a rolled-back change must not send an email
	s.publish(ctx, changes)
	return out, nil
}

// promote moves the head of the waitlist into a free slot. The occupancy is counted
// again so a slot is only handed out when the match really has room.
func (s *Service) promote(tx Tx, match *models.Match, now time.Time, changes *changeSet) (*models.Registration, error) {
	count, err := tx.CountRegistered(match.ID, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if count >= match.MaxPlayers {
		return nil, nil
	}
	next, err := tx.FindOldestReserve(match.ID)
	if err != nil || next == nil {
		return nil, err
	}
	// The team picked while waiting is only provisional: if the players who left
	// emptied the other side, the promoted player moves over to keep teams even.
	all, err := tx.ListRegistrations(match.ID)
	if err != nil {
		return nil, err
	}
	prev := next.Status
	next.Status = models.RegistrationStatusRegistered
	next.Team = lineup.BalancedTeamFor(entriesExcept(all, next.PlayerID), next.Team)
	next.Origin = models.OriginSystem
	next.Position = nil
	if err := tx.SaveRegistration(next); err != nil {
		return nil, err
	}
	if err := tx.AppendHistory(s.historyFor(next, ActionPromoted, &prev, nil, models.OriginSystem, now)); err != nil {
		return nil, err
	}
	changes.raise(notify.EventRegistrationPromoted, *match, *next)
	s.log.Info().
		Str("match_id", match.ID.String()).
		Str("player_id", next.PlayerID.String()).
		Msg("reserve promoted")
	return next, nil
}

// promoteAll promotes reserves until the match is full or the waitlist is empty.
func (s *Service) promoteAll(tx Tx, match *models.Match, now time.Time, changes *changeSet) ([]models.Registration, error) {
	var promoted []models.Registration
	for {
		next, err := s.promote(tx, match, now, changes)
		if err != nil {
			return nil, err
		}
		if next == nil {
			return promoted, nil
		}
		promoted = append(promoted, *next)
	}
}

// NoExcusedRequest marks an unexcused absence.
type NoExcusedRequest struct {
	MatchID   uuid.UUID
	PlayerID  uuid.UUID
	AdminNote *string
	ActorID   *uuid.UUID
}

// MarkNoExcused records that the player missed the match without an excuse. It works
// from any state, including NO_EXCUSED itself, and is rejected on a cancelled match.
func (s *Service) MarkNoExcused(ctx context.Context, req NoExcusedRequest) (Outcome, error) {
	var out Outcome
	var changes changeSet
	err := s.store.WithinMatch(ctx, req.MatchID, func(tx Tx, match *models.Match) error {
		if match.Cancelled() {
			return ErrMatchCancelled
		}
		player, err := tx.FindPlayer(req.PlayerID)
		if err != nil {
			return err
		}
		reg, err := tx.FindRegistration(match.ID, player.ID)
		if err != nil {
			return err
		}
		now := s.now().UTC()
		isNew := reg == nil
		var prev *models.RegistrationStatus
		if isNew {
			all, err := tx.ListRegistrations(match.ID)
			if err != nil {
				return err
			}
			reg = &models.Registration{
				ID:       s.newID(),
				MatchID:  match.ID,
				PlayerID: player.ID,
				Team:     lineup.BalancedTeam(entriesExcept(all, player.ID)),
				QueuedAt: now,
			}
		} else {
			p := reg.Status
			prev = &p
		}
		wasRegistered := !isNew && reg.Status == models.RegistrationStatusRegistered

		reg.Status = models.RegistrationStatusNoExcused
		reg.Position = nil
		reg.Origin = models.OriginAdmin
		if note := trimmed(req.AdminNote); note != nil {
			reg.AdminNote = note
		}

		if isNew {
			err = tx.CreateRegistration(reg)
		} else {
			err = tx.SaveRegistration(reg)
		}
		if err != nil {
			return err
		}
		if err := tx.AppendHistory(s.historyFor(reg, ActionNoExcused, prev, req.ActorID, models.OriginAdmin, now)); err != nil {
			return err
		}
		changes.raise(notify.EventNoExcusedMarked, *match, *reg)

		if wasRegistered {
			promoted, err := s.promote(tx, match, now, &changes)
			if err != nil {
				return err
			}
			out.Promoted = promoted
		}
		out.Registration = *reg
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	s.publish(ctx, changes)
	return out, nil
}

// PlaceRequest moves an active player to a team and, for REGISTERED players, a position.
type PlaceRequest struct {
	MatchID  uuid.UUID
	PlayerID uuid.UUID
	Team     models.Team
	Position *models.Position // nil leaves the player unplaced on the team
	ActorID  *uuid.UUID
}

// Place is the manual counterpart of GenerateLineup.
func (s *Service) Place(ctx context.Context, req PlaceRequest) (models.Registration, error) {
	if !req.Team.Valid() {
		return models.Registration{}, fmt.Errorf("%w: team %q", ErrInvalidInput, req.Team)
	}
	if req.Position != nil && !req.Position.Valid() {
		return models.Registration{}, fmt.Errorf("%w: position %q", ErrInvalidInput, *req.Position)
	}

	var out models.Registration
	var changes changeSet
	err := s.store.WithinMatch(ctx, req.MatchID, func(tx Tx, match *models.Match) error {
		if match.Cancelled() {
			return ErrMatchCancelled
		}
		reg, err := tx.FindRegistration(match.ID, req.PlayerID)
		if err != nil {
			return err
		}
		if reg == nil {
			return ErrRegistrationNotFound
		}
		if !reg.Active() {
			return ErrNotActive
		}
		if reg.Status == models.RegistrationStatusReserve && req.Position != nil {
			return fmt.Errorf("%w: players on the waitlist hold no position", ErrPositionUnavailable)
		}
		if reg.Team == req.Team && samePosition(reg.Position, req.Position) {
			out = *reg
			return nil
		}
		if req.Position != nil {
			all, err := tx.ListRegistrations(match.ID)
			if err != nil {
				return err
			}
			if err := checkSlot(match.Mode, entriesExcept(all, reg.PlayerID), req.Team, *req.Position); err != nil {
				return err
			}
		}

		now := s.now().UTC()
		prev := reg.Status
		reg.Team = req.Team
		reg.Position = nil
		if req.Position != nil {
			p := *req.Position
			reg.Position = &p
		}
		reg.Origin = models.OriginAdmin
		if err := tx.SaveRegistration(reg); err != nil {
			return err
		}
		if err := tx.AppendHistory(s.historyFor(reg, ActionPlaced, &prev, req.ActorID, models.OriginAdmin, now)); err != nil {
			return err
		}
		changes.raise(notify.EventPositionChanged, *match, *reg)
		out = *reg
		return nil
	})
	if err != nil {
		return models.Registration{}, err
	}
	s.publish(ctx, changes)
	return out, nil
}

// GenerateLineup places REGISTERED players with the auto-lineup and stores the result.
func (s *Service) GenerateLineup(ctx context.Context, matchID uuid.UUID, strategy lineup.Strategy, actorID *uuid.UUID) (lineup.Result, error) {
	var res lineup.Result
	var changes changeSet
	err := s.store.WithinMatch(ctx, matchID, func(tx Tx, match *models.Match) error {
		if match.Cancelled() {
			return ErrMatchCancelled
		}
		all, err := tx.ListRegistrations(match.ID)
		if err != nil {
			return err
		}
		byID := make(map[uuid.UUID]*models.Registration, len(all))
		var candidates []lineup.Candidate
		for i := range all {
			reg := &all[i]
			if reg.Status != models.RegistrationStatusRegistered {
				continue
			}
			byID[reg.ID] = reg
			c := lineup.Candidate{
				RegistrationID: reg.ID,
				PlayerID:       reg.PlayerID,
				Team:           reg.Team,
				Position:       reg.Position,
				QueuedAt:       reg.QueuedAt,
			}
			if reg.Player != nil {
				c.Primary = reg.Player.PrimaryPosition
				c.Secondary = reg.Player.SecondaryPosition
			}
			candidates = append(candidates, c)
		}

		res = lineup.Generate(match.Mode, candidates, strategy)

		origin := models.OriginSystem
		if actorID != nil {
			origin = models.OriginAdmin
		}
		now := s.now().UTC()
		for _, a := range res.Assignments {
			reg := byID[a.RegistrationID]
			if reg == nil {
				continue
			}
			prev := reg.Status
			reg.Team = a.Team
			reg.Position = a.Position
			reg.Origin = origin
			if err := tx.SaveRegistration(reg); err != nil {
				return err
			}
			if err := tx.AppendHistory(s.historyFor(reg, ActionLineup, &prev, actorID, origin, now)); err != nil {
				return err
			}
			changes.raise(notify.EventPositionChanged, *match, *reg)
		}
		return nil
	})
	if err != nil {
		return lineup.Result{}, err
	}
	s.log.Info().
		Str("match_id", matchID.String()).
		Int("placed", len(res.Assignments)).
		Int("unplaced", len(res.Unplaced)).
		Msg("lineup generated")
	s.publish(ctx, changes)
	return res, nil
}

// CancelMatch calls the match off and tells everyone who was playing or waiting.
// Cancelling a cancelled match changes nothing.
func (s *Service) CancelMatch(ctx context.Context, matchID uuid.UUID, reason *string) (models.Match, error) {
	return s.setCancelled(ctx, matchID, true, trimmed(reason))
}

// UncancelMatch puts a cancelled match back on the schedule.
func (s *Service) UncancelMatch(ctx context.Context, matchID uuid.UUID) (models.Match, error) {
	return s.setCancelled(ctx, matchID, false, nil)
}

// setCancelled flips the match status and tells every active player about it.
func (s *Service) setCancelled(ctx context.Context, matchID uuid.UUID, cancel bool, reason *string) (models.Match, error) {
	var out models.Match
	var changes changeSet
	err := s.store.WithinMatch(ctx, matchID, func(tx Tx, match *models.Match) error {
		// Already in the requested state: nothing to save, nobody to tell
		if match.Cancelled() == cancel {
			out = *match
			return nil
		}
		event := notify.EventMatchUncanceled
		match.Status = models.MatchStatusScheduled
		match.CancelReason = nil
		if cancel {
			event = notify.EventMatchCanceled
			match.Status = models.MatchStatusCancelled
			match.CancelReason = reason
		}
		if err := tx.SaveMatch(match); err != nil {
			return err
		}
		all, err := tx.ListRegistrations(match.ID)
		if err != nil {
			return err
		}
		for _, reg := range all {
			if reg.Active() {
				changes.raise(event, *match, reg)
			}
		}
		if !cancel {
			// Capacity may have grown while the match was off; fill it from the waitlist
			// before anyone new can register.
			if _, err := s.promoteAll(tx, match, s.now().UTC(), &changes); err != nil {
				return err
			}
		}
		out = *match
		return nil
	})
	if err != nil {
		return models.Match{}, err
	}
	s.publish(ctx, changes)
	return out, nil
}

// SetCapacity changes maxPlayers. Raising it promotes waitlisted players into the new
// slots; lowering it below the number of REGISTERED players is refused.
func (s *Service) SetCapacity(ctx context.Context, matchID uuid.UUID, maxPlayers int) (models.Match, []models.Registration, error) {
	if maxPlayers < 1 {
		return models.Match{}, nil, fmt.Errorf("%w: max players must be positive", ErrInvalidInput)
	}
	var out models.Match
	var promoted []models.Registration
	var changes changeSet
	err := s.store.WithinMatch(ctx, matchID, func(tx Tx, match *models.Match) error {
		// uuid.Nil excludes nobody from the count
		count, err := tx.CountRegistered(match.ID, uuid.Nil)
		if err != nil {
			return err
		}
		// Shrinking below the registered count would need demotions, which we never do
		if count > maxPlayers {
			return fmt.Errorf("%w: %d players registered, capacity %d", ErrCapacityConflict, count, maxPlayers)
		}
		match.MaxPlayers = maxPlayers
		if err := tx.SaveMatch(match); err != nil {
			return err
		}
		out = *match
		// A cancelled match keeps its waitlist until UncancelMatch promotes it.
		if match.Cancelled() {
			return nil
		}
		promoted, err = s.promoteAll(tx, match, s.now().UTC(), &changes)
		return err
	})
	if err != nil {
		return models.Match{}, nil, err
	}
	s.publish(ctx, changes)
	return out, promoted, nil
}

// StatusOf returns the player's status on the match; NO_RESPONSE when there is no row.
func (s *Service) StatusOf(ctx context.Context, matchID, playerID uuid.UUID) (models.RegistrationStatus, error) {
	regs, err := s.List(ctx, matchID)
	if err != nil {
		return "", err
	}
	for _, r := range regs {
		if r.PlayerID == playerID {
			return r.Status, nil
		}
	}
	if _, err := s.store.FindPlayer(ctx, playerID); err != nil {
		return "", err
	}
	return models.RegistrationStatusNoResponse, nil
}

// List returns every registration row of the match in queue order.
func (s *Service) List(ctx context.Context, matchID uuid.UUID) ([]models.Registration, error) {
	if _, err := s.store.FindMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.store.ListRegistrations(ctx, matchID)
}

// History returns the audit trail of the match, oldest first.
func (s *Service) History(ctx context.Context, matchID uuid.UUID) ([]models.RegistrationHistory, error) {
	if _, err := s.store.FindMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return s.store.ListHistory(ctx, matchID)
}

// Player loads a player, used by the HTTP layer for ownership checks.
func (s *Service) Player(ctx context.Context, playerID uuid.UUID) (*models.Player, error) {
	return s.store.FindPlayer(ctx, playerID)
}

// Overview is the occupancy of both teams.
func (s *Service) Overview(ctx context.Context, matchID uuid.UUID, includeReserve bool) (lineup.MatchOverview, error) {
	match, err := s.store.FindMatch(ctx, matchID)
	if err != nil {
		return lineup.MatchOverview{}, err
	}
	regs, err := s.store.ListRegistrations(ctx, matchID)
	if err != nil {
		return lineup.MatchOverview{}, err
	}
	return lineup.Overview(match.Mode, match.MaxPlayers, entriesExcept(regs, uuid.Nil), includeReserve), nil
}

// TeamOverview is the occupancy of one team.
func (s *Service) TeamOverview(ctx context.Context, matchID uuid.UUID, team models.Team, includeReserve bool) (lineup.TeamOverview, error) {
	if !team.Valid() {
		return lineup.TeamOverview{}, fmt.Errorf("%w: team %q", ErrInvalidInput, team)
	}
	match, err := s.store.FindMatch(ctx, matchID)
	if err != nil {
		return lineup.TeamOverview{}, err
	}
	regs, err := s.store.ListRegistrations(ctx, matchID)
	if err != nil {
		return lineup.TeamOverview{}, err
	}
	return lineup.TeamView(match.Mode, team, entriesExcept(regs, uuid.Nil), includeReserve), nil
}

func (s *Service) historyFor(reg *models.Registration, action string, prev *models.RegistrationStatus, actor *uuid.UUID, origin models.RegistrationOrigin, now time.Time) *models.RegistrationHistory {
	return &models.RegistrationHistory{
		ID:             s.newID(),
		RegistrationID: reg.ID,
		MatchID:        reg.MatchID,
		PlayerID:       reg.PlayerID,
		Action:         action,
		PreviousStatus: prev,
		NewStatus:      reg.Status,
		Team:           reg.Team,
		Position:       reg.Position,
		ActorID:        actor,
		Origin:         origin,
		CreatedAt:      now,
	}
}

// checkSlot verifies p exists in the mode and still has room on team among others.
func checkSlot(mode models.MatchMode, others []lineup.Entry, team models.Team, p models.Position) error {
	if lineup.Slots(mode)[p] == 0 {
		return fmt.Errorf("%w: %s is not played in %s", ErrPositionUnavailable, p, mode)
	}
	if !lineup.HasFreeSlot(mode, others, team, p) {
		return fmt.Errorf("%w: no free %s slot on team %s", ErrPositionUnavailable, p, team)
	}
	return nil
}

// entriesExcept converts registrations to allocator entries, leaving out playerID.
func entriesExcept(regs []models.Registration, playerID uuid.UUID) []lineup.Entry {
	out := make([]lineup.Entry, 0, len(regs))
	for _, r := range regs {
		if r.PlayerID == playerID {
			continue
		}
		out = append(out, lineup.Entry{
			PlayerID: r.PlayerID,
			Status:   r.Status,
			Team:     r.Team,
			Position: r.Position,
		})
	}
	return out
}

// samePosition compares two optional positions; two nils are equal.
func samePosition(a, b *models.Position) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// trimmed returns nil for a missing or blank string, else the trimmed copy.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
