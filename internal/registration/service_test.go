package registration

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PetrH630/hobbyhokej/internal/lineup"
	"github.com/PetrH630/hobbyhokej/internal/models"
	"github.com/PetrH630/hobbyhokej/internal/notify"
)

type fixture struct {
	store    *memStore
	notifier *recordingNotifier
	svc      *Service
	match    models.Match
}

func newFixture(t *testing.T, mode models.MatchMode, maxPlayers int, opts ...Option) *fixture {
	t.Helper()
	store := newMemStore()
	match := models.Match{
		ID:         uuid.New(),
		StartsAt:   time.Date(2026, time.February, 1, 19, 0, 0, 0, time.UTC),
		Location:   "Zimni stadion",
		MaxPlayers: maxPlayers,
		Mode:       mode,
		Status:     models.MatchStatusScheduled,
	}
	store.matches[match.ID] = match
	notifier := &recordingNotifier{}
	clock := newTickingClock()
	ids := &sequentialIDs{}
	base := []Option{WithClock(clock.Now), WithIDGenerator(ids.Next)}
	svc := NewService(store, notifier, zerolog.Nop(), append(base, opts...)...)
	return &fixture{store: store, notifier: notifier, svc: svc, match: match}
}

func (f *fixture) addPlayer(first string, primary *models.Position) uuid.UUID {
	p := models.Player{
		ID:              uuid.New(),
		FirstName:       first,
		LastName:        "Test",
		Status:          models.PlayerStatusApproved,
		PrimaryPosition: primary,
	}
	f.store.players[p.ID] = p
	return p.ID
}

func (f *fixture) addPlayers(n int) []uuid.UUID {
	ids := make([]uuid.UUID, n)
	for i := range ids {
		ids[i] = f.addPlayer("P", nil)
	}
	return ids
}

func (f *fixture) register(t *testing.T, playerID uuid.UUID) Outcome {
	t.Helper()
	out, err := f.svc.Upsert(context.Background(), UpsertRequest{MatchID: f.match.ID, PlayerID: playerID})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return out
}

func posPtr(p models.Position) *models.Position { return &p }
func teamPtr(t models.Team) *models.Team         { return &t }
func strPtr(s string) *string                    { return &s }

func TestUpsertFillsCapacityThenWaitlists(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 4)
	players := f.addPlayers(6)
	for i, id := range players {
		out := f.register(t, id)
		want := models.RegistrationStatusRegistered
		if i >= 4 {
			want = models.RegistrationStatusReserve
		}
		if out.Registration.Status != want {
			t.Fatalf("player %d status = %s, want %s", i+1, out.Registration.Status, want)
		}
	}
	got := f.notifier.types()
	if got[0] != notify.EventRegistrationCreated || got[5] != notify.EventRegistrationReserved {
		t.Fatalf("events = %v", got)
	}
}

func TestPromotionAndRequeue(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 4)
	p := f.addPlayers(5)
	for _, id := range p {
		f.register(t, id)
	}
	if s := f.store.status(f.match.ID, p[4]); s != models.RegistrationStatusReserve {
		t.Fatalf("P5 = %s, want RESERVE", s)
	}

	f.notifier.reset()
	out, err := f.svc.Upsert(context.Background(), UpsertRequest{MatchID: f.match.ID, PlayerID: p[0], Unregister: true})
	if err != nil {
		t.Fatalf("unregister P1: %v", err)
	}
	if out.Registration.Status != models.RegistrationStatusUnregistered {
		t.Fatalf("P1 = %s, want UNREGISTERED", out.Registration.Status)
	}
	if out.Promoted == nil || out.Promoted.PlayerID != p[4] {
		t.Fatalf("promoted = %+v, want P5", out.Promoted)
	}
	if s := f.store.status(f.match.ID, p[4]); s != models.RegistrationStatusRegistered {
		t.Fatalf("P5 = %s, want REGISTERED", s)
	}
	events := f.notifier.types()
	if len(events) != 2 || events[0] != notify.EventRegistrationCanceled || events[1] != notify.EventRegistrationPromoted {
		t.Fatalf("events = %v, want [CANCELED PROMOTED]", events)
	}

	again := f.register(t, p[0])
	if again.Registration.Status != models.RegistrationStatusReserve {
		t.Fatalf("P1 re-registered as %s, want RESERVE", again.Registration.Status)
	}
	if n := f.store.countStatus(f.match.ID, models.RegistrationStatusRegistered); n != 4 {
		t.Fatalf("registered = %d, want 4", n)
	}
}

func TestExcuseFreesSlotForOldestReserve(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 2)
	p := f.addPlayers(4)
	for _, id := range p {
		f.register(t, id)
	}

	out, err := f.svc.Upsert(context.Background(), UpsertRequest{
		MatchID: f.match.ID, PlayerID: p[1],
		ExcuseReason: strPtr("work"), ExcuseNote: strPtr("  late shift "),
	})
	if err != nil {
		t.Fatalf("excuse: %v", err)
	}
	if out.Registration.Status != models.RegistrationStatusExcused {
		t.Fatalf("status = %s, want EXCUSED", out.Registration.Status)
	}
	if out.Registration.ExcuseNote == nil || *out.Registration.ExcuseNote != "late shift" {
		t.Fatalf("excuse note = %v", out.Registration.ExcuseNote)
	}
	if out.Promoted == nil || out.Promoted.PlayerID != p[2] {
		t.Fatalf("promoted = %+v, want the third player", out.Promoted)
	}
	if s := f.store.status(f.match.ID, p[3]); s != models.RegistrationStatusReserve {
		t.Fatalf("fourth player = %s, want still RESERVE", s)
	}
}

func TestExcusingAReserveFreesNothing(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 1)
	p := f.addPlayers(3)
	for _, id := range p {
		f.register(t, id)
	}
	out, err := f.svc.Upsert(context.Background(), UpsertRequest{MatchID: f.match.ID, PlayerID: p[1], ExcuseReason: strPtr("ill")})
	if err != nil {
		t.Fatalf("excuse: %v", err)
	}
	if out.Promoted != nil {
		t.Fatalf("promoted %+v after a reserve excused", out.Promoted)
	}
	if s := f.store.status(f.match.ID, p[2]); s != models.RegistrationStatusReserve {
		t.Fatalf("third player = %s, want RESERVE", s)
	}
}

func TestUpsertIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeFiveOnFiveNoGoalie, 10)
	id := f.addPlayer("Jan", nil)
	req := UpsertRequest{MatchID: f.match.ID, PlayerID: id, Team: teamPtr(models.TeamDark)}

	for i := 0; i < 2; i++ {
		out, err := f.svc.Upsert(context.Background(), req)
		if err != nil {
			t.Fatalf("upsert %d: %v", i+1, err)
		}
		if out.Registration.Status != models.RegistrationStatusRegistered {
			t.Fatalf("upsert %d status = %s, want REGISTERED", i+1, out.Registration.Status)
		}
	}
	hist, err := f.svc.History(context.Background(), f.match.ID)
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("history rows = %d, want 2", len(hist))
	}
	if hist[0].Action != ActionCreated || hist[0].PreviousStatus != nil {
		t.Fatalf("first history row = %+v", hist[0])
	}
	if hist[1].Action != ActionUpdated || *hist[1].PreviousStatus != models.RegistrationStatusRegistered {
		t.Fatalf("second history row = %+v", hist[1])
	}
	// The repeat changed nothing, so only the first upsert notified the player.
	if got := f.notifier.types(); len(got) != 1 || got[0] != notify.EventRegistrationCreated {
		t.Fatalf("events = %v, want [CREATED]", got)
	}

	// Switching team is a real change and is announced.
	f.notifier.reset()
	req.Team = teamPtr(models.TeamLight)
	if _, err := f.svc.Upsert(context.Background(), req); err != nil {
		t.Fatalf("team switch: %v", err)
	}
	if got := f.notifier.types(); len(got) != 1 || got[0] != notify.EventRegistrationUpdated {
		t.Fatalf("events = %v, want [UPDATED]", got)
	}
}

func TestCapacityInvariantUnderConcurrency(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeFourOnFourNoGoalie, 8)
	players := f.addPlayers(20)

	var wg sync.WaitGroup
	for _, id := range players {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()
			_, _ = f.svc.Upsert(context.Background(), UpsertRequest{MatchID: f.match.ID, PlayerID: id})
		}(id)
	}
	wg.Wait()

	if n := f.store.countStatus(f.match.ID, models.RegistrationStatusRegistered); n != 8 {
		t.Fatalf("registered = %d, want 8", n)
	}
	if n := f.store.countStatus(f.match.ID, models.RegistrationStatusReserve); n != 12 {
		t.Fatalf("reserve = %d, want 12", n)
	}
}

func TestCapacityInvariantAcrossRandomOperations(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 5)
	players := f.addPlayers(9)
	rng := rand.New(rand.NewSource(7))
	ctx := context.Background()

	for step := 0; step < 500; step++ {
		id := players[rng.Intn(len(players))]
		var err error
		switch op := rng.Intn(20); {
		case op == 0:
			_, err = f.svc.CancelMatch(ctx, f.match.ID, nil)
		case op == 1:
			_, err = f.svc.UncancelMatch(ctx, f.match.ID)
		case op == 2:
			_, _, err = f.svc.SetCapacity(ctx, f.match.ID, 2+rng.Intn(6))
		case op == 3:
			_, err = f.svc.MarkNoExcused(ctx, NoExcusedRequest{MatchID: f.match.ID, PlayerID: id})
		default:
			req := UpsertRequest{MatchID: f.match.ID, PlayerID: id}
			switch rng.Intn(4) {
			case 0:
				req.Unregister = true
			case 1:
				req.ExcuseReason = strPtr("busy")
			}
			_, err = f.svc.Upsert(ctx, req)
		}
		if err != nil && !errors.Is(err, ErrRegistrationNotFound) && !errors.Is(err, ErrMatchCancelled) && !errors.Is(err, ErrCapacityConflict) {
			t.Fatalf("step %d: %v", step, err)
		}

		match, err := f.store.FindMatch(ctx, f.match.ID)
		if err != nil {
			t.Fatalf("step %d: FindMatch: %v", step, err)
		}
		registered := f.store.countStatus(f.match.ID, models.RegistrationStatusRegistered)
		if registered > match.MaxPlayers {
			t.Fatalf("step %d: registered = %d exceeds capacity %d", step, registered, match.MaxPlayers)
		}
		// A cancelled match may hold reserves back; everywhere else the waitlist only
		// exists while the match is full.
		if match.Cancelled() {
			continue
		}
		if reserve := f.store.countStatus(f.match.ID, models.RegistrationStatusReserve); reserve > 0 && registered < match.MaxPlayers {
			t.Fatalf("step %d: %d reserves wait while %d of %d slots are taken", step, reserve, registered, match.MaxPlayers)
		}
	}
}

func TestUncancelPromotesIntoCapacityAddedWhileCancelled(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 1)
	p := f.addPlayers(3)
	f.register(t, p[0])
	f.register(t, p[1])
	ctx := context.Background()

	if _, err := f.svc.CancelMatch(ctx, f.match.ID, nil); err != nil {
		t.Fatalf("CancelMatch: %v", err)
	}
	_, promoted, err := f.svc.SetCapacity(ctx, f.match.ID, 2)
	if err != nil {
		t.Fatalf("SetCapacity: %v", err)
	}
	if len(promoted) != 0 {
		t.Fatalf("promoted on a cancelled match: %+v", promoted)
	}
	f.notifier.reset()

	if _, err := f.svc.UncancelMatch(ctx, f.match.ID); err != nil {
		t.Fatalf("UncancelMatch: %v", err)
	}
	if s := f.store.status(f.match.ID, p[1]); s != models.RegistrationStatusRegistered {
		t.Fatalf("waiting player after uncancel = %s, want REGISTERED", s)
	}
	promotedEvent := false
	for _, et := range f.notifier.types() {
		if et == notify.EventRegistrationPromoted {
			promotedEvent = true
		}
	}
	if !promotedEvent {
		t.Fatalf("events = %v, want a REGISTRATION_PROMOTED", f.notifier.types())
	}

	// The newcomer queues behind the player who was already waiting.
	if got := f.register(t, p[2]).Registration.Status; got != models.RegistrationStatusReserve {
		t.Fatalf("newcomer = %s, want RESERVE", got)
	}
}

func TestPromotionKeepsTeamsEven(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 6)
	p := f.addPlayers(8)
	for _, id := range p {
		f.register(t, id)
	}
	ctx := context.Background()

	// Both reserves queued while the teams were tied, so they wait on LIGHT.
	regs, err := f.svc.List(ctx, f.match.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, r := range regs {
		if r.Status == models.RegistrationStatusReserve && r.Team != models.TeamLight {
			t.Fatalf("reserve %s waits on %s, want LIGHT", r.PlayerID, r.Team)
		}
	}

	// Two DARK players leave and the reserves take their places.
	for _, id := range []uuid.UUID{p[1], p[3]} {
		if _, err := f.svc.Upsert(ctx, UpsertRequest{MatchID: f.match.ID, PlayerID: id, Unregister: true}); err != nil {
			t.Fatalf("unregister: %v", err)
		}
	}

	ov, err := f.svc.Overview(ctx, f.match.ID, false)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if light, dark := ov.Team(models.TeamLight).Players, ov.Team(models.TeamDark).Players; light != 3 || dark != 3 {
		t.Fatalf("teams LIGHT %d / DARK %d, want 3 / 3", light, dark)
	}

	res, err := f.svc.GenerateLineup(ctx, f.match.ID, lineup.FillUnassigned, nil)
	if err != nil {
		t.Fatalf("GenerateLineup: %v", err)
	}
	if len(res.Assignments) != 6 || len(res.Unplaced) != 0 {
		t.Fatalf("placed %d, unplaced %d, want 6 and 0", len(res.Assignments), len(res.Unplaced))
	}
}

func TestWaitlistTieBreaksOnID(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, time.January, 10, 18, 0, 0, 0, time.UTC)
	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 1, WithClock(func() time.Time { return fixed }))
	p := f.addPlayers(3)
	f.register(t, p[0])
	first := f.register(t, p[1]).Registration
	second := f.register(t, p[2]).Registration
	if !first.QueuedAt.Equal(second.QueuedAt) {
		t.Fatal("reserves should share a queue timestamp in this test")
	}
	want := first.PlayerID
	if second.ID.String() < first.ID.String() {
		want = second.PlayerID
	}

	out, err := f.svc.Upsert(context.Background(), UpsertRequest{MatchID: f.match.ID, PlayerID: p[0], Unregister: true})
	if err != nil {
		t.Fatalf("unregister: %v", err)
	}
	if out.Promoted == nil || out.Promoted.PlayerID != want {
		t.Fatalf("promoted = %+v, want player %s", out.Promoted, want)
	}
}

func TestUpsertNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 4)
	known := f.addPlayer("Jan", nil)
	ctx := context.Background()

	_, err := f.svc.Upsert(ctx, UpsertRequest{MatchID: uuid.New(), PlayerID: known})
	if !errors.Is(err, ErrMatchNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown match err = %v", err)
	}
	_, err = f.svc.Upsert(ctx, UpsertRequest{MatchID: f.match.ID, PlayerID: uuid.New()})
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("unknown player err = %v", err)
	}
	_, err = f.svc.Upsert(ctx, UpsertRequest{MatchID: f.match.ID, PlayerID: known, Unregister: true})
	if !errors.Is(err, ErrRegistrationNotFound) {
		t.Fatalf("unregister without row err = %v", err)
	}
	if len(f.notifier.types()) != 0 {
		t.Fatal("failed operations raised events")
	}
}

func TestCancelledMatchRejectsChanges(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 4)
	p := f.addPlayers(2)
	f.register(t, p[0])
	ctx := context.Background()

	if _, err := f.svc.CancelMatch(ctx, f.match.ID, strPtr("no ice")); err != nil {
		t.Fatalf("CancelMatch: %v", err)
	}
	_, err := f.svc.Upsert(ctx, UpsertRequest{MatchID: f.match.ID, PlayerID: p[1]})
	if !errors.Is(err, ErrMatchCancelled) || !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("upsert err = %v, want ErrMatchCancelled", err)
	}
	_, err = f.svc.MarkNoExcused(ctx, NoExcusedRequest{MatchID: f.match.ID, PlayerID: p[0]})
	if !errors.Is(err, ErrMatchCancelled) {
		t.Fatalf("no-excused err = %v, want ErrMatchCancelled", err)
	}
	if _, err := f.svc.GenerateLineup(ctx, f.match.ID, lineup.FillUnassigned, nil); !errors.Is(err, ErrMatchCancelled) {
		t.Fatalf("lineup err = %v, want ErrMatchCancelled", err)
	}
}

func TestPlayerMustBeApproved(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 4)
	id := f.addPlayer("Pending", nil)
	p := f.store.players[id]
	p.Status = models.PlayerStatusPending
	f.store.players[id] = p

	_, err := f.svc.Upsert(context.Background(), UpsertRequest{MatchID: f.match.ID, PlayerID: id})
	if !errors.Is(err, ErrPlayerNotApproved) {
		t.Fatalf("err = %v, want ErrPlayerNotApproved", err)
	}
	out, err := f.svc.Upsert(context.Background(), UpsertRequest{MatchID: f.match.ID, PlayerID: id, Origin: models.OriginAdmin})
	if err != nil {
		t.Fatalf("admin upsert: %v", err)
	}
	if out.Registration.Origin != models.OriginAdmin {
		t.Fatalf("origin = %s, want admin", out.Registration.Origin)
	}
}

func TestMarkNoExcused(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 1)
	p := f.addPlayers(3)
	f.register(t, p[0])
	f.register(t, p[1])
	ctx := context.Background()

	out, err := f.svc.MarkNoExcused(ctx, NoExcusedRequest{MatchID: f.match.ID, PlayerID: p[0], AdminNote: strPtr("did not show")})
	if err != nil {
		t.Fatalf("MarkNoExcused: %v", err)
	}
	if out.Registration.Status != models.RegistrationStatusNoExcused || *out.Registration.AdminNote != "did not show" {
		t.Fatalf("registration = %+v", out.Registration)
	}
	if out.Promoted == nil || out.Promoted.PlayerID != p[1] {
		t.Fatalf("promoted = %+v, want second player", out.Promoted)
	}

	if _, err := f.svc.MarkNoExcused(ctx, NoExcusedRequest{MatchID: f.match.ID, PlayerID: p[0]}); err != nil {
		t.Fatalf("repeat MarkNoExcused: %v", err)
	}
	if s := f.store.status(f.match.ID, p[0]); s != models.RegistrationStatusNoExcused {
		t.Fatalf("status = %s, want NO_EXCUSED", s)
	}

	// No row yet: the mark creates one.
	out, err = f.svc.MarkNoExcused(ctx, NoExcusedRequest{MatchID: f.match.ID, PlayerID: p[2]})
	if err != nil {
		t.Fatalf("MarkNoExcused without row: %v", err)
	}
	if out.Registration.Status != models.RegistrationStatusNoExcused || out.Promoted != nil {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestTeamsAreBalancedAndPositionsChecked(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeFourOnFourNoGoalie, 8)
	p := f.addPlayers(5)
	ctx := context.Background()

	if got := f.register(t, p[0]).Registration.Team; got != models.TeamLight {
		t.Fatalf("first team = %s, want LIGHT", got)
	}
	if got := f.register(t, p[1]).Registration.Team; got != models.TeamDark {
		t.Fatalf("second team = %s, want DARK", got)
	}

	for _, id := range p[2:4] {
		_, err := f.svc.Upsert(ctx, UpsertRequest{MatchID: f.match.ID, PlayerID: id, Team: teamPtr(models.TeamLight), Position: posPtr(models.PositionDefense)})
		if err != nil {
			t.Fatalf("defense upsert: %v", err)
		}
	}
	_, err := f.svc.Upsert(ctx, UpsertRequest{MatchID: f.match.ID, PlayerID: p[4], Team: teamPtr(models.TeamLight), Position: posPtr(models.PositionDefense)})
	if !errors.Is(err, ErrPositionUnavailable) {
		t.Fatalf("third defense err = %v, want ErrPositionUnavailable", err)
	}
	_, err = f.svc.Upsert(ctx, UpsertRequest{MatchID: f.match.ID, PlayerID: p[4], Position: posPtr(models.PositionGoalie)})
	if !errors.Is(err, ErrPositionUnavailable) {
		t.Fatalf("goalie in no-goalie mode err = %v, want ErrPositionUnavailable", err)
	}
	// A player keeping the slot they already hold is not blocked by themselves.
	_, err = f.svc.Upsert(ctx, UpsertRequest{MatchID: f.match.ID, PlayerID: p[2], Position: posPtr(models.PositionDefense)})
	if err != nil {
		t.Fatalf("repeat own position: %v", err)
	}
}

func TestPlace(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeWithGoalie, 2)
	p := f.addPlayers(3)
	for _, id := range p {
		f.register(t, id)
	}
	ctx := context.Background()

	reg, err := f.svc.Place(ctx, PlaceRequest{MatchID: f.match.ID, PlayerID: p[0], Team: models.TeamDark, Position: posPtr(models.PositionGoalie)})
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	if reg.Team != models.TeamDark || reg.Position == nil || *reg.Position != models.PositionGoalie {
		t.Fatalf("placed = %+v", reg)
	}
	_, err = f.svc.Place(ctx, PlaceRequest{MatchID: f.match.ID, PlayerID: p[1], Team: models.TeamDark, Position: posPtr(models.PositionGoalie)})
	if !errors.Is(err, ErrPositionUnavailable) {
		t.Fatalf("second goalie err = %v, want ErrPositionUnavailable", err)
	}
	_, err = f.svc.Place(ctx, PlaceRequest{MatchID: f.match.ID, PlayerID: p[2], Team: models.TeamLight, Position: posPtr(models.PositionForward)})
	if !errors.Is(err, ErrPositionUnavailable) {
		t.Fatalf("reserve placement err = %v, want ErrPositionUnavailable", err)
	}
	if _, err := f.svc.Place(ctx, PlaceRequest{MatchID: f.match.ID, PlayerID: p[2], Team: models.TeamLight}); err != nil {
		t.Fatalf("reserve team move: %v", err)
	}
	_, err = f.svc.Place(ctx, PlaceRequest{MatchID: f.match.ID, PlayerID: uuid.New(), Team: models.TeamLight})
	if !errors.Is(err, ErrRegistrationNotFound) {
		t.Fatalf("unknown registration err = %v", err)
	}
}

func TestGenerateLineupStoresPlacements(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeFourOnFourNoGoalie, 8)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.register(t, f.addPlayer("F", posPtr(models.PositionForward)))
	}
	f.notifier.reset()

	res, err := f.svc.GenerateLineup(ctx, f.match.ID, lineup.FillUnassigned, nil)
	if err != nil {
		t.Fatalf("GenerateLineup: %v", err)
	}
	if len(res.Assignments) != 3 || len(res.Unplaced) != 0 {
		t.Fatalf("result = %+v", res)
	}
	regs, err := f.svc.List(ctx, f.match.ID)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, r := range regs {
		if r.Position == nil {
			t.Fatalf("registration %s not placed", r.ID)
		}
	}
	events := f.notifier.types()
	if len(events) != 3 || events[0] != notify.EventPositionChanged {
		t.Fatalf("events = %v", events)
	}

	ov, err := f.svc.Overview(ctx, f.match.ID, false)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}
	if ov.Registered != 3 || ov.FreeSpots != 5 {
		t.Fatalf("overview = %+v", ov)
	}

	// A second run has nothing left to place.
	res, err = f.svc.GenerateLineup(ctx, f.match.ID, lineup.FillUnassigned, nil)
	if err != nil {
		t.Fatalf("second GenerateLineup: %v", err)
	}
	if len(res.Assignments) != 0 {
		t.Fatalf("second run assignments = %+v", res.Assignments)
	}
}

func TestCancelAndUncancelNotifyActivePlayers(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 1)
	p := f.addPlayers(3)
	f.register(t, p[0])
	f.register(t, p[1])
	if _, err := f.svc.Upsert(context.Background(), UpsertRequest{MatchID: f.match.ID, PlayerID: p[2], ExcuseReason: strPtr("away")}); err != nil {
		t.Fatalf("excuse: %v", err)
	}
	f.notifier.reset()
	ctx := context.Background()

	m, err := f.svc.CancelMatch(ctx, f.match.ID, strPtr(" ice broken "))
	if err != nil {
		t.Fatalf("CancelMatch: %v", err)
	}
	if !m.Cancelled() || *m.CancelReason != "ice broken" {
		t.Fatalf("match = %+v", m)
	}
	if n := len(f.notifier.types()); n != 2 {
		t.Fatalf("cancel events = %d, want 2 (registered + reserve)", n)
	}

	f.notifier.reset()
	if _, err := f.svc.CancelMatch(ctx, f.match.ID, nil); err != nil {
		t.Fatalf("repeat CancelMatch: %v", err)
	}
	if n := len(f.notifier.types()); n != 0 {
		t.Fatalf("repeat cancel raised %d events", n)
	}

	m, err = f.svc.UncancelMatch(ctx, f.match.ID)
	if err != nil {
		t.Fatalf("UncancelMatch: %v", err)
	}
	if m.Cancelled() || m.CancelReason != nil {
		t.Fatalf("match = %+v", m)
	}
	for _, et := range f.notifier.types() {
		if et != notify.EventMatchUncanceled {
			t.Fatalf("event = %s, want MATCH_UNCANCELED", et)
		}
	}
}

func TestSetCapacity(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 2)
	p := f.addPlayers(5)
	for _, id := range p {
		f.register(t, id)
	}
	ctx := context.Background()

	_, promoted, err := f.svc.SetCapacity(ctx, f.match.ID, 4)
	if err != nil {
		t.Fatalf("SetCapacity: %v", err)
	}
	if len(promoted) != 2 || promoted[0].PlayerID != p[2] || promoted[1].PlayerID != p[3] {
		t.Fatalf("promoted = %+v, want third and fourth players", promoted)
	}
	if _, _, err := f.svc.SetCapacity(ctx, f.match.ID, 3); !errors.Is(err, ErrCapacityConflict) {
		t.Fatalf("shrink err = %v, want ErrCapacityConflict", err)
	}
	if _, _, err := f.svc.SetCapacity(ctx, f.match.ID, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("zero err = %v, want ErrInvalidInput", err)
	}
}

func TestStatusOf(t *testing.T) {
	t.Parallel()

	f := newFixture(t, models.MatchModeThreeOnThreeNoGoalie, 4)
	p := f.addPlayers(2)
	f.register(t, p[0])
	ctx := context.Background()

	if s, err := f.svc.StatusOf(ctx, f.match.ID, p[0]); err != nil || s != models.RegistrationStatusRegistered {
		t.Fatalf("StatusOf registered = %s, %v", s, err)
	}
	if s, err := f.svc.StatusOf(ctx, f.match.ID, p[1]); err != nil || s != models.RegistrationStatusNoResponse {
		t.Fatalf("StatusOf silent player = %s, %v", s, err)
	}
	if _, err := f.svc.StatusOf(ctx, f.match.ID, uuid.New()); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("StatusOf unknown player err = %v", err)
	}
}
