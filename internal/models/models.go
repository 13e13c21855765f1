// Package models defines the data structures (models) that map to database tables.
// GORM uses these structs to generate SQL queries and map database rows back to Go values.
// The struct field tags (the backtick strings like `gorm:"..."`) tell GORM how to handle
// each field: its column type, constraints, default values, and relationships.
//
// The data model represents an amateur hockey club where:
//   - Users (accounts) own one or more Players
//   - Matches belong to a Season and have a capacity and a mode (skaters per team, goalie on/off)
//   - Players register to Matches; the Registration row is the centre of the whole system
//   - Every registration change is appended to RegistrationHistory (the audit trail)
//   - Notification preferences live in AccountSettings and PlayerSettings
//
// The schema itself is owned by the SQL files in migrations/; these structs mirror it.
package models

import (
	"time"

	// uuid provides universally unique identifiers for primary keys.
	"github.com/google/uuid"
)

// --- Enums ---
// Go doesn't have a built-in enum keyword, so we simulate them using a named string type
// plus constants. The values are stored as-is in the database.

// UserRole represents an account's global permission level.
type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"   // Full access: matches, players, no-excused marks, demo drain
	UserRoleManager UserRole = "manager" // Can run the lineup and place players
	UserRoleUser    UserRole = "user"    // Regular member: registers their own players
)

// PlayerStatus is the approval state of a player profile.
type PlayerStatus string

const (
	PlayerStatusPending  PlayerStatus = "pending"
	PlayerStatusApproved PlayerStatus = "approved"
	PlayerStatusRejected PlayerStatus = "rejected"
)

// MatchStatus tracks whether a match is still going to be played.
// Cancelling is a status transition, never a delete.
type MatchStatus string

const (
	MatchStatusScheduled MatchStatus = "scheduled"
	MatchStatusCancelled MatchStatus = "cancelled"
)

// MatchMode describes how many skaters play per team and whether goalies are used.
type MatchMode string

const (
	MatchModeThreeOnThreeNoGoalie   MatchMode = "THREE_ON_THREE_NO_GOALIE"
	MatchModeThreeOnThreeWithGoalie MatchMode = "THREE_ON_THREE_WITH_GOALIE"
	MatchModeFourOnFourNoGoalie     MatchMode = "FOUR_ON_FOUR_NO_GOALIE"
	MatchModeFourOnFourWithGoalie   MatchMode = "FOUR_ON_FOUR_WITH_GOALIE"
	MatchModeFiveOnFiveNoGoalie     MatchMode = "FIVE_ON_FIVE_NO_GOALIE"
	MatchModeFiveOnFiveWithGoalie   MatchMode = "FIVE_ON_FIVE_WITH_GOALIE"
)

// Team is one of the two symmetric sides of a match (light and dark jerseys).
type Team string

const (
	TeamLight Team = "LIGHT"
	TeamDark  Team = "DARK"
)

// Teams lists both sides in their canonical order.
var Teams = []Team{TeamLight, TeamDark}

// Valid reports whether t is one of the two known teams.
func (t Team) Valid() bool {
	return t == TeamLight || t == TeamDark
}

// Other returns the opposing team. An unknown team has no opponent and yields "".
func (t Team) Other() Team {
	switch t {
	case TeamLight:
		return TeamDark
	case TeamDark:
		return TeamLight
	}
	return ""
}

// Position is an ice position a registered player can occupy.
type Position string

const (
	PositionGoalie  Position = "GOALIE"
	PositionDefense Position = "DEFENSE"
	PositionForward Position = "FORWARD"
)

// Valid reports whether p is a known ice position.
func (p Position) Valid() bool {
	switch p {
	case PositionGoalie, PositionDefense, PositionForward:
		return true
	}
	return false
}

// RegistrationStatus is a player's participation state on one match.
// NO_RESPONSE is never stored: it is what a missing registration row means.
type RegistrationStatus string

const (
	RegistrationStatusNoResponse   RegistrationStatus = "NO_RESPONSE"
	RegistrationStatusRegistered   RegistrationStatus = "REGISTERED"
	RegistrationStatusReserve      RegistrationStatus = "RESERVE"
	RegistrationStatusExcused      RegistrationStatus = "EXCUSED"
	RegistrationStatusUnregistered RegistrationStatus = "UNREGISTERED"
	RegistrationStatusNoExcused    RegistrationStatus = "NO_EXCUSED"
)

// RegistrationOrigin records who caused a registration change.
type RegistrationOrigin string

const (
	OriginUser   RegistrationOrigin = "user"
	OriginSystem RegistrationOrigin = "system"
	OriginAdmin  RegistrationOrigin = "admin"
)

// NotificationLevel is the account-wide filter for notifications sent to the account email.
type NotificationLevel string

const (
	NotificationLevelNone          NotificationLevel = "NONE"
	NotificationLevelImportantOnly NotificationLevel = "IMPORTANT_ONLY"
	NotificationLevelAll           NotificationLevel = "ALL"
)

// --- Models ---

// User is a login account. Accounts are created by the Auth middleware the first time
// a Clerk-authenticated user hits the API.
type User struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ClerkID     *string   `gorm:"uniqueIndex:idx_users_clerk_id"` // pointer = nullable for seeded accounts
	DisplayName string    `gorm:"not null"`
	Email       string    `gorm:"uniqueIndex;not null"`
	Role        UserRole  `gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AccountSettings holds the account-level notification preferences.
// One row per user, created lazily on first read.
type AccountSettings struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID            uuid.UUID         `gorm:"type:uuid;not null;uniqueIndex"`
	NotificationLevel NotificationLevel `gorm:"type:varchar(20);not null;default:'ALL'"`
	// CopyAllPlayerNotifications sends the account a copy of notifications addressed to its players.
	CopyAllPlayerNotifications bool `gorm:"not null;default:true"`
	// NotifyEvenIfPlayerHasEmail keeps sending those copies when the player has its own contact email.
	NotifyEvenIfPlayerHasEmail bool `gorm:"not null;default:false"`
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// Player is a member of the club roster. A player may exist without an account
// (e.g. a guest the admin registers by hand).
type Player struct {
	ID                uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID            *uuid.UUID   `gorm:"type:uuid;index"` // linked account; nil for guests
	User              *User        `gorm:"foreignKey:UserID"`
	FirstName         string       `gorm:"not null"`
	LastName          string       `gorm:"not null"`
	Nickname          *string
	Phone             *string      // fallback phone when the settings carry no contact phone
	Status            PlayerStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	PrimaryPosition   *Position    `gorm:"type:varchar(20)"`
	SecondaryPosition *Position    `gorm:"type:varchar(20)"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// FullName returns "First Last".
func (p Player) FullName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// PlayerSettings holds per-player channel and category preferences plus contact overrides.
// One row per player, created lazily on first read.
type PlayerSettings struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PlayerID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ContactEmail         *string   // overrides the account email for this player
	ContactPhone         *string   // overrides Player.Phone
	EmailEnabled         bool      `gorm:"not null;default:true"`
	SMSEnabled           bool      `gorm:"column:sms_enabled;not null;default:true"`
	NotifyOnRegistration bool      `gorm:"not null;default:true"`
	NotifyOnExcuse       bool      `gorm:"not null;default:true"`
	NotifyOnMatchInfo    bool      `gorm:"not null;default:true"`
	RemindersEnabled     bool      `gorm:"not null;default:true"`
	ReminderHoursBefore  int       `gorm:"not null;default:24"`
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Season groups matches into one playing year.
type Season struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"not null"`
	StartDate time.Time `gorm:"not null"`
	EndDate   time.Time `gorm:"not null"`
	Active    bool      `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Match is one scheduled game on the ice.
type Match struct {
	ID           uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SeasonID     *uuid.UUID  `gorm:"type:uuid;index"`
	StartsAt     time.Time   `gorm:"not null;index"`
	Location     string      `gorm:"not null"`
	Description  *string
	Price        int         `gorm:"not null;default:0"` // whole CZK per player
	MaxPlayers   int         `gorm:"not null"`
	Mode         MatchMode   `gorm:"type:varchar(40);not null"`
	Status       MatchStatus `gorm:"type:varchar(20);not null;default:'scheduled'"`
	CancelReason *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Cancelled reports whether the match has been called off.
func (m Match) Cancelled() bool {
	return m.Status == MatchStatusCancelled
}

// Registration links a Player to a Match. The unique index (idx_registration_match_player)
// guarantees one row per pair; status changes update the row in place.
type Registration struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	MatchID      uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_registration_match_player"`
	PlayerID     uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:idx_registration_match_player"`
	Player       *Player            `gorm:"foreignKey:PlayerID"`
	Status       RegistrationStatus `gorm:"type:varchar(20);not null"`
	Team         Team               `gorm:"type:varchar(10);not null"`
	Position     *Position          `gorm:"type:varchar(20)"` // nil until the player is placed
	ExcuseReason *string
	ExcuseNote   *string
	AdminNote    *string
	Origin       RegistrationOrigin `gorm:"type:varchar(10);not null;default:'user'"`
	// QueuedAt orders the waitlist. It is set when the row is created and reset whenever
	// the player comes back from EXCUSED/UNREGISTERED/NO_EXCUSED.
	QueuedAt       time.Time `gorm:"not null;index"`
	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Active reports whether the registration holds or waits for a slot.
func (r Registration) Active() bool {
	return r.Status == RegistrationStatusRegistered || r.Status == RegistrationStatusReserve
}

// RegistrationHistory is one append-only audit row per registration transition.
type RegistrationHistory struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	RegistrationID uuid.UUID           `gorm:"type:uuid;not null;index"`
	MatchID        uuid.UUID           `gorm:"type:uuid;not null;index"`
	PlayerID       uuid.UUID           `gorm:"type:uuid;not null"`
	Action         string              `gorm:"not null"`
	PreviousStatus *RegistrationStatus `gorm:"type:varchar(20)"` // nil when the row was created
	NewStatus      RegistrationStatus  `gorm:"type:varchar(20);not null"`
	Team           Team                `gorm:"type:varchar(10);not null"`
	Position       *Position           `gorm:"type:varchar(20)"`
	ActorID        *uuid.UUID          `gorm:"type:uuid"` // nil for system actions (promotion, reminders)
	Origin         RegistrationOrigin  `gorm:"type:varchar(10);not null"`
	CreatedAt      time.Time
}

// TableName keeps the audit table name singular like the migration defines it.
func (RegistrationHistory) TableName() string {
	return "registration_history"
}

// Notification is one in-app inbox item for an account.
type Notification struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	PlayerID  *uuid.UUID `gorm:"type:uuid"`
	MatchID   *uuid.UUID `gorm:"type:uuid"`
	EventType string     `gorm:"not null"`
	Title     string     `gorm:"not null"`
	Body      string     `gorm:"not null"`
	ReadAt    *time.Time
	CreatedAt time.Time
}
