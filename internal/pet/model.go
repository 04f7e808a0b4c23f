package pet

import "time"

// Seed values for a freshly created (or restarted) pet.
const (
	SeedPoints   = 50
	SeedMood     = 70
	SeedFullness = 70
)

// Daily decay and bonus tuning.
const (
	DecayMood        = 25
	DecayFullness    = 10
	LoginMoodBonus   = 5
	StreakLength     = 5
	StreakReward     = 20
	PettingMoodBonus = 2
	VisitPointsBonus = 5

	FriendPetMoodBonus      = 1
	FriendFeedFullnessBonus = 5

	hungryBelow  = 30
	unhappyBelow = 30
)

// Pet is the per-user state machine: spendable points plus two meters that
// decay once per calendar day and recover through interactions.
type Pet struct {
	UserID               string     `json:"user_id"`
	Points               int64      `json:"points"`
	Mood                 int        `json:"mood"`
	Fullness             int        `json:"fullness"`
	LastLoginAt          *time.Time `json:"last_login_at,omitempty"`
	LastDailyReset       *time.Time `json:"last_daily_reset,omitempty"`
	LastPageVisit        *time.Time `json:"last_page_visit,omitempty"`
	ConsecutiveLoginDays int        `json:"consecutive_login_days"`

	// Version guards compare-and-swap writes; it is never exposed to
	// clients.
	Version int64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Pet) IsHungry() bool  { return p.Fullness < hungryBelow }
func (p Pet) IsUnhappy() bool { return p.Mood < unhappyBelow }

// IsDead reports whether either meter hit its floor. Death suppresses no
// transitions; the meters simply floor at zero until a restart.
func (p Pet) IsDead() bool { return p.Mood <= 0 || p.Fullness <= 0 }

// Purchase records an acquired shop item and the units still unconsumed.
type Purchase struct {
	ID        string       `json:"id"`
	UserID    string       `json:"user_id"`
	ItemID    string       `json:"item_id"`
	Category  ItemCategory `json:"category"`
	Cost      int64        `json:"cost"`
	Quantity  int          `json:"quantity"`
	CreatedAt time.Time    `json:"created_at"`
}

func clampMeter(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
