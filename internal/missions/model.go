package missions

import "time"

type MissionType string

const (
	TypeDaily  MissionType = "daily"
	TypeWeekly MissionType = "weekly"
)

// Catalog keys.
const (
	RecordTransaction = "record_transaction"
	CheckPet          = "check_pet"
	EditTransaction   = "edit_transaction"
	VisitFriend       = "visit_friend"
	PetFriend         = "pet_friend"
	RecordFiveDays    = "record_5_days"
	InteractThree     = "interact_3_friends"
)

// Definition is a fixed catalog entry.
type Definition struct {
	ID     string      `json:"id"`
	Type   MissionType `json:"type"`
	Title  string      `json:"title"`
	Target int         `json:"target"`
	Reward int64       `json:"reward"`

	// Aggregate missions are recomputed from source data rather than
	// incremented, so repeated reports of the same event never
	// double-count.
	Aggregate bool `json:"-"`
}

var catalog = []Definition{
	{ID: RecordTransaction, Type: TypeDaily, Title: "Record a transaction", Target: 1, Reward: 10},
	{ID: CheckPet, Type: TypeDaily, Title: "Check on your pet", Target: 1, Reward: 5},
	{ID: EditTransaction, Type: TypeDaily, Title: "Tidy up a transaction", Target: 1, Reward: 5},
	{ID: VisitFriend, Type: TypeDaily, Title: "Visit a friend's pet", Target: 1, Reward: 5},
	{ID: PetFriend, Type: TypeDaily, Title: "Pet a friend's pet", Target: 1, Reward: 5},
	{ID: RecordFiveDays, Type: TypeWeekly, Title: "Record on 5 different days", Target: 5, Reward: 40, Aggregate: true},
	{ID: InteractThree, Type: TypeWeekly, Title: "Interact with 3 friends", Target: 3, Reward: 30, Aggregate: true},
}

// Lookup returns the catalog definition for id.
func Lookup(id string) (Definition, bool) {
	for _, d := range catalog {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}

// CatalogByType lists catalog entries of the given type.
func CatalogByType(t MissionType) []Definition {
	var out []Definition
	for _, d := range catalog {
		if d.Type == t {
			out = append(out, d)
		}
	}
	return out
}

// Key identifies one mission row. PeriodStart is the day boundary for
// daily missions and the Monday week start for weekly ones, so rows from
// a previous period are simply never matched again.
type Key struct {
	UserID      string
	Type        MissionType
	MissionID   string
	PeriodStart time.Time
}

type Mission struct {
	UserID      string      `json:"user_id"`
	Type        MissionType `json:"type"`
	MissionID   string      `json:"mission_id"`
	PeriodStart time.Time   `json:"period_start"`
	Progress    int         `json:"progress"`
	Target      int         `json:"target"`
	Completed   bool        `json:"completed"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
	Claimed     bool        `json:"claimed"`
}

func (m Mission) Key() Key {
	return Key{UserID: m.UserID, Type: m.Type, MissionID: m.MissionID, PeriodStart: m.PeriodStart}
}
