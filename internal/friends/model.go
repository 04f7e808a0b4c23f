package friends

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
)

// Interaction kinds recorded against a friend's pet.
const (
	KindVisit = "visit"
	KindPet   = "pet"
	KindFeed  = "feed"
)

type Friendship struct {
	RequesterID string    `json:"requester_id"`
	AddresseeID string    `json:"addressee_id"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type Interaction struct {
	UserID    string    `json:"user_id"`
	FriendID  string    `json:"friend_id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
