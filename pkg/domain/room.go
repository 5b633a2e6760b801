package domain

import "time"

// AnonymousName is shown when a user has neither a name nor a nickname.
const AnonymousName = "익명"

// Room is a shared delivery order that several users join to split the
// minimum order amount and the delivery fee.
type Room struct {
	ID             string        `json:"id"`
	RestaurantName string        `json:"restaurantName"`
	Description    string        `json:"description,omitempty"`
	MinOrderAmount int           `json:"minOrderAmount"` // minor currency units
	DeliveryFee    int           `json:"deliveryFee"`    // minor currency units
	CategoryID     string        `json:"categoryId"`
	Participants   []Participant `json:"participants"` // server order
	CreatedAt      time.Time     `json:"createdAt"`
	CreatedBy      string        `json:"createdBy"`
	OrderLink      string        `json:"orderLink,omitempty"`
}

// Participant is one user's membership in a room.
type Participant struct {
	ID             string    `json:"id"`
	UserID         string    `json:"userId"`
	Name           string    `json:"name"`
	Avatar         string    `json:"avatar,omitempty"`
	DeliveryRoomID string    `json:"deliveryRoomId"`
	JoinedAt       time.Time `json:"joinedAt"`
	IsPaid         bool      `json:"isPaid"`
	OrderDetails   string    `json:"orderDetails"`
	Amount         int       `json:"amount"`
}

// ChatMessage is a single message in a room's chat thread.
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	SenderName string    `json:"senderName"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// DisplayName picks the name shown for a user: the real name, then the
// nickname, then AnonymousName. Empty strings count as absent.
func DisplayName(name, nickname string) string {
	if name != "" {
		return name
	}
	if nickname != "" {
		return nickname
	}
	return AnonymousName
}

// OrderTotal sums the amounts participants have committed to.
func (r Room) OrderTotal() int {
	total := 0
	for _, p := range r.Participants {
		total += p.Amount
	}
	return total
}

// Remaining returns how much is still missing to reach the minimum order
// amount, never below zero.
func (r Room) Remaining() int {
	if rem := r.MinOrderAmount - r.OrderTotal(); rem > 0 {
		return rem
	}
	return 0
}

// FeeShare splits the delivery fee evenly across participants, rounding up
// so the fee is always covered. Zero participants yields the whole fee.
func (r Room) FeeShare() int {
	n := len(r.Participants)
	if n == 0 {
		return r.DeliveryFee
	}
	return (r.DeliveryFee + n - 1) / n
}
