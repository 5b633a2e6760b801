package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gonggu-app/gonggu/pkg/domain"
)

// wireID accepts an opaque id sent either as a JSON string or a JSON number.
type wireID string

func (id *wireID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = wireID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*id = wireID(n.String())
	return nil
}

type wireUser struct {
	ID           wireID `json:"id"`
	Name         string `json:"name"`
	Nickname     string `json:"nickname"`
	ProfileImage string `json:"profileImage"`
}

type wireParticipant struct {
	ID             wireID    `json:"id"`
	UserID         wireID    `json:"userId"`
	DeliveryRoomID wireID    `json:"deliveryRoomId"`
	JoinedAt       time.Time `json:"joinedAt"`
	IsPaid         bool      `json:"isPaid"`
	OrderDetails   string    `json:"orderDetails"`
	Amount         int       `json:"amount"`
	User           *wireUser `json:"user"`
}

type wireRoom struct {
	ID                 wireID            `json:"id"`
	RestaurantName     string            `json:"restaurantName"`
	Description        string            `json:"description"`
	MinimumOrderAmount int               `json:"minimumOrderAmount"`
	DeliveryFee        int               `json:"deliveryFee"`
	Category           string            `json:"category"`
	Participants       []wireParticipant `json:"participants"`
	CreatedAt          time.Time         `json:"createdAt"`
	CreatorID          wireID            `json:"creatorId"`
	OrderLink          string            `json:"orderLink"`
}

type wireMessage struct {
	ID        wireID    `json:"id"`
	UserID    wireID    `json:"userId"`
	User      *wireUser `json:"user"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// CreateRoomRequest is the payload for opening a new delivery room.
type CreateRoomRequest struct {
	RestaurantName     string `json:"restaurantName"`
	Category           string `json:"category"`
	MinimumOrderAmount int    `json:"minimumOrderAmount"`
	DeliveryFee        int    `json:"deliveryFee"`
	Description        string `json:"description,omitempty"`
}

func (r CreateRoomRequest) validate() error {
	switch {
	case r.RestaurantName == "":
		return fmt.Errorf("%w: restaurant name is required", ErrInvalidRequest)
	case r.Category == "":
		return fmt.Errorf("%w: category is required", ErrInvalidRequest)
	case r.MinimumOrderAmount < 0:
		return fmt.Errorf("%w: minimum order amount must not be negative", ErrInvalidRequest)
	case r.DeliveryFee < 0:
		return fmt.Errorf("%w: delivery fee must not be negative", ErrInvalidRequest)
	}
	return nil
}

// JoinOptions carries the optional order a user brings when joining.
// Nil fields are omitted from the request.
type JoinOptions struct {
	OrderDetails *string
	Amount       *int
}

type joinRequest struct {
	DeliveryRoomID string  `json:"deliveryRoomId"`
	OrderDetails   *string `json:"orderDetails,omitempty"`
	Amount         *int    `json:"amount,omitempty"`
}

type updateOrderRequest struct {
	OrderDetails string `json:"orderDetails"`
	Amount       int    `json:"amount"`
}

type roomLinkRequest struct {
	OrderLink string `json:"orderLink"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func (u *wireUser) displayName() string {
	if u == nil {
		return domain.AnonymousName
	}
	return domain.DisplayName(u.Name, u.Nickname)
}

func (p wireParticipant) toDomain() domain.Participant {
	out := domain.Participant{
		UserID:         string(p.UserID),
		Name:           p.User.displayName(),
		DeliveryRoomID: string(p.DeliveryRoomID),
		JoinedAt:       p.JoinedAt,
		IsPaid:         p.IsPaid,
		OrderDetails:   p.OrderDetails,
		Amount:         p.Amount,
	}
	if p.User != nil {
		out.ID = string(p.User.ID)
		out.Avatar = p.User.ProfileImage
	}
	if out.UserID == "" {
		out.UserID = out.ID
	}
	return out
}

func (r wireRoom) toDomain() (domain.Room, error) {
	if r.ID == "" {
		return domain.Room{}, fmt.Errorf("%w: room without id", ErrMalformedResponse)
	}
	if r.MinimumOrderAmount < 0 || r.DeliveryFee < 0 {
		return domain.Room{}, fmt.Errorf("%w: room %s has a negative amount", ErrMalformedResponse, r.ID)
	}
	participants := make([]domain.Participant, 0, len(r.Participants))
	for _, p := range r.Participants {
		participants = append(participants, p.toDomain())
	}
	return domain.Room{
		ID:             string(r.ID),
		RestaurantName: r.RestaurantName,
		Description:    r.Description,
		MinOrderAmount: r.MinimumOrderAmount,
		DeliveryFee:    r.DeliveryFee,
		CategoryID:     r.Category,
		Participants:   participants,
		CreatedAt:      r.CreatedAt,
		CreatedBy:      string(r.CreatorID),
		OrderLink:      r.OrderLink,
	}, nil
}

func (m wireMessage) toDomain() (domain.ChatMessage, error) {
	if m.ID == "" {
		return domain.ChatMessage{}, fmt.Errorf("%w: message without id", ErrMalformedResponse)
	}
	return domain.ChatMessage{
		ID:         string(m.ID),
		SenderID:   string(m.UserID),
		SenderName: m.User.displayName(),
		Content:    m.Message,
		Timestamp:  m.CreatedAt,
	}, nil
}

// creatorPlaceholder is the participant CreateRoom reports for the creator.
// The caller's identity is not known here, so it carries no user id or name.
func creatorPlaceholder(roomID string, now time.Time) domain.Participant {
	return domain.Participant{
		ID:             "",
		UserID:         "0",
		Name:           domain.AnonymousName,
		DeliveryRoomID: roomID,
		JoinedAt:       now,
		IsPaid:         false,
		OrderDetails:   "",
		Amount:         0,
	}
}
