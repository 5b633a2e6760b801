// Package fakeapi is an in-memory delivery-room API served over chi. Tests
// point the client at it instead of the real backend.
package fakeapi

import (
	"encoding/json"
	"net/http"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// User is an account known to the fake server.
type User struct {
	ID           int     `json:"id"`
	Name         *string `json:"name"`
	Nickname     *string `json:"nickname"`
	ProfileImage *string `json:"profileImage,omitempty"`
}

type participant struct {
	ID             string    `json:"id"`
	UserID         int       `json:"userId"`
	DeliveryRoomID string    `json:"deliveryRoomId"`
	JoinedAt       time.Time `json:"joinedAt"`
	IsPaid         bool      `json:"isPaid"`
	OrderDetails   string    `json:"orderDetails"`
	Amount         int       `json:"amount"`
	User           User      `json:"user"`
}

type room struct {
	ID                 string         `json:"id"`
	RestaurantName     string         `json:"restaurantName"`
	Description        string         `json:"description,omitempty"`
	MinimumOrderAmount int            `json:"minimumOrderAmount"`
	DeliveryFee        int            `json:"deliveryFee"`
	Category           string         `json:"category"`
	Participants       []*participant `json:"participants"`
	CreatedAt          time.Time      `json:"createdAt"`
	CreatorID          int            `json:"creatorId"`
	OrderLink          *string        `json:"orderLink"`
}

type message struct {
	ID        string    `json:"id"`
	UserID    int       `json:"userId"`
	User      User      `json:"user"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// RoomSeed describes a room inserted with Seed.
type RoomSeed struct {
	RestaurantName     string
	Category           string
	MinimumOrderAmount int
	DeliveryFee        int
	Description        string
	Creator            string // token of an added user
}

// Server holds the fake state. The zero value is not usable; call New.
type Server struct {
	mu       sync.Mutex
	users    map[string]User
	rooms    []*room
	messages map[string][]message
	hits     map[string]int
	headers  []http.Header

	sendStatus int

	router chi.Router
}

// New creates an empty fake server.
func New() *Server {
	s := &Server{
		users:    make(map[string]User),
		messages: make(map[string][]message),
		hits:     make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.record)

	r.Route("/delivery-room", func(r chi.Router) {
		r.Get("/", s.listRooms)
		r.Post("/", s.createRoom)
		r.Get("/{id}", s.getRoom)
		r.Patch("/{id}", s.updateRoom)
		r.Post("/{id}/messages", s.postMessage)
	})
	r.Post("/delivery-participant/join", s.join)
	r.Delete("/delivery-participant/{id}/leave", s.leave)
	r.Patch("/delivery-participant/{id}/update-order", s.updateOrder)
	r.Get("/delivery-chat/{id}", s.listMessages)

	s.router = r
	return s
}

// Handler returns the HTTP handler serving the fake API.
func (s *Server) Handler() http.Handler {
	return s.router
}

// AddUser registers a user authenticated by token.
func (s *Server) AddUser(token string, u User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[token] = u
}

// Seed inserts a room directly and returns its id. The creator joins it.
func (s *Server) Seed(seed RoomSeed) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	creator := s.users[seed.Creator]
	rm := &room{
		ID:                 uuid.NewString(),
		RestaurantName:     seed.RestaurantName,
		Description:        seed.Description,
		MinimumOrderAmount: seed.MinimumOrderAmount,
		DeliveryFee:        seed.DeliveryFee,
		Category:           seed.Category,
		CreatedAt:          time.Now().UTC(),
		CreatorID:          creator.ID,
	}
	rm.Participants = append(rm.Participants, newParticipant(rm.ID, creator, "", 0))
	s.rooms = append(s.rooms, rm)
	return rm.ID
}

// Hits returns how many requests matched the route, e.g. "POST /delivery-participant/join".
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// SetSendMessageStatus overrides the success status of message posts.
// Zero restores 201.
func (s *Server) SetSendMessageStatus(code int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendStatus = code
}

// TotalHits returns the number of requests served.
func (s *Server) TotalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, v := range s.hits {
		n += v
	}
	return n
}

// Headers returns the request headers seen so far, in order.
func (s *Server) Headers() []http.Header {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.headers)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		pattern := strings.TrimSuffix(chi.RouteContext(r.Context()).RoutePattern(), "/")
		s.mu.Lock()
		s.hits[r.Method+" "+pattern]++
		s.headers = append(s.headers, r.Header.Clone())
		s.mu.Unlock()
	})
}

// --- handlers ---

func (s *Server) listRooms(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*room, 0, len(s.rooms))
	for _, rm := range s.rooms {
		if category == "" || rm.Category == category {
			out = append(out, rm)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) getRoom(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rm := s.findRoom(chi.URLParam(r, "id"))
	if rm == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	writeJSON(w, http.StatusOK, rm)
}

func (s *Server) createRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RestaurantName     string `json:"restaurantName"`
		Category           string `json:"category"`
		MinimumOrderAmount int    `json:"minimumOrderAmount"`
		DeliveryFee        int    `json:"deliveryFee"`
		Description        string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RestaurantName == "" {
		writeError(w, http.StatusBadRequest, "restaurantName is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.auth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	rm := &room{
		ID:                 uuid.NewString(),
		RestaurantName:     req.RestaurantName,
		Description:        req.Description,
		MinimumOrderAmount: req.MinimumOrderAmount,
		DeliveryFee:        req.DeliveryFee,
		Category:           req.Category,
		CreatedAt:          time.Now().UTC(),
		CreatorID:          user.ID,
	}
	rm.Participants = append(rm.Participants, newParticipant(rm.ID, user, "", 0))
	s.rooms = append(s.rooms, rm)
	writeJSON(w, http.StatusCreated, rm)
}

func (s *Server) updateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderLink *string `json:"orderLink"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.auth(r); !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	rm := s.findRoom(chi.URLParam(r, "id"))
	if rm == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if req.OrderLink != nil {
		rm.OrderLink = req.OrderLink
	}
	writeJSON(w, http.StatusOK, rm)
}

func (s *Server) join(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeliveryRoomID string  `json:"deliveryRoomId"`
		OrderDetails   *string `json:"orderDetails"`
		Amount         *int    `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.auth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	rm := s.findRoom(req.DeliveryRoomID)
	if rm == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	if findParticipant(rm, user.ID) != nil {
		writeError(w, http.StatusConflict, "already joined")
		return
	}
	details, amount := "", 0
	if req.OrderDetails != nil {
		details = *req.OrderDetails
	}
	if req.Amount != nil {
		amount = *req.Amount
	}
	p := newParticipant(rm.ID, user, details, amount)
	rm.Participants = append(rm.Participants, p)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) leave(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.auth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	rm := s.findRoom(chi.URLParam(r, "id"))
	if rm == nil || findParticipant(rm, user.ID) == nil {
		writeError(w, http.StatusNotFound, "not a participant")
		return
	}
	rm.Participants = slices.DeleteFunc(rm.Participants, func(p *participant) bool {
		return p.UserID == user.ID
	})
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) updateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderDetails string `json:"orderDetails"`
		Amount       int    `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.auth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	rm := s.findRoom(chi.URLParam(r, "id"))
	if rm == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	p := findParticipant(rm, user.ID)
	if p == nil {
		writeError(w, http.StatusNotFound, "not a participant")
		return
	}
	p.OrderDetails = req.OrderDetails
	p.Amount = req.Amount
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) listMessages(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "id")
	if s.findRoom(id) == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	msgs := s.messages[id]
	if msgs == nil {
		msgs = []message{}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (s *Server) postMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "content is required")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.auth(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	id := chi.URLParam(r, "id")
	if s.findRoom(id) == nil {
		writeError(w, http.StatusNotFound, "room not found")
		return
	}
	msg := message{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		User:      user,
		Message:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	s.messages[id] = append(s.messages[id], msg)
	status := s.sendStatus
	if status == 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, msg)
}

// --- helpers (callers hold s.mu) ---

func (s *Server) auth(r *http.Request) (User, bool) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return User{}, false
	}
	u, ok := s.users[token]
	return u, ok
}

func (s *Server) findRoom(id string) *room {
	for _, rm := range s.rooms {
		if rm.ID == id {
			return rm
		}
	}
	return nil
}

func findParticipant(rm *room, userID int) *participant {
	for _, p := range rm.Participants {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func newParticipant(roomID string, u User, details string, amount int) *participant {
	return &participant{
		ID:             uuid.NewString(),
		UserID:         u.ID,
		DeliveryRoomID: roomID,
		JoinedAt:       time.Now().UTC(),
		OrderDetails:   details,
		Amount:         amount,
		User:           u,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

// writeError mirrors the backend's error body shape.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"statusCode": status, "message": msg})
}

// Ptr returns a pointer to v, for building Users.
func Ptr[T any](v T) *T {
	return &v
}
