// Package client is the HTTP client for the delivery-room API: rooms,
// participants, room chat and the shared order link.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gonggu-app/gonggu/pkg/domain"
	"github.com/gonggu-app/gonggu/pkg/store"
)

const (
	// DefaultTimeout is the fixed per-request deadline.
	DefaultTimeout = 15 * time.Second

	// TokenKey is the store key holding the bearer token.
	TokenKey = "token"

	// RequestIDHeader carries a per-request UUID.
	RequestIDHeader = "X-Request-Id"
)

// Client is the delivery-room API client. The bearer token is read from the
// store on every request and never kept in memory.
type Client struct {
	baseURL    string
	store      store.Store
	httpClient *http.Client
	log        *zap.Logger
	now        func() time.Time
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New creates a new API client. st provides the token and the local
// joined-rooms set.
func New(baseURL string, st store.Store, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		store:   st,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: zap.NewNop(),
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// --- Rooms ---

// ListRooms returns all rooms, optionally filtered by category.
func (c *Client) ListRooms(ctx context.Context, category string) ([]domain.Room, error) {
	path := "/delivery-room"
	if category != "" {
		params := url.Values{}
		params.Set("category", category)
		path += "?" + params.Encode()
	}

	var wire []wireRoom
	if err := c.get(ctx, path, &wire); err != nil {
		return nil, c.fail("client.ListRooms", err)
	}
	rooms := make([]domain.Room, 0, len(wire))
	for _, w := range wire {
		r, err := w.toDomain()
		if err != nil {
			return nil, c.fail("client.ListRooms", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

// GetRoom fetches a single room by ID.
func (c *Client) GetRoom(ctx context.Context, id string) (*domain.Room, error) {
	if id == "" {
		return nil, c.fail("client.GetRoom", fmt.Errorf("%w: room id is required", ErrInvalidRequest))
	}
	var wire wireRoom
	if err := c.get(ctx, roomPath(id), &wire); err != nil {
		return nil, c.fail("client.GetRoom", err)
	}
	r, err := wire.toDomain()
	if err != nil {
		return nil, c.fail("client.GetRoom", err)
	}
	return &r, nil
}

// CreateRoom opens a new room. The returned room lists a single placeholder
// participant for the creator with no user id or name; fetch the room again
// for the server's participant list.
func (c *Client) CreateRoom(ctx context.Context, req CreateRoomRequest) (*domain.Room, error) {
	if err := req.validate(); err != nil {
		return nil, c.fail("client.CreateRoom", err)
	}
	var wire wireRoom
	if _, err := c.doRequest(ctx, http.MethodPost, "/delivery-room", req, &wire); err != nil {
		return nil, c.fail("client.CreateRoom", err)
	}
	r, err := wire.toDomain()
	if err != nil {
		return nil, c.fail("client.CreateRoom", err)
	}
	r.Participants = []domain.Participant{creatorPlaceholder(r.ID, c.now())}
	return &r, nil
}

// --- Shared order link ---

// UpdateRoomLink sets the room's shared order link. Only HTTP 200 counts as
// success.
func (c *Client) UpdateRoomLink(ctx context.Context, roomID, link string) error {
	if roomID == "" {
		return c.fail("client.UpdateRoomLink", fmt.Errorf("%w: room id is required", ErrInvalidRequest))
	}
	status, err := c.doRequest(ctx, http.MethodPatch, roomPath(roomID), roomLinkRequest{OrderLink: link}, nil)
	if err != nil {
		return c.fail("client.UpdateRoomLink", err)
	}
	if status != http.StatusOK {
		return c.fail("client.UpdateRoomLink", &HTTPError{StatusCode: status, Message: "expected 200 OK"})
	}
	return nil
}

// GetRoomLink returns the room's shared order link, or "" when none is set.
func (c *Client) GetRoomLink(ctx context.Context, roomID string) (string, error) {
	if roomID == "" {
		return "", c.fail("client.GetRoomLink", fmt.Errorf("%w: room id is required", ErrInvalidRequest))
	}
	var wire struct {
		OrderLink string `json:"orderLink"`
	}
	if err := c.get(ctx, roomPath(roomID), &wire); err != nil {
		return "", c.fail("client.GetRoomLink", err)
	}
	return wire.OrderLink, nil
}

// --- Participation ---

// JoinRoom joins a room, optionally with an order. Rooms already recorded in
// the local joined set succeed without a request, and a 409 from the server
// counts as already joined. The local set is advisory: the server decides
// real membership.
func (c *Client) JoinRoom(ctx context.Context, roomID string, opts JoinOptions) error {
	if roomID == "" {
		return c.fail("client.JoinRoom", fmt.Errorf("%w: room id is required", ErrInvalidRequest))
	}
	if c.isJoined(ctx, roomID) {
		c.log.Debug("join skipped, room recorded locally", zap.String("room_id", roomID))
		return nil
	}

	req := joinRequest{
		DeliveryRoomID: roomID,
		OrderDetails:   opts.OrderDetails,
		Amount:         opts.Amount,
	}
	_, err := c.doRequest(ctx, http.MethodPost, "/delivery-participant/join", req, nil)
	switch {
	case IsStatus(err, http.StatusConflict):
		c.log.Info("room already joined on server", zap.String("room_id", roomID))
	case err != nil:
		return c.fail("client.JoinRoom", err)
	}

	if err := c.rememberJoined(ctx, roomID); err != nil {
		c.log.Warn("record joined room", zap.String("room_id", roomID), zap.Error(err))
	}
	return nil
}

// LeaveRoom leaves a room. The local joined set is left untouched, so a later
// JoinRoom for the same room is answered locally without a request.
func (c *Client) LeaveRoom(ctx context.Context, roomID string) error {
	if roomID == "" {
		return c.fail("client.LeaveRoom", fmt.Errorf("%w: room id is required", ErrInvalidRequest))
	}
	if _, err := c.doRequest(ctx, http.MethodDelete, participantPath(roomID, "leave"), nil, nil); err != nil {
		return c.fail("client.LeaveRoom", err)
	}
	return nil
}

// UpdateOrderDetails replaces the caller's order in a room.
func (c *Client) UpdateOrderDetails(ctx context.Context, roomID, orderDetails string, amount int) error {
	if roomID == "" {
		return c.fail("client.UpdateOrderDetails", fmt.Errorf("%w: room id is required", ErrInvalidRequest))
	}
	req := updateOrderRequest{OrderDetails: orderDetails, Amount: amount}
	if _, err := c.doRequest(ctx, http.MethodPatch, participantPath(roomID, "update-order"), req, nil); err != nil {
		return c.fail("client.UpdateOrderDetails", err)
	}
	return nil
}

// HasJoined reports whether roomID is in the local joined set.
func (c *Client) HasJoined(ctx context.Context, roomID string) (bool, error) {
	joined, err := c.joinedRooms(ctx)
	if err != nil {
		return false, fmt.Errorf("client.HasJoined: %w", err)
	}
	return joined.contains(roomID), nil
}

// JoinedRooms returns the local joined set as a lookup, read once.
func (c *Client) JoinedRooms(ctx context.Context) (map[string]bool, error) {
	joined, err := c.joinedRooms(ctx)
	if err != nil {
		return nil, fmt.Errorf("client.JoinedRooms: %w", err)
	}
	set := make(map[string]bool, len(joined))
	for _, id := range joined {
		set[id] = true
	}
	return set, nil
}

// --- Chat ---

// GetMessages returns a room's chat messages in server order.
func (c *Client) GetMessages(ctx context.Context, roomID string) ([]domain.ChatMessage, error) {
	if roomID == "" {
		return nil, c.fail("client.GetMessages", fmt.Errorf("%w: room id is required", ErrInvalidRequest))
	}
	var wire []wireMessage
	if err := c.get(ctx, "/delivery-chat/"+url.PathEscape(roomID), &wire); err != nil {
		return nil, c.fail("client.GetMessages", err)
	}
	msgs := make([]domain.ChatMessage, 0, len(wire))
	for _, w := range wire {
		m, err := w.toDomain()
		if err != nil {
			return nil, c.fail("client.GetMessages", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

// SendMessage posts a chat message. Only HTTP 201 counts as success.
func (c *Client) SendMessage(ctx context.Context, roomID, content string) error {
	if roomID == "" {
		return c.fail("client.SendMessage", fmt.Errorf("%w: room id is required", ErrInvalidRequest))
	}
	status, err := c.doRequest(ctx, http.MethodPost, roomPath(roomID)+"/messages", sendMessageRequest{Content: content}, nil)
	if err != nil {
		return c.fail("client.SendMessage", err)
	}
	if status != http.StatusCreated {
		return c.fail("client.SendMessage", &HTTPError{StatusCode: status, Message: "expected 201 Created"})
	}
	return nil
}

// --- plumbing ---

func roomPath(id string) string {
	return "/delivery-room/" + url.PathEscape(id)
}

func participantPath(roomID, action string) string {
	return "/delivery-participant/" + url.PathEscape(roomID) + "/" + action
}

// fail logs err once and wraps it with the operation name.
func (c *Client) fail(op string, err error) error {
	c.log.Warn("request failed", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	_, err := c.doRequest(ctx, http.MethodGet, path, nil, out)
	return err
}

// doRequest performs one request and returns the response status. Any status
// >= 400 is returned as *HTTPError.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token, err := c.token(ctx)
	if err != nil {
		return 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug("api request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", requestID),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		return resp.StatusCode, readHTTPError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: decode response: %v", ErrMalformedResponse, err)
		}
	}
	return resp.StatusCode, nil
}

// token reads the bearer token. A missing token is not an error.
func (c *Client) token(ctx context.Context) (string, error) {
	if c.store == nil {
		return "", nil
	}
	tok, err := c.store.Get(ctx, TokenKey)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return strings.TrimSpace(tok), nil
}

func readHTTPError(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}
	var apiErr struct {
		Error   string          `json:"error"`
		Message json.RawMessage `json:"message"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil {
		if msg := apiMessage(apiErr.Message); msg != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
		}
		if apiErr.Error != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
}

// apiMessage flattens a "message" field that is either a string or a list of
// validation strings.
func apiMessage(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if json.Unmarshal(raw, &s) == nil {
		return s
	}
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return strings.Join(list, "; ")
	}
	return ""
}
