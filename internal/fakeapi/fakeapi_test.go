package fakeapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func do(t *testing.T, s *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestJoinLifecycle(t *testing.T) {
	s := New()
	s.AddUser("a", User{ID: 1, Name: Ptr("A")})
	s.AddUser("b", User{ID: 2})
	id := s.Seed(RoomSeed{RestaurantName: "R", Category: "etc", Creator: "a"})

	body := `{"deliveryRoomId":"` + id + `"}`
	assert.Equal(t, http.StatusUnauthorized, do(t, s, "POST", "/delivery-participant/join", "", body).Code)
	assert.Equal(t, http.StatusCreated, do(t, s, "POST", "/delivery-participant/join", "b", body).Code)
	assert.Equal(t, http.StatusConflict, do(t, s, "POST", "/delivery-participant/join", "b", body).Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, "POST", "/delivery-participant/join", "b", `{"deliveryRoomId":"nope"}`).Code)

	assert.Equal(t, http.StatusOK, do(t, s, "DELETE", "/delivery-participant/"+id+"/leave", "b", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, "DELETE", "/delivery-participant/"+id+"/leave", "b", "").Code)

	assert.Equal(t, 4, s.Hits("POST /delivery-participant/join"))
	assert.Equal(t, 6, s.TotalHits())
}

func TestRoomShape(t *testing.T) {
	s := New()
	s.AddUser("a", User{ID: 7, Nickname: Ptr("nick")})
	id := s.Seed(RoomSeed{RestaurantName: "R", Category: "pizza", MinimumOrderAmount: 10000, DeliveryFee: 2000, Creator: "a"})

	rec := do(t, s, "GET", "/delivery-room/"+id, "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, float64(7), got["creatorId"])
	assert.Nil(t, got["orderLink"])
	parts := got["participants"].([]any)
	require.Len(t, parts, 1)
	user := parts[0].(map[string]any)["user"].(map[string]any)
	assert.Equal(t, "nick", user["nickname"])
	assert.Nil(t, user["name"])

	assert.Equal(t, http.StatusNotFound, do(t, s, "GET", "/delivery-room/missing", "", "").Code)
}

func TestListFiltersByCategory(t *testing.T) {
	s := New()
	s.AddUser("a", User{ID: 1})
	s.Seed(RoomSeed{RestaurantName: "P", Category: "pizza", Creator: "a"})
	s.Seed(RoomSeed{RestaurantName: "C", Category: "chicken", Creator: "a"})

	var rooms []map[string]any
	rec := do(t, s, "GET", "/delivery-room?category=chicken", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, "C", rooms[0]["restaurantName"])
	assert.Equal(t, 1, s.Hits("GET /delivery-room"))
}

func TestSendMessageStatusOverride(t *testing.T) {
	s := New()
	s.AddUser("a", User{ID: 1})
	id := s.Seed(RoomSeed{RestaurantName: "R", Creator: "a"})

	assert.Equal(t, http.StatusCreated, do(t, s, "POST", "/delivery-room/"+id+"/messages", "a", `{"content":"hi"}`).Code)
	s.SetSendMessageStatus(http.StatusOK)
	assert.Equal(t, http.StatusOK, do(t, s, "POST", "/delivery-room/"+id+"/messages", "a", `{"content":"hi"}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(t, s, "POST", "/delivery-room/"+id+"/messages", "a", `{"content":" "}`).Code)

	var msgs []map[string]any
	rec := do(t, s, "GET", "/delivery-chat/"+id, "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msgs))
	assert.Len(t, msgs, 2)
	assert.Len(t, s.Headers(), 4)
}
