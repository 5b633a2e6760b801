package client

import (
	"context"
	"slices"

	"go.uber.org/zap"

	"github.com/gonggu-app/gonggu/pkg/store"
)

// JoinedRoomsKey is the store key holding the JSON array of room ids this
// device has joined.
const JoinedRoomsKey = "joinedRooms"

type joinedSet []string

func (s joinedSet) contains(id string) bool {
	return slices.Contains(s, id)
}

func (c *Client) joinedRooms(ctx context.Context) (joinedSet, error) {
	if c.store == nil {
		return nil, nil
	}
	var ids joinedSet
	if _, err := store.GetJSON(ctx, c.store, JoinedRoomsKey, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// isJoined treats an unreadable joined set as empty: the worst case is one
// redundant join request.
func (c *Client) isJoined(ctx context.Context, roomID string) bool {
	joined, err := c.joinedRooms(ctx)
	if err != nil {
		c.log.Warn("read joined rooms", zap.Error(err))
		return false
	}
	return joined.contains(roomID)
}

// rememberJoined appends roomID to the joined set. Concurrent callers can
// lose an update; the set is advisory.
func (c *Client) rememberJoined(ctx context.Context, roomID string) error {
	if c.store == nil {
		return nil
	}
	joined, err := c.joinedRooms(ctx)
	if err != nil {
		c.log.Warn("joined rooms unreadable, starting over", zap.Error(err))
		joined = nil
	}
	if joined.contains(roomID) {
		return nil
	}
	return store.SetJSON(ctx, c.store, JoinedRoomsKey, append(joined, roomID))
}
