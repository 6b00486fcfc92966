package domain

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("room: not found")

type RoomRepository interface {
	// Write paths
	UpsertRoom(ctx context.Context, r Room) error
	SoftDeleteRoom(ctx context.Context, id string) error

	// Read paths
	GetRoom(ctx context.Context, id string) (Room, error)
	// SearchRooms pushes the whole criteria (filter, sort, page) down to the
	// store as one query plan and returns the page plus the total match count
	// over the full catalog.
	SearchRooms(ctx context.Context, c SearchCriteria) (RoomsPage, error)
}

type BookingRepository interface {
	UpsertBooking(ctx context.Context, b Booking) error
	// IsRoomAvailable reports whether no CONFIRMED booking overlaps the
	// half-open stay [checkIn, checkOut).
	IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error)
	// FilterAvailable returns the subset of roomIDs with no overlapping
	// CONFIRMED booking, preserving input order.
	FilterAvailable(ctx context.Context, roomIDs []string, checkIn, checkOut time.Time) ([]string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

type RoomsPage struct {
	Items         []Room
	Page          int
	Size          int
	TotalElements int64
}
