package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"room_catalog/internal/domain"
)

// SearchService is the read side: criteria validation, cached room search,
// the plain room read, and the single-room availability probe. Each call is
// stateless and read-only; concurrent searches share nothing mutable.
type SearchService struct {
	rooms    domain.RoomRepository
	bookings domain.BookingRepository
	cache    domain.Cache
	defaults domain.SearchDefaults
	cacheTTL time.Duration
}

func NewSearchService(r domain.RoomRepository, b domain.BookingRepository, c domain.Cache, d domain.SearchDefaults, ttl time.Duration) *SearchService {
	return &SearchService{rooms: r, bookings: b, cache: c, defaults: d, cacheTTL: ttl}
}

// SearchRooms validates raw criteria, then executes the composite filter as
// one store-side query. Validation failures (*domain.InvalidCriteriaError)
// never reach the store. Cached pages are TTL-bounded; staleness against
// concurrent catalog writes is accepted.
func (s *SearchService) SearchRooms(ctx context.Context, raw domain.RawSearchCriteria) (domain.RoomsPage, error) {
	c, err := domain.NewSearchCriteria(raw, s.defaults)
	if err != nil {
		return domain.RoomsPage{}, err
	}

	key := c.CacheKey()
	var cached domain.RoomsPage
	if ok, _ := s.cache.Get(ctx, key, &cached); ok {
		return cached, nil
	}

	page, err := s.rooms.SearchRooms(ctx, c)
	if err != nil {
		return domain.RoomsPage{}, fmt.Errorf("execute room search: %w", err)
	}

	// copy before caching so callers can't mutate the cached value
	cp := copyRoomsPage(page)

	// size guard
	if b, _ := json.Marshal(cp); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	}
	return cp, nil
}

func (s *SearchService) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	key := roomCacheKey(id)
	var rm domain.Room
	if ok, _ := s.cache.Get(ctx, key, &rm); ok {
		return rm, nil
	}
	rm, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return domain.Room{}, err
	}
	_ = s.cache.Set(ctx, key, rm, int(s.cacheTTL.Seconds()))
	return rm, nil
}

// CheckAvailability answers the single-room form of the overlap test. The
// room must exist and not be soft-deleted; availability itself is never
// cached, a booking written a moment ago must block immediately.
func (s *SearchService) CheckAvailability(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	if !checkIn.Before(checkOut) {
		return false, &domain.InvalidCriteriaError{Field: "checkIn", Reason: "must be before checkOut"}
	}
	if _, err := s.rooms.GetRoom(ctx, roomID); err != nil {
		return false, err
	}
	ok, err := s.bookings.IsRoomAvailable(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, fmt.Errorf("check availability: %w", err)
	}
	return ok, nil
}

func roomCacheKey(id string) string { return "room:" + id }

func copyRoomsPage(in domain.RoomsPage) domain.RoomsPage {
	out := in
	if n := len(in.Items); n > 0 {
		out.Items = make([]domain.Room, n)
		copy(out.Items, in.Items)
	}
	return out
}
