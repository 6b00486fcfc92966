package app

import (
	"context"
	"fmt"

	"room_catalog/internal/domain"
)

// CatalogService is the write side feeding the search engine: room upserts,
// soft deletion, and booking upserts (the seeder and admin tooling drive it).
// Writes invalidate the per-room cache; search pages age out by TTL.
type CatalogService struct {
	rooms    domain.RoomRepository
	bookings domain.BookingRepository
	cache    domain.Cache
}

func NewCatalogService(r domain.RoomRepository, b domain.BookingRepository, cache domain.Cache) *CatalogService {
	return &CatalogService{rooms: r, bookings: b, cache: cache}
}

func (s *CatalogService) SaveRoom(ctx context.Context, rm domain.Room) error {
	if rm.ID == "" {
		return fmt.Errorf("save room: id is required")
	}
	if rm.Title == "" {
		return fmt.Errorf("save room %s: title is required", rm.ID)
	}
	if rm.PricePerNight < 0.01 {
		return fmt.Errorf("save room %s: pricePerNight must be at least 0.01", rm.ID)
	}
	if rm.MaxGuests < 1 {
		return fmt.Errorf("save room %s: maxGuests must be at least 1", rm.ID)
	}
	if _, err := domain.ParseBedType(string(rm.BedType)); err != nil {
		return fmt.Errorf("save room %s: %w", rm.ID, err)
	}
	if rm.Status == "" {
		rm.Status = domain.StatusAvailable
	}
	if err := s.rooms.UpsertRoom(ctx, rm); err != nil {
		return fmt.Errorf("save room %s: %w", rm.ID, err)
	}
	s.invalidateRoom(ctx, rm.ID)
	return nil
}

func (s *CatalogService) SoftDeleteRoom(ctx context.Context, id string) error {
	if err := s.rooms.SoftDeleteRoom(ctx, id); err != nil {
		return err
	}
	s.invalidateRoom(ctx, id)
	return nil
}

func (s *CatalogService) SaveBooking(ctx context.Context, b domain.Booking) error {
	if b.ID == "" || b.RoomID == "" {
		return fmt.Errorf("save booking: id and roomId are required")
	}
	if !b.CheckInDate.Before(b.CheckOutDate) {
		return fmt.Errorf("save booking %s: checkInDate must be before checkOutDate", b.ID)
	}
	if b.Status == "" {
		b.Status = domain.BookingConfirmed
	}
	if err := s.bookings.UpsertBooking(ctx, b); err != nil {
		return fmt.Errorf("save booking %s: %w", b.ID, err)
	}
	return nil
}

func (s *CatalogService) invalidateRoom(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, roomCacheKey(id))
}
