package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "room_catalog/internal/adapters/redis"
	"room_catalog/internal/domain"
)

func TestCache_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	page := domain.RoomsPage{
		Items:         []domain.Room{{ID: "room-001", Title: "Deluxe", PricePerNight: 120, MaxGuests: 2, BedType: domain.BedQueen, Status: domain.StatusAvailable}},
		Page:          0,
		Size:          10,
		TotalElements: 1,
	}

	var missed domain.RoomsPage
	if ok, err := c.Get(ctx, "search:x", &missed); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "search:x", page, 60); err != nil {
		t.Fatalf("set: %v", err)
	}

	var got domain.RoomsPage
	ok, err := c.Get(ctx, "search:x", &got)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.TotalElements != 1 || len(got.Items) != 1 || got.Items[0].ID != "room-001" {
		t.Fatalf("unexpected cached page: %+v", got)
	}

	if err := c.Del(ctx, "search:x"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if ok, _ := c.Get(ctx, "search:x", &got); ok {
		t.Fatal("expected miss after delete")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	ctx := context.Background()

	if err := c.Set(ctx, "room:room-001", domain.Room{ID: "room-001"}, 30); err != nil {
		t.Fatalf("set: %v", err)
	}
	mr.FastForward(31 * time.Second)

	var rm domain.Room
	if ok, _ := c.Get(ctx, "room:room-001", &rm); ok {
		t.Fatal("expected entry to expire")
	}
}
