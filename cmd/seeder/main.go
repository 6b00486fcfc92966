package main

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"

	"room_catalog/internal/adapters/observability"
	redisad "room_catalog/internal/adapters/redis"
	"room_catalog/internal/app"
	"room_catalog/internal/domain"
	"room_catalog/internal/shared"
	mysqlrepo "room_catalog/internal/storage/mysql"
)

// The seeder fills the catalog with a deterministic demo data set so the
// search API has something to serve. Safe to re-run: everything upserts.
func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)
	log.Info().Int("workers", cfg.SeedWorkers).Int("rps", cfg.SeedRPS).Msg("seeder starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	catalog := app.NewCatalogService(repo, repo, cache)

	rooms, bookings := demoCatalog()

	sem := semaphore.NewWeighted(int64(cfg.SeedWorkers))
	rl := rate.NewLimiter(rate.Limit(cfg.SeedRPS), cfg.SeedRPS)
	var wg sync.WaitGroup

	for _, rm := range rooms {
		rm := rm
		if err := rl.Wait(ctx); err != nil {
			log.Fatal().Err(err).Msg("rate limiter wait failed")
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			if err := catalog.SaveRoom(ctx, rm); err != nil {
				log.Warn().Str("id", rm.ID).Err(err).Msg("seed room failed")
				return
			}
			log.Info().Str("id", rm.ID).Msg("seed room ok")
		}()
	}
	wg.Wait()

	// bookings reference rooms, so they go second
	for _, b := range bookings {
		if err := rl.Wait(ctx); err != nil {
			log.Fatal().Err(err).Msg("rate limiter wait failed")
		}
		if err := catalog.SaveBooking(ctx, b); err != nil {
			log.Warn().Str("id", b.ID).Err(err).Msg("seed booking failed")
			continue
		}
		log.Info().Str("id", b.ID).Msg("seed booking ok")
	}

	log.Info().Msg("seeding completed")
}

func demoCatalog() ([]domain.Room, []domain.Booking) {
	bedTypes := []domain.BedType{domain.BedSingle, domain.BedDouble, domain.BedQueen, domain.BedKing, domain.BedTwin}
	views := []domain.RoomView{domain.ViewOcean, domain.ViewGarden, domain.ViewPanoramic}
	amenitySets := [][]string{
		{"wifi"},
		{"wifi", "tv"},
		{"wifi", "tv", "minibar"},
		{"wifi", "pool", "gym"},
		{"wifi", "tv", "minibar", "pool", "gym", "spa"},
	}

	var rooms []domain.Room
	for i := 0; i < 40; i++ {
		price := 60.0 + float64(i)*12.5
		rating := 3.0 + float64(i%5)*0.5
		view := views[i%len(views)]
		rm := domain.Room{
			ID:            fmt.Sprintf("room-%03d", i+1),
			Title:         fmt.Sprintf("Room %03d", i+1),
			PricePerNight: price,
			Rating:        &rating,
			MaxGuests:     1 + i%5,
			BedType:       bedTypes[i%len(bedTypes)],
			Tags:          []string{"demo"},
			Amenities:     amenitySets[i%len(amenitySets)],
			Badges:        nil,
			View:          &view,
			Status:        domain.StatusAvailable,
		}
		// a few rooms in non-searchable states to exercise the status rule
		switch i % 10 {
		case 8:
			rm.Status = domain.StatusMaintenance
		case 9:
			rm.Status = domain.StatusOccupied
		}
		rooms = append(rooms, rm)
	}

	day := func(d int) time.Time { return time.Date(2026, time.September, d, 0, 0, 0, 0, time.UTC) }
	bookings := []domain.Booking{
		{ID: "bk-001", RoomID: "room-001", CheckInDate: day(1), CheckOutDate: day(5), Status: domain.BookingConfirmed},
		{ID: "bk-002", RoomID: "room-002", CheckInDate: day(3), CheckOutDate: day(10), Status: domain.BookingConfirmed},
		{ID: "bk-003", RoomID: "room-003", CheckInDate: day(7), CheckOutDate: day(9), Status: "CANCELLED"},
		{ID: "bk-004", RoomID: "room-004", CheckInDate: day(12), CheckOutDate: day(15), Status: domain.BookingConfirmed},
	}
	return rooms, bookings
}
