//go:build integration || !unit

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"room_catalog/internal/domain"
	mysqlrepo "room_catalog/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }
func pview(v domain.RoomView) *domain.RoomView { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
func pday(y int, m time.Month, d int) *time.Time {
	t := day(y, m, d)
	return &t
}

func mustEnv(t *testing.T, k string) string {
	t.Helper()
	v := os.Getenv(k)
	if v == "" {
		t.Fatalf("%s not set; export it (e.g. MIGRATIONS_DIR=/path/to/migrations)", k)
	}
	return v
}

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := mustEnv(t, "MIGRATIONS_DIR")

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=rooms",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "rooms")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)
	return db
}

func seedCatalog(t *testing.T, repo *mysqlrepo.Repo) {
	t.Helper()
	ctx := context.Background()

	rooms := []domain.Room{
		{
			ID: "room-001", Title: "Garden Double", Description: pstr("Quiet double"),
			PricePerNight: 80, Rating: pfloat(4.0), MaxGuests: 2, BedType: domain.BedDouble,
			RoomSize: pfloat(18), Tags: []string{"budget"}, Amenities: []string{"wifi"},
			Badges: []string{}, View: pview(domain.ViewGarden), Status: domain.StatusAvailable,
		},
		{
			ID: "room-002", Title: "Ocean Queen", PricePerNight: 150, Rating: pfloat(4.5),
			MaxGuests: 4, BedType: domain.BedQueen, Tags: []string{}, Amenities: []string{"wifi", "pool"},
			Badges: []string{"bestseller"}, View: pview(domain.ViewOcean), Status: domain.StatusAvailable,
		},
		{
			ID: "room-003", Title: "Panoramic King Suite", PricePerNight: 300, Rating: pfloat(5.0),
			MaxGuests: 6, BedType: domain.BedKing, Tags: []string{"suite"},
			Amenities: []string{"wifi", "pool", "spa"}, Badges: []string{},
			View: pview(domain.ViewPanoramic), Status: domain.StatusAvailable,
		},
		// never searchable: soft-deleted
		{
			ID: "room-004", Title: "Ghost Room", PricePerNight: 10, MaxGuests: 2,
			BedType: domain.BedSingle, Tags: []string{}, Amenities: []string{"wifi"},
			Badges: []string{}, Status: domain.StatusAvailable, Deleted: true,
		},
		// never searchable: under maintenance
		{
			ID: "room-005", Title: "Broken Twin", PricePerNight: 20, MaxGuests: 2,
			BedType: domain.BedTwin, Tags: []string{}, Amenities: []string{"wifi", "pool", "spa"},
			Badges: []string{}, Status: domain.StatusMaintenance,
		},
	}
	for _, rm := range rooms {
		if err := repo.UpsertRoom(ctx, rm); err != nil {
			t.Fatalf("UpsertRoom %s: %v", rm.ID, err)
		}
	}

	bookings := []domain.Booking{
		{ID: "bk-1", RoomID: "room-002", CheckInDate: day(2024, 6, 1), CheckOutDate: day(2024, 6, 10), Status: domain.BookingConfirmed},
		// cancelled bookings never block availability
		{ID: "bk-2", RoomID: "room-003", CheckInDate: day(2024, 6, 1), CheckOutDate: day(2024, 6, 10), Status: "CANCELLED"},
	}
	for _, b := range bookings {
		if err := repo.UpsertBooking(ctx, b); err != nil {
			t.Fatalf("UpsertBooking %s: %v", b.ID, err)
		}
	}
}

func search(t *testing.T, repo *mysqlrepo.Repo, raw domain.RawSearchCriteria) domain.RoomsPage {
	t.Helper()
	c, err := domain.NewSearchCriteria(raw, domain.DefaultSearchDefaults())
	if err != nil {
		t.Fatalf("criteria: %v", err)
	}
	page, err := repo.SearchRooms(context.Background(), c)
	if err != nil {
		t.Fatalf("SearchRooms: %v", err)
	}
	return page
}

func ids(page domain.RoomsPage) []string {
	out := make([]string, 0, len(page.Items))
	for _, rm := range page.Items {
		out = append(out, rm.ID)
	}
	return out
}

func equalIDs(a []string, b ...string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// ---------- the test ----------
func TestRepo_MySQL_SearchSemantics(t *testing.T) {
	db := startMySQL(t)
	repo := mysqlrepo.New(db)
	seedCatalog(t, repo)
	ctx := context.Background()

	t.Run("unfiltered excludes deleted and non-available", func(t *testing.T) {
		page := search(t, repo, domain.RawSearchCriteria{})
		if page.TotalElements != 3 {
			t.Fatalf("totalElements: %d", page.TotalElements)
		}
		if !equalIDs(ids(page), "room-001", "room-002", "room-003") {
			t.Fatalf("price ASC order: %v", ids(page))
		}
	})

	t.Run("sort price DESC reverses", func(t *testing.T) {
		page := search(t, repo, domain.RawSearchCriteria{SortDirection: "DESC"})
		if !equalIDs(ids(page), "room-003", "room-002", "room-001") {
			t.Fatalf("price DESC order: %v", ids(page))
		}
	})

	t.Run("amenities require ALL, not any", func(t *testing.T) {
		page := search(t, repo, domain.RawSearchCriteria{Amenities: []string{"wifi", "pool"}})
		if !equalIDs(ids(page), "room-002", "room-003") {
			t.Fatalf("expected only rooms with both amenities, got %v", ids(page))
		}
		for _, rm := range page.Items {
			have := map[string]bool{}
			for _, a := range rm.Amenities {
				have[a] = true
			}
			if !have["wifi"] || !have["pool"] {
				t.Fatalf("room %s missing requested amenity: %v", rm.ID, rm.Amenities)
			}
		}
	})

	t.Run("price range and guests and bed type and view", func(t *testing.T) {
		page := search(t, repo, domain.RawSearchCriteria{MinPrice: pfloat(100), MaxPrice: pfloat(200)})
		if !equalIDs(ids(page), "room-002") {
			t.Fatalf("price range: %v", ids(page))
		}
		page = search(t, repo, domain.RawSearchCriteria{MinGuests: pint(5)})
		if !equalIDs(ids(page), "room-003") {
			t.Fatalf("minGuests: %v", ids(page))
		}
		page = search(t, repo, domain.RawSearchCriteria{BedTypes: []domain.BedType{domain.BedDouble, domain.BedQueen}})
		if !equalIDs(ids(page), "room-001", "room-002") {
			t.Fatalf("bedTypes OR: %v", ids(page))
		}
		page = search(t, repo, domain.RawSearchCriteria{Views: []domain.RoomView{domain.ViewOcean}})
		if !equalIDs(ids(page), "room-002") {
			t.Fatalf("views OR: %v", ids(page))
		}
	})

	t.Run("availability overlap is half-open", func(t *testing.T) {
		// adjacent stay: checkout day of bk-1 equals requested check-in
		page := search(t, repo, domain.RawSearchCriteria{CheckIn: pday(2024, 6, 10), CheckOut: pday(2024, 6, 15)})
		if !equalIDs(ids(page), "room-001", "room-002", "room-003") {
			t.Fatalf("adjacent stay must not conflict: %v", ids(page))
		}

		// overlapping stay excludes room-002; CANCELLED booking on room-003 does not block
		page = search(t, repo, domain.RawSearchCriteria{CheckIn: pday(2024, 6, 5), CheckOut: pday(2024, 6, 12)})
		if !equalIDs(ids(page), "room-001", "room-003") {
			t.Fatalf("overlapping stay must exclude booked room: %v", ids(page))
		}
	})

	t.Run("pagination totals cover the full filtered set", func(t *testing.T) {
		all := search(t, repo, domain.RawSearchCriteria{Size: pint(100)})

		p0 := search(t, repo, domain.RawSearchCriteria{Page: pint(0), Size: pint(1)})
		p1 := search(t, repo, domain.RawSearchCriteria{Page: pint(1), Size: pint(1)})
		if p0.TotalElements != all.TotalElements || p1.TotalElements != all.TotalElements {
			t.Fatalf("totalElements must span the catalog: %d/%d vs %d",
				p0.TotalElements, p1.TotalElements, all.TotalElements)
		}
		if len(p0.Items) != 1 || len(p1.Items) != 1 || p0.Items[0].ID == p1.Items[0].ID {
			t.Fatalf("page slicing wrong: %v %v", ids(p0), ids(p1))
		}
		if p0.Items[0].ID != all.Items[0].ID || p1.Items[0].ID != all.Items[1].ID {
			t.Fatalf("page order must match the unpaginated order")
		}
	})

	t.Run("idempotent repeat", func(t *testing.T) {
		a := search(t, repo, domain.RawSearchCriteria{SortBy: "rating", SortDirection: "DESC"})
		b := search(t, repo, domain.RawSearchCriteria{SortBy: "rating", SortDirection: "DESC"})
		if !equalIDs(ids(a), ids(b)...) {
			t.Fatalf("identical criteria must return identical order: %v vs %v", ids(a), ids(b))
		}
	})

	t.Run("single and bulk availability share semantics", func(t *testing.T) {
		ok, err := repo.IsRoomAvailable(ctx, "room-002", day(2024, 6, 5), day(2024, 6, 12))
		if err != nil || ok {
			t.Fatalf("room-002 should be blocked: %v %v", ok, err)
		}
		ok, err = repo.IsRoomAvailable(ctx, "room-002", day(2024, 6, 10), day(2024, 6, 15))
		if err != nil || !ok {
			t.Fatalf("adjacent stay should be available: %v %v", ok, err)
		}

		free, err := repo.FilterAvailable(ctx, []string{"room-001", "room-002", "room-003"}, day(2024, 6, 5), day(2024, 6, 12))
		if err != nil {
			t.Fatalf("FilterAvailable: %v", err)
		}
		if !equalIDs(free, "room-001", "room-003") {
			t.Fatalf("bulk exclusion: %v", free)
		}
	})

	t.Run("plain read path", func(t *testing.T) {
		// soft-deleted rooms are invisible on every read
		if _, err := repo.GetRoom(ctx, "room-004"); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("deleted room must be ErrNotFound, got %v", err)
		}
		// but non-AVAILABLE status is a search-only restriction
		rm, err := repo.GetRoom(ctx, "room-005")
		if err != nil || rm.Status != domain.StatusMaintenance {
			t.Fatalf("GetRoom room-005: %+v %v", rm, err)
		}
	})

	t.Run("soft delete removes from search", func(t *testing.T) {
		if err := repo.SoftDeleteRoom(ctx, "room-001"); err != nil {
			t.Fatalf("SoftDeleteRoom: %v", err)
		}
		page := search(t, repo, domain.RawSearchCriteria{})
		if page.TotalElements != 2 {
			t.Fatalf("deleted room still counted: %d", page.TotalElements)
		}
		// restore for any later subtests
		rm := domain.Room{
			ID: "room-001", Title: "Garden Double", PricePerNight: 80, Rating: pfloat(4.0),
			MaxGuests: 2, BedType: domain.BedDouble, Tags: []string{"budget"},
			Amenities: []string{"wifi"}, Badges: []string{},
			View: pview(domain.ViewGarden), Status: domain.StatusAvailable,
		}
		if err := repo.UpsertRoom(ctx, rm); err != nil {
			t.Fatalf("restore: %v", err)
		}
	})
}
