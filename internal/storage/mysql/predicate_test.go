package mysql

import (
	"strings"
	"testing"
	"time"

	"room_catalog/internal/domain"
)

func pf(f float64) *float64 { return &f }
func pi(n int) *int         { return &n }
func pd(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func mustCriteria(t *testing.T, raw domain.RawSearchCriteria) domain.SearchCriteria {
	t.Helper()
	c, err := domain.NewSearchCriteria(raw, domain.DefaultSearchDefaults())
	if err != nil {
		t.Fatalf("criteria: %v", err)
	}
	return c
}

func TestSearchPredicate_Unfiltered(t *testing.T) {
	p := searchPredicate(mustCriteria(t, domain.RawSearchCriteria{}))

	where := p.whereClause()
	if !strings.Contains(where, "r.deleted = 0") {
		t.Fatalf("missing soft-delete guard: %s", where)
	}
	if !strings.Contains(where, "r.status = ?") {
		t.Fatalf("missing status guard: %s", where)
	}
	// nothing else: absence of a filter value means no constraint
	if len(p.conds) != 2 {
		t.Fatalf("expected exactly 2 unconditional conds, got %v", p.conds)
	}
	if len(p.args) != 1 || p.args[0] != "AVAILABLE" {
		t.Fatalf("unexpected args: %v", p.args)
	}
}

func TestSearchPredicate_AllFilters(t *testing.T) {
	p := searchPredicate(mustCriteria(t, domain.RawSearchCriteria{
		MinPrice: pf(50), MaxPrice: pf(300), MinGuests: pi(2),
		BedTypes:  []domain.BedType{domain.BedQueen, domain.BedKing},
		Amenities: []string{"wifi", "pool"},
		Views:     []domain.RoomView{domain.ViewOcean},
		CheckIn:   pd(2024, 6, 5), CheckOut: pd(2024, 6, 12),
	}))

	where := p.whereClause()
	for _, frag := range []string{
		"r.price_per_night >= ?",
		"r.price_per_night <= ?",
		"r.max_guests >= ?",
		"r.bed_type IN (?,?)",
		"JSON_CONTAINS(r.amenities, CAST(? AS JSON))",
		"r.`view` IN (?)",
		"NOT EXISTS (SELECT 1 FROM bookings b WHERE b.room_id = r.id AND " + bookingOverlapSQL + ")",
	} {
		if !strings.Contains(where, frag) {
			t.Fatalf("missing %q in %s", frag, where)
		}
	}

	want := []any{
		"AVAILABLE", 50.0, 300.0, 2, "QUEEN", "KING",
		`["wifi","pool"]`, "OCEAN_VIEW",
		time.Date(2024, 6, 12, 0, 0, 0, 0, time.UTC), // checkOut binds first
		time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC),
	}
	if len(p.args) != len(want) {
		t.Fatalf("args: got %v, want %v", p.args, want)
	}
	for i := range want {
		if p.args[i] != want[i] {
			t.Fatalf("arg %d: got %v, want %v", i, p.args[i], want[i])
		}
	}
}

func TestSearchPredicate_SingleBound(t *testing.T) {
	p := searchPredicate(mustCriteria(t, domain.RawSearchCriteria{MinPrice: pf(80)}))
	where := p.whereClause()
	if !strings.Contains(where, ">= ?") || strings.Contains(where, "<= ?") {
		t.Fatalf("expected lower bound only: %s", where)
	}
}

func TestSortColumn_Whitelist(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"price", "r.price_per_night"},
		{"rating", "r.rating"},
		{"popularity", "r.rating"}, // rating is the documented popularity proxy
		{"PRICE", "r.price_per_night"},
		{"", "r.price_per_night"},
		{"id; DROP TABLE rooms", "r.price_per_night"}, // unknown input falls back, never reaches SQL
	}
	for _, tc := range cases {
		if got := sortColumn(tc.in); got != tc.want {
			t.Fatalf("sortColumn(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestOrderBySQL_StableTiebreaker(t *testing.T) {
	c := mustCriteria(t, domain.RawSearchCriteria{SortBy: "rating", SortDirection: "desc"})
	got := orderBySQL(c)
	if got != " ORDER BY r.rating DESC, r.id ASC" {
		t.Fatalf("orderBySQL: %q", got)
	}
}

func TestPlaceholders(t *testing.T) {
	if got := placeholders(3); got != "?,?,?" {
		t.Fatalf("placeholders(3) = %q", got)
	}
}
