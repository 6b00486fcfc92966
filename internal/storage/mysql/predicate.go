package mysql

import (
	"encoding/json"
	"strings"

	"room_catalog/internal/domain"
)

// predicate is the composite search filter: an opaque WHERE fragment plus its
// bind args, evaluated entirely by MySQL. Conditions are ANDed in the order
// they were added.
type predicate struct {
	conds []string
	args  []any
}

func (p *predicate) and(cond string, args ...any) {
	p.conds = append(p.conds, cond)
	p.args = append(p.args, args...)
}

func (p *predicate) whereClause() string {
	return " WHERE " + strings.Join(p.conds, " AND ")
}

// searchPredicate compiles validated criteria into the composite filter.
// Absent criteria fields add no condition: callers narrow an unfiltered
// result set by adding parameters, never the other way around.
func searchPredicate(c domain.SearchCriteria) predicate {
	var p predicate

	// Unconditional: the public search surface never shows soft-deleted
	// rooms and only shows AVAILABLE ones (stricter than plain listing).
	p.and("r.deleted = 0")
	p.and("r.status = ?", string(domain.StatusAvailable))

	if c.MinPrice != nil {
		p.and("r.price_per_night >= ?", *c.MinPrice)
	}
	if c.MaxPrice != nil {
		p.and("r.price_per_night <= ?", *c.MaxPrice)
	}
	if c.MinGuests != nil {
		p.and("r.max_guests >= ?", *c.MinGuests)
	}
	if len(c.BedTypes) > 0 {
		vals := make([]any, len(c.BedTypes))
		for i, b := range c.BedTypes {
			vals[i] = string(b)
		}
		p.and("r.bed_type IN ("+placeholders(len(vals))+")", vals...)
	}
	if len(c.Amenities) > 0 {
		// ALL-of-N: JSON array containment requires every requested amenity
		// to be present on the room. One predicate, no per-amenity OR-join.
		want, _ := json.Marshal(c.Amenities)
		p.and("JSON_CONTAINS(r.amenities, CAST(? AS JSON))", string(want))
	}
	if len(c.Views) > 0 {
		vals := make([]any, len(c.Views))
		for i, v := range c.Views {
			vals[i] = string(v)
		}
		p.and("r.`view` IN ("+placeholders(len(vals))+")", vals...)
	}
	if c.CheckIn != nil && c.CheckOut != nil {
		// Correlated non-existence: the overlap test runs in the store, not
		// as an in-memory post-filter.
		p.and("NOT EXISTS (SELECT 1 FROM bookings b WHERE b.room_id = r.id AND "+bookingOverlapSQL+")",
			*c.CheckOut, *c.CheckIn)
	}
	return p
}

// sortColumn whitelists user-facing sort fields; raw input never reaches the
// ORDER BY. Unknown fields fall back to price to keep the endpoint permissive.
// "popularity" sorts by rating: the catalog carries no separate popularity
// metric, rating is the documented proxy.
func sortColumn(sortBy string) string {
	switch strings.ToLower(sortBy) {
	case "rating", "popularity":
		return "r.rating"
	default:
		return "r.price_per_night"
	}
}

func sortDirection(dir string) string {
	if strings.EqualFold(dir, "DESC") {
		return "DESC"
	}
	return "ASC"
}

// orderBySQL appends a stable id tiebreaker so identical criteria always
// return identically ordered pages.
func orderBySQL(c domain.SearchCriteria) string {
	return " ORDER BY " + sortColumn(c.SortBy) + " " + sortDirection(c.SortDirection) + ", r.id ASC"
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
