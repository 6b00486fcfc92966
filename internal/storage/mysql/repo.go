package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"room_catalog/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valView(p *domain.RoomView) any {
	if p == nil {
		return nil
	}
	return string(*p)
}
func valJSONList(ss []string) string {
	if ss == nil {
		ss = []string{}
	}
	b, _ := json.Marshal(ss)
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// -----------------------------------------------------------------------------
// Write paths
// -----------------------------------------------------------------------------

func (r *Repo) UpsertRoom(ctx context.Context, rm domain.Room) error {
	deleted := 0
	if rm.Deleted {
		deleted = 1
	}
	_, err := r.db.ExecContext(ctx, upsertRoomSQL,
		rm.ID,
		rm.Title,
		valStr(rm.Description),
		rm.PricePerNight,
		valF64(rm.Rating),
		rm.MaxGuests,
		string(rm.BedType),
		valF64(rm.RoomSize),
		valJSONList(rm.Tags),
		valJSONList(rm.Amenities),
		valJSONList(rm.Badges),
		valView(rm.View),
		string(rm.Status),
		deleted,
	)
	return err
}

func (r *Repo) SoftDeleteRoom(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, softDeleteRoomSQL, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *Repo) UpsertBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, upsertBookingSQL,
		b.ID, b.RoomID, b.CheckInDate, b.CheckOutDate, b.Status)
	return err
}

// -----------------------------------------------------------------------------
// Read paths
// -----------------------------------------------------------------------------

func (r *Repo) GetRoom(ctx context.Context, id string) (domain.Room, error) {
	row := r.db.QueryRowContext(ctx, getRoomSQL, id)
	rm, err := scanRoom(row)
	if err == sql.ErrNoRows {
		return domain.Room{}, domain.ErrNotFound
	}
	return rm, err
}

// SearchRooms runs the composite predicate as a single pushed-down plan:
// COUNT(*) over the whole filtered set for totalElements, then the ordered,
// offset-paged SELECT. Nothing is filtered in application memory.
func (r *Repo) SearchRooms(ctx context.Context, c domain.SearchCriteria) (domain.RoomsPage, error) {
	p := searchPredicate(c)
	page := domain.RoomsPage{Items: []domain.Room{}, Page: c.Page, Size: c.Size}

	if err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM rooms r"+p.whereClause(), p.args...,
	).Scan(&page.TotalElements); err != nil {
		return domain.RoomsPage{}, fmt.Errorf("count rooms: %w", err)
	}
	if page.TotalElements == 0 {
		return page, nil
	}

	q := "SELECT" + roomColumnsSQL + "FROM rooms r" + p.whereClause() + orderBySQL(c) + " LIMIT ? OFFSET ?"
	args := append(append([]any(nil), p.args...), c.Size, c.Page*c.Size)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return domain.RoomsPage{}, fmt.Errorf("select rooms: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return domain.RoomsPage{}, err
		}
		page.Items = append(page.Items, rm)
	}
	if err := rows.Err(); err != nil {
		return domain.RoomsPage{}, err
	}
	return page, nil
}

func (r *Repo) IsRoomAvailable(ctx context.Context, roomID string, checkIn, checkOut time.Time) (bool, error) {
	var ok bool
	err := r.db.QueryRowContext(ctx, roomAvailableSQL, roomID, checkOut, checkIn).Scan(&ok)
	return ok, err
}

func (r *Repo) FilterAvailable(ctx context.Context, roomIDs []string, checkIn, checkOut time.Time) ([]string, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(roomIDs)+2)
	args = append(args, checkOut, checkIn)
	for _, id := range roomIDs {
		args = append(args, id)
	}
	rows, err := r.db.QueryContext(ctx, overlappingRoomIDsPrefix+"("+placeholders(len(roomIDs))+")", args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	blocked := map[string]struct{}{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		blocked[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	out := make([]string, 0, len(roomIDs))
	for _, id := range roomIDs {
		if _, hit := blocked[id]; !hit {
			out = append(out, id)
		}
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Scanning
// -----------------------------------------------------------------------------

type rowScanner interface{ Scan(dest ...any) error }

func scanRoom(row rowScanner) (domain.Room, error) {
	var rm domain.Room
	var (
		desc       sql.NullString
		rating     sql.NullFloat64
		roomSize   sql.NullFloat64
		view       sql.NullString
		bedType    string
		status     string
		tagsJSON   []byte
		amenJSON   []byte
		badgesJSON []byte
	)
	if err := row.Scan(
		&rm.ID,
		&rm.Title,
		&desc,
		&rm.PricePerNight,
		&rating,
		&rm.MaxGuests,
		&bedType,
		&roomSize,
		&tagsJSON, &amenJSON, &badgesJSON,
		&view,
		&status,
		&rm.CreatedAt,
		&rm.UpdatedAt,
		&rm.Deleted,
	); err != nil {
		return domain.Room{}, err
	}

	if desc.Valid {
		d := desc.String
		rm.Description = &d
	}
	if rating.Valid {
		f := rating.Float64
		rm.Rating = &f
	}
	if roomSize.Valid {
		f := roomSize.Float64
		rm.RoomSize = &f
	}
	if view.Valid {
		v := domain.RoomView(view.String)
		rm.View = &v
	}
	rm.BedType = domain.BedType(bedType)
	rm.Status = domain.RoomStatus(status)
	_ = json.Unmarshal(tagsJSON, &rm.Tags)
	_ = json.Unmarshal(amenJSON, &rm.Amenities)
	_ = json.Unmarshal(badgesJSON, &rm.Badges)
	return rm, nil
}
