package mysql

const upsertRoomSQL = `
INSERT INTO rooms
  (id, title, description, price_per_night, rating, max_guests, bed_type,
   room_size, tags, amenities, badges, ` + "`view`" + `, status, deleted)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  title           = VALUES(title),
  description     = VALUES(description),
  price_per_night = VALUES(price_per_night),
  rating          = VALUES(rating),
  max_guests      = VALUES(max_guests),
  bed_type        = VALUES(bed_type),
  room_size       = VALUES(room_size),
  tags            = VALUES(tags),
  amenities       = VALUES(amenities),
  badges          = VALUES(badges),
  ` + "`view`" + ` = VALUES(` + "`view`" + `),
  status          = VALUES(status),
  deleted         = VALUES(deleted),
  updated_at      = CURRENT_TIMESTAMP
`

const softDeleteRoomSQL = `
UPDATE rooms SET deleted = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?
`

const upsertBookingSQL = `
INSERT INTO bookings
  (id, room_id, check_in_date, check_out_date, status)
VALUES
  (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  check_in_date  = VALUES(check_in_date),
  check_out_date = VALUES(check_out_date),
  status         = VALUES(status),
  updated_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

// Column list shared by every room SELECT so scanRoom stays in sync.
// Note: `view` is kept quoted everywhere.
const roomColumnsSQL = `
  r.id,
  r.title,
  r.description,
  r.price_per_night,
  r.rating,
  r.max_guests,
  r.bed_type,
  r.room_size,
  r.tags,
  r.amenities,
  r.badges,
  r.` + "`view`" + `,
  r.status,
  r.created_at,
  r.updated_at,
  r.deleted
`

// Plain read path: soft-deleted rooms are invisible on every read, but unlike
// search there is no status restriction here.
const getRoomSQL = `SELECT` + roomColumnsSQL + `FROM rooms r WHERE r.id = ? AND r.deleted = 0`

// bookingOverlapSQL is the one half-open overlap test between an existing
// CONFIRMED booking and a requested stay [checkIn, checkOut). Bind order:
// checkOut first, then checkIn. Defined exactly once and reused by the search
// predicate and both availability lookups, so boundary semantics cannot
// diverge: a booking ending on the requested check-in day never conflicts.
const bookingOverlapSQL = `b.status = 'CONFIRMED' AND b.check_in_date < ? AND b.check_out_date > ?`

const roomAvailableSQL = `
SELECT NOT EXISTS (
  SELECT 1 FROM bookings b
  WHERE b.room_id = ? AND ` + bookingOverlapSQL + `
)`

const overlappingRoomIDsPrefix = `
SELECT DISTINCT b.room_id FROM bookings b
WHERE ` + bookingOverlapSQL + ` AND b.room_id IN `
