package domain

import "time"

// Booking statuses as stored; only confirmed bookings block availability.
const BookingConfirmed = "CONFIRMED"

type Booking struct {
	ID           string
	RoomID       string
	CheckInDate  time.Time // date-only, UTC midnight
	CheckOutDate time.Time
	Status       string
}
