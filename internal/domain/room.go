package domain

import (
	"fmt"
	"strings"
	"time"
)

type BedType string

const (
	BedSingle BedType = "SINGLE"
	BedDouble BedType = "DOUBLE"
	BedQueen  BedType = "QUEEN"
	BedKing   BedType = "KING"
	BedTwin   BedType = "TWIN"
)

type RoomView string

const (
	ViewOcean     RoomView = "OCEAN_VIEW"
	ViewGarden    RoomView = "GARDEN_VIEW"
	ViewPanoramic RoomView = "PANORAMIC_VIEW"
)

type RoomStatus string

const (
	StatusAvailable   RoomStatus = "AVAILABLE"
	StatusOccupied    RoomStatus = "OCCUPIED"
	StatusMaintenance RoomStatus = "MAINTENANCE"
	StatusReserved    RoomStatus = "RESERVED"
)

func ParseBedType(s string) (BedType, error) {
	b := BedType(strings.ToUpper(strings.TrimSpace(s)))
	switch b {
	case BedSingle, BedDouble, BedQueen, BedKing, BedTwin:
		return b, nil
	}
	return "", fmt.Errorf("unknown bed type %q", s)
}

func ParseRoomView(s string) (RoomView, error) {
	v := RoomView(strings.ToUpper(strings.TrimSpace(s)))
	switch v {
	case ViewOcean, ViewGarden, ViewPanoramic:
		return v, nil
	}
	return "", fmt.Errorf("unknown room view %q", s)
}

type Room struct {
	ID            string
	Title         string
	Description   *string
	PricePerNight float64
	Rating        *float64
	MaxGuests     int
	BedType       BedType
	RoomSize      *float64
	Tags          []string
	Amenities     []string
	Badges        []string
	View          *RoomView
	Status        RoomStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Deleted       bool
}
