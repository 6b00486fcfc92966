package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"room_catalog/internal/adapters/observability"
	"room_catalog/internal/app"
	"room_catalog/internal/domain"
)

type Handlers struct{ Q *app.SearchService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/rooms/search", h.searchRooms)
	s.mux.Get("/v1/rooms/{id}", h.getRoom)
	s.mux.Get("/v1/rooms/{id}/availability", h.roomAvailability)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSONWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- wire shapes ----

type roomResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   *string   `json:"description,omitempty"`
	PricePerNight float64   `json:"pricePerNight"`
	Rating        *float64  `json:"rating,omitempty"`
	MaxGuests     int       `json:"maxGuests"`
	BedType       string    `json:"bedType"`
	RoomSize      *float64  `json:"roomSize,omitempty"`
	Tags          []string  `json:"tags"`
	Amenities     []string  `json:"amenities"`
	Badges        []string  `json:"badges"`
	View          *string   `json:"view,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type searchResponse struct {
	Content       []roomResponse `json:"content"`
	Page          int            `json:"page"`
	Size          int            `json:"size"`
	TotalElements int64          `json:"totalElements"`
}

func toRoomResponse(rm domain.Room) roomResponse {
	out := roomResponse{
		ID:            rm.ID,
		Title:         rm.Title,
		Description:   rm.Description,
		PricePerNight: rm.PricePerNight,
		Rating:        rm.Rating,
		MaxGuests:     rm.MaxGuests,
		BedType:       string(rm.BedType),
		RoomSize:      rm.RoomSize,
		Tags:          rm.Tags,
		Amenities:     rm.Amenities,
		Badges:        rm.Badges,
		Status:        string(rm.Status),
		CreatedAt:     rm.CreatedAt,
		UpdatedAt:     rm.UpdatedAt,
	}
	if rm.View != nil {
		v := string(*rm.View)
		out.View = &v
	}
	return out
}

// ---- criteria parsing ----

type paramError struct{ field, reason string }

func (e *paramError) Error() string { return e.field + ": " + e.reason }

func parseRawCriteria(r *http.Request) (domain.RawSearchCriteria, error) {
	q := r.URL.Query()
	var raw domain.RawSearchCriteria
	var err error

	if raw.MinPrice, err = floatParam(q.Get("minPrice"), "minPrice"); err != nil {
		return raw, err
	}
	if raw.MaxPrice, err = floatParam(q.Get("maxPrice"), "maxPrice"); err != nil {
		return raw, err
	}
	if raw.MinGuests, err = intParam(q.Get("minGuests"), "minGuests"); err != nil {
		return raw, err
	}
	for _, s := range csvParam(q.Get("bedTypes")) {
		b, perr := domain.ParseBedType(s)
		if perr != nil {
			return raw, &paramError{"bedTypes", perr.Error()}
		}
		raw.BedTypes = append(raw.BedTypes, b)
	}
	raw.Amenities = csvParam(q.Get("amenities"))
	for _, s := range csvParam(q.Get("views")) {
		v, perr := domain.ParseRoomView(s)
		if perr != nil {
			return raw, &paramError{"views", perr.Error()}
		}
		raw.Views = append(raw.Views, v)
	}
	if raw.CheckIn, err = dateParam(q.Get("checkIn"), "checkIn"); err != nil {
		return raw, err
	}
	if raw.CheckOut, err = dateParam(q.Get("checkOut"), "checkOut"); err != nil {
		return raw, err
	}
	raw.SortBy = q.Get("sortBy")
	raw.SortDirection = q.Get("sortDirection")
	if raw.Page, err = intParam(q.Get("page"), "page"); err != nil {
		return raw, err
	}
	if raw.Size, err = intParam(q.Get("size"), "size"); err != nil {
		return raw, err
	}
	return raw, nil
}

func floatParam(s, field string) (*float64, error) {
	if s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, &paramError{field, "must be a number"}
	}
	return &f, nil
}

func intParam(s, field string) (*int, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &paramError{field, "must be an integer"}
	}
	return &n, nil
}

func dateParam(s, field string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, &paramError{field, "must be an ISO date (YYYY-MM-DD)"}
	}
	return &t, nil
}

func csvParam(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ---- handlers ----

func (h *Handlers) searchRooms(w http.ResponseWriter, r *http.Request) {
	raw, err := parseRawCriteria(r)
	if err != nil {
		observability.ObserveSearch("validation_error")
		writeProblem(w, http.StatusBadRequest, "Invalid search criteria", err.Error())
		return
	}

	page, err := h.Q.SearchRooms(r.Context(), raw)
	if err != nil {
		var ice *domain.InvalidCriteriaError
		if errors.As(err, &ice) {
			observability.ObserveSearch("validation_error")
			writeProblem(w, http.StatusBadRequest, "Invalid search criteria", ice.Error())
			return
		}
		observability.ObserveSearch("execution_error")
		log.Error().Err(err).Msg("room search failed")
		writeProblem(w, http.StatusBadGateway, "Search failed", "room search could not be executed")
		return
	}
	observability.ObserveSearch("ok")

	resp := searchResponse{
		Content:       make([]roomResponse, 0, len(page.Items)),
		Page:          page.Page,
		Size:          page.Size,
		TotalElements: page.TotalElements,
	}
	for _, rm := range page.Items {
		resp.Content = append(resp.Content, toRoomResponse(rm))
	}
	writeJSONWithETag(w, r, resp)
}

func (h *Handlers) getRoom(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rm, err := h.Q.GetRoom(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, http.StatusNotFound, "Not Found", "room not found")
			return
		}
		log.Error().Err(err).Str("id", id).Msg("get room failed")
		writeProblem(w, http.StatusBadGateway, "Lookup failed", "room could not be loaded")
		return
	}
	writeJSONWithETag(w, r, toRoomResponse(rm))
}

func (h *Handlers) roomAvailability(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, err := dateParam(r.URL.Query().Get("checkIn"), "checkIn")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid dates", err.Error())
		return
	}
	out, err := dateParam(r.URL.Query().Get("checkOut"), "checkOut")
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid dates", err.Error())
		return
	}
	if in == nil || out == nil {
		writeProblem(w, http.StatusBadRequest, "Invalid dates", "checkIn and checkOut are required")
		return
	}

	ok, err := h.Q.CheckAvailability(r.Context(), id, *in, *out)
	if err != nil {
		var ice *domain.InvalidCriteriaError
		switch {
		case errors.As(err, &ice):
			writeProblem(w, http.StatusBadRequest, "Invalid dates", ice.Error())
		case errors.Is(err, domain.ErrNotFound):
			writeProblem(w, http.StatusNotFound, "Not Found", "room not found")
		default:
			log.Error().Err(err).Str("id", id).Msg("availability check failed")
			writeProblem(w, http.StatusBadGateway, "Availability check failed", "availability could not be determined")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]any{
		"roomId":    id,
		"checkIn":   in.Format("2006-01-02"),
		"checkOut":  out.Format("2006-01-02"),
		"available": ok,
	}); err != nil {
		log.Error().Err(err).Msg("failed to write availability body")
	}
}
