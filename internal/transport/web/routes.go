package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avstrong/hotelcart/internal/booking"
	"github.com/avstrong/hotelcart/internal/receipt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type addToCartRequest struct {
	RoomID string `json:"room_id"`
}

type addToCartResponse struct {
	RoomID    string `json:"room_id"`
	Quantity  int    `json:"quantity"`
	Available int    `json:"available"`
}

type checkoutRequest struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	CardNumber string `json:"card_number"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

type checkoutResponse struct {
	Receipt string         `json:"receipt"`
	Order   *booking.Order `json:"order"`
}

type cartResponse struct {
	Rooms []booking.Room `json:"rooms"`
	Quote *booking.Order `json:"quote,omitempty"`
}

// parseDates reads an optional pair of yyyy-MM-dd dates. Malformed values are
// reported under their own field name.
func parseDates(checkIn, checkOut string) (time.Time, time.Time, map[string][]string) {
	fields := make(map[string][]string)

	parse := func(field, value string) time.Time {
		if value == "" {
			return time.Time{}
		}

		t, err := time.Parse(time.DateOnly, value)
		if err != nil {
			fields[field] = append(fields[field], "must be a date in yyyy-MM-dd format")
		}

		return t
	}

	in := parse("check_in", strings.TrimSpace(checkIn))
	out := parse("check_out", strings.TrimSpace(checkOut))

	if len(fields) == 0 {
		return in, out, nil
	}

	return in, out, fields
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.l.LogErrorf("Could not encode response: %v", err.Error())
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return false
	}

	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error, action string) {
	if inputErr := booking.IsInputError(err); inputErr != nil {
		s.writeJSON(w, http.StatusBadRequest, inputErr.Fields())

		return
	}

	switch {
	case errors.Is(err, booking.ErrRecordNotFound):
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	case errors.Is(err, booking.ErrNotLoggedIn):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, booking.ErrEmptyCart):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		s.l.LogErrorf("Could not %s: %v", action, err.Error())
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	var input loginRequest

	if !s.decode(w, r, &input) {
		return
	}

	user, err := s.bManager.Login(r.Context(), input.Email, input.Password)
	if err != nil {
		s.writeError(w, err, "log in")

		return
	}

	s.writeJSON(w, http.StatusCreated, user)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	s.bManager.Logout(r.Context())

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) searchHotelsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	checkIn, checkOut, fields := parseDates(q.Get("check_in"), q.Get("check_out"))
	if fields != nil {
		s.writeJSON(w, http.StatusBadRequest, fields)

		return
	}

	hotels, err := s.bManager.SearchHotels(r.Context(), booking.SearchInput{
		City:     q.Get("city"),
		CheckIn:  checkIn,
		CheckOut: checkOut,
	})
	if err != nil {
		s.writeError(w, err, "search hotels")

		return
	}

	s.writeJSON(w, http.StatusOK, hotels)
}

func (s *Server) roomsHandler(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.bManager.FindRoomsByHotel(r.Context(), r.PathValue("hotelID"))
	if err != nil {
		s.writeError(w, err, "list rooms")

		return
	}

	s.writeJSON(w, http.StatusOK, rooms)
}

func (s *Server) addToCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input addToCartRequest

	if !s.decode(w, r, &input) {
		return
	}

	ok, err := s.bManager.AddToCart(ctx, input.RoomID)
	if err != nil {
		s.writeError(w, err, "add room to cart")

		return
	}

	room, err := s.bManager.Room(ctx, input.RoomID)
	if err != nil {
		s.writeError(w, err, "get room")

		return
	}

	quantity, err := s.bManager.CartQuantity(ctx, input.RoomID)
	if err != nil {
		s.writeError(w, err, "get cart quantity")

		return
	}

	status := http.StatusCreated
	if !ok {
		status = http.StatusConflict
	}

	s.writeJSON(w, status, addToCartResponse{
		RoomID:    room.ID,
		Quantity:  quantity,
		Available: room.Available,
	})
}

func (s *Server) cartHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	checkIn, checkOut, fields := parseDates(q.Get("check_in"), q.Get("check_out"))
	if fields != nil {
		s.writeJSON(w, http.StatusBadRequest, fields)

		return
	}

	rooms, err := s.bManager.Cart(ctx)
	if err != nil {
		s.writeError(w, err, "get cart")

		return
	}

	//nolint:exhaustruct
	resp := cartResponse{Rooms: rooms}

	if !checkIn.IsZero() && !checkOut.IsZero() {
		if resp.Quote, err = s.bManager.Quote(ctx, booking.Stay{CheckIn: checkIn, CheckOut: checkOut}); err != nil {
			s.writeError(w, err, "quote cart")

			return
		}
	}

	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) clearCartHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.bManager.ClearCart(r.Context()); err != nil {
		s.writeError(w, err, "clear cart")

		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkoutHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var input checkoutRequest

	if !s.decode(w, r, &input) {
		return
	}

	checkIn, checkOut, fields := parseDates(input.CheckIn, input.CheckOut)
	if fields != nil {
		s.writeJSON(w, http.StatusBadRequest, fields)

		return
	}

	if key := r.Header.Get("Idempotency-Key"); key != "" {
		ctx = booking.NewContextWithCheckoutKey(ctx, key)
	}

	order, path, err := s.bManager.Checkout(ctx, booking.CheckoutInput{
		Name:       input.Name,
		Surname:    input.Surname,
		CardNumber: input.CardNumber,
		Stay:       booking.Stay{CheckIn: checkIn, CheckOut: checkOut},
	})
	if err != nil {
		s.writeError(w, err, "check out")

		return
	}

	if r.URL.Query().Get("format") != "pdf" {
		s.writeJSON(w, http.StatusCreated, checkoutResponse{Receipt: path, Order: order})

		return
	}

	var buf bytes.Buffer

	// The order is already paid here, so a failed pdf still answers with the order.
	if err = s.renderPDF(&buf, order); err != nil {
		s.l.LogErrorf("Could not render pdf receipt of order %d: %v", order.ID, err.Error())
		s.writeJSON(w, http.StatusCreated, checkoutResponse{Receipt: path, Order: order})

		return
	}

	name := strings.TrimSuffix(receipt.FileName(order), ".txt") + ".pdf"

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusCreated)

	if _, err = buf.WriteTo(w); err != nil {
		s.l.LogErrorf("Could not send pdf receipt: %v", err.Error())
	}
}

func (s *Server) livenessHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addRoutes(r *http.ServeMux) {
	routes := map[string]http.HandlerFunc{
		"POST /api/session/v1":               s.loginHandler,
		"DELETE /api/session/v1":             s.logoutHandler,
		"GET /api/hotels/v1":                 s.searchHotelsHandler,
		"GET /api/hotels/v1/{hotelID}/rooms": s.roomsHandler,
		"POST /api/cart/v1/items":            s.addToCartHandler,
		"GET /api/cart/v1":                   s.cartHandler,
		"DELETE /api/cart/v1":                s.clearCartHandler,
		"POST /api/checkout/v1":              s.checkoutHandler,
	}

	routes[fmt.Sprintf("GET %s", s.conf.LivenessEndpoint)] = s.livenessHandler

	for pattern, handler := range routes {
		r.Handle(
			pattern,
			s.applyMiddlewares(handler, s.rateLimitMiddleware(), s.loggerMiddleware(), s.recoverMiddleware()),
		)
	}
}
