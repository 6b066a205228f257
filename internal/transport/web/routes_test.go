package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avstrong/hotelcart/internal/booking"
	"github.com/avstrong/hotelcart/internal/idgen/random"
	"github.com/avstrong/hotelcart/internal/logger"
	"github.com/avstrong/hotelcart/internal/receipt"
	"github.com/avstrong/hotelcart/internal/storage/memory"
	"github.com/avstrong/hotelcart/internal/transport/web"
)

type testServer struct {
	handler http.Handler
	db      *memory.DB
	hotel   booking.Hotel
	room    booking.Room
}

func newTestServer(t *testing.T, rps float64, burst int) *testServer {
	t.Helper()

	ctx := context.Background()
	db := memory.New(memory.Config{L: logger.Discard()})

	//nolint:exhaustruct
	hotel := &booking.Hotel{Name: "Test Hotel", Stars: 3, City: "Springfield"}
	if err := db.AddHotel(ctx, hotel); err != nil {
		t.Fatalf("AddHotel() error = %v", err)
	}

	//nolint:exhaustruct
	room := &booking.Room{Hotel: hotel, Type: "Standard", Price: 100, Available: 2}
	if err := db.AddRoom(ctx, room); err != nil {
		t.Fatalf("AddRoom() error = %v", err)
	}

	//nolint:exhaustruct
	manager := booking.New(booking.Config{
		L:            logger.Discard(),
		Storage:      db,
		IDGenerator:  random.New(),
		Receipts:     receipt.NewFileWriter(receipt.Config{L: logger.Discard(), Dir: t.TempDir()}),
		PasswordCost: bcrypt.MinCost,
		Now:          func() time.Time { return time.Date(2023, 12, 20, 0, 0, 0, 0, time.UTC) },
	})

	srv, err := web.New(ctx, web.Conf{
		L:                 logger.Discard(),
		ServerLogger:      log.New(io.Discard, "", 0),
		Host:              "localhost",
		Port:              "0",
		ReadHeaderTimeout: time.Second,
		LivenessEndpoint:  "/liveness",
		RateLimitRPS:      rps,
		RateLimitBurst:    burst,
		CORSOrigins:       []string{"http://front.test"},
	}, manager)
	if err != nil {
		t.Fatalf("web.New() error = %v", err)
	}

	return &testServer{handler: srv.Srv().Handler, db: db, hotel: *hotel, room: *room}
}

func (ts *testServer) do(t *testing.T, method, target, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	return rec
}

func (ts *testServer) login(t *testing.T) {
	t.Helper()

	rec := ts.do(t, http.MethodPost, "/api/session/v1", `{"email":"homer@springfield.com","password":"donuts"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("login status = %d, body = %s", rec.Code, rec.Body)
	}
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}

	return v
}

func TestLiveness(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 0, 0)

	rec := ts.do(t, http.MethodGet, "/liveness", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}

	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID header is missing")
	}
}

func TestSession(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 0, 0)

	rec := ts.do(t, http.MethodPost, "/api/session/v1", `{"email":"homer@springfield.com","password":"donuts"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d", rec.Code)
	}

	user := decodeBody[map[string]any](t, rec)
	if user["nickname"] != "homer" {
		t.Errorf("user = %v", user)
	}

	if _, ok := user["password"]; ok {
		t.Error("password leaked into the response")
	}

	rec = ts.do(t, http.MethodPost, "/api/session/v1", `{"email":"homer","password":""}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid login status = %d", rec.Code)
	}

	fields := decodeBody[map[string][]string](t, rec)
	if len(fields["email"]) == 0 || len(fields["password"]) == 0 {
		t.Errorf("fields = %v", fields)
	}

	rec = ts.do(t, http.MethodPost, "/api/session/v1", `not json`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed body status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodDelete, "/api/session/v1", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("logout status = %d", rec.Code)
	}
}

func TestSearchHotels(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 0, 0)

	tests := []struct {
		name   string
		query  string
		status int
		field  string
	}{
		{name: "with dates", query: "city=springfield&check_in=2024-01-01&check_out=2024-01-04", status: http.StatusOK},
		{name: "city only", query: "city=Springfield", status: http.StatusBadRequest, field: "check_in"},
		{name: "missing city", query: "", status: http.StatusBadRequest, field: "city"},
		{name: "malformed date", query: "city=Springfield&check_in=01/01/2024&check_out=2024-01-04", status: http.StatusBadRequest, field: "check_in"},
		{name: "reversed dates", query: "city=Springfield&check_in=2024-01-04&check_out=2024-01-01", status: http.StatusBadRequest, field: "check_out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := ts.do(t, http.MethodGet, "/api/hotels/v1?"+tt.query, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
			}

			if tt.status == http.StatusOK {
				hotels := decodeBody[[]booking.Hotel](t, rec)
				if len(hotels) != 1 || hotels[0].ID != ts.hotel.ID {
					t.Errorf("hotels = %+v", hotels)
				}

				return
			}

			if fields := decodeBody[map[string][]string](t, rec); len(fields[tt.field]) == 0 {
				t.Errorf("fields = %v, want %s", fields, tt.field)
			}
		})
	}
}

func TestRooms(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 0, 0)

	rec := ts.do(t, http.MethodGet, "/api/hotels/v1/"+ts.hotel.ID+"/rooms", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	rooms := decodeBody[[]booking.Room](t, rec)
	if len(rooms) != 1 || rooms[0].ID != ts.room.ID || rooms[0].HotelID != ts.hotel.ID {
		t.Errorf("rooms = %+v", rooms)
	}

	rec = ts.do(t, http.MethodGet, "/api/hotels/v1/unknown/rooms", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown hotel status = %d", rec.Code)
	}
}

type cartItem struct {
	RoomID    string `json:"room_id"`
	Quantity  int    `json:"quantity"`
	Available int    `json:"available"`
}

func TestCart(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 0, 0)
	body := `{"room_id":"` + ts.room.ID + `"}`

	steps := []struct {
		status    int
		quantity  int
		available int
	}{
		{status: http.StatusCreated, quantity: 1, available: 1},
		{status: http.StatusCreated, quantity: 2, available: 0},
		{status: http.StatusConflict, quantity: 2, available: 0},
	}

	for i, step := range steps {
		rec := ts.do(t, http.MethodPost, "/api/cart/v1/items", body)
		if rec.Code != step.status {
			t.Fatalf("add #%d status = %d", i+1, rec.Code)
		}

		item := decodeBody[cartItem](t, rec)
		if item.RoomID != ts.room.ID || item.Quantity != step.quantity || item.Available != step.available {
			t.Errorf("add #%d item = %+v", i+1, item)
		}
	}

	rec := ts.do(t, http.MethodPost, "/api/cart/v1/items", `{"room_id":"missing"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown room status = %d", rec.Code)
	}

	rec = ts.do(t, http.MethodGet, "/api/cart/v1?check_in=2024-01-01&check_out=2024-01-04", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("cart status = %d", rec.Code)
	}

	cart := decodeBody[struct {
		Rooms []booking.Room `json:"rooms"`
		Quote *booking.Order `json:"quote"`
	}](t, rec)

	if len(cart.Rooms) != 2 || cart.Quote == nil || cart.Quote.Price != 600 || len(cart.Quote.Lines) != 2 {
		t.Errorf("cart = %+v", cart)
	}

	rec = ts.do(t, http.MethodGet, "/api/cart/v1", "")
	if quote := decodeBody[map[string]any](t, rec)["quote"]; quote != nil {
		t.Errorf("quote without dates = %v", quote)
	}

	rec = ts.do(t, http.MethodDelete, "/api/cart/v1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("clear status = %d", rec.Code)
	}

	room, err := ts.db.GetRoom(context.Background(), ts.room.ID)
	if err != nil || room.Available != 2 {
		t.Errorf("after clear available = %d, err = %v", room.Available, err)
	}
}

type checkoutBody struct {
	Receipt string         `json:"receipt"`
	Order   *booking.Order `json:"order"`
}

func TestCheckout(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 0, 0)
	checkout := `{"name":"Homer","surname":"Simpson","card_number":"1234567890123456","check_in":"2024-01-01","check_out":"2024-01-03"}`

	rec := ts.do(t, http.MethodPost, "/api/checkout/v1", checkout)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous checkout status = %d", rec.Code)
	}

	ts.login(t)

	rec = ts.do(t, http.MethodPost, "/api/checkout/v1", checkout)
	if rec.Code != http.StatusConflict {
		t.Errorf("empty cart status = %d", rec.Code)
	}

	ts.do(t, http.MethodPost, "/api/cart/v1/items", `{"room_id":"`+ts.room.ID+`"}`)

	rec = ts.do(t, http.MethodPost, "/api/checkout/v1", `{"name":"Homer","card_number":"12","check_in":"2024-01-01","check_out":"2024-01-03"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid checkout status = %d", rec.Code)
	}

	if fields := decodeBody[map[string][]string](t, rec); len(fields["surname"]) == 0 || len(fields["card_number"]) == 0 {
		t.Errorf("fields = %v", fields)
	}

	rec = ts.do(t, http.MethodPost, "/api/checkout/v1", checkout, "Idempotency-Key", "k-1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("checkout status = %d, body = %s", rec.Code, rec.Body)
	}

	out := decodeBody[checkoutBody](t, rec)

	if out.Order == nil || out.Order.Price != 200 {
		t.Fatalf("order = %+v", out.Order)
	}

	if _, err := os.Stat(out.Receipt); err != nil {
		t.Errorf("receipt file: %v", err)
	}

	rec = ts.do(t, http.MethodPost, "/api/checkout/v1", checkout, "Idempotency-Key", "k-1")
	if rec.Code != http.StatusCreated {
		t.Fatalf("repeated checkout status = %d", rec.Code)
	}

	if again := decodeBody[checkoutBody](t, rec); again.Order == nil || again.Order.ID != out.Order.ID {
		t.Errorf("repeated checkout order = %+v, want id %d", again.Order, out.Order.ID)
	}
}

func TestCheckoutPDF(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 0, 0)
	ts.login(t)
	ts.do(t, http.MethodPost, "/api/cart/v1/items", `{"room_id":"`+ts.room.ID+`"}`)

	rec := ts.do(
		t,
		http.MethodPost,
		"/api/checkout/v1?format=pdf",
		`{"name":"Homer","surname":"Simpson","card_number":"1234-5678-9012-3456","check_in":"2024-01-01","check_out":"2024-01-02"}`,
	)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body)
	}

	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Content-Type = %q", ct)
	}

	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")) {
		t.Error("body is not a pdf document")
	}

	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "20231220_homer_") || !strings.HasSuffix(cd, `.pdf"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 1, 1)

	if rec := ts.do(t, http.MethodGet, "/liveness", ""); rec.Code != http.StatusNoContent {
		t.Fatalf("first request status = %d", rec.Code)
	}

	if rec := ts.do(t, http.MethodGet, "/liveness", ""); rec.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d", rec.Code)
	}
}

func TestCORS(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, 0, 0)

	rec := ts.do(t, http.MethodGet, "/liveness", "", "Origin", "http://front.test")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://front.test" {
		t.Errorf("allowed origin header = %q", got)
	}

	rec = ts.do(t, http.MethodGet, "/liveness", "", "Origin", "http://evil.test")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin header = %q", got)
	}
}
