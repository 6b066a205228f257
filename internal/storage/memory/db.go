package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/avstrong/hotelcart/internal/booking"
	"github.com/avstrong/hotelcart/internal/logger"
)

type Config struct {
	L *logger.Logger
}

// DB is the in-memory catalog together with the room availability counters and
// the shopping cart. Availability and cart are changed under the same lock so
// no reader can see a decremented counter without the matching cart entry.
type DB struct {
	mu             sync.Mutex
	l              *logger.Logger
	hotels         []*booking.Hotel
	hotelsByID     map[string]*booking.Hotel
	rooms          []*booking.Room
	roomsByID      map[string]*booking.Room
	cart           []string
	cartQuantities map[string]int
}

func New(conf Config) *DB {
	//nolint:exhaustruct
	return &DB{
		l:              conf.L,
		hotelsByID:     make(map[string]*booking.Hotel),
		roomsByID:      make(map[string]*booking.Room),
		cartQuantities: make(map[string]int),
	}
}

// AddHotel registers a copy of the hotel, filling in hotel.ID when it is empty.
func (db *DB) AddHotel(_ context.Context, hotel *booking.Hotel) error {
	if hotel == nil {
		return fmt.Errorf("add hotel: %w", booking.ErrNilEntity)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	if hotel.ID == "" {
		hotel.ID = uuid.NewString()
	}

	if _, exists := db.hotelsByID[hotel.ID]; exists {
		return fmt.Errorf("hotel %s: %w", hotel.ID, booking.ErrDuplicateID)
	}

	stored := *hotel

	db.hotels = append(db.hotels, &stored)
	db.hotelsByID[stored.ID] = &stored

	return nil
}

// AddRoom registers a copy of the room. The caller's room gets its ID and hotel
// filled in but later changes to it do not reach the store.
func (db *DB) AddRoom(_ context.Context, room *booking.Room) error {
	if room == nil {
		return fmt.Errorf("add room: %w", booking.ErrNilEntity)
	}

	if room.Available < 0 {
		return fmt.Errorf("room %q: %w", room.Type, booking.ErrNegativeAvailability)
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	hotelID := room.HotelID
	if room.Hotel != nil {
		hotelID = room.Hotel.ID
	}

	hotel, ok := db.hotelsByID[hotelID]
	if !ok {
		return fmt.Errorf("hotel %q of room %q: %w", hotelID, room.Type, booking.ErrRecordNotFound)
	}

	if room.ID == "" {
		room.ID = uuid.NewString()
	}

	if _, exists := db.roomsByID[room.ID]; exists {
		return fmt.Errorf("room %s: %w", room.ID, booking.ErrDuplicateID)
	}

	room.HotelID = hotel.ID
	room.Hotel = hotel

	stored := *room

	db.rooms = append(db.rooms, &stored)
	db.roomsByID[stored.ID] = &stored

	return nil
}

func (db *DB) FindHotelsByCity(_ context.Context, city string) ([]booking.Hotel, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]booking.Hotel, 0)

	for _, hotel := range db.hotels {
		if strings.EqualFold(hotel.City, city) {
			result = append(result, *hotel)
		}
	}

	return result, nil
}

func (db *DB) FindRoomsByHotel(_ context.Context, hotelID string) ([]booking.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]booking.Room, 0)

	for _, room := range db.rooms {
		if room.HotelID == hotelID {
			result = append(result, *room)
		}
	}

	return result, nil
}

func (db *DB) GetHotel(_ context.Context, id string) (booking.Hotel, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	hotel, ok := db.hotelsByID[id]
	if !ok {
		return booking.Hotel{}, fmt.Errorf("hotel %q: %w", id, booking.ErrRecordNotFound)
	}

	return *hotel, nil
}

func (db *DB) GetRoom(_ context.Context, id string) (booking.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	room, ok := db.roomsByID[id]
	if !ok {
		return booking.Room{}, fmt.Errorf("room %q: %w", id, booking.ErrRecordNotFound)
	}

	return *room, nil
}

// AddToCart books one unit of the room. It reports false, leaving everything
// untouched, when no unit is left.
func (db *DB) AddToCart(_ context.Context, roomID string) (bool, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	room, ok := db.roomsByID[roomID]
	if !ok {
		return false, fmt.Errorf("room %q: %w", roomID, booking.ErrRecordNotFound)
	}

	if room.Available <= 0 {
		return false, nil
	}

	db.cart = append(db.cart, roomID)
	db.cartQuantities[roomID]++
	room.Available--

	return true, nil
}

func (db *DB) GetCart(_ context.Context) ([]booking.Room, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	result := make([]booking.Room, 0, len(db.cart))

	for _, id := range db.cart {
		result = append(result, *db.roomsByID[id])
	}

	return result, nil
}

func (db *DB) GetCartQuantity(_ context.Context, roomID string) (int, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.cartQuantities[roomID], nil
}

// ClearCart empties the cart. With restore the booked units go back to the rooms.
func (db *DB) ClearCart(_ context.Context, restore bool) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if restore {
		for id, quantity := range db.cartQuantities {
			db.roomsByID[id].Available += quantity
		}
	}

	if db.l != nil && len(db.cart) > 0 {
		db.l.LogInfo("Cart cleared: %d room(s), restored: %t", len(db.cart), restore)
	}

	db.cart = nil
	db.cartQuantities = make(map[string]int)

	return nil
}
