package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/avstrong/hotelcart/internal/logger"
	"github.com/avstrong/hotelcart/internal/pricing"
)

type idGenerator interface {
	GetID(ctx context.Context) (int, error)
}

type storageReader interface {
	FindHotelsByCity(ctx context.Context, city string) ([]Hotel, error)
	FindRoomsByHotel(ctx context.Context, hotelID string) ([]Room, error)
	GetHotel(ctx context.Context, id string) (Hotel, error)
	GetRoom(ctx context.Context, id string) (Room, error)
	GetCart(ctx context.Context) ([]Room, error)
	GetCartQuantity(ctx context.Context, roomID string) (int, error)
}

type storageWriter interface {
	AddToCart(ctx context.Context, roomID string) (bool, error)
	ClearCart(ctx context.Context, restore bool) error
}

type storage interface {
	storageReader
	storageWriter
}

type receiptWriter interface {
	Write(ctx context.Context, order *Order) (string, error)
}

type eventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, order *Order) error
}

type Config struct {
	L           *logger.Logger
	Storage     storage
	IDGenerator idGenerator
	Receipts    receiptWriter
	// Events is optional.
	Events eventPublisher
	// RestoreInventoryOnCheckout gives booked units back to the rooms after a
	// successful checkout, as the desktop application did.
	RestoreInventoryOnCheckout bool
	PasswordCost               int
	Now                        func() time.Time
}

// checkoutResult is remembered per idempotency key together with the email of
// the user who paid, so a key never replays another user's order.
type checkoutResult struct {
	email   string
	order   *Order
	receipt string
}

// Manager is the booking controller for a single user session: it owns the
// cart lifecycle and drives checkout.
type Manager struct {
	mu sync.Mutex

	l                 *logger.Logger
	storage           storage
	idGenerator       idGenerator
	receipts          receiptWriter
	events            eventPublisher
	restoreOnCheckout bool
	passwordCost      int
	now               func() time.Time

	user      *User
	checkouts map[string]checkoutResult
}

func New(conf Config) *Manager {
	now := conf.Now
	if now == nil {
		now = time.Now
	}

	cost := conf.PasswordCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	//nolint:exhaustruct
	return &Manager{
		l:                 conf.L,
		storage:           conf.Storage,
		idGenerator:       conf.IDGenerator,
		receipts:          conf.Receipts,
		events:            conf.Events,
		restoreOnCheckout: conf.RestoreInventoryOnCheckout,
		passwordCost:      cost,
		now:               now,
		checkouts:         make(map[string]checkoutResult),
	}
}

// Login starts a session. Logging in again with the session's email keeps the
// session and requires the same password; any other email replaces the user.
func (m *Manager) Login(_ context.Context, email, password string) (*User, error) {
	user, err := NewUser(email, password, m.passwordCost)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user != nil && m.user.Email == user.Email {
		if !m.user.PasswordMatches(strings.TrimSpace(password)) {
			inputErr := newInputError()
			inputErr.addError("password", "password does not match the active session")

			return nil, inputErr
		}

		u := *m.user

		return &u, nil
	}

	if m.user != nil {
		m.l.LogInfo("User %s replaced by %s", m.user.Nickname, user.Nickname)
		m.checkouts = make(map[string]checkoutResult)
	}

	m.user = user

	m.l.LogInfo("User %s logged in", user.Nickname)

	u := *user

	return &u, nil
}

// Logout ends the session and forgets its checkout keys. The cart is left as it is.
func (m *Manager) Logout(_ context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user != nil {
		m.l.LogInfo("User %s logged out", m.user.Nickname)
	}

	m.user = nil
	m.checkouts = make(map[string]checkoutResult)
}

func (m *Manager) CurrentUser() (*User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil, false
	}

	u := *m.user

	return &u, true
}

func (m *Manager) FindHotelsByCity(ctx context.Context, city string) ([]Hotel, error) {
	hotels, err := m.storage.FindHotelsByCity(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("find hotels in %q: %w", city, err)
	}

	return hotels, nil
}

// SearchHotels applies the search form rules before looking the city up.
func (m *Manager) SearchHotels(ctx context.Context, input SearchInput) ([]Hotel, error) {
	if err := input.validate(m.now().UTC()); err != nil {
		return nil, err
	}

	return m.FindHotelsByCity(ctx, input.City)
}

func (m *Manager) FindRoomsByHotel(ctx context.Context, hotelID string) ([]Room, error) {
	if _, err := m.storage.GetHotel(ctx, hotelID); err != nil {
		return nil, fmt.Errorf("get hotel: %w", err)
	}

	rooms, err := m.storage.FindRoomsByHotel(ctx, hotelID)
	if err != nil {
		return nil, fmt.Errorf("find rooms of hotel %s: %w", hotelID, err)
	}

	return rooms, nil
}

func (m *Manager) Room(ctx context.Context, roomID string) (Room, error) {
	room, err := m.storage.GetRoom(ctx, roomID)
	if err != nil {
		return Room{}, fmt.Errorf("get room: %w", err)
	}

	return room, nil
}

// AddToCart books one unit of the room. False means no unit is left.
func (m *Manager) AddToCart(ctx context.Context, roomID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ok, err := m.storage.AddToCart(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("add room to cart: %w", err)
	}

	if !ok {
		m.l.LogWarnf("Room %s is not available", roomID)
	}

	return ok, nil
}

func (m *Manager) Cart(ctx context.Context) ([]Room, error) {
	rooms, err := m.storage.GetCart(ctx)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	return rooms, nil
}

func (m *Manager) CartQuantity(ctx context.Context, roomID string) (int, error) {
	quantity, err := m.storage.GetCartQuantity(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("get cart quantity of room %s: %w", roomID, err)
	}

	return quantity, nil
}

// ClearCart cancels the cart and returns every booked unit to its room.
func (m *Manager) ClearCart(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.storage.ClearCart(ctx, true); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	return nil
}

func (m *Manager) CalculateTotalPrice(ctx context.Context, roomID string, checkIn, checkOut time.Time) (int, error) {
	room, err := m.storage.GetRoom(ctx, roomID)
	if err != nil {
		return 0, fmt.Errorf("get room: %w", err)
	}

	return pricing.StayCost(room.Price, checkIn, checkOut), nil
}

// Quote prices the current cart for the given stay without booking anything.
func (m *Manager) Quote(ctx context.Context, stay Stay) (*Order, error) {
	cart, err := m.Cart(ctx)
	if err != nil {
		return nil, err
	}

	order := m.buildOrder(cart, stay)

	m.mu.Lock()
	if m.user != nil {
		u := *m.user
		order.User = &u
	}
	m.mu.Unlock()

	return order, nil
}

func (m *Manager) buildOrder(cart []Room, stay Stay) *Order {
	//nolint:exhaustruct
	order := &Order{
		Lines:     make([]Line, 0, len(cart)),
		CreatedAt: m.now(),
	}

	for _, room := range cart {
		line := Line{
			Room:     room,
			CheckIn:  stay.CheckIn,
			CheckOut: stay.CheckOut,
			Nights:   pricing.Nights(stay.CheckIn, stay.CheckOut),
			Price:    pricing.StayCost(room.Price, stay.CheckIn, stay.CheckOut),
		}

		if room.Hotel != nil {
			line.Hotel = *room.Hotel
		}

		order.Lines = append(order.Lines, line)
		order.Price += line.Price
	}

	return order
}

// Checkout pays for the cart: it writes the receipt and only then empties the
// cart. A failed receipt leaves the cart as it was.
//
//nolint:funlen,cyclop // it's linear simple code
func (m *Manager) Checkout(ctx context.Context, input CheckoutInput) (*Order, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.user == nil {
		return nil, "", ErrNotLoggedIn
	}

	key, hasKey := CheckoutKeyFromContext(ctx)
	if hasKey {
		if res, ok := m.checkouts[key]; ok {
			if res.email == m.user.Email {
				return res.order, res.receipt, nil
			}

			m.l.LogWarnf("Checkout key %q was used by another user, checking out again", key)
		}
	}

	if err := input.validate(); err != nil {
		return nil, "", err
	}

	cart, err := m.storage.GetCart(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("get cart: %w", err)
	}

	if len(cart) == 0 {
		return nil, "", ErrEmptyCart
	}

	m.user.RealName = input.Name
	m.user.Surname = input.Surname

	order := m.buildOrder(cart, input.Stay)

	if order.ID, err = m.idGenerator.GetID(ctx); err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrNextID, err)
	}

	u := *m.user
	order.User = &u

	receipt, err := m.receipts.Write(ctx, order)
	if err != nil {
		m.l.LogErrorf("Could not write receipt for order %d: %v", order.ID, err.Error())

		return nil, "", fmt.Errorf("%w: %w", ErrReceipt, err)
	}

	m.l.LogInfo("Booking file created: %s", receipt)

	if err = m.storage.ClearCart(ctx, m.restoreOnCheckout); err != nil {
		return nil, "", fmt.Errorf("clear cart after checkout: %w", err)
	}

	if m.events != nil {
		if err := m.events.PublishOrderConfirmed(ctx, order); err != nil {
			m.l.LogErrorf("Could not publish confirmation of order %d: %v", order.ID, err.Error())
		}
	}

	if hasKey {
		m.checkouts[key] = checkoutResult{email: u.Email, order: order, receipt: receipt}
	}

	return order, receipt, nil
}
