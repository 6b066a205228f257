package booking

import (
	"strings"
	"time"
)

// Hotel is immutable once registered in the catalog.
type Hotel struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Stars       int    `json:"stars"`
	City        string `json:"city"`
	Description string `json:"description"`
}

// Room is a bookable room type of a hotel. Available is the number of units
// left and is only changed by the store's cart operations.
type Room struct {
	ID          string `json:"id"`
	HotelID     string `json:"hotel_id"`
	Hotel       *Hotel `json:"-"`
	Type        string `json:"type"`
	Price       int    `json:"price"`
	Available   int    `json:"available"`
	Description string `json:"description"`
}

// Stay is the date range applied to every room of a checkout.
type Stay struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

type User struct {
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	RealName     string `json:"real_name,omitempty"`
	Surname      string `json:"surname,omitempty"`
	passwordHash []byte
}

// FullName is empty until both the real name and the surname are captured at payment.
func (u *User) FullName() string {
	if u.RealName == "" || u.Surname == "" {
		return ""
	}

	return u.RealName + " " + u.Surname
}

func nicknameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")

	return local
}

type SearchInput struct {
	City     string
	CheckIn  time.Time
	CheckOut time.Time
}

type CheckoutInput struct {
	Name       string `json:"name"`
	Surname    string `json:"surname"`
	CardNumber string `json:"card_number"`
	Stay       Stay   `json:"stay"`
}

// Line is one booked room unit of an order.
type Line struct {
	Room     Room      `json:"room"`
	Hotel    Hotel     `json:"hotel"`
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
	Nights   int       `json:"nights"`
	Price    int       `json:"price"`
}

type Order struct {
	ID        int       `json:"id"`
	User      *User     `json:"user,omitempty"`
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
	Price     int       `json:"price"`
}
