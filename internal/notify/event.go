// Package notify publishes booking confirmations to a message broker so that
// other services can react to a paid order without polling.
package notify

import (
	"time"

	"github.com/avstrong/hotelcart/internal/booking"
)

type RoomBooked struct {
	HotelName string `json:"hotel_name"`
	City      string `json:"city"`
	RoomID    string `json:"room_id"`
	RoomType  string `json:"room_type"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
	Price     int    `json:"price"`
}

type OrderConfirmedEvent struct {
	OrderID     int          `json:"order_id"`
	Email       string       `json:"email,omitempty"`
	Nickname    string       `json:"nickname,omitempty"`
	Rooms       []RoomBooked `json:"rooms"`
	TotalPrice  int          `json:"total_price"`
	ConfirmedAt string       `json:"confirmed_at"`
}

func NewOrderConfirmedEvent(order *booking.Order) OrderConfirmedEvent {
	//nolint:exhaustruct
	event := OrderConfirmedEvent{
		OrderID:     order.ID,
		Rooms:       make([]RoomBooked, 0, len(order.Lines)),
		TotalPrice:  order.Price,
		ConfirmedAt: order.CreatedAt.UTC().Format(time.RFC3339),
	}

	if order.User != nil {
		event.Email = order.User.Email
		event.Nickname = order.User.Nickname
	}

	for _, line := range order.Lines {
		event.Rooms = append(event.Rooms, RoomBooked{
			HotelName: line.Hotel.Name,
			City:      line.Hotel.City,
			RoomID:    line.Room.ID,
			RoomType:  line.Room.Type,
			CheckIn:   line.CheckIn.Format(time.DateOnly),
			CheckOut:  line.CheckOut.Format(time.DateOnly),
			Price:     line.Price,
		})
	}

	return event
}
