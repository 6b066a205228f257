package migration

import (
	"context"
	"fmt"

	"github.com/avstrong/hotelcart/internal/booking"
	"github.com/avstrong/hotelcart/internal/logger"
)

type storage interface {
	AddHotel(ctx context.Context, hotel *booking.Hotel) error
	AddRoom(ctx context.Context, room *booking.Room) error
}

type roomSeed struct {
	roomType    string
	price       int
	available   int
	description string
}

type hotelSeed struct {
	hotel booking.Hotel
	rooms []roomSeed
}

//nolint:funlen,gomnd // seed data
func sampleCatalog() []hotelSeed {
	return []hotelSeed{
		{
			hotel: booking.Hotel{Name: "Grand Hotel", Phone: "+1234567890", Stars: 5, City: "New York", Description: "Luxury hotel in downtown"},
			rooms: []roomSeed{
				{"Standard", 150, 5, "Comfortable room with queen bed"},
				{"Deluxe", 250, 3, "Spacious room with king bed and city view"},
				{"Suite", 400, 2, "Luxury suite with separate living area"},
			},
		},
		{
			hotel: booking.Hotel{Name: "Comfort Inn", Phone: "+0987654321", Stars: 3, City: "New York", Description: "Affordable comfort"},
			rooms: []roomSeed{
				{"Standard", 80, 8, "Basic room with double bed"},
				{"Double", 120, 5, "Room with two double beds"},
			},
		},
		{
			hotel: booking.Hotel{Name: "Plaza Hotel", Phone: "+2223334444", Stars: 5, City: "New York", Description: "Historic luxury hotel"},
			rooms: []roomSeed{
				{"Classic", 200, 10, "Elegant room with queen bed"},
				{"Executive", 350, 5, "Luxury room with king bed and park view"},
				{"Presidential Suite", 800, 1, "Opulent suite with butler service"},
			},
		},
		{
			hotel: booking.Hotel{Name: "Broadway Motel", Phone: "+5556667777", Stars: 2, City: "New York", Description: "Budget-friendly near theaters"},
			rooms: []roomSeed{
				{"Basic", 60, 12, "Simple room with double bed"},
				{"Family", 90, 6, "Room with two queen beds"},
			},
		},
		{
			hotel: booking.Hotel{Name: "Beach Resort", Phone: "+1122334455", Stars: 4, City: "Miami", Description: "Beautiful beachfront property"},
			rooms: []roomSeed{
				{"Ocean View", 180, 8, "Room with balcony and ocean view"},
				{"Pool View", 150, 10, "Room overlooking the pool area"},
				{"Beach Suite", 300, 4, "Suite with direct beach access"},
			},
		},
		{
			hotel: booking.Hotel{Name: "Ocean View", Phone: "+9988776655", Stars: 5, City: "Miami", Description: "Luxury oceanfront resort"},
			rooms: []roomSeed{
				{"Deluxe Ocean", 250, 15, "Deluxe room with panoramic ocean view"},
				{"Premium Suite", 450, 5, "Premium suite with private balcony"},
			},
		},
		{
			hotel: booking.Hotel{Name: "Palm Suites", Phone: "+1231231234", Stars: 3, City: "Miami", Description: "Family-friendly hotel with pool"},
			rooms: []roomSeed{
				{"Standard", 100, 20, "Comfortable room for families"},
				{"Cabana", 150, 8, "Room with direct pool access"},
			},
		},
		{
			hotel: booking.Hotel{Name: "Mountain Lodge", Phone: "+5566778899", Stars: 3, City: "Denver", Description: "Scenic mountain views"},
			rooms: []roomSeed{{"Mountain View", 120, 10, "Room with scenic mountain views"}},
		},
		{
			hotel: booking.Hotel{Name: "Alpine Resort", Phone: "+4445556666", Stars: 4, City: "Denver", Description: "Ski-in/ski-out luxury resort"},
			rooms: []roomSeed{{"Ski Suite", 220, 5, "Suite with ski-in/ski-out access"}},
		},
		{
			hotel: booking.Hotel{Name: "Hollywood Star", Phone: "+7778889999", Stars: 4, City: "Los Angeles", Description: "Close to Hollywood attractions"},
			rooms: []roomSeed{{"Celebrity Suite", 300, 3, "Suite with Hollywood memorabilia"}},
		},
		{
			hotel: booking.Hotel{Name: "Beverly Hills Hotel", Phone: "+3334445555", Stars: 5, City: "Los Angeles", Description: "Exclusive luxury experience"},
			rooms: []roomSeed{{"Luxury Room", 400, 8, "Opulent room with premium amenities"}},
		},
		{
			hotel: booking.Hotel{Name: "Sunset Motel", Phone: "+6667778888", Stars: 2, City: "Los Angeles", Description: "Affordable option on Sunset Blvd"},
			rooms: []roomSeed{{"Standard", 70, 15, "Basic clean room for budget travelers"}},
		},
		{
			hotel: booking.Hotel{Name: "Windy City Inn", Phone: "+8889990000", Stars: 3, City: "Chicago", Description: "Comfortable downtown hotel"},
			rooms: []roomSeed{{"City View", 110, 12, "Room with Chicago skyline view"}},
		},
		{
			hotel: booking.Hotel{Name: "Lakeside Hotel", Phone: "+1112223333", Stars: 4, City: "Chicago", Description: "Beautiful views of Lake Michigan"},
			rooms: []roomSeed{{"Lake View", 160, 8, "Room with beautiful lake views"}},
		},
		{
			hotel: booking.Hotel{Name: "Historic Inn", Phone: "+4443332222", Stars: 4, City: "Boston", Description: "Charming hotel in historic district"},
			rooms: []roomSeed{{"Historic Suite", 180, 5, "Suite in the historic wing"}},
		},
		{
			hotel: booking.Hotel{Name: "University Lodge", Phone: "+7776665555", Stars: 3, City: "Boston", Description: "Convenient for campus visits"},
			rooms: []roomSeed{{"Scholar Room", 90, 20, "Comfortable room near campus"}},
		},
	}
}

// Up loads the sample catalog. Hotels are registered before their rooms.
func Up(ctx context.Context, l *logger.Logger, storage storage) error {
	var hotels, rooms int

	for _, seed := range sampleCatalog() {
		hotel := seed.hotel

		if err := storage.AddHotel(ctx, &hotel); err != nil {
			return fmt.Errorf("add hotel %q: %w", hotel.Name, err)
		}

		hotels++

		for _, r := range seed.rooms {
			room := booking.Room{ //nolint:exhaustruct
				HotelID:     hotel.ID,
				Type:        r.roomType,
				Price:       r.price,
				Available:   r.available,
				Description: r.description,
			}

			if err := storage.AddRoom(ctx, &room); err != nil {
				return fmt.Errorf("add room %q of hotel %q: %w", r.roomType, hotel.Name, err)
			}

			rooms++
		}
	}

	l.LogInfo("Catalog seeded: %d hotels, %d rooms", hotels, rooms)

	return nil
}
