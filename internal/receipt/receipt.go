// Package receipt turns a paid order into the confirmation file handed to the
// customer. The text layout is kept stable so existing receipts stay comparable.
package receipt

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/avstrong/hotelcart/internal/booking"
	"github.com/avstrong/hotelcart/internal/logger"
)

const (
	separator         = "==============================="
	dateLayout        = "2006-01-02"
	fileDate          = "20060102"
	anonymousNickname = "user"
)

// FileName is {yyyyMMdd}_{nickname}_{id}.txt, with "user" standing in for a
// missing nickname.
func FileName(order *booking.Order) string {
	nickname := anonymousNickname
	if order.User != nil && order.User.Nickname != "" {
		nickname = order.User.Nickname
	}

	return fmt.Sprintf("%s_%s_%d.txt", order.CreatedAt.Format(fileDate), nickname, order.ID)
}

func money(amount int) string {
	return fmt.Sprintf("$%d.00", amount)
}

// Render writes the text receipt. The total line prints order.Price, which is
// the sum of the line prices.
func Render(w io.Writer, order *booking.Order) error {
	bw := bufio.NewWriter(w)

	if u := order.User; u != nil {
		fmt.Fprintln(bw, "CUSTOMER INFORMATION:")
		fmt.Fprintln(bw, separator)

		if name := u.FullName(); name != "" {
			fmt.Fprintf(bw, "Name: %s\n", name)
		}

		fmt.Fprintf(bw, "Email: %s\n\n", u.Email)
	}

	fmt.Fprintln(bw, "BOOKING INFORMATION:")
	fmt.Fprintln(bw, separator)
	fmt.Fprintf(bw, "Booking Date: %s\n", order.CreatedAt.Format(dateLayout))

	fmt.Fprintln(bw, "BOOKING DETAILS:")
	fmt.Fprintln(bw, separator)
	fmt.Fprintln(bw)

	for _, line := range order.Lines {
		fmt.Fprintf(bw, "Hotel: %s\n", line.Hotel.Name)
		fmt.Fprintf(bw, "City: %s\n", line.Hotel.City)
		fmt.Fprintf(bw, "Room Type: %s\n", line.Room.Type)
		fmt.Fprintf(bw, "Description: %s\n", line.Room.Description)
		fmt.Fprintf(bw, "Check-in Date: %s\n", line.CheckIn.Format(dateLayout))
		fmt.Fprintf(bw, "Check-out Date: %s\n", line.CheckOut.Format(dateLayout))
		fmt.Fprintf(bw, "Price: %s\n\n", money(line.Price))
	}

	fmt.Fprintln(bw, separator)
	fmt.Fprintf(bw, "TOTAL PRICE: %s\n", money(order.Price))

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("flush receipt: %w", err)
	}

	return nil
}

type Config struct {
	L *logger.Logger
	// Dir is where receipts are written; empty means the working directory.
	Dir string
}

type FileWriter struct {
	l   *logger.Logger
	dir string
}

func NewFileWriter(conf Config) *FileWriter {
	return &FileWriter{l: conf.L, dir: conf.Dir}
}

// Write creates the receipt file and returns its path. A file that could not
// be written completely is removed.
func (fw *FileWriter) Write(_ context.Context, order *booking.Order) (_ string, err error) {
	path := filepath.Join(fw.dir, FileName(order))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644) //nolint:gomnd
	if err != nil {
		return "", fmt.Errorf("create receipt file: %w", err)
	}

	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("close receipt file: %w", closeErr))
		}

		if err != nil {
			if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				fw.l.LogErrorf("Could not remove incomplete receipt %s: %v", path, rmErr.Error())
			}
		}
	}()

	if err = Render(f, order); err != nil {
		return "", fmt.Errorf("render receipt %s: %w", path, err)
	}

	return path, nil
}
