package receipt

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/avstrong/hotelcart/internal/booking"
)

const qrSize = 256

// RenderPDF renders the same receipt as a printable A4 page. The QR code
// carries the receipt file name so a printout can be matched to the text file.
func RenderPDF(w io.Writer, order *booking.Order) error {
	qrPNG, err := qrcode.Encode(FileName(order), qrcode.Medium, qrSize)
	if err != nil {
		return fmt.Errorf("encode receipt qr code: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Booking Confirmation")
	pdf.Ln(12)

	imageOpts := gofpdf.ImageOptions{ImageType: "PNG"} //nolint:exhaustruct
	pdf.RegisterImageOptionsReader("qr", imageOpts, bytes.NewReader(qrPNG))
	pdf.ImageOptions("qr", 160, 10, 40, 40, false, imageOpts, 0, "")

	pdf.SetFont("Arial", "", 12)

	if u := order.User; u != nil {
		if name := u.FullName(); name != "" {
			pdf.Cell(0, 8, "Name: "+name)
			pdf.Ln(8)
		}

		pdf.Cell(0, 8, "Email: "+u.Email)
		pdf.Ln(8)
	}

	pdf.Cell(0, 8, "Booking Date: "+order.CreatedAt.Format(dateLayout))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Reference: %d", order.ID))
	pdf.Ln(14)

	for _, line := range order.Lines {
		pdf.SetFont("Arial", "B", 12)
		pdf.Cell(0, 7, fmt.Sprintf("%s - %s", line.Hotel.Name, line.Hotel.City))
		pdf.Ln(7)

		pdf.SetFont("Arial", "", 11)
		pdf.Cell(0, 6, "Room: "+line.Room.Type)
		pdf.Ln(6)
		pdf.Cell(0, 6, "Description: "+line.Room.Description)
		pdf.Ln(6)
		pdf.Cell(0, 6, fmt.Sprintf("%s - %s", line.CheckIn.Format(dateLayout), line.CheckOut.Format(dateLayout)))
		pdf.Ln(6)
		pdf.Cell(0, 6, "Price: "+money(line.Price))
		pdf.Ln(10)
	}

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 10, "TOTAL PRICE: "+money(order.Price))

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render receipt pdf: %w", err)
	}

	return nil
}
