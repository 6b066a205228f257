package main

import (
	"log"
	"os"

	"github.com/avstrong/hotelcart/internal/app"
	"github.com/avstrong/hotelcart/internal/logger"
)

func main() {
	l := logger.New(log.New(os.Stderr, "hotelcart ", log.LstdFlags|log.LUTC))

	var exitCode int

	if err := app.Run(l); err != nil {
		l.LogErrorf("Failed to run app: %v", err.Error())

		exitCode = 1
	}

	os.Exit(exitCode)
}
