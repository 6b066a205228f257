package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/avstrong/hotelcart/internal/booking"
	"github.com/avstrong/hotelcart/internal/config"
	"github.com/avstrong/hotelcart/internal/idgen/random"
	"github.com/avstrong/hotelcart/internal/logger"
	"github.com/avstrong/hotelcart/internal/migration"
	"github.com/avstrong/hotelcart/internal/notify"
	"github.com/avstrong/hotelcart/internal/receipt"
	"github.com/avstrong/hotelcart/internal/storage/memory"
	"github.com/avstrong/hotelcart/internal/transport/web"
)

type publisher interface {
	PublishOrderConfirmed(ctx context.Context, order *booking.Order) error
	Close() error
}

func newPublisher(ctx context.Context, l *logger.Logger, conf config.Events) (publisher, error) {
	switch conf.Backend {
	case config.EventsAMQP:
		p, err := notify.NewAMQPPublisher(notify.AMQPConfig{L: l, URL: conf.RabbitMQURL, Queue: conf.Queue})
		if err != nil {
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}

		return p, nil
	case config.EventsRedis:
		p, err := notify.NewRedisPublisher(ctx, notify.RedisConfig{
			L:        l,
			Addr:     conf.RedisAddr,
			Password: conf.RedisPassword,
			DB:       conf.RedisDB,
			Channel:  conf.Queue,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}

		return p, nil
	default:
		return nil, nil //nolint:nilnil
	}
}

//nolint:funlen
func Run(l *logger.Logger) error {
	ctx, cancel := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGHUP,
	)
	defer cancel()

	conf, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	storage := memory.New(memory.Config{L: l.With("storage")})

	if conf.SeedCatalog {
		if err = migration.Up(ctx, l, storage); err != nil {
			return fmt.Errorf("up catalog migration: %w", err)
		}

		l.LogInfo("Catalog migration has been applied")
	}

	events, err := newPublisher(ctx, l.With("events"), conf.Events)
	if err != nil {
		return err
	}

	//nolint:exhaustruct
	bookingConf := booking.Config{
		L:                          l.With("booking"),
		Storage:                    storage,
		IDGenerator:                random.New(),
		Receipts:                   receipt.NewFileWriter(receipt.Config{L: l.With("receipt"), Dir: conf.ReceiptDir}),
		RestoreInventoryOnCheckout: conf.RestoreInventoryOnCheckout,
		PasswordCost:               conf.BcryptCost,
	}

	if events != nil {
		bookingConf.Events = events

		defer func() {
			if err := events.Close(); err != nil {
				l.LogErrorf("Failed to close event publisher: %v", err.Error())
			}
		}()
	}

	bookManager := booking.New(bookingConf)

	webConf := web.Conf{
		L:                 l.With("http"),
		ServerLogger:      log.Default(),
		Host:              conf.HTTP.Host,
		Port:              conf.HTTP.Port,
		ReadHeaderTimeout: conf.HTTP.ReadHeaderTimeout,
		LivenessEndpoint:  conf.HTTP.LivenessEndpoint,
		RateLimitRPS:      conf.HTTP.RateLimitRPS,
		RateLimitBurst:    conf.HTTP.RateLimitBurst,
		CORSOrigins:       conf.HTTP.CORSOrigins,
	}

	srv, err := web.New(ctx, webConf, bookManager)
	if err != nil {
		return fmt.Errorf("init http server: %w", err)
	}

	//nolint:contextcheck
	go func() {
		<-ctx.Done()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*4) //nolint:gomnd
		defer cancel()

		if err := srv.Srv().Shutdown(ctx); err != nil {
			l.LogErrorf("Failed to stop http server: %v", err.Error())
		}
	}()

	l.LogInfo("Application is running on %v:%v...", webConf.Host, webConf.Port)

	if err := srv.Srv().ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		l.LogErrorf("Failed to run http server: %v", err.Error())

		cancel()
	}

	l.LogInfo("Application stopped gracefully")

	return nil
}
