// Entry point: loads config, wires module services and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"unipool/internal/config"
	httptransport "unipool/internal/http"
	"unipool/internal/infra"
	"unipool/internal/logging"
	"unipool/internal/modules/booking"
	"unipool/internal/modules/fare"
	"unipool/internal/modules/matching"
	"unipool/internal/modules/penalty"
	"unipool/internal/modules/profile"
	"unipool/internal/modules/ride"
	"unipool/internal/notify"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Exit(1)
	}
	log := logging.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Error("db init", "err", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if cfg.DB.Migrate {
		if err := infra.Migrate(dbPool); err != nil {
			log.Error("migrate", "err", err)
			os.Exit(1)
		}
	}

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	var notifier notify.Notifier
	if len(cfg.Kafka.Brokers) > 0 {
		kn := notify.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
		defer kn.Close()
		notifier = kn
	} else {
		notifier = notify.NewLogNotifier(log)
	}

	var routes fare.RouteProvider
	if cfg.Maps.APIKey != "" {
		rs, err := infra.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.Error("maps init", "err", err)
			os.Exit(1)
		}
		routes = rs
	}

	fareSvc := fare.NewService(fare.Policy{
		BaseFareSen:      cfg.Fare.BaseFareSen,
		PerKmSen:         cfg.Fare.PerKmSen,
		MinimumFareSen:   cfg.Fare.MinimumFareSen,
		PeakMultiplier:   cfg.Fare.PeakMultiplier,
		LocalOffsetHours: cfg.Fare.LocalOffsetHours,
	}, routes)

	penaltyStore := penalty.NewStore(dbPool)
	guard := penalty.NewGuard(penaltyStore)

	profileStore := profile.NewStore(dbPool)

	rideStore := ride.NewStore(dbPool)
	matchStore := matching.NewStore(redisClient)

	bookingStore := booking.NewStore(dbPool, rideStore)
	ledger := booking.NewService(bookingStore, rideStore, fareSvc, penaltyStore, matchStore, notifier)

	rideSvc := ride.NewService(rideStore, guard, matchStore, fareSvc, bookingStore, notifier)
	matchSvc := matching.NewService(matchStore, rideStore, profileStore, cfg.Matching)

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Rides:   rideSvc,
		Ledger:  ledger,
		Matcher: matchSvc,
		Fares:   fareSvc,
		Log:     log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Info("listening", "addr", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("serve", "err", err)
		os.Exit(1)
	}
}
