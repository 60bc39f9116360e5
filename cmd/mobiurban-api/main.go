// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mobiurban/internal/config"
	httptransport "mobiurban/internal/http"
	"mobiurban/internal/infra"
	"mobiurban/internal/maps"
	"mobiurban/internal/modules/drivers"
	"mobiurban/internal/modules/pricing"
	"mobiurban/internal/modules/reviews"
	"mobiurban/internal/modules/ride"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log := infra.NewLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	geocoder := maps.NewGeocoder(cfg.Geocoding, log)

	var (
		rideStore    ride.Store
		driverStore  drivers.ProfileStore
		pricingStore pricing.RateStore
		reviewStore  reviews.Store
	)
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			log.WithError(err).Fatal("database init failed")
		}
		defer pool.Close()
		rideStore = ride.NewPGStore(pool)
		driverStore = drivers.NewPGStore(pool)
		pricingStore = pricing.NewStore(pool)
		reviewStore = reviews.NewPGStore(pool)
	} else {
		log.Warn("MOBI_DB_DSN not set, using in-memory stores")
		rideStore = ride.NewMemoryStore()
		driverStore = drivers.NewMemoryProfileStore()
		reviewStore = reviews.NewMemoryStore()
	}

	var (
		geoIndex drivers.GeoIndex
		feed     ride.Feed = ride.NoopFeed{}
	)
	if cfg.Redis.Addr != "" {
		redisClient := infra.NewRedis(cfg.Redis.Addr)
		geoIndex = drivers.NewRedisIndex(redisClient)
		feed = ride.NewRedisFeed(redisClient)
	} else {
		log.Warn("MOBI_REDIS_ADDR not set, using in-process geo index")
		geoIndex = drivers.NewMemoryIndex()
	}

	pricingSvc := pricing.NewService(pricingStore, cfg.Fare.MinimumFareCentavos)

	var routes ride.DurationEstimator
	if cfg.Maps.APIKey != "" {
		rs, err := maps.NewRouteService(cfg.Maps.APIKey)
		if err != nil {
			log.WithError(err).Warn("route service init failed, using average-speed estimates")
		} else {
			routes = rs
		}
	}

	rideSvc := ride.NewService(rideStore, pricingSvc, routes, feed, cfg.Fare.AverageSpeedKmh, log)
	driverSvc := drivers.NewService(driverStore, geoIndex, pricingSvc.DefaultPerKmCentavos(ctx), log)
	reviewSvc := reviews.NewService(reviewStore, rideSvc, driverSvc, log)

	handler := httptransport.NewRouter(httptransport.RouterDeps{
		Rides:           rideSvc,
		Drivers:         driverSvc,
		Pricing:         pricingSvc,
		Reviews:         reviewSvc,
		Geocoder:        geocoder,
		RankingRadiusKm: cfg.Ranking.RadiusKm,
		Log:             log,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.WithField("addr", cfg.HTTP.Addr).Info("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server exited")
	}
}
