package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/movie-catalog/internal/admin"
	"github.com/iliyamo/movie-catalog/internal/config"
	"github.com/iliyamo/movie-catalog/internal/database"
	"github.com/iliyamo/movie-catalog/internal/handler"
	"github.com/iliyamo/movie-catalog/internal/logging"
	"github.com/iliyamo/movie-catalog/internal/middleware"
	"github.com/iliyamo/movie-catalog/internal/repository"
	"github.com/iliyamo/movie-catalog/internal/router"
	"github.com/iliyamo/movie-catalog/internal/service"
)

func main() {
	cfg := config.Load()
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		logging.Fatal().Err(err).Str("host", cfg.DBHost).Msg("open database")
	}
	defer db.Close()

	if cfg.DBMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.Migrate(ctx, db)
		cancel()
		if err != nil {
			logging.Fatal().Err(err).Msg("apply schema")
		}
	}

	// Redis only backs the rate limiter; without it requests are not limited.
	rdb := config.NewRedisClient()
	if rdb == nil {
		logging.Warn().Msg("redis unavailable, rate limiting disabled")
	} else {
		defer rdb.Close()
	}
	limit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	movies := repository.NewMovieRepo(db)
	genres := repository.NewGenreRepo(db)
	actors := repository.NewActorRepo(db)
	categories := repository.NewCategoryRepo(db)
	shots := repository.NewMovieShotRepo(db)
	ratings := repository.NewRatingRepo(db)
	reviews := repository.NewReviewRepo(db)
	contacts := repository.NewContactRepo(db)

	query := &service.QueryService{
		Movies:     movies,
		Genres:     genres,
		Actors:     actors,
		Categories: categories,
		Shots:      shots,
		Ratings:    ratings,
		Reviews:    reviews,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = handler.HTTPErrorHandler
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.AccessLog())

	router.RegisterRoutes(e, echo.WrapHandler(promhttp.Handler()))
	router.RegisterPublic(e, handler.NewCatalogHandler(query, cfg.MediaURL))
	router.RegisterForms(e, handler.NewSubmitHandler(
		service.NewReviewService(movies, reviews),
		service.NewRatingService(ratings),
		service.NewContactService(contacts),
	), limit)

	if cfg.AdminEnabled {
		reg := admin.Default()
		ops := &admin.Service{
			Registry:   reg,
			Rows:       repository.NewAdminRepo(db),
			Categories: categories,
			Genres:     genres,
			Actors:     actors,
			Movies:     movies,
			Shots:      shots,
			Ratings:    ratings,
			Reviews:    reviews,
			Contacts:   contacts,
		}
		router.RegisterAdmin(e, handler.NewAdminHandler(reg, ops), reg)
	}

	addr := ":" + cfg.Port
	go func() {
		logging.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal().Err(err).Msg("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown")
	}
	logging.Info().Msg("server exited")
}
