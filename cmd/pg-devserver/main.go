package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/techsbuilds/pgsphere-customer/client/meal"
	"github.com/techsbuilds/pgsphere-customer/devmode"
	devserver "github.com/techsbuilds/pgsphere-customer/devmode/server"
	"github.com/techsbuilds/pgsphere-customer/internal/config"
	"github.com/techsbuilds/pgsphere-customer/internal/logger"
)

func main() {
	log := logger.New("pg-devserver")

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	addr := flag.String("addr", cfg.DevAddr, "Listen address")
	noMealConfig := flag.Bool("no-meal-config", false, "Serve null meal config to exercise the fail-open policy")
	breakfast := flag.String("breakfast-cutoff", devserver.DefaultMealConfig.BreakfastTime, "Breakfast cutoff, e.g. 8:00am")
	lunch := flag.String("lunch-cutoff", devserver.DefaultMealConfig.LunchTime, "Lunch cutoff")
	dinner := flag.String("dinner-cutoff", devserver.DefaultMealConfig.DinnerTime, "Dinner cutoff")
	flag.Parse()

	var opts []devserver.Option
	if *noMealConfig {
		opts = append(opts, devserver.WithMealConfig(nil))
	} else {
		mc := meal.Config{BreakfastTime: *breakfast, LunchTime: *lunch, DinnerTime: *dinner}
		for _, t := range meal.Types {
			if _, _, err := meal.ParseCutoff(mc.Cutoff(t)); err != nil {
				log.Fatal().Err(err).Str("type", t.String()).Msg("Invalid cutoff")
			}
		}
		opts = append(opts, devserver.WithMealConfig(&mc))
	}

	server := &http.Server{
		Addr:              *addr,
		Handler:           devserver.New(opts...),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", *addr).
			Str("email", devmode.Email).
			Str("dev_token", devmode.Token).
			Msg("Development backend listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")
		ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(ctxShutdown); err != nil {
			log.Error().Stack().Err(err).Msg("Server forced to shutdown")
			os.Exit(1)
		}
		log.Info().Msg("Server exited")
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		os.Exit(1)
	}
}
