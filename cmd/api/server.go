package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"
)

const tokenSweepInterval = time.Hour

// serve runs the HTTP server until SIGINT or SIGTERM. On shutdown it stops
// accepting requests, then waits for in-flight activation emails.
func (app *application) serve() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", app.config.port),
		Handler:      app.routes(),
		ErrorLog:     log.New(app.logger, "", 0),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.sweepExpiredTokens(ctx, tokenSweepInterval)

	shutdownError := make(chan error, 1)

	go func() {
		<-ctx.Done()

		app.logger.PrintInfo("shutting down server", map[string]string{
			"addr": srv.Addr,
		})

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			shutdownError <- err
			return
		}

		app.logger.PrintInfo("completing background tasks", map[string]string{
			"addr": srv.Addr,
		})

		app.wg.Wait()
		shutdownError <- nil
	}()

	app.logger.PrintInfo("starting server", map[string]string{
		"addr": srv.Addr,
		"env":  app.config.env,
	})

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	if err := <-shutdownError; err != nil {
		return err
	}

	app.logger.PrintInfo("stopped server", map[string]string{
		"addr": srv.Addr,
	})

	return nil
}

// sweepExpiredTokens deletes expired activation tokens every interval until ctx is done.
func (app *application) sweepExpiredTokens(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.models.Tokens.DeleteExpired()
			if err != nil {
				app.logger.PrintError(err, nil)
				continue
			}
			if n > 0 {
				app.logger.PrintInfo("deleted expired tokens", map[string]string{
					"count": strconv.FormatInt(n, 10),
				})
			}
		}
	}
}
