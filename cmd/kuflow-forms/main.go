package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/kuflow/kuflow-sdk-go/internal/pkg/application/forms"
	"github.com/kuflow/kuflow-sdk-go/internal/pkg/infrastructure/router"
	api "github.com/kuflow/kuflow-sdk-go/internal/pkg/presentation/api/forms"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const serviceName string = "kuflow-forms"

func main() {
	serviceVersion := buildinfo.SourceVersion()

	flags := parseExternalConfig(context.Background(), defaultFlags())

	ctx, log, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion, flags[logFormat])
	defer cleanup()

	cfg, err := newAppConfig(flags)
	if err != nil {
		log.Error("failed to load configuration", "err", err.Error())
		os.Exit(1)
	}

	handler, err := initialize(ctx, cfg)
	cfg.Close()

	if err != nil {
		log.Error("failed to initialize service", "err", err.Error())
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              net.JoinHostPort(flags[listenAddress], flags[servicePort]),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		srv.Shutdown(shutdownCtx)
	}()

	log.Info("starting to listen for connections", "address", srv.Addr)

	err = srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("failed to listen for connections", "err", err.Error())
		os.Exit(1)
	}

	log.Info("shutting down")
}

func initialize(ctx context.Context, cfg *AppConfig) (http.Handler, error) {
	formsConfig, err := forms.LoadConfiguration(cfg.formsConfig)
	if err != nil {
		return nil, err
	}

	var rules forms.Rules
	if cfg.policiesConfig != nil {
		rules, err = forms.NewRules(ctx, cfg.policiesConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to prepare form policies: %w", err)
		}
	}

	validator, err := forms.New(ctx, *formsConfig, rules)
	if err != nil {
		return nil, err
	}

	r := router.New(serviceName)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", promhttp.Handler())

	api.RegisterHandlers(ctx, r, validator)

	logging.GetFromContext(ctx).Info("service initialized", "forms", len(formsConfig.Forms))

	return r, nil
}
