package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"sds/internal/controllers"
	"sds/internal/persistence/interfaces"
	"sds/internal/providers"
	"sds/internal/services"
	"sds/internal/structures"
)

// App wires the study data store behind a small admin surface. The data
// plane itself is consumed as a library through the service fields; the
// HTTP server only exposes health and metrics.
type App struct {
	WebServer   *http.Server
	Studies     services.StudyServiceInterface
	Data        services.DataServiceInterface
	Aggregation services.AggregationServiceInterface
}

func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface, studies services.StudyServiceInterface, data services.DataServiceInterface, aggregation services.AggregationServiceInterface) (*App, error) {
	routes := []structures.Route{
		{Url: "/health", Handler: http.HandlerFunc(healthController.Health)},
	}
	if conf.Metrics.Enabled {
		routes = append(routes, structures.Route{Url: "/metrics", Handler: promhttp.Handler()})
	}
	mux := http.NewServeMux()
	for _, route := range routes {
		mux.Handle(route.Url, providers.MetricsMiddleware(metrics, logger, route.Handler))
	}

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	if err := scheduler.Restore(); err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Studies:     studies,
		Data:        data,
		Aggregation: aggregation,
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		return nil, fmt.Errorf("server error: %w", err)
	}

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	if err := scheduler.Persist(); err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}
