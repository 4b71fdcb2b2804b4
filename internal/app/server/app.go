package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/DenisKhanov/CandleArticles/internal/app/logcfg"
	apihttp "github.com/DenisKhanov/CandleArticles/internal/articles/api/http"
	"github.com/DenisKhanov/CandleArticles/internal/articles/config"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// App represents the application structure responsible for initializing dependencies
// and running the article API and the ops listener.
type App struct {
	serviceProvider *ServiceProvider // The service provider for dependency injection
	config          *config.Config   // The configuration object for the application
	apiServer       *http.Server     // The article API server
	opsServer       *http.Server     // Health and metrics server
}

// NewApp creates a new instance of the application.
// ctx bounds background work such as the prompt template watcher.
func NewApp(ctx context.Context) (*App, error) {
	app := &App{}
	err := app.initDeps(ctx)
	if err != nil {
		return nil, err
	}
	return app, nil
}

// initDeps initializes all dependencies required by the application.
func (a *App) initDeps(ctx context.Context) error {
	inits := []func(context.Context) error{
		a.initConfig,
		a.initServiceProvider,
		a.initAPIServer,
		a.initOpsServer,
	}

	for _, f := range inits {
		err := f(ctx)
		if err != nil {
			return err
		}
	}

	return nil
}

// initConfig initializes the application configuration.
func (a *App) initConfig(_ context.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	a.config = cfg
	return logcfg.RunLoggerConfig(a.config.LogLevel, a.config.LogFileName)
}

// initServiceProvider initializes the service provider for dependency injection.
func (a *App) initServiceProvider(_ context.Context) error {
	a.serviceProvider = NewServiceProvider(a.config)
	return nil
}

// initAPIServer initializes the gin server with middleware and routes.
func (a *App) initAPIServer(ctx context.Context) error {
	handler, err := a.serviceProvider.Handler(ctx)
	if err != nil {
		return err
	}

	if a.config.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	a.apiServer = &http.Server{
		Addr:    a.config.HTTPAddress,
		Handler: apihttp.NewRouter(handler),
	}
	return nil
}

// initOpsServer initializes the chi server exposing health checks and metrics.
func (a *App) initOpsServer(_ context.Context) error {
	a.opsServer = &http.Server{
		Addr:    a.config.OpsAddress,
		Handler: newOpsRouter(a.serviceProvider.Ready),
	}
	return nil
}

// Run starts both servers and blocks until SIGINT/SIGTERM, then shuts them down gracefully.
func (a *App) Run(ctx context.Context) error {
	defer a.serviceProvider.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range []*http.Server{a.apiServer, a.opsServer} {
		srv := srv
		g.Go(func() error {
			logrus.Infof("HTTP server started on: %s", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logrus.Info("Shutting down HTTP servers...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.ShutdownTimeout())
		defer cancel()

		var errs []error
		for _, srv := range []*http.Server{a.apiServer, a.opsServer} {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logrus.WithError(err).Error("HTTP server shutdown error")
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	err := g.Wait()
	logrus.Info("Server exited")
	return err
}
