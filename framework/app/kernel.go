package app

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sitepulse/sitepulse/framework/config"
	"github.com/sitepulse/sitepulse/framework/container"
	"github.com/sitepulse/sitepulse/framework/providers"
	"github.com/sitepulse/sitepulse/framework/routing"
)

// Application is the plugin's composition root. It embeds the IoC container
// so bootstrap code can call app.Bind(), app.Singleton(), app.Register()
// directly.
type Application struct {
	*container.Container
}

// New creates the application and registers the core framework providers.
func New(envFiles ...string) (*Application, error) {
	c := container.New()
	app := &Application{Container: c}

	core := []container.ServiceProvider{
		&providers.ConfigServiceProvider{EnvFiles: envFiles},
		&providers.LogServiceProvider{},
		&providers.RoutingServiceProvider{},
		&providers.MonitorServiceProvider{},
		&providers.ReportServiceProvider{},
	}
	for _, p := range core {
		if err := c.Register(p); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Config resolves *config.Config from the container.
func (a *Application) Config() (*config.Config, error) {
	return container.Resolve[*config.Config](a.Container, "config")
}

// Log resolves the structured logger from the container.
func (a *Application) Log() (*zap.Logger, error) {
	return container.Resolve[*zap.Logger](a.Container, "log")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() (*routing.Router, error) {
	return container.Resolve[*routing.Router](a.Container, "router")
}

// Run boots the application (if needed) and starts the admin HTTP server.
func (a *Application) Run() error {
	if !a.IsBooted() {
		if err := a.Boot(); err != nil {
			return err
		}
	}

	cfg, err := a.Config()
	if err != nil {
		return err
	}
	log, err := a.Log()
	if err != nil {
		return err
	}
	router, err := a.Router()
	if err != nil {
		return err
	}

	addr := ":" + cfg.App.Port
	log.Info("admin server listening",
		zap.String("addr", addr),
		zap.String("env", cfg.App.Env))
	return http.ListenAndServe(addr, router)
}

// Environment helpers.
func (a *Application) Environment() string {
	cfg, err := a.Config()
	if err != nil {
		return ""
	}
	return cfg.App.Env
}

func (a *Application) IsLocal() bool      { return a.Environment() == "local" }
func (a *Application) IsProduction() bool { return a.Environment() == "production" }
func (a *Application) IsTesting() bool    { return a.Environment() == "testing" }
