package providers

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sitepulse/sitepulse/framework/config"
	"github.com/sitepulse/sitepulse/framework/container"
	"github.com/sitepulse/sitepulse/framework/routing"
	"github.com/sitepulse/sitepulse/monitor"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the plugin configuration from .env and binds
// it into the container.
//
// Bound identifiers:
//   - "config"        → *config.Config
//   - "configuration" → alias of "config"
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
}

func (p *ConfigServiceProvider) Register(app *container.Container) error {
	envFiles := p.EnvFiles
	app.Singleton("config", func(_ *container.Container) (any, error) {
		return config.Load(envFiles...), nil
	})
	app.Alias("configuration", "config")
	return nil
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider binds the structured logger.
//
// Bound identifiers:
//   - "log" → *zap.Logger
type LogServiceProvider struct {
	container.BaseProvider
}

func (p *LogServiceProvider) Register(app *container.Container) error {
	app.Singleton("log", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		var level zapcore.Level
		if err := level.Set(cfg.App.LogLevel); err != nil {
			level = zapcore.InfoLevel
		}
		zcfg := zap.NewProductionConfig()
		if cfg.App.Debug {
			zcfg = zap.NewDevelopmentConfig()
		}
		zcfg.Level = zap.NewAtomicLevelAt(level)
		return zcfg.Build()
	})
	return nil
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the admin HTTP router.
//
// Bound identifiers:
//   - "router" → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) error {
	app.Singleton("router", func(_ *container.Container) (any, error) {
		return routing.New(), nil
	})
	return nil
}

// ── MonitorServiceProvider ────────────────────────────────────────────────────

// MonitorServiceProvider registers the health checks and their collector.
//
// Bound identifiers:
//   - "check.runtime"     → monitor.Checker
//   - "monitor.collector" → *monitor.Collector
//
// Checks are tagged "health-checks" so further providers can contribute
// their own checkers to the same collector.
type MonitorServiceProvider struct {
	container.BaseProvider
}

func (p *MonitorServiceProvider) Register(app *container.Container) error {
	app.Singleton("check.runtime", func(_ *container.Container) (any, error) {
		return &monitor.RuntimeCheck{}, nil
	})
	app.Tag([]string{"check.runtime"}, "health-checks")

	app.Singleton("monitor.collector", func(c *container.Container) (any, error) {
		log, err := container.Resolve[*zap.Logger](c, "log")
		if err != nil {
			return nil, err
		}
		tagged, err := c.Tagged("health-checks")
		if err != nil {
			return nil, err
		}
		checkers := make([]monitor.Checker, 0, len(tagged))
		for _, v := range tagged {
			checkers = append(checkers, v.(monitor.Checker))
		}
		return monitor.NewCollector(log, checkers...), nil
	})
	return nil
}

func (p *MonitorServiceProvider) Boot(app *container.Container) error {
	log, err := container.Resolve[*zap.Logger](app, "log")
	if err != nil {
		return err
	}
	log.Info("health monitor ready")
	return nil
}

// ── ReportServiceProvider ─────────────────────────────────────────────────────

// ReportServiceProvider is deferred: report generation is only assembled the
// first time "report.generator" is resolved, since most admin requests never
// touch it.
//
// Provided identifiers:
//   - "report.generator" → *monitor.ReportGenerator (auto-wired)
type ReportServiceProvider struct {
	container.BaseProvider
}

func (p *ReportServiceProvider) IsDeferred() bool   { return true }
func (p *ReportServiceProvider) Provides() []string { return []string{"report.generator"} }

func (p *ReportServiceProvider) Register(app *container.Container) error {
	app.Wire("report.generator", &monitor.ReportGenerator{})
	return nil
}

func (p *ReportServiceProvider) Boot(app *container.Container) error {
	log, err := container.Resolve[*zap.Logger](app, "log")
	if err != nil {
		return err
	}
	log.Info("report generator loaded")
	return nil
}
