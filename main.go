package main

import (
	"log"
	"net/http"

	"github.com/sitepulse/sitepulse/framework/app"
	"github.com/sitepulse/sitepulse/framework/container"
	gohttp "github.com/sitepulse/sitepulse/framework/http"
	"github.com/sitepulse/sitepulse/monitor"
)

func main() {
	application, err := app.New() // loads .env automatically
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	r, err := application.Router()
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	c := application.Container

	// ── Admin health API ─────────────────────────────────────────────────────

	// GET /health — run every registered check and report the snapshot.
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		collector, err := container.Resolve[*monitor.Collector](c, "monitor.collector")
		if err != nil {
			res.ServerError(err.Error())
			return
		}
		res.Success(collector.Collect())
	})

	// POST /reports — first call triggers the deferred report provider.
	r.Post("/reports", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		generator, err := container.Resolve[*monitor.ReportGenerator](c, "report.generator")
		if err != nil {
			res.ServerError(err.Error())
			return
		}
		res.Created(generator.Generate())
	})

	// GET /container — introspection for the admin debug panel.
	r.Get("/container", func(w http.ResponseWriter, req *http.Request) {
		res := gohttp.NewResponse(w)
		res.Success(map[string]any{
			"booted":    c.IsBooted(),
			"bindings":  c.Bindings(),
			"instances": c.Instances(),
		})
	})

	if err := application.Run(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
