package router

import (
	"net/http"

	"github.com/shandysiswandi/myfarm/internal/pkg/config"
)

// middlewareMaintenance answers 503 for route patterns listed under
// sandbox.maintenance.endpoints, re-read per request so the list can be
// toggled while the sandbox runs.
func middlewareMaintenance(cfg config.Config) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg != nil {
				route := matchedRoutePath(r)
				for _, endpoint := range cfg.GetArray("sandbox.maintenance.endpoints") {
					if endpoint == route {
						writeJSON(w, errorResponse{Message: "service is under maintenance"}, http.StatusServiceUnavailable)
						return
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
