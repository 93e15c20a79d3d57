package scorerouter

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	scorehandlers "github.com/satrf/scorekeeper/app/modules/score/infrastructure/handlers"
)

// AdminPath is where the admin score routes are mounted.
const AdminPath = "/api/admin/scores"

// Mount registers the admin score routes on r behind the given middleware.
func Mount(r chi.Router, h scorehandlers.Handlers, middlewares ...func(http.Handler) http.Handler) {
	r.Route(AdminPath, func(r chi.Router) {
		r.Use(middlewares...)

		r.Post("/import", h.HandleImport)
		r.Post("/upload", h.HandleUpload)
		r.Get("/template", h.HandleTemplate)

		r.Get("/", h.HandleList)
		r.Get("/{id}", h.HandleGet)
		r.Put("/{id}", h.HandleUpdate)
		r.Put("/{id}/approve", h.HandleApprove)
		r.Put("/{id}/reject", h.HandleReject)
		r.Delete("/{id}", h.HandleDelete)
	})
}
