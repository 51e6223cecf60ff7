package http

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// NewRouter creates and configures a new instance of the router.
func NewRouter(h Handler) *httprouter.Router {
	r := httprouter.New()

	r.GET("/assemblies", h.Assemblies)
	r.POST("/assemblies", h.AddAssembly)
	r.GET("/assembly/:id", h.Assembly)
	r.PATCH("/assembly/:id", h.UpdateAssembly)
	r.DELETE("/assembly/:id", h.DeleteAssembly)
	r.POST("/trigger/:id", h.Trigger)

	r.GlobalOPTIONS = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetDefaultHeaders(w)
		h := w.Header()
		h.Set("Access-Control-Allow-Methods", h.Get("Allow"))
		w.WriteHeader(http.StatusNoContent)
	})

	return r
}
