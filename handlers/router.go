package handlers

import (
	"net/http"

	"rubricgen/logger"
	"rubricgen/services"

	"github.com/gorilla/mux"
)

// NewRouter wires every handler around a single form controller. Routes under
// /api always answer JSON. CORS and request logging wrap the router so they
// also cover preflights and unmatched paths.
func NewRouter(controller *services.FormController, log *logger.Logger) http.Handler {
	router := mux.NewRouter()

	api := router.PathPrefix("/api").Subrouter()
	api.Use(jsonMiddleware)
	NewFormHandler(controller, log).RegisterRoutes(api)
	NewCatalogHandler().RegisterRoutes(api)

	NewRubricHandler(controller, log).RegisterRoutes(router)
	NewPageHandler(controller, log).RegisterRoutes(router)

	router.HandleFunc("/health", healthCheckHandler).Methods("GET")

	return requestLogger(log)(corsMiddleware(router))
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "healthy"}`))
}
