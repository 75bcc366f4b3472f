package handlers

import (
	"errors"
	"net/http"

	"rubricgen/logger"
	"rubricgen/render"
	"rubricgen/services"

	"github.com/gorilla/mux"
)

// RubricHandler serves the generated rubric as HTML for the page's copy and
// print buttons.
type RubricHandler struct {
	controller *services.FormController
	log        *logger.Logger
}

func NewRubricHandler(controller *services.FormController, log *logger.Logger) *RubricHandler {
	return &RubricHandler{controller: controller, log: log}
}

func (h *RubricHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rubric/table", h.GetTable).Methods("GET")
	router.HandleFunc("/rubric/print", h.GetPrintDocument).Methods("GET")
}

func (h *RubricHandler) GetTable(w http.ResponseWriter, r *http.Request) {
	snap := h.controller.Snapshot()
	html, err := render.ExportHTML(snap.Result, snap.Form.Levels)
	h.respond(w, html, err)
}

func (h *RubricHandler) GetPrintDocument(w http.ResponseWriter, r *http.Request) {
	snap := h.controller.Snapshot()
	html, err := render.RenderPrintDocument(snap.Result, snap.Form.Levels)
	h.respond(w, html, err)
}

func (h *RubricHandler) respond(w http.ResponseWriter, html string, err error) {
	switch {
	case errors.Is(err, render.ErrNoResult):
		writeErrorResponse(w, http.StatusNotFound, "Todavía no se ha generado ninguna rúbrica.")
	case err != nil:
		h.log.Error("Failed to render rubric", "error", err)
		writeErrorResponse(w, http.StatusInternalServerError, "No se pudo generar el HTML de la rúbrica.")
	default:
		writeHTMLResponse(w, http.StatusOK, html)
	}
}
