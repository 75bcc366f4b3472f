package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"rubricgen/catalog"
	"rubricgen/logger"
	"rubricgen/render"
	"rubricgen/services"

	"github.com/gorilla/mux"
)

//go:embed templates/index.html
var pageFS embed.FS

var pageTemplate = template.Must(template.ParseFS(pageFS, "templates/index.html"))

type PageHandler struct {
	controller *services.FormController
	log        *logger.Logger
}

func NewPageHandler(controller *services.FormController, log *logger.Logger) *PageHandler {
	return &PageHandler{controller: controller, log: log}
}

type pageData struct {
	services.Snapshot
	Stages       []string
	Grades       []string
	Subjects     []string
	Competencies []string
	Table        template.HTML
}

func (h *PageHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/", h.Index).Methods("GET")
}

func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	snap := h.controller.Snapshot()
	data := pageData{
		Snapshot:     snap,
		Stages:       catalog.Stages(),
		Grades:       catalog.GradesFor(snap.Form.Stage),
		Subjects:     catalog.SubjectsFor(snap.Form.Stage),
		Competencies: catalog.Competencies(),
	}

	if snap.Result != nil {
		table, err := render.RenderTable(snap.Result, snap.Form.Levels)
		if err != nil {
			h.log.Error("Failed to render rubric table", "error", err)
		} else {
			data.Table = template.HTML(table)
		}
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.log.Error("Failed to render page", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	writeHTMLResponse(w, http.StatusOK, buf.String())
}
