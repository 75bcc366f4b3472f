package handlers

import (
	"net/http"

	"rubricgen/catalog"

	"github.com/gorilla/mux"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

type catalogResponse struct {
	Stages       []string            `json:"stages"`
	Competencies []string            `json:"competencies"`
	Grades       map[string][]string `json:"grades"`
	Subjects     map[string][]string `json:"subjects"`
}

func (h *CatalogHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/catalog", h.GetCatalog).Methods("GET")
}

// GetCatalog returns every stage's grades and subjects, or a single stage's
// when ?stage= is given.
func (h *CatalogHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	stages := catalog.Stages()
	if stage := r.URL.Query().Get("stage"); stage != "" {
		if !catalog.IsKnownStage(stage) {
			writeErrorResponse(w, http.StatusNotFound, "Unknown stage: "+stage)
			return
		}
		stages = []string{stage}
	}

	resp := catalogResponse{
		Stages:       catalog.Stages(),
		Competencies: catalog.Competencies(),
		Grades:       make(map[string][]string, len(stages)),
		Subjects:     make(map[string][]string, len(stages)),
	}
	for _, stage := range stages {
		resp.Grades[stage] = catalog.GradesFor(stage)
		resp.Subjects[stage] = catalog.SubjectsFor(stage)
	}

	writeJSONResponse(w, http.StatusOK, resp)
}
