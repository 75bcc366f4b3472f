package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"rubricgen/logger"
	"rubricgen/models"
	"rubricgen/services"

	"github.com/gorilla/mux"
)

type FormHandler struct {
	controller *services.FormController
	log        *logger.Logger
}

func NewFormHandler(controller *services.FormController, log *logger.Logger) *FormHandler {
	return &FormHandler{controller: controller, log: log}
}

type toggleRequest struct {
	Name string `json:"name"`
}

func (h *FormHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/form", h.GetForm).Methods("GET")
	router.HandleFunc("/form", h.UpdateForm).Methods("PUT")
	router.HandleFunc("/form/reset", h.ResetForm).Methods("POST")
	router.HandleFunc("/form/competencies/toggle", h.ToggleCompetency).Methods("POST")
	router.HandleFunc("/form/levels", h.AddLevel).Methods("POST")
	router.HandleFunc("/form/levels/{index:[0-9]+}", h.UpdateLevel).Methods("PUT")
	router.HandleFunc("/form/levels/{index:[0-9]+}", h.RemoveLevel).Methods("DELETE")
	router.HandleFunc("/form/items", h.AddItem).Methods("POST")
	router.HandleFunc("/form/items/{index:[0-9]+}", h.UpdateItem).Methods("PUT")
	router.HandleFunc("/form/items/{index:[0-9]+}", h.RemoveItem).Methods("DELETE")
	router.HandleFunc("/actions/cancel", h.CancelAction).Methods("POST")
	router.HandleFunc("/actions/{action:criteria|competencies|items|rubric}", h.RunAction).Methods("POST")
}

func (h *FormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(w, http.StatusOK, h.controller.Snapshot())
}

func (h *FormHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	var form models.FormModel
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		h.log.Warn("Failed to decode form JSON", "error", err)
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	h.controller.Apply(form)
	writeJSONResponse(w, http.StatusOK, h.controller.Snapshot())
}

func (h *FormHandler) ResetForm(w http.ResponseWriter, r *http.Request) {
	h.controller.Reset()
	writeJSONResponse(w, http.StatusOK, h.controller.Snapshot())
}

func (h *FormHandler) ToggleCompetency(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if req.Name == "" {
		writeErrorResponse(w, http.StatusBadRequest, "Competency name is required")
		return
	}

	h.controller.ToggleCompetency(req.Name)
	writeJSONResponse(w, http.StatusOK, h.controller.Snapshot())
}

func (h *FormHandler) AddLevel(w http.ResponseWriter, r *http.Request) {
	h.controller.AddLevel()
	writeJSONResponse(w, http.StatusCreated, h.controller.Snapshot())
}

func (h *FormHandler) UpdateLevel(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])

	var level models.LevelDefinition
	if err := json.NewDecoder(r.Body).Decode(&level); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	h.respondIndexed(w, h.controller.SetLevel(index, level.Name, level.Score))
}

func (h *FormHandler) RemoveLevel(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])
	h.respondIndexed(w, h.controller.RemoveLevel(index))
}

func (h *FormHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	h.controller.AddItem()
	writeJSONResponse(w, http.StatusCreated, h.controller.Snapshot())
}

func (h *FormHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])

	var item models.EvaluationItemConfig
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	h.respondIndexed(w, h.controller.SetItem(index, item.Name, item.Weight))
}

func (h *FormHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(mux.Vars(r)["index"])
	h.respondIndexed(w, h.controller.RemoveItem(index))
}

func (h *FormHandler) respondIndexed(w http.ResponseWriter, err error) {
	if err != nil {
		writeErrorResponse(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSONResponse(w, http.StatusOK, h.controller.Snapshot())
}

// RunAction blocks until the action finishes. Failures of the model call are
// reported through the snapshot's error slot with a 200; only requests the
// controller refused get an error status.
func (h *FormHandler) RunAction(w http.ResponseWriter, r *http.Request) {
	action, ok := services.ParseAction(mux.Vars(r)["action"])
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, "Unknown action")
		return
	}

	err := h.controller.Run(r.Context(), action)
	switch {
	case errors.Is(err, services.ErrBusy):
		writeErrorResponse(w, http.StatusConflict, "Ya hay una acción en curso.")
	case errors.Is(err, services.ErrStaleResult):
		writeErrorResponse(w, http.StatusGone, "La etapa ha cambiado; se ha descartado el resultado.")
	case errors.Is(err, services.ErrMissingFields):
		writeErrorResponse(w, http.StatusUnprocessableEntity, "Faltan campos obligatorios del formulario.")
	case errors.Is(err, services.ErrCannotSubmit):
		writeErrorResponse(w, http.StatusUnprocessableEntity, "La suma de los pesos debe ser 100%.")
	default:
		writeJSONResponse(w, http.StatusOK, h.controller.Snapshot())
	}
}

func (h *FormHandler) CancelAction(w http.ResponseWriter, r *http.Request) {
	cancelled := h.controller.Cancel()
	writeJSONResponse(w, http.StatusOK, map[string]bool{"cancelled": cancelled})
}
