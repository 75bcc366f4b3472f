package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"rubricgen/logger"
	"rubricgen/services"
	"rubricgen/services/gateway"
	"rubricgen/services/gateway/gatewaytest"
	"rubricgen/services/prompt"
	"rubricgen/services/rubric"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rubricReply = `{"rubrica": [{"item": "1. Comprensión del texto", "peso": "40%",
	"criteriosAsociados": ["1.1. Identificar"], "competenciasAsociadas": ["CCL"],
	"niveles": [{"nombre": "Sobresaliente", "descripcion": "Comprende"}]}]}`

type testServer struct {
	fake       *gatewaytest.Generator
	controller *services.FormController
	handler    http.Handler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	fake := gatewaytest.New()
	svc := rubric.NewService(gateway.New(fake, nil), nil)
	controller := services.NewFormController(svc)
	return &testServer{
		fake:       fake,
		controller: controller,
		handler:    NewRouter(controller, logger.Nop()),
	}
}

func (s *testServer) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeSnapshot(t *testing.T, rec *httptest.ResponseRecorder) services.Snapshot {
	t.Helper()
	var snap services.Snapshot
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&snap))
	return snap
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "GET", "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "healthy"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsPropagated(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()

	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "OPTIONS", "/api/form", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestGetForm(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "GET", "/api/form", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, "Secundaria", snap.Form.Stage)
	assert.Equal(t, 100, snap.Status.TotalWeight)
	assert.True(t, snap.Status.CanSubmit)
	assert.Nil(t, snap.Result)
}

func TestUpdateFormChangesStage(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "PUT", "/api/form", `{"stage": "Primaria", "grade": "2º de E.S.O.", "subject": "Música",
		"topic": "Ritmo", "criteria": "x", "competencies": ["Competencia digital (CD)"],
		"levels": [{"nombre": "Bien", "puntuacion": "6"}],
		"evaluationItems": [{"name": "A", "weight": "100"}]}`)

	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, "Primaria", snap.Form.Stage)
	assert.Equal(t, "1º de Primaria", snap.Form.Grade)
	assert.Equal(t, "Ciencias de la Naturaleza", snap.Form.Subject)
	assert.Empty(t, snap.Form.Criteria)
	assert.Empty(t, snap.Form.Competencies)
	assert.Equal(t, "Ritmo", snap.Form.Topic)
	assert.Len(t, snap.Form.Levels, 1)
}

func TestUpdateFormInvalidJSON(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "PUT", "/api/form", `{"stage":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error": "Invalid JSON payload"}`, rec.Body.String())
}

func TestToggleCompetency(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "POST", "/api/form/competencies/toggle", `{"name": "Competencia ciudadana (CC)"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, decodeSnapshot(t, rec).Form.Competencies, "Competencia ciudadana (CC)")

	rec = s.do(t, "POST", "/api/form/competencies/toggle", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestItemRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "POST", "/api/form/items", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, decodeSnapshot(t, rec).Form.EvaluationItems, 4)

	rec = s.do(t, "PUT", "/api/form/items/3", `{"name": "Presentación", "weight": "1a0%"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Equal(t, "10", snap.Form.EvaluationItems[3].Weight)
	assert.Equal(t, 110, snap.Status.TotalWeight)
	assert.False(t, snap.Status.CanSubmit)

	rec = s.do(t, "DELETE", "/api/form/items/3", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeSnapshot(t, rec).Form.EvaluationItems, 3)

	rec = s.do(t, "DELETE", "/api/form/items/9", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLevelRoutes(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "POST", "/api/form/levels", "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, "PUT", "/api/form/levels/5", `{"nombre": "Excelente", "puntuacion": "10"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	levels := decodeSnapshot(t, rec).Form.Levels
	require.Len(t, levels, 6)
	assert.Equal(t, "Excelente", levels[5].Name)

	rec = s.do(t, "DELETE", "/api/form/levels/0", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Notable", decodeSnapshot(t, rec).Form.Levels[0].Name)
}

func TestGenerateAndExport(t *testing.T) {
	s := newTestServer(t)
	s.fake.Reply(prompt.NameRubric, rubricReply)

	rec := s.do(t, "GET", "/rubric/table", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, "POST", "/api/actions/rubric", "")
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	require.NotNil(t, snap.Result)
	assert.Len(t, snap.Result.Items, 1)

	rec = s.do(t, "GET", "/rubric/table", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<table"))
	assert.Contains(t, rec.Body.String(), "Comprensión del texto")

	rec = s.do(t, "GET", "/rubric/print", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "window.print()")

	rec = s.do(t, "GET", "/", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rúbrica Generada")
	assert.Contains(t, rec.Body.String(), "Copiar para Google Docs")
}

func TestActionFailureGoesToErrorSlot(t *testing.T) {
	s := newTestServer(t)
	s.fake.Fail(prompt.NameItems, errors.New("quota exceeded"))

	rec := s.do(t, "POST", "/api/actions/items", "")

	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeSnapshot(t, rec)
	assert.Contains(t, snap.Status.Error, "quota exceeded")
	assert.Len(t, snap.Form.EvaluationItems, 3)

	page := s.do(t, "GET", "/", "")
	assert.Contains(t, page.Body.String(), `role="alert"`)
}

func TestActionGuards(t *testing.T) {
	s := newTestServer(t)
	s.do(t, "PUT", "/api/form/items/0", `{"name": "A", "weight": "10"}`)

	rec := s.do(t, "POST", "/api/actions/rubric", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	s.controller.SetTopic("")
	rec = s.do(t, "POST", "/api/actions/competencies", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Empty(t, s.fake.Requests())
}

func TestUnknownAction(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "POST", "/api/actions/everything", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestActionWhileBusy(t *testing.T) {
	s := newTestServer(t)
	s.fake.Block = make(chan struct{})
	s.fake.Started = make(chan string, 1)
	s.fake.Reply(prompt.NameRubric, rubricReply)

	done := make(chan error, 1)
	go func() { done <- s.controller.Generate(context.Background()) }()
	select {
	case <-s.fake.Started:
	case <-time.After(2 * time.Second):
		t.Fatal("generation never started")
	}

	rec := s.do(t, "POST", "/api/actions/items", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, "POST", "/api/actions/cancel", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"cancelled": true}`, rec.Body.String())

	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Nil(t, s.controller.Snapshot().Result)
}

func TestGetCatalog(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "GET", "/api/catalog", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var all catalogResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&all))
	assert.Equal(t, []string{"Secundaria", "Primaria", "Infantil"}, all.Stages)
	assert.Len(t, all.Competencies, 8)
	assert.Len(t, all.Grades, 3)

	rec = s.do(t, "GET", "/api/catalog?stage=Infantil", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var one catalogResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&one))
	assert.Equal(t, map[string][]string{"Infantil": {"3 años", "4 años", "5 años"}}, one.Grades)
	assert.Len(t, one.Subjects["Infantil"], 3)

	rec = s.do(t, "GET", "/api/catalog?stage=Bachillerato", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIndexPage(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, "GET", "/", "")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Generador de Rúbricas LOMLOE")
	assert.Contains(t, body, `<option value="Secundaria" selected>`)
	assert.Contains(t, body, "Análisis de un texto narrativo.")
	assert.Contains(t, body, "100%")
	assert.NotContains(t, body, "Rúbrica Generada</h2>")
}
