package gateway_test

import (
	"context"
	"errors"
	"testing"

	"rubricgen/models"
	"rubricgen/services/gateway"
	"rubricgen/services/gateway/gatewaytest"
	"rubricgen/services/prompt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoke(t *testing.T) {
	req := prompt.BuildCompetencySuggestion("Primaria", "Matemáticas", "Fracciones", []string{"A (A)"})

	tests := []struct {
		name       string
		reply      string
		fail       error
		validation bool
		upstream   bool
	}{
		{name: "valid reply", reply: `{"competencias": ["A (A)"]}`},
		{name: "surrounding whitespace", reply: "\n  {\"competencias\": []}  \n"},
		{name: "not json", reply: "Aquí tienes las competencias", validation: true},
		{name: "missing key", reply: `{"competencies": []}`, validation: true},
		{name: "key not a list", reply: `{"competencias": "CCL"}`, validation: true},
		{name: "null document", reply: `null`, validation: true},
		{name: "transport failure", fail: errors.New("connection reset"), upstream: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := gatewaytest.New()
			if tt.fail != nil {
				fake.Fail(req.Name, tt.fail)
			} else {
				fake.Reply(req.Name, tt.reply)
			}
			gw := gateway.New(fake, nil)

			raw, err := gw.Invoke(context.Background(), req)

			switch {
			case tt.validation:
				require.Error(t, err)
				assert.True(t, gateway.IsValidation(err), "want validation error, got %v", err)
				assert.False(t, gateway.IsUpstream(err))
			case tt.upstream:
				require.Error(t, err)
				assert.True(t, gateway.IsUpstream(err), "want upstream error, got %v", err)
				assert.ErrorIs(t, err, tt.fail)
				assert.Contains(t, err.Error(), "connection reset")
			default:
				require.NoError(t, err)
				assert.NotEmpty(t, raw)
			}
		})
	}
}

func TestInvokePassesTemperatureAndSchema(t *testing.T) {
	fake := gatewaytest.New().Reply(prompt.NameItems, `{"items": []}`)
	gw := gateway.New(fake, nil)

	_, err := gw.Invoke(context.Background(), prompt.BuildItemSuggestion("Infantil", "Crecimiento en Armonía", "Hábitos"))
	require.NoError(t, err)

	reqs := fake.Requests()
	require.Len(t, reqs, 1)
	assert.InDelta(t, 0.5, reqs[0].Temperature, 1e-6)
	assert.NotNil(t, reqs[0].Schema)
}

func TestDecodeValidatesNestedFields(t *testing.T) {
	req := prompt.BuildRubric(models.DefaultForm())

	tests := []struct {
		name    string
		reply   string
		wantErr string
	}{
		{
			name:    "item missing niveles",
			reply:   `{"rubrica": [{"item": "1", "peso": "40%", "criteriosAsociados": [], "competenciasAsociadas": []}]}`,
			wantErr: `rubrica[0]: missing property 'niveles'`,
		},
		{
			name:    "level description wrong type",
			reply:   `{"rubrica": [{"item": "1", "peso": "40%", "criteriosAsociados": [], "competenciasAsociadas": [], "niveles": [{"nombre": "Bien", "descripcion": 3}]}]}`,
			wantErr: "rubrica[0].niveles[0].descripcion: got number, want string",
		},
		{
			name:    "criteria entries must be strings",
			reply:   `{"rubrica": [{"item": "1", "peso": "40%", "criteriosAsociados": [{"n": 1}], "competenciasAsociadas": [], "niveles": []}]}`,
			wantErr: "rubrica[0].criteriosAsociados[0]: got object, want string",
		},
		{
			name:    "unexpected property",
			reply:   `{"rubrica": [{"item": "1", "peso": "40%", "criteriosAsociados": [], "competenciasAsociadas": [], "niveles": [], "nota": 7}]}`,
			wantErr: "rubrica[0]: additional properties 'nota' not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := gateway.New(gatewaytest.New().Reply(req.Name, tt.reply), nil)

			out, err := gateway.Decode[models.Rubric](context.Background(), gw, req)

			require.Error(t, err)
			assert.Nil(t, out)
			assert.True(t, gateway.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDecodeRubric(t *testing.T) {
	req := prompt.BuildRubric(models.DefaultForm())
	reply := `{"rubrica": [{"item": "1. Comprensión del texto", "peso": "40%",
		"criteriosAsociados": ["1.1. Identificar"], "competenciasAsociadas": ["CCL"],
		"niveles": [{"nombre": "Sobresaliente", "descripcion": "Comprende\nExplica"}]}]}`
	gw := gateway.New(gatewaytest.New().Reply(req.Name, reply), nil)

	out, err := gateway.Decode[models.Rubric](context.Background(), gw, req)

	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "40%", out.Items[0].Weight)
	desc, ok := out.Items[0].LevelDescription("Sobresaliente")
	assert.True(t, ok)
	assert.Equal(t, "Comprende\nExplica", desc)
}

func TestDecodeWrapsContextErrorsAsUpstream(t *testing.T) {
	fake := gatewaytest.New()
	fake.Block = make(chan struct{})
	gw := gateway.New(fake, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gateway.Decode[models.ItemSuggestion](ctx, gw, prompt.BuildItemSuggestion("a", "b", "c"))

	require.Error(t, err)
	assert.True(t, gateway.IsUpstream(err))
	assert.ErrorIs(t, err, context.Canceled)
}
