package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/flotasur/fleet-maintenance/internal/catalog"
	"github.com/flotasur/fleet-maintenance/internal/models"
	"github.com/flotasur/fleet-maintenance/internal/overrides"
	"github.com/flotasur/fleet-maintenance/internal/planner"
	"github.com/flotasur/fleet-maintenance/internal/predictive"
)

// MockEquipmentCollection is a mock implementation of db.EquipmentCollection
type MockEquipmentCollection struct {
	mock.Mock
}

func (m *MockEquipmentCollection) FindEquipmentByFicha(ctx context.Context, ficha string) (*models.Equipment, error) {
	args := m.Called(ctx, ficha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Equipment), args.Error(1)
}

func (m *MockEquipmentCollection) FindEquipment(ctx context.Context) ([]models.Equipment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Equipment), args.Error(1)
}

// MockPlanCollection is a mock implementation of db.PlanCollection
type MockPlanCollection struct {
	mock.Mock
}

func (m *MockPlanCollection) FindActivePlans(ctx context.Context) ([]models.MaintenancePlan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.MaintenancePlan), args.Error(1)
}

func (m *MockPlanCollection) FindPlanByID(ctx context.Context, planID string) (*models.MaintenancePlan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MaintenancePlan), args.Error(1)
}

// MockOverrideCollection is a mock implementation of db.OverrideCollection
type MockOverrideCollection struct {
	mock.Mock
}

func (m *MockOverrideCollection) InsertOverride(ctx context.Context, override models.Override) error {
	args := m.Called(ctx, override)
	return args.Error(0)
}

func (m *MockOverrideCollection) FindOverridesByFicha(ctx context.Context, ficha string) ([]models.Override, error) {
	args := m.Called(ctx, ficha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Override), args.Error(1)
}

func (m *MockOverrideCollection) FindActiveOverrides(ctx context.Context) ([]models.Override, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Override), args.Error(1)
}

func (m *MockOverrideCollection) DeactivateOverrides(ctx context.Context, ficha string) (int64, error) {
	args := m.Called(ctx, ficha)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockOverrideCollection) ReactivateOverride(ctx context.Context, overrideID string) error {
	args := m.Called(ctx, overrideID)
	return args.Error(0)
}

func (m *MockOverrideCollection) DeleteOverride(ctx context.Context, overrideID string) error {
	args := m.Called(ctx, overrideID)
	return args.Error(0)
}

// MockPlanningCollection is a mock implementation of db.PlanningCollection
type MockPlanningCollection struct {
	mock.Mock
}

func (m *MockPlanningCollection) InsertPlanningRecord(ctx context.Context, record models.PlanningRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockPlanningCollection) FindPlanningByFicha(ctx context.Context, ficha string) ([]models.PlanningRecord, error) {
	args := m.Called(ctx, ficha)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlanningRecord), args.Error(1)
}

type fixture struct {
	equipment *MockEquipmentCollection
	plans     *MockPlanCollection
	ovColl    *MockOverrideCollection
	planning  *MockPlanningCollection
	router    *mux.Router
}

func newFixture() *fixture {
	f := &fixture{
		equipment: new(MockEquipmentCollection),
		plans:     new(MockPlanCollection),
		ovColl:    new(MockOverrideCollection),
		planning:  new(MockPlanningCollection),
	}
	engine := predictive.NewEngine(catalog.DefaultRegistry(), 50)
	overrideService := overrides.NewService(f.ovColl, f.plans, engine.Cache())
	handler := NewPredictiveHandler(engine, f.equipment, f.plans, f.ovColl, f.planning, overrideService)
	f.router = mux.NewRouter()
	handler.Register(f.router)
	return f
}

func testEquipment() *models.Equipment {
	return &models.Equipment{
		Ficha:         "EQ-01",
		Marca:         "Caterpillar",
		Modelo:        "320D",
		Categoria:     "Excavadora",
		HorasActuales: 1800,
		UnidadUso:     models.UnitHours,
	}
}

func testPlans() []models.MaintenancePlan {
	return []models.MaintenancePlan{{
		PlanID:    "plan-cat",
		Marca:     "Caterpillar",
		Modelo:    "320D",
		Categoria: "Excavadora",
		Activo:    true,
		Intervalos: []models.Interval{
			{Codigo: "PM1", Nombre: "PM1", HorasIntervalo: 250, Orden: 1},
			{Codigo: "PM2", Nombre: "PM2", HorasIntervalo: 500, Orden: 2},
			{Codigo: "PM3", Nombre: "PM3", HorasIntervalo: 1000, Orden: 3},
			{Codigo: "PM4", Nombre: "PM4", HorasIntervalo: 2000, Orden: 4},
		},
	}}
}

func TestSuggestion(t *testing.T) {
	t.Run("matched plan", func(t *testing.T) {
		f := newFixture()
		f.equipment.On("FindEquipmentByFicha", mock.Anything, "EQ-01").Return(testEquipment(), nil)
		f.plans.On("FindActivePlans", mock.Anything).Return(testPlans(), nil)
		f.ovColl.On("FindActiveOverrides", mock.Anything).Return([]models.Override{}, nil)

		req := httptest.NewRequest("GET", "/api/equipos/EQ-01/sugerencia", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var s predictive.Suggestion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
		assert.Equal(t, predictive.SourcePlan, s.Fuente)
		assert.Equal(t, "PM4", s.Intervalo.Codigo)
		assert.Equal(t, 100, s.MatchScore)
	})

	t.Run("no plan is informational not an error", func(t *testing.T) {
		f := newFixture()
		eq := testEquipment()
		eq.Marca, eq.Modelo = "Volvo", "EC210"
		f.equipment.On("FindEquipmentByFicha", mock.Anything, "EQ-01").Return(eq, nil)
		f.plans.On("FindActivePlans", mock.Anything).Return([]models.MaintenancePlan{}, nil)
		f.ovColl.On("FindActiveOverrides", mock.Anything).Return([]models.Override{}, nil)

		req := httptest.NewRequest("GET", "/api/equipos/EQ-01/sugerencia", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var s predictive.Suggestion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
		assert.Equal(t, predictive.SourceEstandar, s.Fuente)
		assert.Nil(t, s.Plan)
	})

	t.Run("degraded snapshots fall back to generic cycle", func(t *testing.T) {
		f := newFixture()
		f.equipment.On("FindEquipmentByFicha", mock.Anything, "EQ-01").Return(testEquipment(), nil)
		f.plans.On("FindActivePlans", mock.Anything).Return(nil, assert.AnError)
		f.ovColl.On("FindActiveOverrides", mock.Anything).Return(nil, assert.AnError)

		req := httptest.NewRequest("GET", "/api/equipos/EQ-01/sugerencia", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var s predictive.Suggestion
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
		// 320D is in the Caterpillar factory catalog.
		assert.Equal(t, predictive.SourceCatalogo, s.Fuente)
	})

	t.Run("unknown equipment", func(t *testing.T) {
		f := newFixture()
		f.equipment.On("FindEquipmentByFicha", mock.Anything, "NOPE").Return(nil, assert.AnError)

		req := httptest.NewRequest("GET", "/api/equipos/NOPE/sugerencia", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCycleState(t *testing.T) {
	f := newFixture()
	f.equipment.On("FindEquipmentByFicha", mock.Anything, "EQ-01").Return(testEquipment(), nil)
	f.plans.On("FindActivePlans", mock.Anything).Return(testPlans(), nil)
	f.ovColl.On("FindActiveOverrides", mock.Anything).Return([]models.Override{}, nil)

	req := httptest.NewRequest("GET", "/api/equipos/EQ-01/ciclo", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var state predictive.CycleState
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, 200.0, state.HorasRestante)
	assert.Equal(t, "PM4", state.IntervaloSiguiente.Codigo)
}

func TestRoute(t *testing.T) {
	t.Run("default length", func(t *testing.T) {
		f := newFixture()
		f.equipment.On("FindEquipmentByFicha", mock.Anything, "EQ-01").Return(testEquipment(), nil)
		f.plans.On("FindActivePlans", mock.Anything).Return(testPlans(), nil)
		f.ovColl.On("FindActiveOverrides", mock.Anything).Return([]models.Override{}, nil)

		req := httptest.NewRequest("GET", "/api/equipos/EQ-01/ruta", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			PlanID   string                  `json:"plan_id"`
			Entradas []predictive.RouteEntry `json:"entradas"`
			Ciclos   []predictive.RouteCycle `json:"ciclos"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "plan-cat", resp.PlanID)
		assert.Len(t, resp.Entradas, 8)
		assert.Len(t, resp.Ciclos, 2)
	})

	t.Run("custom length", func(t *testing.T) {
		f := newFixture()
		f.equipment.On("FindEquipmentByFicha", mock.Anything, "EQ-01").Return(testEquipment(), nil)
		f.plans.On("FindActivePlans", mock.Anything).Return(testPlans(), nil)
		f.ovColl.On("FindActiveOverrides", mock.Anything).Return([]models.Override{}, nil)

		req := httptest.NewRequest("GET", "/api/equipos/EQ-01/ruta?n=3", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Entradas []predictive.RouteEntry `json:"entradas"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Entradas, 3)
	})

	t.Run("invalid length", func(t *testing.T) {
		f := newFixture()
		f.equipment.On("FindEquipmentByFicha", mock.Anything, "EQ-01").Return(testEquipment(), nil)
		f.plans.On("FindActivePlans", mock.Anything).Return(testPlans(), nil)
		f.ovColl.On("FindActiveOverrides", mock.Anything).Return([]models.Override{}, nil)

		req := httptest.NewRequest("GET", "/api/equipos/EQ-01/ruta?n=-2", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPersistRoute(t *testing.T) {
	t.Run("all writes succeed", func(t *testing.T) {
		f := newFixture()
		f.equipment.On("FindEquipmentByFicha", mock.Anything, "EQ-01").Return(testEquipment(), nil)
		f.plans.On("FindActivePlans", mock.Anything).Return(testPlans(), nil)
		f.ovColl.On("FindActiveOverrides", mock.Anything).Return([]models.Override{}, nil)
		f.planning.On("InsertPlanningRecord", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]interface{}{"cantidad": 4, "responsable": "jmendez"})
		req := httptest.NewRequest("POST", "/api/equipos/EQ-01/ruta/persistir", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var result planner.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 4, result.Total)
		assert.Equal(t, 4, result.Succeeded)
		f.planning.AssertNumberOfCalls(t, "InsertPlanningRecord", 4)
	})

	t.Run("partial failure reports counts without aborting", func(t *testing.T) {
		f := newFixture()
		f.equipment.On("FindEquipmentByFicha", mock.Anything, "EQ-01").Return(testEquipment(), nil)
		f.plans.On("FindActivePlans", mock.Anything).Return(testPlans(), nil)
		f.ovColl.On("FindActiveOverrides", mock.Anything).Return([]models.Override{}, nil)
		f.planning.On("InsertPlanningRecord", mock.Anything, mock.MatchedBy(func(r models.PlanningRecord) bool {
			return r.Secuencia == 2
		})).Return(assert.AnError)
		f.planning.On("InsertPlanningRecord", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]interface{}{"cantidad": 4})
		req := httptest.NewRequest("POST", "/api/equipos/EQ-01/ruta/persistir", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusMultiStatus, w.Code)
		var result planner.Result
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
		assert.Equal(t, 4, result.Total)
		assert.Equal(t, 3, result.Succeeded)
		require.Len(t, result.Failed, 1)
		assert.Equal(t, 2, result.Failed[0].Record.Secuencia)
		f.planning.AssertNumberOfCalls(t, "InsertPlanningRecord", 4)
	})
}

func TestCreateOverride(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		f := newFixture()
		plans := testPlans()
		f.plans.On("FindPlanByID", mock.Anything, "plan-cat").Return(&plans[0], nil)
		f.ovColl.On("FindOverridesByFicha", mock.Anything, "EQ-01").Return([]models.Override{}, nil)
		f.ovColl.On("DeactivateOverrides", mock.Anything, "EQ-01").Return(int64(0), nil)
		f.ovColl.On("InsertOverride", mock.Anything, mock.Anything).Return(nil)

		body, _ := json.Marshal(map[string]string{
			"plan_forzado_id": "plan-cat",
			"motivo":          "equipo bajo contrato de marca",
			"autor":           "jmendez",
		})
		req := httptest.NewRequest("POST", "/api/equipos/EQ-01/override", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		var ov models.Override
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ov))
		assert.Equal(t, "plan-cat", ov.PlanForzadoID)
		assert.True(t, ov.Activo)
	})

	t.Run("missing motivo", func(t *testing.T) {
		f := newFixture()
		body, _ := json.Marshal(map[string]string{"plan_forzado_id": "plan-cat"})
		req := httptest.NewRequest("POST", "/api/equipos/EQ-01/override", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown forced plan", func(t *testing.T) {
		f := newFixture()
		f.plans.On("FindPlanByID", mock.Anything, "gone").Return(nil, assert.AnError)

		body, _ := json.Marshal(map[string]string{"plan_forzado_id": "gone", "motivo": "x"})
		req := httptest.NewRequest("POST", "/api/equipos/EQ-01/override", bytes.NewBuffer(body))
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestRevertOverride(t *testing.T) {
	t.Run("reverts active override", func(t *testing.T) {
		f := newFixture()
		f.ovColl.On("DeactivateOverrides", mock.Anything, "EQ-01").Return(int64(1), nil)

		req := httptest.NewRequest("DELETE", "/api/equipos/EQ-01/override", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "revertido")
	})

	t.Run("nothing to revert is informational", func(t *testing.T) {
		f := newFixture()
		f.ovColl.On("DeactivateOverrides", mock.Anything, "EQ-01").Return(int64(0), nil)

		req := httptest.NewRequest("DELETE", "/api/equipos/EQ-01/override", nil)
		w := httptest.NewRecorder()
		f.router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "sin override activo")
	})
}

func TestScheduledMaintenance(t *testing.T) {
	f := newFixture()
	f.equipment.On("FindEquipmentByFicha", mock.Anything, "EQ-01").Return(testEquipment(), nil) // 1800h
	records := []models.PlanningRecord{
		{Secuencia: 1, Codigo: "PM1", HorasObjetivo: 1750, UmbralAlerta: 50},  // already passed
		{Secuencia: 2, Codigo: "PM2", HorasObjetivo: 1820, UmbralAlerta: 50},  // within half threshold
		{Secuencia: 3, Codigo: "PM3", HorasObjetivo: 2500, UmbralAlerta: 50},
	}
	f.planning.On("FindPlanningByFicha", mock.Anything, "EQ-01").Return(records, nil)

	req := httptest.NewRequest("GET", "/api/equipos/EQ-01/planificacion", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var entries []struct {
		Secuencia           int               `json:"secuencia"`
		HorasRestanteActual float64           `json:"horas_restante_actual"`
		Alerta              models.AlertLevel `json:"alerta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, -50.0, entries[0].HorasRestanteActual)
	assert.Equal(t, models.AlertVencido, entries[0].Alerta)
	assert.Equal(t, models.AlertUrgente, entries[1].Alerta)
	assert.Equal(t, models.AlertNormal, entries[2].Alerta)
}

func TestOverrideHistory(t *testing.T) {
	f := newFixture()
	trail := []models.Override{
		{OverrideID: "b", FichaEquipo: "EQ-01", Activo: true},
		{OverrideID: "a", FichaEquipo: "EQ-01", Activo: false},
	}
	f.ovColl.On("FindOverridesByFicha", mock.Anything, "EQ-01").Return(trail, nil)

	req := httptest.NewRequest("GET", "/api/equipos/EQ-01/override/historial", nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got []models.Override
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].OverrideID)
}
