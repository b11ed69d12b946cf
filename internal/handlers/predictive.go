package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/flotasur/fleet-maintenance/internal/db"
	"github.com/flotasur/fleet-maintenance/internal/models"
	"github.com/flotasur/fleet-maintenance/internal/overrides"
	"github.com/flotasur/fleet-maintenance/internal/planner"
	"github.com/flotasur/fleet-maintenance/internal/predictive"
)

// PredictiveHandler serves the scheduling engine over HTTP. Absence of a
// plan or kit is an informational payload, never an HTTP error; only genuine
// write failures surface as errors.
type PredictiveHandler struct {
	engine          *predictive.Engine
	equipment       db.EquipmentCollection
	plans           db.PlanCollection
	overridesColl   db.OverrideCollection
	planning        db.PlanningCollection
	overrideService *overrides.Service
}

// NewPredictiveHandler creates the handler over its collaborators.
func NewPredictiveHandler(
	engine *predictive.Engine,
	equipment db.EquipmentCollection,
	plans db.PlanCollection,
	overridesColl db.OverrideCollection,
	planning db.PlanningCollection,
	overrideService *overrides.Service,
) *PredictiveHandler {
	return &PredictiveHandler{
		engine:          engine,
		equipment:       equipment,
		plans:           plans,
		overridesColl:   overridesColl,
		planning:        planning,
		overrideService: overrideService,
	}
}

// Register mounts every route on the router.
func (h *PredictiveHandler) Register(r *mux.Router) {
	r.HandleFunc("/api/equipos/{ficha}/sugerencia", h.Suggestion).Methods(http.MethodGet)
	r.HandleFunc("/api/equipos/{ficha}/ciclo", h.CycleState).Methods(http.MethodGet)
	r.HandleFunc("/api/equipos/{ficha}/ruta", h.Route).Methods(http.MethodGet)
	r.HandleFunc("/api/equipos/{ficha}/ruta/persistir", h.PersistRoute).Methods(http.MethodPost)
	r.HandleFunc("/api/equipos/{ficha}/override", h.CreateOverride).Methods(http.MethodPost)
	r.HandleFunc("/api/equipos/{ficha}/override", h.RevertOverride).Methods(http.MethodDelete)
	r.HandleFunc("/api/equipos/{ficha}/override/historial", h.OverrideHistory).Methods(http.MethodGet)
	r.HandleFunc("/api/equipos/{ficha}/planificacion", h.ScheduledMaintenance).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// snapshots loads the inputs the engine consumes. A failed plan or override
// fetch degrades to an empty collection: the engine's no-match paths handle
// it (generic cycle in use), per the external-fetch policy.
func (h *PredictiveHandler) snapshots(r *http.Request, ficha string) (*models.Equipment, []models.MaintenancePlan, []models.Override, error) {
	eq, err := h.equipment.FindEquipmentByFicha(r.Context(), ficha)
	if err != nil {
		return nil, nil, nil, err
	}
	plans, err := h.plans.FindActivePlans(r.Context())
	if err != nil {
		log.WithField("ficha", ficha).WithError(err).Warn("Plan snapshot unavailable, degrading to empty")
		plans = nil
	}
	ovs, err := h.overridesColl.FindActiveOverrides(r.Context())
	if err != nil {
		log.WithField("ficha", ficha).WithError(err).Warn("Override snapshot unavailable, degrading to empty")
		ovs = nil
	}
	return eq, plans, ovs, nil
}

// Suggestion returns the combined next-service answer for one equipment.
func (h *PredictiveHandler) Suggestion(w http.ResponseWriter, r *http.Request) {
	ficha := mux.Vars(r)["ficha"]
	eq, plans, ovs, err := h.snapshots(r, ficha)
	if err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.SuggestNextService(*eq, plans, ovs))
}

// CycleState returns where the equipment sits inside its service cycle.
func (h *PredictiveHandler) CycleState(w http.ResponseWriter, r *http.Request) {
	ficha := mux.Vars(r)["ficha"]
	eq, plans, ovs, err := h.snapshots(r, ficha)
	if err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.engine.CycleStateFor(*eq, plans, ovs))
}

// routeResponse is the projection payload: flat entries plus the cycle
// groupings.
type routeResponse struct {
	Ficha    string                  `json:"ficha"`
	PlanID   string                  `json:"plan_id"`
	Entradas []predictive.RouteEntry `json:"entradas"`
	Ciclos   []predictive.RouteCycle `json:"ciclos"`
}

// Route projects the upcoming services. Query param n controls the length,
// default 8.
func (h *PredictiveHandler) Route(w http.ResponseWriter, r *http.Request) {
	ficha := mux.Vars(r)["ficha"]
	eq, plans, ovs, err := h.snapshots(r, ficha)
	if err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}
	count := predictive.DefaultRouteLength
	if n := r.URL.Query().Get("n"); n != "" {
		parsed, err := strconv.Atoi(n)
		if err != nil || parsed <= 0 {
			http.Error(w, "Invalid route length", http.StatusBadRequest)
			return
		}
		count = parsed
	}
	entries, cycles, plan := h.engine.RouteFor(*eq, plans, ovs, count)
	writeJSON(w, http.StatusOK, routeResponse{
		Ficha:    ficha,
		PlanID:   plan.PlanID,
		Entradas: entries,
		Ciclos:   cycles,
	})
}

// persistRequest carries the operator metadata stamped on every persisted
// entry.
type persistRequest struct {
	Cantidad     int     `json:"cantidad"`
	Responsable  string  `json:"responsable"`
	UmbralAlerta float64 `json:"umbral_alerta"`
	EsOverride   bool    `json:"es_override"`
}

// PersistRoute writes the projected route as standalone planning records and
// reports per-entry outcomes. Partial failure is a 207, not an abort.
func (h *PredictiveHandler) PersistRoute(w http.ResponseWriter, r *http.Request) {
	ficha := mux.Vars(r)["ficha"]
	eq, plans, ovs, err := h.snapshots(r, ficha)
	if err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}

	var req persistRequest
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > 0 {
		if err := json.Unmarshal(body, &req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
	}
	if req.Cantidad <= 0 {
		req.Cantidad = predictive.DefaultRouteLength
	}

	entries, _, plan := h.engine.RouteFor(*eq, plans, ovs, req.Cantidad)
	result := planner.PersistRoute(r.Context(), h.planning, ficha, plan.PlanID, entries, planner.Meta{
		Responsable:  req.Responsable,
		UmbralAlerta: req.UmbralAlerta,
		EsOverride:   req.EsOverride,
	})

	status := http.StatusCreated
	if len(result.Failed) > 0 {
		status = http.StatusMultiStatus
	}
	writeJSON(w, status, result)
}

// overrideRequest is the body of a manual plan assignment.
type overrideRequest struct {
	PlanForzadoID  string `json:"plan_forzado_id"`
	PlanOriginalID string `json:"plan_original_id"`
	Motivo         string `json:"motivo"`
	Autor          string `json:"autor"`
}

// CreateOverride pins the equipment to a plan chosen by hand.
func (h *PredictiveHandler) CreateOverride(w http.ResponseWriter, r *http.Request) {
	ficha := mux.Vars(r)["ficha"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request body", http.StatusBadRequest)
		return
	}
	var req overrideRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	if req.PlanForzadoID == "" || req.Motivo == "" {
		http.Error(w, "plan_forzado_id and motivo are required", http.StatusBadRequest)
		return
	}

	override, err := h.overrideService.Create(r.Context(), ficha, req.PlanForzadoID, req.PlanOriginalID, req.Motivo, req.Autor)
	if err != nil {
		if errors.Is(err, overrides.ErrPlanNotFound) {
			http.Error(w, "Forced plan not found", http.StatusBadRequest)
			return
		}
		http.Error(w, "Failed to create override", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, override)
}

// RevertOverride returns the equipment to automatic suggestion.
func (h *PredictiveHandler) RevertOverride(w http.ResponseWriter, r *http.Request) {
	ficha := mux.Vars(r)["ficha"]
	err := h.overrideService.Revert(r.Context(), ficha)
	if err != nil {
		if errors.Is(err, overrides.ErrNoActiveOverride) {
			// Informational: nothing was pinned in the first place.
			writeJSON(w, http.StatusOK, map[string]string{"status": "sin override activo"})
			return
		}
		http.Error(w, "Failed to revert override", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "revertido"})
}

// scheduledEntry is one persisted planning record refreshed against the
// equipment's current counter. Unlike the simulator's forward-looking
// remaining, this one can go negative, which classifies as vencido.
type scheduledEntry struct {
	models.PlanningRecord
	HorasRestanteActual float64           `json:"horas_restante_actual"`
	Alerta              models.AlertLevel `json:"alerta"`
}

// ScheduledMaintenance returns the persisted schedule entries for one
// equipment, reclassified against its current usage.
func (h *PredictiveHandler) ScheduledMaintenance(w http.ResponseWriter, r *http.Request) {
	ficha := mux.Vars(r)["ficha"]
	eq, err := h.equipment.FindEquipmentByFicha(r.Context(), ficha)
	if err != nil {
		http.Error(w, "Equipment not found", http.StatusNotFound)
		return
	}
	records, err := h.planning.FindPlanningByFicha(r.Context(), ficha)
	if err != nil {
		http.Error(w, "Failed to read planning records", http.StatusInternalServerError)
		return
	}

	entries := make([]scheduledEntry, 0, len(records))
	for _, record := range records {
		threshold := record.UmbralAlerta
		if threshold <= 0 {
			threshold = predictive.DefaultAlertThreshold
		}
		remaining := record.HorasObjetivo - eq.HorasActuales
		entries = append(entries, scheduledEntry{
			PlanningRecord:      record,
			HorasRestanteActual: remaining,
			Alerta:              predictive.AlertForRemaining(remaining, threshold),
		})
	}
	writeJSON(w, http.StatusOK, entries)
}

// OverrideHistory returns the audit trail for one equipment.
func (h *PredictiveHandler) OverrideHistory(w http.ResponseWriter, r *http.Request) {
	ficha := mux.Vars(r)["ficha"]
	history, err := h.overrideService.History(r.Context(), ficha)
	if err != nil {
		http.Error(w, "Failed to read override history", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, history)
}
