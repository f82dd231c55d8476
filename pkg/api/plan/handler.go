// Package plan exposes the planner over HTTP, one session per user.
package plan

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"business_planner/pkg/core/monthly"
	"business_planner/pkg/core/narrative"
	"business_planner/pkg/core/planner"
	"business_planner/pkg/core/projection"
	"business_planner/pkg/core/statements"
	"business_planner/pkg/core/store"
	"business_planner/pkg/core/validate"
	"business_planner/pkg/models"
)

// maxBody bounds request bodies, pasted spreadsheets included.
const maxBody = 4 << 20

type Handler struct {
	Sessions *Sessions
}

func NewHandler(sessions *Sessions) *Handler {
	return &Handler{Sessions: sessions}
}

// Register mounts every plan endpoint on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	const base = "/api/plan/{user}"

	mux.HandleFunc("OPTIONS "+base+"/", func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		w.WriteHeader(http.StatusOK)
	})

	h.handle(mux, "GET "+base+"/state", h.getState)
	h.handle(mux, "PUT "+base+"/state", h.putState)

	h.handle(mux, "PUT "+base+"/sheet/cell", h.putSheetCell)
	h.handle(mux, "POST "+base+"/sheet/custom", h.addSheetItem)
	h.handle(mux, "PATCH "+base+"/sheet/custom/{id}", h.renameSheetItem)
	h.handle(mux, "DELETE "+base+"/sheet/custom/{id}", h.removeSheetItem)
	h.handle(mux, "POST "+base+"/import", h.importTSV)
	h.handle(mux, "POST "+base+"/distribute", h.distribute)

	h.handle(mux, "PUT "+base+"/commercial", h.putCommercial)
	h.handle(mux, "PUT "+base+"/people", h.putPeople)
	h.handle(mux, "PUT "+base+"/marketing", h.putMarketing)
	h.handle(mux, "PUT "+base+"/strategic", h.putStrategic)
	h.handle(mux, "PUT "+base+"/assumptions", h.putAssumptions)
	h.handle(mux, "PUT "+base+"/goals", h.putGoals)

	h.handle(mux, "GET "+base+"/summary", h.getSummary)
	h.handle(mux, "GET "+base+"/strategic-score", h.getStrategicScore)

	h.handle(mux, "GET "+base+"/scenarios/{scenario}", h.getScenario)
	h.handle(mux, "PUT "+base+"/scenarios/{scenario}/growth", h.putGrowth)
	h.handle(mux, "PUT "+base+"/scenarios/{scenario}/cell", h.putScenarioCell)
	h.handle(mux, "POST "+base+"/scenarios/{scenario}/custom", h.addScenarioItem)
	h.handle(mux, "PATCH "+base+"/scenarios/{scenario}/custom/{id}", h.renameScenarioItem)
	h.handle(mux, "DELETE "+base+"/scenarios/{scenario}/custom/{id}", h.removeScenarioItem)
	h.handle(mux, "POST "+base+"/scenarios/{scenario}/mode", h.postMode)
	h.handle(mux, "POST "+base+"/scenarios/{scenario}/recalculate", h.postRecalculate)
	h.handle(mux, "PUT "+base+"/base-scenario", h.putBaseScenario)

	h.handle(mux, "POST "+base+"/financial-plan", h.postFinancialPlan)
	h.handle(mux, "GET "+base+"/financial-plan", h.getFinancialPlan)
	h.handle(mux, "GET "+base+"/liquidity", h.getLiquidity)

	h.handle(mux, "POST "+base+"/narrative/{report}", h.postNarrative)
	h.handle(mux, "GET "+base+"/narrative/{report}", h.getNarrative)

	h.handle(mux, "POST "+base+"/save", h.postSave)
	h.handle(mux, "GET "+base+"/save-status", h.getSaveStatus)
}

type sessionHandler func(w http.ResponseWriter, r *http.Request, sess *Session) error

// handle wraps fn with CORS headers, session lookup and error mapping.
func (h *Handler) handle(mux *http.ServeMux, pattern string, fn sessionHandler) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		setCORS(w)
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)

		sess, err := h.Sessions.Get(r.Context(), r.PathValue("user"))
		if err == nil {
			err = fn(w, r, sess)
		}
		if err != nil {
			writeError(w, r, err)
		}
	})
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// errBadRequest marks decode and validation failures.
var errBadRequest = errors.New("bad request")

func badRequest(err error) error {
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, store.ErrInvalidUser):
		status = http.StatusBadRequest
	case errors.Is(err, projection.ErrUnknownScenario),
		errors.Is(err, narrative.ErrUnknownReport),
		errors.Is(err, models.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, projection.ErrManualMode),
		errors.Is(err, planner.ErrNoFinancialPlan),
		errors.Is(err, narrative.ErrInFlight):
		status = http.StatusConflict
	case errors.Is(err, narrative.ErrEmptyResponse):
		status = http.StatusBadGateway
	}
	if status == http.StatusInternalServerError {
		fmt.Printf("[API] %s %s: %v\n", r.Method, r.URL.Path, err)
	}
	http.Error(w, err.Error(), status)
}

func writeJSON(w http.ResponseWriter, v interface{}) error {
	return writeJSONStatus(w, http.StatusOK, v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return badRequest(fmt.Errorf("invalid request body: %v", err))
	}
	return nil
}

func scenarioParam(r *http.Request) (projection.ScenarioName, error) {
	return projection.ParseScenarioName(r.PathValue("scenario"))
}

// =============================================================================
// State
// =============================================================================

func (h *Handler) getState(w http.ResponseWriter, r *http.Request, sess *Session) error {
	return writeJSON(w, sess.Planner.State())
}

// putState replaces the whole plan. Missing fields fall back to defaults and
// hand-edited JSON is repaired where possible.
func (h *Handler) putState(w http.ResponseWriter, r *http.Request, sess *Session) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return badRequest(err)
	}
	state, err := store.MergeDefaults(raw)
	if err != nil {
		return badRequest(err)
	}
	sess.Planner.Replace(state)
	return writeJSON(w, sess.Planner.State())
}

// =============================================================================
// 2025 sheet
// =============================================================================

// CellRequest edits one month of one series. Text goes through the lenient
// number parser; Value is used when Text is absent.
type CellRequest struct {
	Ref   models.CellRef `json:"ref"`
	Month string         `json:"month"`
	Text  *string        `json:"text,omitempty"`
	Value *float64       `json:"value,omitempty"`
}

func (c CellRequest) month() (monthly.Month, error) {
	m, err := monthly.ParseMonth(c.Month)
	if err != nil {
		return 0, badRequest(err)
	}
	if c.Text == nil && c.Value == nil {
		return 0, badRequest(errors.New("text or value is required"))
	}
	return m, nil
}

func (h *Handler) putSheetCell(w http.ResponseWriter, r *http.Request, sess *Session) error {
	var req CellRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	m, err := req.month()
	if err != nil {
		return err
	}
	if req.Text != nil {
		err = sess.Planner.EditSheetCell(req.Ref, m, *req.Text)
	} else {
		err = sess.Planner.SetSheetCell(req.Ref, m, *req.Value)
	}
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type ItemRequest struct {
	Group string `json:"group"`
	Name  string `json:"name"`
}

func (req ItemRequest) group() (models.CostGroup, error) {
	g, err := models.ParseCostGroup(req.Group)
	if err != nil {
		return "", badRequest(err)
	}
	return g, nil
}

func (h *Handler) addSheetItem(w http.ResponseWriter, r *http.Request, sess *Session) error {
	var req ItemRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	g, err := req.group()
	if err != nil {
		return err
	}
	item, err := sess.Planner.AddSheetItem(g, req.Name)
	if err != nil {
		return err
	}
	return writeJSONStatus(w, http.StatusCreated, item)
}

func (h *Handler) renameSheetItem(w http.ResponseWriter, r *http.Request, sess *Session) error {
	var req ItemRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	g, err := req.group()
	if err != nil {
		return err
	}
	if err := sess.Planner.RenameSheetItem(g, r.PathValue("id"), req.Name); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) removeSheetItem(w http.ResponseWriter, r *http.Request, sess *Session) error {
	g, err := ItemRequest{Group: r.URL.Query().Get("group")}.group()
	if err != nil {
		return err
	}
	if err := sess.Planner.RemoveSheetItem(g, r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// importTSV takes the pasted spreadsheet as the raw request body.
func (h *Handler) importTSV(w http.ResponseWriter, r *http.Request, sess *Session) error {
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return badRequest(err)
	}
	res, err := sess.Planner.ImportTSV(string(raw))
	if err != nil {
		return err
	}
	fmt.Printf("[API] %s imported %d lines (%d rows ignored)\n", sess.UserID, len(res.Order), res.Ignored)
	return writeJSON(w, res)
}

type DistributeRequest struct {
	Target planner.DistributeTarget `json:"target"`
	Total  float64                  `json:"total"`
	Policy string                   `json:"policy"`
}

func (h *Handler) distribute(w http.ResponseWriter, r *http.Request, sess *Session) error {
	var req DistributeRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	policy, err := monthly.ParsePolicy(req.Policy)
	if err != nil {
		return badRequest(err)
	}
	if req.Target.Scenario != "" {
		if _, err := projection.ParseScenarioName(string(req.Target.Scenario)); err != nil {
			return err
		}
	}
	values, err := sess.Planner.Distribute(req.Target, req.Total, policy)
	if err != nil {
		return err
	}
	return writeJSON(w, values)
}

// =============================================================================
// Inputs
// =============================================================================

// putInput decodes a section body into T and hands it to apply.
func putInput[T any](r *http.Request, w http.ResponseWriter, apply func(T)) error {
	var v T
	if err := decode(r, &v); err != nil {
		return err
	}
	apply(v)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) putCommercial(w http.ResponseWriter, r *http.Request, sess *Session) error {
	return putInput(r, w, sess.Planner.UpdateCommercial)
}

func (h *Handler) putPeople(w http.ResponseWriter, r *http.Request, sess *Session) error {
	return putInput(r, w, sess.Planner.UpdatePeople)
}

func (h *Handler) putMarketing(w http.ResponseWriter, r *http.Request, sess *Session) error {
	return putInput(r, w, sess.Planner.UpdateMarketing)
}

func (h *Handler) putStrategic(w http.ResponseWriter, r *http.Request, sess *Session) error {
	return putInput(r, w, sess.Planner.UpdateStrategic)
}

func (h *Handler) putAssumptions(w http.ResponseWriter, r *http.Request, sess *Session) error {
	return putInput[statements.Assumptions](r, w, sess.Planner.UpdateAssumptions)
}

func (h *Handler) putGoals(w http.ResponseWriter, r *http.Request, sess *Session) error {
	return putInput(r, w, sess.Planner.UpdateGoals)
}

// =============================================================================
// Derived values
// =============================================================================

func (h *Handler) getSummary(w http.ResponseWriter, r *http.Request, sess *Session) error {
	return writeJSON(w, sess.Planner.Summary())
}

func (h *Handler) getStrategicScore(w http.ResponseWriter, r *http.Request, sess *Session) error {
	return writeJSON(w, sess.Planner.StrategicScore())
}

// =============================================================================
// Scenarios
// =============================================================================

type ScenarioResponse struct {
	Name       projection.ScenarioName `json:"name"`
	Mode       projection.ModeKind     `json:"mode"`
	GrowthPct  float64                 `json:"growthPct"`
	Projection models.FinancialSheet   `json:"projection"`
}

func (h *Handler) getScenario(w http.ResponseWriter, r *http.Request, sess *Session) error {
	name, err := scenarioParam(r)
	if err != nil {
		return err
	}
	mode, proj, err := sess.Planner.Scenario(name)
	if err != nil {
		return err
	}
	return writeJSON(w, ScenarioResponse{Name: name, Mode: mode.Kind(), GrowthPct: mode.Growth(), Projection: proj})
}

type GrowthRequest struct {
	GrowthPct float64 `json:"growthPct"`
}

func (h *Handler) putGrowth(w http.ResponseWriter, r *http.Request, sess *Session) error {
	name, err := scenarioParam(r)
	if err != nil {
		return err
	}
	var req GrowthRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	recalculated, err := sess.Planner.SetGrowth(name, req.GrowthPct)
	if err != nil {
		return err
	}
	return writeJSON(w, map[string]bool{"recalculated": recalculated})
}

func (h *Handler) putScenarioCell(w http.ResponseWriter, r *http.Request, sess *Session) error {
	name, err := scenarioParam(r)
	if err != nil {
		return err
	}
	var req CellRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	m, err := req.month()
	if err != nil {
		return err
	}
	if req.Text != nil {
		err = sess.Planner.EditScenarioCell(name, req.Ref, m, *req.Text)
	} else {
		err = sess.Planner.SetScenarioCell(name, req.Ref, m, *req.Value)
	}
	if err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) addScenarioItem(w http.ResponseWriter, r *http.Request, sess *Session) error {
	name, err := scenarioParam(r)
	if err != nil {
		return err
	}
	var req ItemRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	g, err := req.group()
	if err != nil {
		return err
	}
	item, err := sess.Planner.AddScenarioItem(name, g, req.Name)
	if err != nil {
		return err
	}
	return writeJSONStatus(w, http.StatusCreated, item)
}

func (h *Handler) renameScenarioItem(w http.ResponseWriter, r *http.Request, sess *Session) error {
	name, err := scenarioParam(r)
	if err != nil {
		return err
	}
	var req ItemRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	g, err := req.group()
	if err != nil {
		return err
	}
	if err := sess.Planner.RenameScenarioItem(name, g, r.PathValue("id"), req.Name); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) removeScenarioItem(w http.ResponseWriter, r *http.Request, sess *Session) error {
	name, err := scenarioParam(r)
	if err != nil {
		return err
	}
	g, err := ItemRequest{Group: r.URL.Query().Get("group")}.group()
	if err != nil {
		return err
	}
	if err := sess.Planner.RemoveScenarioItem(name, g, r.PathValue("id")); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

type ModeRequest struct {
	Mode projection.ModeKind `json:"mode"`
}

func (h *Handler) postMode(w http.ResponseWriter, r *http.Request, sess *Session) error {
	name, err := scenarioParam(r)
	if err != nil {
		return err
	}
	var req ModeRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	if req.Mode != projection.ModeManual && req.Mode != projection.ModePercentage {
		return badRequest(fmt.Errorf("unknown mode %q", req.Mode))
	}
	if err := sess.Planner.SetMode(name, req.Mode); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handler) postRecalculate(w http.ResponseWriter, r *http.Request, sess *Session) error {
	name, err := scenarioParam(r)
	if err != nil {
		return err
	}
	if err := sess.Planner.Recalculate(name); err != nil {
		return err
	}
	_, proj, err := sess.Planner.Scenario(name)
	if err != nil {
		return err
	}
	return writeJSON(w, proj)
}

type BaseScenarioRequest struct {
	Scenario projection.ScenarioName `json:"scenario"`
}

func (h *Handler) putBaseScenario(w http.ResponseWriter, r *http.Request, sess *Session) error {
	var req BaseScenarioRequest
	if err := decode(r, &req); err != nil {
		return err
	}
	if err := sess.Planner.SetBaseScenario(req.Scenario); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// =============================================================================
// Financial plan
// =============================================================================

type FinancialPlanResponse struct {
	*statements.FinancialPlan
	Balanced bool                    `json:"balanced"`
	Linkage  *validate.LinkageReport `json:"linkage"`
	YoY      []validate.YoYResult    `json:"yoy"`
}

func planResponse(sess *Session, plan *statements.FinancialPlan) FinancialPlanResponse {
	opening := sess.Planner.State().Assumptions.Financing.SaldoCaixaFinal2025
	linkage := validate.ValidateLinkages(plan, opening, validate.DefaultTolerance)
	return FinancialPlanResponse{
		FinancialPlan: plan,
		Balanced:      linkage.BalanceSheet.IsLinked,
		Linkage:       linkage,
		YoY:           validate.CompareYears(sess.Planner.Summary(), plan),
	}
}

func (h *Handler) postFinancialPlan(w http.ResponseWriter, r *http.Request, sess *Session) error {
	plan, err := sess.Planner.CalculateFinancialPlan()
	if err != nil {
		return err
	}
	return writeJSON(w, planResponse(sess, plan))
}

func (h *Handler) getFinancialPlan(w http.ResponseWriter, r *http.Request, sess *Session) error {
	plan := sess.Planner.FinancialPlan()
	if plan == nil {
		return planner.ErrNoFinancialPlan
	}
	return writeJSON(w, planResponse(sess, plan))
}

func (h *Handler) getLiquidity(w http.ResponseWriter, r *http.Request, sess *Session) error {
	report, err := sess.Planner.Liquidity()
	if err != nil {
		return err
	}
	return writeJSON(w, report)
}

// =============================================================================
// Narratives
// =============================================================================

type NarrativeResponse struct {
	Report  narrative.Report `json:"report"`
	Text    string           `json:"text"`
	HTML    string           `json:"html"`
	Preview string           `json:"preview"`
}

func narrativeResponse(report narrative.Report, text string) (NarrativeResponse, error) {
	resp := NarrativeResponse{Report: report, Text: text}
	if text == "" {
		return resp, nil
	}
	var err error
	if resp.HTML, err = narrative.RenderHTML(text); err != nil {
		return resp, err
	}
	resp.Preview, err = narrative.Preview(text)
	return resp, err
}

// postNarrative refuses a second request while one is running for the same
// report.
func (h *Handler) postNarrative(w http.ResponseWriter, r *http.Request, sess *Session) error {
	report, err := narrative.ParseReport(r.PathValue("report"))
	if err != nil {
		return err
	}
	if sess.Narratives.InFlight(report) {
		return narrative.ErrInFlight
	}
	text, err := sess.Narratives.Generate(r.Context(), report, nil)
	if err != nil {
		return err
	}
	resp, err := narrativeResponse(report, text)
	if err != nil {
		return err
	}
	return writeJSON(w, resp)
}

func (h *Handler) getNarrative(w http.ResponseWriter, r *http.Request, sess *Session) error {
	report, err := narrative.ParseReport(r.PathValue("report"))
	if err != nil {
		return err
	}
	resp, err := narrativeResponse(report, sess.Planner.State().Narratives[string(report)])
	if err != nil {
		return err
	}
	return writeJSON(w, resp)
}

// =============================================================================
// Persistence
// =============================================================================

func (h *Handler) postSave(w http.ResponseWriter, r *http.Request, sess *Session) error {
	if err := sess.Saver.SaveNow(r.Context()); err != nil {
		return err
	}
	return writeJSON(w, sess.Saver.Report())
}

func (h *Handler) getSaveStatus(w http.ResponseWriter, r *http.Request, sess *Session) error {
	return writeJSON(w, sess.Saver.Report())
}
