// Package config exposes which LLM provider writes the narrative reports and
// lets the UI switch it at runtime.
package config

import (
	"encoding/json"
	"fmt"
	"net/http"

	"business_planner/pkg/core/agent"
	"business_planner/pkg/core/narrative"
)

// ReportRoute is where one narrative report is sent.
type ReportRoute struct {
	Report   narrative.Report `json:"report"`
	Provider string           `json:"provider"`
	Model    string           `json:"model,omitempty"`
}

// ProvidersResponse is the body of both endpoints.
type ProvidersResponse struct {
	ActiveProvider string        `json:"active_provider"`
	Available      []string      `json:"available"`
	Reports        []ReportRoute `json:"reports"`
}

type switchRequest struct {
	Provider string `json:"provider"`
}

type Handler struct {
	AgentMgr *agent.Manager
}

func NewHandler(agentMgr *agent.Manager) *Handler {
	return &Handler{AgentMgr: agentMgr}
}

// snapshot resolves every report against the current configuration. Reports
// pinned to a provider in the agent config keep it after a global switch.
func (h *Handler) snapshot() ProvidersResponse {
	resp := ProvidersResponse{
		ActiveProvider: h.AgentMgr.GetActiveProvider(),
		Available:      h.AgentMgr.Providers(),
		Reports:        make([]ReportRoute, 0, len(narrative.Reports)),
	}
	for _, report := range narrative.Reports {
		provider, model := h.AgentMgr.Route(string(report))
		resp.Reports = append(resp.Reports, ReportRoute{Report: report, Provider: provider, Model: model})
	}
	return resp
}

func cors(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

// HandleConfig serves GET /api/config.
func (h *Handler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.snapshot())
}

// HandleSwitch serves POST /api/config/switch and answers with the new
// routing.
func (h *Handler) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	cors(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req switchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.AgentMgr.SetGlobalProvider(req.Provider); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fmt.Printf("[API] Narrative provider switched to %s\n", req.Provider)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.snapshot())
}
