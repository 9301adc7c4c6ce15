package main

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/Simplici0/mouldquote/internal/estimate"
	"github.com/Simplici0/mouldquote/internal/leads"
)

type createEstimateRequest struct {
	Contact leads.Contact                `json:"contact"`
	Input   estimate.InspectionCostInput `json:"input"`
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	var input estimate.InspectionCostInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, estimate.Calculate(input))
}

func (s *server) handleCreateEstimate(w http.ResponseWriter, r *http.Request) {
	var req createEstimateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Contact.CustomerName = strings.TrimSpace(req.Contact.CustomerName)
	if req.Contact.CustomerName == "" {
		writeError(w, http.StatusBadRequest, "contact.customerName is required")
		return
	}
	if err := req.Input.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := s.leads.Create(r.Context(), leads.NewEstimate{
		Contact:   req.Contact,
		Input:     req.Input,
		Breakdown: estimate.Calculate(req.Input),
	})
	if err != nil {
		s.logger.Error("save estimate", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to save estimate")
		return
	}

	s.logger.Info("estimate saved",
		zap.Int64("id", saved.ID),
		zap.String("reference", saved.Reference),
		zap.String("work_type", string(saved.Breakdown.WorkType)),
		zap.Float64("total_cost", saved.Breakdown.TotalCost),
	)
	writeJSON(w, http.StatusCreated, saved)
}

func (s *server) handleListEstimates(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	items, err := s.leads.List(r.Context(), query)
	if err != nil {
		s.logger.Error("list estimates", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load estimates")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": query, "estimates": items})
}

func (s *server) handleGetEstimate(w http.ResponseWriter, r *http.Request) {
	saved, ok := s.loadEstimate(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *server) handleEstimateText(w http.ResponseWriter, r *http.Request) {
	saved, ok := s.loadEstimate(w, r)
	if !ok {
		return
	}

	var sb strings.Builder
	sb.WriteString("Estimate " + saved.Reference + "\n")
	sb.WriteString("Customer: " + saved.Contact.CustomerName + "\n")
	if saved.Contact.Suburb != "" {
		sb.WriteString("Suburb: " + saved.Contact.Suburb + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(estimate.Summary(saved.Breakdown))
	if len(saved.Breakdown.AreaDetails) > 0 {
		sb.WriteString("\nAreas:\n")
		for _, a := range saved.Breakdown.AreaDetails {
			sb.WriteString("- " + a.AreaName + ": " + strconv.FormatFloat(a.TotalMinutes, 'f', -1, 64) + " min\n")
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(sb.String()))
}

func (s *server) handleDeleteEstimate(w http.ResponseWriter, r *http.Request) {
	id, ok := estimateID(w, r)
	if !ok {
		return
	}

	err := s.leads.Delete(r.Context(), id)
	if errors.Is(err, leads.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		s.logger.Error("delete estimate", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete estimate")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) loadEstimate(w http.ResponseWriter, r *http.Request) (leads.Estimate, bool) {
	id, ok := estimateID(w, r)
	if !ok {
		return leads.Estimate{}, false
	}

	saved, err := s.leads.Get(r.Context(), id)
	if errors.Is(err, leads.ErrNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return leads.Estimate{}, false
	}
	if err != nil {
		s.logger.Error("load estimate", zap.Int64("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load estimate")
		return leads.Estimate{}, false
	}
	return saved, true
}

func estimateID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid estimate id")
		return 0, false
	}
	return id, true
}
