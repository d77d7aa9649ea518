package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"shelterstock/internal/core"
)

func (s *Server) handleInventorySummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.reports.InventorySummary(r.Context())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, summary)
}

// handleInventoryForType returns the aggregate for one type. A type with no
// recorded activity yields zero totals, not an error.
func (s *Server) handleInventoryForType(w http.ResponseWriter, r *http.Request) {
	donationType, err := core.ParseDonationType(chi.URLParam(r, "donationType"))
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	aggregate, err := s.reports.InventoryFor(r.Context(), donationType)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, aggregate)
}

// handleInventoryCheck answers whether ?quantity= of ?type= is on hand.
// Advisory only: a false answer never blocks a subsequent distribution.
func (s *Server) handleInventoryCheck(w http.ResponseWriter, r *http.Request) {
	donationType, err := core.ParseDonationType(r.URL.Query().Get("type"))
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	quantity, err := decimal.NewFromString(r.URL.Query().Get("quantity"))
	if err != nil || !quantity.IsPositive() {
		respondError(w, http.StatusBadRequest, "quantity must be a positive number")
		return
	}

	check, err := s.reports.CheckInventory(r.Context(), donationType, quantity)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, check)
}

func (s *Server) handleDonorReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.reports.DonorReport(r.Context())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, report)
}

// handleDonorContribution returns one donor's grouped donations. An unknown
// donor gets an empty contribution with zero totals.
func (s *Server) handleDonorContribution(w http.ResponseWriter, r *http.Request) {
	contribution, err := s.reports.DonorContribution(r.Context(), chi.URLParam(r, "donorName"))
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, contribution)
}
