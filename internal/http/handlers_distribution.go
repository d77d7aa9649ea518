package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"shelterstock/internal/core"
)

type distributionRequest struct {
	DonationType     string          `json:"donationType"`
	Quantity         decimal.Decimal `json:"quantity"`
	Recipient        string          `json:"recipient"`
	DistributionDate string          `json:"distributionDate"`
}

// handleCreateDistribution records a distribution unconditionally. Stock
// levels are never checked here; callers wanting a warning use the
// inventory check endpoint first.
func (s *Server) handleCreateDistribution(w http.ResponseWriter, r *http.Request) {
	var req distributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	donationType, err := core.ParseDonationType(req.DonationType)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	distributionDate := core.Today()
	if req.DistributionDate != "" {
		distributionDate, err = core.ParseDate(req.DistributionDate)
		if err != nil {
			respondDomainError(r.Context(), w, err)
			return
		}
	}

	distribution := core.Distribution{
		DonationType:     donationType,
		Quantity:         req.Quantity,
		Recipient:        req.Recipient,
		DistributionDate: distributionDate,
	}

	id, err := s.recorder.RecordDistribution(r.Context(), distribution)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	distribution.ID = id
	respondJSON(w, http.StatusCreated, distribution)
}

func (s *Server) handleGetDistribution(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid distribution id")
		return
	}

	distribution, err := s.store.GetDistribution(r.Context(), id)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, distribution)
}

func (s *Server) handleListDistributions(w http.ResponseWriter, r *http.Request) {
	var (
		distributions []core.Distribution
		err           error
	)

	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		donationType, parseErr := core.ParseDonationType(typeParam)
		if parseErr != nil {
			respondDomainError(r.Context(), w, parseErr)
			return
		}
		distributions, err = s.store.ListDistributionsByType(r.Context(), donationType)
	} else {
		distributions, err = s.store.ListDistributions(r.Context())
	}
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	if distributions == nil {
		distributions = []core.Distribution{}
	}
	respondJSON(w, http.StatusOK, distributions)
}

func (s *Server) handleRecipients(w http.ResponseWriter, r *http.Request) {
	recipients, err := s.store.Recipients(r.Context())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	if recipients == nil {
		recipients = []string{}
	}
	respondJSON(w, http.StatusOK, recipients)
}

func (s *Server) handleDistributionCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountDistributions(r.Context())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"count": count})
}
