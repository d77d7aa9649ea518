package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"shelterstock/internal/core"
)

// donationRequest is the submission body. The type accepts either the
// enum name or its display label; the date defaults to today when the
// form leaves it blank.
type donationRequest struct {
	DonorName    string          `json:"donorName"`
	DonationType string          `json:"donationType"`
	Quantity     decimal.Decimal `json:"quantity"`
	DonationDate string          `json:"donationDate"`
}

func (s *Server) handleCreateDonation(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	donationType, err := core.ParseDonationType(req.DonationType)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	donationDate := core.Today()
	if req.DonationDate != "" {
		donationDate, err = core.ParseDate(req.DonationDate)
		if err != nil {
			respondDomainError(r.Context(), w, err)
			return
		}
	}

	donation := core.Donation{
		DonorName:    req.DonorName,
		DonationType: donationType,
		Quantity:     req.Quantity,
		DonationDate: donationDate,
	}

	id, err := s.recorder.RegisterDonation(r.Context(), donation)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}

	donation.ID = id
	respondJSON(w, http.StatusCreated, donation)
}

func (s *Server) handleGetDonation(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid donation id")
		return
	}

	donation, err := s.store.GetDonation(r.Context(), id)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, donation)
}

// handleListDonations lists every donation in submission order, optionally
// filtered by ?type=.
func (s *Server) handleListDonations(w http.ResponseWriter, r *http.Request) {
	var (
		donations []core.Donation
		err       error
	)

	if typeParam := r.URL.Query().Get("type"); typeParam != "" {
		donationType, parseErr := core.ParseDonationType(typeParam)
		if parseErr != nil {
			respondDomainError(r.Context(), w, parseErr)
			return
		}
		donations, err = s.store.ListDonationsByType(r.Context(), donationType)
	} else {
		donations, err = s.store.ListDonations(r.Context())
	}
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	if donations == nil {
		donations = []core.Donation{}
	}
	respondJSON(w, http.StatusOK, donations)
}

func (s *Server) handleDonationsByDonor(w http.ResponseWriter, r *http.Request) {
	donorName := chi.URLParam(r, "donorName")
	donations, err := s.store.ListDonationsByDonor(r.Context(), donorName)
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	if donations == nil {
		donations = []core.Donation{}
	}
	respondJSON(w, http.StatusOK, donations)
}

func (s *Server) handleDonorNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.store.DonorNames(r.Context())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	respondJSON(w, http.StatusOK, names)
}

func (s *Server) handleDonationCount(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountDonations(r.Context())
	if err != nil {
		respondDomainError(r.Context(), w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"count": count})
}
