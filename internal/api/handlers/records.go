package handlers

import (
	"collection-route-service/internal/api/dto"
	"collection-route-service/internal/domain"
	"collection-route-service/internal/services"
	"net/http"
)

// SortSubmissions orders submission records with one of the table presets.
// Records that tie keep their request order.
func SortSubmissions(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SortSubmissionsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	order := services.OrderDateNewest
	if req.Order != "" {
		o, err := services.ParseSubmissionOrder(req.Order)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		order = o
	}

	records := make([]domain.Submission, 0, len(req.Submissions))
	for _, s := range req.Submissions {
		records = append(records, domain.Submission{
			ID:          s.ID,
			Date:        s.Date,
			Material:    s.Material,
			Weight:      s.Weight,
			SubmittedBy: s.SubmittedBy,
		})
	}

	sorted, err := services.OrderSubmissions(records, order)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	res := dto.SortSubmissionsResponse{
		Order:       string(order),
		Submissions: make([]dto.SubmissionRecord, 0, len(sorted)),
	}
	for _, s := range sorted {
		res.Submissions = append(res.Submissions, dto.SubmissionRecord{
			ID:          s.ID,
			Date:        s.Date,
			Material:    s.Material,
			Weight:      s.Weight,
			SubmittedBy: s.SubmittedBy,
		})
	}
	writeJSON(w, r, http.StatusOK, res)
}
