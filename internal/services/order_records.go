package services

import (
	"cmp"
	"collection-route-service/internal/domain"
	"collection-route-service/internal/sorting"
	"fmt"
	"strings"
	"time"
)

// Presentation orderings offered by the submission tables.
type SubmissionOrder string

const (
	OrderDateNewest  SubmissionOrder = "date_desc"
	OrderDateOldest  SubmissionOrder = "date_asc"
	OrderMaterialAZ  SubmissionOrder = "material_asc"
	OrderMaterialZA  SubmissionOrder = "material_desc"
	OrderWeightHigh  SubmissionOrder = "weight_desc"
	OrderWeightLow   SubmissionOrder = "weight_asc"
	OrderSubmitterAZ SubmissionOrder = "submitter_asc"
)

const submissionDateFmt = "2006-01-02"

func ParseSubmissionOrder(s string) (SubmissionOrder, error) {
	o := SubmissionOrder(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := submissionComparators[o]; !ok {
		return "", fmt.Errorf("parse submission order: unknown order %q", s)
	}
	return o, nil
}

var submissionComparators = map[SubmissionOrder]func(a, b domain.Submission) int{
	OrderDateNewest: func(a, b domain.Submission) int { return compareDates(b.Date, a.Date) },
	OrderDateOldest: func(a, b domain.Submission) int { return compareDates(a.Date, b.Date) },
	OrderMaterialAZ: func(a, b domain.Submission) int { return strings.Compare(a.Material, b.Material) },
	OrderMaterialZA: func(a, b domain.Submission) int { return strings.Compare(b.Material, a.Material) },
	OrderWeightHigh: func(a, b domain.Submission) int { return cmp.Compare(b.Weight, a.Weight) },
	OrderWeightLow:  func(a, b domain.Submission) int { return cmp.Compare(a.Weight, b.Weight) },
	OrderSubmitterAZ: func(a, b domain.Submission) int {
		return strings.Compare(a.SubmittedBy, b.SubmittedBy)
	},
}

// Compare ISO dates; if either side does not parse, fall back to comparing
// the raw strings.
func compareDates(a, b string) int {
	da, errA := time.Parse(submissionDateFmt, strings.TrimSpace(a))
	db, errB := time.Parse(submissionDateFmt, strings.TrimSpace(b))
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	return da.Compare(db)
}

// OrderSubmissions returns a stably sorted copy of records.
// Records that compare equal under order keep their input order.
func OrderSubmissions(records []domain.Submission, order SubmissionOrder) ([]domain.Submission, error) {
	c, ok := submissionComparators[order]
	if !ok {
		return nil, fmt.Errorf("order submissions: unknown order %q", order)
	}
	return sorting.Sorted(records, c), nil
}
