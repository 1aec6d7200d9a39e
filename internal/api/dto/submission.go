package dto

type SubmissionRecord struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Material    string  `json:"material"`
	Weight      float64 `json:"weight"`
	SubmittedBy string  `json:"submitted_by"`
}

type SortSubmissionsRequest struct {
	Order       string             `json:"order"`
	Submissions []SubmissionRecord `json:"submissions"`
}

type SortSubmissionsResponse struct {
	Order       string             `json:"order"`
	Submissions []SubmissionRecord `json:"submissions"`
}
