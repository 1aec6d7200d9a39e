package domain

// Represents a recorded drop-off of recyclable material.
// Submissions are only ordered for presentation here; storing them
// belongs to the surrounding application.
type Submission struct {
	ID          string
	Date        string
	Material    string
	Weight      float64
	SubmittedBy string
}
