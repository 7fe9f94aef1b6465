package models

// WorkPackStatus is the review state of a work pack.
type WorkPackStatus string

const (
	StatusPendingReview WorkPackStatus = "Pending Review"
	StatusApproved      WorkPackStatus = "Approved"
	StatusRejected      WorkPackStatus = "Rejected"
)

// WorkPack is a maintenance job specification subject to quality evaluation.
type WorkPack struct {
	ID           string         `json:"id" yaml:"id"`
	Title        string         `json:"title" yaml:"title"`
	Description  string         `json:"description" yaml:"description"`
	AircraftType string         `json:"aircraftType" yaml:"aircraft_type"`
	CreatedBy    string         `json:"createdBy" yaml:"created_by"`
	DateCreated  string         `json:"dateCreated" yaml:"date_created"`
	Status       WorkPackStatus `json:"status" yaml:"status"`
	Tasks        []WorkPackTask `json:"tasks" yaml:"tasks"`
}

// WorkPackTask is one ordered step of a work pack.
type WorkPackTask struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	IsCompleted bool   `json:"isCompleted" yaml:"is_completed"`
}

// Evaluation is the structured quality review of a work pack.
type Evaluation struct {
	OverallScore           int      `json:"overallScore"`
	Summary                string   `json:"summary"`
	PositivePoints         []string `json:"positivePoints"`
	AreasForImprovement    []string `json:"areasForImprovement"`
	SuggestedModifications []string `json:"suggestedModifications"`
	SafetyConcerns         []string `json:"safetyConcerns"`
}
