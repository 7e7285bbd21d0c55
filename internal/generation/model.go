package generation

import (
	"time"

	"resume-builder/internal/blobs"
)

// Step is a position in the generation wizard.
type Step string

const (
	StepInput   Step = "input"
	StepSelect  Step = "select"
	StepPreview Step = "preview"
)

// Candidate is a suggested blob and the user's choice about it.
type Candidate struct {
	BlobID         string         `json:"blobId"`
	Title          string         `json:"title"`
	Category       blobs.Category `json:"category"`
	CategoryLabel  string         `json:"categoryLabel"`
	RelevanceScore float64        `json:"relevanceScore"`
	Reason         string         `json:"reason,omitempty"`
	Selected       bool           `json:"selected"`
	Pinned         bool           `json:"pinned"`
}

// LastError is the most recent failed action, kept so the client can offer a retry.
type LastError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// Document points at the rendered resume for the current preview.
type Document struct {
	ResumeID   string `json:"resumeId"`
	URL        string `json:"url"`
	StorageKey string `json:"storageKey"`
	MimeType   string `json:"mimeType"`
}

// Draft is the persisted wizard state.
type Draft struct {
	ID               string      `json:"id"`
	UserID           string      `json:"userId"`
	Step             Step        `json:"step"`
	JobText          string      `json:"jobText"`
	JobDescriptionID string      `json:"jobDescriptionId,omitempty"`
	JobTitle         string      `json:"jobTitle,omitempty"`
	Candidates       []Candidate `json:"candidates"`
	Document         *Document   `json:"document,omitempty"`
	Feedback         string      `json:"feedback,omitempty"`
	LastError        *LastError  `json:"lastError,omitempty"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}
