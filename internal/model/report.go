package model

import "time"

// ExtractRequest is the body for the backend's POST /extract endpoint.
// SelectedSocial maps platform name to the profile URLs chosen for analysis.
type ExtractRequest struct {
	SearchName     string              `json:"searchName"`
	SelectedURLs   []string            `json:"selectedUrls"`
	SelectedSocial map[string][]string `json:"selectedSocial"`
}

// PIICategory groups extracted personal data items of one kind
// (e.g. "Email Addresses", "Phone Numbers").
type PIICategory struct {
	Name     string   `json:"name"`
	Count    int      `json:"count"`
	Examples []string `json:"examples,omitempty"`
}

// ExtractionSummary describes how much material the backend processed.
type ExtractionSummary struct {
	PagesProcessed    int `json:"pagesProcessed"`
	ProfilesProcessed int `json:"profilesProcessed"`
	PIIItemsFound     int `json:"piiItemsFound"`
}

// ExposureReport is the analysis report returned by the backend /extract
// endpoint. RiskScore is on the backend's 0-15 scale; the client renders it
// but never recomputes it.
type ExposureReport struct {
	SearchName      string            `json:"searchName"`
	RiskScore       int               `json:"riskScore"`
	RiskLevel       RiskLevel         `json:"riskLevel"`
	Categories      []PIICategory     `json:"categories"`
	Recommendations []string          `json:"recommendations"`
	Summary         ExtractionSummary `json:"extractionSummary"`
	GeneratedAt     time.Time         `json:"generatedAt"`
}
