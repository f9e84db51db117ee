package domain

import "github.com/google/uuid"

// ImportResult reports what happened to an uploaded statement.
// DataQualityScore is 0-100: completeness weighted 0.7, anomaly share 0.3.
type ImportResult struct {
	BatchID          uuid.UUID `json:"batchId"`
	Processed        int       `json:"processed"`
	Inserted         int       `json:"inserted"`
	Skipped          int       `json:"skipped"`
	Duplicates       int       `json:"duplicates"`
	Anomalies        int       `json:"anomalies"`
	DataQualityScore float64   `json:"dataQualityScore"`
	ArchiveKey       string    `json:"archiveKey,omitempty"`
}
