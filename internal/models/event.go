package models

import "time"

// Usage event actions.
const (
	EventStartProcessing  = "start_processing"
	EventImageProcessed   = "image_processed"
	EventImageFailed      = "image_failed"
	EventCompleteDownload = "complete_download"
)

type Event struct {
	Action    string                 `json:"action"`
	BatchID   string                 `json:"batch_id"`
	Details   map[string]interface{} `json:"details,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}
