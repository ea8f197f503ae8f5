package models

import "time"

// SourceImage is one uploaded image. Data is never mutated by the pipeline.
type SourceImage struct {
	Filename string
	Data     []byte
}

// BatchJob is the immutable configuration of a single run.
type BatchJob struct {
	Images  []SourceImage
	Profile TargetProfile
	Density Density
}

// OutputEntry describes one file written into the archive.
type OutputEntry struct {
	Index  int    `json:"index"`
	Name   string `json:"name"`
	Source string `json:"source"`
	Bytes  int    `json:"bytes"`
}

// ImageFailure reports a source image that could not be rasterized.
type ImageFailure struct {
	Index    int    `json:"index"`
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

// BatchResult is the outcome of one run. Archive is nil when every image failed.
type BatchResult struct {
	ID       string         `json:"id"`
	Status   string         `json:"status"`
	Size     Size           `json:"size"`
	Archive  []byte         `json:"archive,omitempty"`
	Entries  []OutputEntry  `json:"entries"`
	Failures []ImageFailure `json:"failures,omitempty"`
	Warnings []string       `json:"warnings,omitempty"`
	Cached   bool           `json:"-"`
}

type BatchResponse struct {
	JobID       string         `json:"job_id"`
	Status      string         `json:"status"`
	Size        Size           `json:"size"`
	Filename    string         `json:"filename,omitempty"`
	URL         string         `json:"url,omitempty"`
	FileSize    int64          `json:"file_size,omitempty"`
	Entries     []OutputEntry  `json:"entries,omitempty"`
	Failures    []ImageFailure `json:"failures,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
	ProcessedAt time.Time      `json:"processed_at,omitempty"`
	Error       string         `json:"error,omitempty"`
}

// BatchForm is the multipart form accepted by the batch endpoints.
type BatchForm struct {
	Device     string `form:"device"`
	Width      string `form:"width"`
	Height     string `form:"height"`
	Scale      int    `form:"scale" binding:"omitempty,oneof=1 2 3"`
	Duplicates string `form:"duplicates" binding:"omitempty,oneof=suffix overwrite"`
}

const (
	StatusCompleted = "completed"
	StatusPartial   = "partial"
	StatusFailed    = "failed"
)
