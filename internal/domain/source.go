package domain

import "time"

// SourceDescriptor maps a dataset type to the remote sheet that backs it.
type SourceDescriptor struct {
	Type         DatasetType `json:"type"`
	URL          string      `json:"url"`
	Label        string      `json:"label"`
	ConfiguredAt time.Time   `json:"configured_at"`
}
