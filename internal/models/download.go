package models

import "time"

type DownloadResult string

const (
	DownloadSuccess DownloadResult = "success"
	DownloadFailed  DownloadResult = "failed"
)

type DownloadAttempt struct {
	ID           string         `json:"id"`
	LinkID       string         `json:"link_id,omitempty"`
	DocumentName string         `json:"document_name,omitempty"`
	At           time.Time      `json:"at"`
	Result       DownloadResult `json:"result"`
	Reason       string         `json:"reason,omitempty"`
}
