package models

type Document struct {
	ID         string `json:"id" yaml:"id"`
	Name       string `json:"name" yaml:"name"`
	Size       string `json:"size" yaml:"size"`
	UploadDate string `json:"upload_date" yaml:"upload_date"`
	Owner      string `json:"owner,omitempty" yaml:"owner"`
	Encrypted  bool   `json:"encrypted" yaml:"encrypted"`
}
