package model

// SourceFile is an uploaded file as handed over by the presentation layer.
type SourceFile struct {
	Name     string
	MimeType string
	Data     []byte
	Size     int64
}

// ReferenceDocument is an ingested file and the text extracted from it.
// When extraction failed, Text holds the error description and ExtractError is set.
type ReferenceDocument struct {
	Name         string `json:"name"`
	Format       string `json:"format"`
	Text         string `json:"text"`
	SizeBytes    int64  `json:"size_bytes"`
	ExtractError string `json:"extract_error,omitempty"`
}
