package reference

import (
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"gopherai-tutor/internal/model"
)

const (
	FormatText = "text/plain"
	FormatPDF  = "application/pdf"
)

var extensionFormats = map[string]string{
	".txt":  FormatText,
	".text": FormatText,
	".pdf":  FormatPDF,
}

// resolveFormat trusts a specific declared MIME type, then the file extension,
// and only sniffs the bytes when neither says anything useful.
func resolveFormat(file model.SourceFile) string {
	declared := baseMIME(file.MimeType)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(file.Name))]; ok {
		return f
	}
	if len(file.Data) == 0 {
		return declared
	}
	return baseMIME(mimetype.Detect(file.Data).String())
}

func baseMIME(raw string) string {
	base, _, _ := strings.Cut(raw, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
