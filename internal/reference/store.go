package reference

import (
	"errors"
	"fmt"
	"strings"

	"gopherai-tutor/internal/logger"
	"gopherai-tutor/internal/model"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrExtraction        = errors.New("text extraction failed")
	ErrNotFound          = errors.New("reference document not found")
)

// Extractor turns the bytes of one format into plain text.
type Extractor interface {
	Extract(data []byte) (string, error)
}

type IngestStatus string

const (
	StatusIngested    IngestStatus = "ingested"
	StatusDuplicate   IngestStatus = "duplicate"
	StatusUnsupported IngestStatus = "unsupported"
)

// IngestOutcome reports what happened to one file. A failed extraction still
// ingests the document (Status ingested) with the error text as content and Err set.
type IngestOutcome struct {
	Name     string                   `json:"name"`
	Status   IngestStatus             `json:"status"`
	Document *model.ReferenceDocument `json:"document,omitempty"`
	Err      error                    `json:"-"`
}

type BatchResult struct {
	Outcomes  []IngestOutcome `json:"outcomes"`
	Processed int             `json:"processed"`
}

// Store is the set of reference documents of one session and the corpus derived
// from them. The corpus is always rebuilt from the document list, never patched.
type Store struct {
	extractors map[string]Extractor
	docs       []model.ReferenceDocument
	corpus     string
	log        *logger.Logger
}

func NewStore(log *logger.Logger) *Store {
	return NewStoreWith(log, map[string]Extractor{
		FormatText: NewTextExtractor(),
		FormatPDF:  PDFExtractor{},
	})
}

func NewStoreWith(log *logger.Logger, extractors map[string]Extractor) *Store {
	return &Store{
		extractors: extractors,
		log:        logger.OrNop(log).With("component", "ReferenceStore"),
	}
}

func (s *Store) Ingest(file model.SourceFile) IngestOutcome {
	if s.Has(file.Name) {
		return IngestOutcome{Name: file.Name, Status: StatusDuplicate}
	}

	format := resolveFormat(file)
	extractor, ok := s.extractors[format]
	if !ok {
		s.log.Warn("reference format unsupported", "name", file.Name, "format", format)
		return IngestOutcome{
			Name:   file.Name,
			Status: StatusUnsupported,
			Err:    fmt.Errorf("%w: %s", ErrUnsupportedFormat, format),
		}
	}

	size := file.Size
	if size <= 0 {
		size = int64(len(file.Data))
	}
	doc := model.ReferenceDocument{
		Name:      file.Name,
		Format:    format,
		SizeBytes: size,
	}

	text, err := safeExtract(extractor, file.Data)
	if err != nil {
		doc.Text = failureText(format, err)
		doc.ExtractError = err.Error()
		err = fmt.Errorf("%w: %s: %v", ErrExtraction, file.Name, err)
		s.log.Warn("reference extraction failed", "name", file.Name, "format", format, "error", err)
	} else {
		doc.Text = text
	}

	s.docs = append(s.docs, doc)
	s.rebuild()
	s.log.Debug("reference ingested", "name", doc.Name, "format", format, "size_bytes", size)

	out := doc
	return IngestOutcome{Name: file.Name, Status: StatusIngested, Document: &out, Err: err}
}

// IngestBatch handles files one after another; a failing file never stops the rest.
func (s *Store) IngestBatch(files []model.SourceFile) BatchResult {
	res := BatchResult{Outcomes: make([]IngestOutcome, 0, len(files))}
	for _, f := range files {
		o := s.Ingest(f)
		if o.Status == StatusIngested {
			res.Processed++
		}
		res.Outcomes = append(res.Outcomes, o)
	}
	return res
}

func (s *Store) Remove(name string) error {
	for i := range s.docs {
		if s.docs[i].Name == name {
			s.docs = append(s.docs[:i], s.docs[i+1:]...)
			s.rebuild()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

func (s *Store) Clear() {
	s.docs = nil
	s.corpus = ""
}

func (s *Store) Has(name string) bool {
	for i := range s.docs {
		if s.docs[i].Name == name {
			return true
		}
	}
	return false
}

func (s *Store) Len() int {
	return len(s.docs)
}

func (s *Store) Documents() []model.ReferenceDocument {
	return append([]model.ReferenceDocument(nil), s.docs...)
}

// Restore replaces the document set, e.g. from a cached session snapshot.
func (s *Store) Restore(docs []model.ReferenceDocument) {
	s.docs = append([]model.ReferenceDocument(nil), docs...)
	s.rebuild()
}

func (s *Store) AggregateCorpus() string {
	return s.corpus
}

func (s *Store) rebuild() {
	blocks := make([]string, 0, len(s.docs))
	for _, d := range s.docs {
		blocks = append(blocks, fmt.Sprintf("--- Content from %s ---\n%s", d.Name, d.Text))
	}
	s.corpus = strings.Join(blocks, "\n\n")
}

func safeExtract(e Extractor, data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return e.Extract(data)
}

func failureText(format string, err error) string {
	switch {
	case errors.Is(err, ErrDecodeFailed):
		return "Error: Could not decode the text file"
	case format == FormatPDF:
		return "Error reading PDF: " + err.Error()
	default:
		return "Error reading file: " + err.Error()
	}
}
