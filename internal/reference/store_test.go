package reference

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gopherai-tutor/internal/model"
)

func textFile(name, content string) model.SourceFile {
	return model.SourceFile{Name: name, MimeType: "text/plain", Data: []byte(content), Size: int64(len(content))}
}

func TestIngestSameNameTwiceKeepsOne(t *testing.T) {
	s := NewStore(nil)

	first := s.Ingest(textFile("notes.txt", "first"))
	require.Equal(t, StatusIngested, first.Status)
	require.NoError(t, first.Err)

	second := s.Ingest(textFile("notes.txt", "second"))
	assert.Equal(t, StatusDuplicate, second.Status)
	assert.NoError(t, second.Err)

	require.Equal(t, 1, s.Len())
	assert.Equal(t, "first", s.Documents()[0].Text)
}

func TestAggregateCorpusFormat(t *testing.T) {
	s := NewStore(nil)
	s.Ingest(textFile("a.txt", "alpha"))
	s.Ingest(textFile("b.txt", "beta"))

	assert.Equal(t,
		"--- Content from a.txt ---\nalpha\n\n--- Content from b.txt ---\nbeta",
		s.AggregateCorpus())
}

func TestRemoveRebuildsCorpusFromRemaining(t *testing.T) {
	s := NewStore(nil)
	s.Ingest(textFile("a.txt", "alpha"))
	s.Ingest(textFile("b.txt", "beta"))
	s.Ingest(textFile("c.txt", "gamma"))

	require.NoError(t, s.Remove("b.txt"))
	assert.Equal(t,
		"--- Content from a.txt ---\nalpha\n\n--- Content from c.txt ---\ngamma",
		s.AggregateCorpus())

	require.ErrorIs(t, s.Remove("b.txt"), ErrNotFound)

	require.NoError(t, s.Remove("a.txt"))
	require.NoError(t, s.Remove("c.txt"))
	assert.Equal(t, "", s.AggregateCorpus())
}

func TestClear(t *testing.T) {
	s := NewStore(nil)
	s.Ingest(textFile("a.txt", "alpha"))
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Equal(t, "", s.AggregateCorpus())

	// The name is free again after clearing.
	o := s.Ingest(textFile("a.txt", "again"))
	assert.Equal(t, StatusIngested, o.Status)
}

func TestUnsupportedFormatIsRejected(t *testing.T) {
	s := NewStore(nil)

	o := s.Ingest(model.SourceFile{Name: "diagram.png", MimeType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}})
	assert.Equal(t, StatusUnsupported, o.Status)
	require.ErrorIs(t, o.Err, ErrUnsupportedFormat)
	assert.Equal(t, 0, s.Len())
}

func TestBatchIsolatesFailingDocument(t *testing.T) {
	s := NewStore(nil)

	res := s.IngestBatch([]model.SourceFile{
		textFile("one.txt", "first"),
		{Name: "broken.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.4 this is not really a pdf")},
		{Name: "photo.png", MimeType: "image/png", Data: []byte("png")},
		textFile("two.txt", "second"),
	})

	require.Len(t, res.Outcomes, 4)
	assert.Equal(t, 3, res.Processed)

	broken := res.Outcomes[1]
	assert.Equal(t, StatusIngested, broken.Status)
	require.ErrorIs(t, broken.Err, ErrExtraction)
	require.NotNil(t, broken.Document)
	assert.Contains(t, broken.Document.Text, "Error reading PDF: ")
	assert.NotEmpty(t, broken.Document.ExtractError)

	assert.Equal(t, StatusUnsupported, res.Outcomes[2].Status)
	assert.Equal(t, StatusIngested, res.Outcomes[3].Status)

	names := []string{}
	for _, d := range s.Documents() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"one.txt", "broken.pdf", "two.txt"}, names)
}

type panicExtractor struct{}

func (panicExtractor) Extract([]byte) (string, error) { panic("boom") }

func TestExtractorPanicBecomesContent(t *testing.T) {
	s := NewStoreWith(nil, map[string]Extractor{FormatText: panicExtractor{}})

	o := s.Ingest(textFile("a.txt", "alpha"))
	assert.Equal(t, StatusIngested, o.Status)
	require.ErrorIs(t, o.Err, ErrExtraction)
	assert.Contains(t, s.AggregateCorpus(), "extractor panic: boom")
}

func TestFormatResolution(t *testing.T) {
	cases := []struct {
		name string
		file model.SourceFile
		want string
	}{
		{"declared", model.SourceFile{Name: "x.bin", MimeType: "text/plain; charset=utf-8"}, FormatText},
		{"extension", model.SourceFile{Name: "Notes.TXT", MimeType: "application/octet-stream"}, FormatText},
		{"pdf extension", model.SourceFile{Name: "paper.pdf"}, FormatPDF},
		{"sniffed pdf", model.SourceFile{Name: "upload", Data: []byte("%PDF-1.7\n")}, FormatPDF},
		{"sniffed text", model.SourceFile{Name: "README", Data: []byte("just some words")}, FormatText},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolveFormat(tc.file))
		})
	}
}

func TestSizeFallsBackToDataLength(t *testing.T) {
	s := NewStore(nil)
	o := s.Ingest(model.SourceFile{Name: "a.txt", MimeType: "text/plain", Data: []byte("12345")})
	require.NotNil(t, o.Document)
	assert.Equal(t, int64(5), o.Document.SizeBytes)
}

func TestDecodeFailureSurfacesAsContent(t *testing.T) {
	failing := Decoder{Name: "never", Decode: func([]byte) (string, error) { return "", errors.New("nope") }}
	s := NewStoreWith(nil, map[string]Extractor{FormatText: NewTextExtractor(failing)})

	o := s.Ingest(textFile("a.txt", "alpha"))
	require.ErrorIs(t, o.Err, ErrExtraction)
	assert.Equal(t, "Error: Could not decode the text file", s.Documents()[0].Text)
}
