package reference

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

var ErrDecodeFailed = errors.New("could not decode the text file")

// Decoder turns raw bytes into text for one named encoding.
type Decoder struct {
	Name   string
	Decode func(data []byte) (string, error)
}

// DefaultDecoders is the ordered fallback list for plain text: utf-8, latin-1, cp1252.
func DefaultDecoders() []Decoder {
	return []Decoder{
		{Name: "utf-8", Decode: decodeUTF8},
		{Name: "latin-1", Decode: charmapDecoder(charmap.ISO8859_1)},
		{Name: "cp1252", Decode: charmapDecoder(charmap.Windows1252)},
	}
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errors.New("invalid utf-8 byte sequence")
	}
	return string(data), nil
}

func charmapDecoder(cm *charmap.Charmap) func([]byte) (string, error) {
	return func(data []byte) (string, error) {
		out, err := cm.NewDecoder().Bytes(data)
		if err != nil {
			return "", err
		}
		return string(out), nil
	}
}

// TextExtractor decodes plain text with the first decoder that succeeds.
type TextExtractor struct {
	decoders []Decoder
}

func NewTextExtractor(decoders ...Decoder) *TextExtractor {
	if len(decoders) == 0 {
		decoders = DefaultDecoders()
	}
	return &TextExtractor{decoders: decoders}
}

func (e *TextExtractor) Extract(data []byte) (string, error) {
	tried := make([]string, 0, len(e.decoders))
	for _, d := range e.decoders {
		text, err := d.Decode(data)
		if err == nil {
			return text, nil
		}
		tried = append(tried, d.Name)
	}
	return "", fmt.Errorf("%w (tried %s)", ErrDecodeFailed, strings.Join(tried, ", "))
}
