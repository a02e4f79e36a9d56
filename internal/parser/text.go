package parser

import (
	"fmt"
	"io"
	"strings"
)

// TextParser handles plain text files. Invalid UTF-8 sequences are dropped.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return &Document{
		Title: trimExt(filename),
		Pages: []string{strings.ToValidUTF8(string(data), "")},
	}, nil
}
