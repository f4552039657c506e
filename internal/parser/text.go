package parser

import (
	"bufio"
	"fmt"
	"io"

	"github.com/dgallion1/prepbook/internal/doctree"
)

// TextParser handles plain text files. Every line is one block.
type TextParser struct{}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	doc := &doctree.Document{Title: title(filename)}
	for scanner.Scan() {
		doc.Blocks = append(doc.Blocks, doctree.NewBlock(len(doc.Blocks), scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}
	return doc, nil
}
