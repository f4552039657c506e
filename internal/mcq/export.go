package mcq

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
)

// Header is the CSV column layout.
var Header = []string{
	"Serial", "Type", "Reference", "Question",
	"Option_ক", "Option_খ", "Option_গ", "Option_ঘ",
	"Answer_Label", "Explanation",
}

// utf8BOM lets spreadsheet tools detect the encoding of Bangla text.
const utf8BOM = "\ufeff"

// WriteCSV writes one row per question after a UTF-8 byte order mark.
func WriteCSV(w io.Writer, questions []Question) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return fmt.Errorf("write bom: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, q := range questions {
		row := []string{q.Serial, q.Type, q.Reference, q.Stem}
		for _, l := range Labels {
			row = append(row, q.Option(l))
		}
		row = append(row, q.Answer, q.Explanation)
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", q.Serial, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// WriteJSON writes the questions as an indented array. Bangla text and math
// notation are written unescaped.
func WriteJSON(w io.Writer, questions []Question) error {
	if questions == nil {
		questions = []Question{}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(questions); err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}
	return nil
}
