// Package export renders a task list in a downloadable format.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"gopkg.in/yaml.v3"

	"todolists/internal/models"
)

var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported format names.
var Formats = []string{"json", "csv", "yaml", "pdf"}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return "application/json"
	case "csv":
		return "text/csv; charset=utf-8"
	case "yaml":
		return "application/yaml"
	case "pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

type document struct {
	Key   string        `json:"key" yaml:"key"`
	Label string        `json:"label" yaml:"label"`
	Count int           `json:"count" yaml:"count"`
	Tasks []models.Task `json:"tasks" yaml:"tasks"`
}

// Render encodes list in the given format.
func Render(list models.List, format string) ([]byte, error) {
	tasks := list.Tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	doc := document{Key: list.Key, Label: list.Label(), Count: list.Count(), Tasks: tasks}

	switch strings.ToLower(format) {
	case "json":
		return json.MarshalIndent(doc, "", "  ")
	case "yaml":
		return yaml.Marshal(doc)
	case "csv":
		return renderCSV(tasks)
	case "pdf":
		return renderPDF(doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
}

func renderCSV(tasks []models.Task) ([]byte, error) {
	var b bytes.Buffer
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"title", "description", "deadline", "completed"})
	for _, t := range tasks {
		_ = w.Write([]string{t.Title, t.Description, t.Deadline, strconv.FormatBool(t.Completed)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return b.Bytes(), nil
}

func renderPDF(doc document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, tr(doc.Label))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total Tasks: %d", doc.Count))
	pdf.Ln(10)

	for _, t := range doc.Tasks {
		box := "[ ]"
		if t.Completed {
			box = "[x]"
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.MultiCell(0, 6, tr(box+" "+t.Title), "0", "L", false)
		pdf.SetFont("Arial", "", 10)
		pdf.MultiCell(0, 5, tr(t.Description), "0", "L", false)
		pdf.MultiCell(0, 5, tr("Deadline: "+t.Deadline), "0", "L", false)
		pdf.Ln(3)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
