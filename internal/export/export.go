// Package export renders a product's analyzed reviews as CSV, JSON or
// an Excel workbook.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"reviewpulse/internal/domain"
)

// Formats accepted by the export endpoint.
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ValidFormat reports whether f is a supported export format.
func ValidFormat(f string) bool {
	return f == FormatCSV || f == FormatJSON || f == FormatXLSX
}

// ContentType returns the MIME type for a format.
func ContentType(f string) string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json; charset=utf-8"
	}
}

var header = []string{"source_id", "author", "rating", "text", "date", "sentiment_score", "sentiment", "topic"}

func row(r domain.Review) []string {
	sourceID, author, rating, date := "", "", "", ""
	if r.SourceID != nil {
		sourceID = *r.SourceID
	}
	if r.Author != nil {
		author = *r.Author
	}
	if r.Rating != nil {
		rating = strconv.FormatFloat(*r.Rating, 'f', -1, 64)
	}
	if r.Date != nil {
		date = r.Date.Format(time.DateOnly)
	}
	return []string{
		sourceID,
		author,
		rating,
		r.Text,
		date,
		strconv.FormatFloat(r.SentimentScore, 'f', 4, 64),
		r.Sentiment,
		r.Topic,
	}
}

func CSV(w io.Writer, reviews []domain.Review) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range reviews {
		if err := cw.Write(row(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func JSON(w io.Writer, p domain.Product, reviews []domain.Review) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Product domain.Product  `json:"product"`
		Reviews []domain.Review `json:"reviews"`
	}{Product: p, Reviews: reviews})
}

func XLSX(w io.Writer, p domain.Product, reviews []domain.Review) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Reviews"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	for col, name := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for i, r := range reviews {
		for col, val := range row(r) {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return err
			}
		}
	}

	// Summary sheet so the workbook stands alone.
	const summary = "Product"
	if _, err := f.NewSheet(summary); err != nil {
		return err
	}
	for i, kv := range [][2]any{
		{"Name", p.Name},
		{"Platform", p.Platform},
		{"URL", p.URL},
		{"Reviews", len(reviews)},
	} {
		if err := f.SetCellValue(summary, fmt.Sprintf("A%d", i+1), kv[0]); err != nil {
			return err
		}
		if err := f.SetCellValue(summary, fmt.Sprintf("B%d", i+1), kv[1]); err != nil {
			return err
		}
	}

	return f.Write(w)
}
