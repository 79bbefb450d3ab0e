package render

import (
	"encoding/csv"
	"io"

	"priceview/internal/selection"
)

// WriteCSV writes a selected series in the input column layout.
func WriteCSV(w io.Writer, product string, points []selection.Point) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"Product", "Date", "Price_USD"}); err != nil {
		return err
	}
	for _, p := range points {
		record := []string{product, p.Date.Format("2006-01-02"), p.Price.String()}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
