package report

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"

	"github.com/crucial707/candidate-hub/internal/models"
)

// Header is the first row of every report.
var Header = []string{"ID", "First Name", "Last Name", "Experience"}

// Source enumerates candidates for a report without modifying them.
type Source interface {
	ForEach(ctx context.Context, fn func(models.Candidate) error) error
}

// WriteCSV writes the header and one row per candidate, returning the row count.
// An empty source still produces the header.
func WriteCSV(ctx context.Context, w io.Writer, src Source) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return 0, err
	}

	rows := 0
	err := src.ForEach(ctx, func(c models.Candidate) error {
		rows++
		return cw.Write([]string{
			strconv.Itoa(c.ID),
			c.FirstName,
			c.LastName,
			strconv.Itoa(c.Experience),
		})
	})
	if err != nil {
		return rows, err
	}

	cw.Flush()
	return rows, cw.Error()
}
