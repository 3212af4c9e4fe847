package export

import (
	"encoding/csv"
	"io"

	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// WriteCSV renders the bid as CSV: the shared header row followed by
// the projected rows
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return errors.Wrap(errors.TypeInternal, "writing csv header", err)
	}
	for _, row := range Rows(doc) {
		if err := cw.Write(row); err != nil {
			return errors.Wrap(errors.TypeInternal, "writing csv row", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(errors.TypeInternal, "flushing csv", err)
	}
	return nil
}
