package export

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/7mit3/BidFix-sub000/internal/errors"
)

// WriteFile exports the bid to disk, choosing the format from the
// file extension (.csv or .xlsx)
func WriteFile(path string, doc Document) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrap(errors.TypeStorage, "creating export file", err)
		}
		defer f.Close()
		if err := WriteCSV(f, doc); err != nil {
			return err
		}
		return f.Close()
	case ".xlsx":
		data, err := GenerateExcel(doc)
		if err != nil {
			return errors.Wrap(errors.TypeInternal, "rendering workbook", err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return errors.Wrap(errors.TypeStorage, "writing export file", err)
		}
		return nil
	default:
		return errors.Inputf("unsupported export format %q, use .csv or .xlsx", filepath.Ext(path))
	}
}
