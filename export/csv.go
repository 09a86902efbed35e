package export

import (
	"encoding/csv"
	"io"

	"github.com/remilekun/worklog/internal/apperr"
)

var errCSVWrite = &apperr.Error{
	Kind:    apperr.Storage,
	Message: "writing CSV export failed",
}

// WriteCSV writes the header and rows to w. Embedded delimiters and
// quotes are escaped per RFC 4180 by the csv writer; formula
// neutralization already happened when the rows were built.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header()); err != nil {
		return errCSVWrite.Wrap(err)
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return errCSVWrite.Wrap(err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return errCSVWrite.Wrap(err)
	}

	return nil
}
