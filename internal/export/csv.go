package export

import (
	"bytes"
	"encoding/csv"
	"io"
)

// UTF8BOM makes spreadsheet applications detect UTF-8 when opening the file.
var UTF8BOM = []byte{0xEF, 0xBB, 0xBF}

const CSVContentType = "text/csv; charset=utf-8"

// WriteCSV writes header followed by rows. Rows shorter than the header are
// padded with empty cells.
func WriteCSV(w io.Writer, header []string, rows [][]string, withBOM bool) error {
	if withBOM {
		if _, err := w.Write(UTF8BOM); err != nil {
			return err
		}
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CSVBytes is WriteCSV into memory, BOM included.
func CSVBytes(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, header, rows, true); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
