package processor

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
)

// lineEnd matches RFC 4180 and the csv writer with UseCRLF.
const lineEnd = "\r\n"

// WriteCSV writes a header of columns followed by one line per row.
// Columns missing from a row are written as empty fields. Lines end in CRLF.
func WriteCSV(w io.Writer, columns []string, rows iter.Seq2[Row, error]) (int, error) {
	writer := csv.NewWriter(w)
	writer.UseCRLF = true

	if err := writeRecord(w, writer, columns); err != nil {
		return 0, fmt.Errorf("write header: %w", err)
	}

	count := 0
	record := make([]string, len(columns))
	for row, err := range rows {
		if err != nil {
			return count, err
		}

		for i, name := range columns {
			record[i] = row[name].String()
		}

		if err := writeRecord(w, writer, record); err != nil {
			return count, fmt.Errorf("write row %d: %w", count+1, err)
		}
		count++
	}

	writer.Flush()
	return count, writer.Error()
}

// writeRecord writes one line. A record made of a single empty field is
// written as "" so readers do not drop it as a blank line.
func writeRecord(w io.Writer, writer *csv.Writer, record []string) error {
	if len(record) != 1 || record[0] != "" {
		return writer.Write(record)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	_, err := io.WriteString(w, `""`+lineEnd)
	return err
}
