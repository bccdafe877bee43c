package extract

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"classtrack/internal/apperror"
)

// fromXLSX renders every sheet of an OOXML workbook as a CSV block prefixed
// with the sheet name, blank-line separated.
func fromXLSX(data []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return "", apperror.ExtractionFailed(err, "Failed to parse XLSX content.")
	}
	defer f.Close()

	var blocks []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return "", apperror.ExtractionFailed(err, "Failed to read XLSX sheet.")
		}
		blocks = append(blocks, sheetBlock(sheet, rows))
	}
	return strings.Join(blocks, "\n\n"), nil
}

// fromXLS renders every sheet of a legacy BIFF workbook the same way.
func fromXLS(data []byte) (string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return "", apperror.ExtractionFailed(err, "Failed to parse XLS content.")
	}

	var blocks []string
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			continue
		}
		var rows [][]string
		for r := 0; r <= int(sheet.MaxRow); r++ {
			row := sheet.Row(r)
			if row == nil {
				rows = append(rows, nil)
				continue
			}
			var cells []string
			for c := row.FirstCol(); c <= row.LastCol(); c++ {
				cells = append(cells, row.Col(c))
			}
			rows = append(rows, cells)
		}
		blocks = append(blocks, sheetBlock(sheet.Name, rows))
	}
	return strings.Join(blocks, "\n\n"), nil
}

// fromCSV re-emits a CSV file normalized through the csv codec, so ragged
// quoting in the upload does not leak into the prompt.
func fromCSV(data []byte) (string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return "", apperror.ExtractionFailed(err, "Failed to parse CSV content.")
	}
	return sheetBlock("Sheet1", records), nil
}

func sheetBlock(name string, rows [][]string) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "[Sheet: %s]\n", name)
	w := csv.NewWriter(&buf)
	for _, row := range rows {
		if len(row) == 0 {
			row = []string{""}
		}
		_ = w.Write(row)
	}
	w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}
