package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"orderhub_backend/platform/apperr"

	"github.com/xuri/excelize/v2"
)

// Sheet is a tabular upload: one header row and the data rows below it.
type Sheet struct {
	Header []string
	Rows   [][]string
}

var (
	phoneAliases   = []string{"phone", "mobile", "number", "contact", "customerphone", "cell", "মোবাইল", "ফোন"}
	nameAliases    = []string{"name", "customer", "recipient", "client", "নাম", "কাস্টমার"}
	addressAliases = []string{"address", "location", "area", "destination", "ঠিকানা"}
)

// columns holds the detected column index per field, -1 when absent.
type columns struct {
	phone, name, address int
}

// detectColumns maps header cells to fields. A column matches an alias when
// the normalized header equals it, or failing that, when either contains the
// other. Exact matches win and a column is never used for two fields.
func (s Sheet) detectColumns() columns {
	normalized := make([]string, len(s.Header))
	for i, h := range s.Header {
		normalized[i] = normalizeHeader(h)
	}

	taken := make(map[int]bool, 3)
	pick := func(aliases []string) int {
		idx := findColumn(normalized, aliases, taken)
		if idx >= 0 {
			taken[idx] = true
		}
		return idx
	}

	cols := columns{}
	cols.phone = pick(phoneAliases)
	cols.name = pick(nameAliases)
	cols.address = pick(addressAliases)
	return cols
}

func findColumn(header []string, aliases []string, taken map[int]bool) int {
	for i, h := range header {
		if taken[i] || h == "" {
			continue
		}
		for _, alias := range aliases {
			if h == alias {
				return i
			}
		}
	}
	for i, h := range header {
		if taken[i] || h == "" {
			continue
		}
		for _, alias := range aliases {
			if strings.Contains(h, alias) || strings.Contains(alias, h) {
				return i
			}
		}
	}
	return -1
}

func normalizeHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.NewReplacer(" ", "", "_", "", "\t", "").Replace(h)
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ReadSheet parses an uploaded file by extension. CSV and XLSX are supported.
func ReadSheet(filename string, r io.Reader) (Sheet, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ReadCSV(r)
	case ".xlsx", ".xlsm":
		return ReadXLSX(r)
	default:
		return Sheet{}, apperr.BadRequest("unsupported file format, upload a .csv or .xlsx file")
	}
}

// ReadCSV reads a comma separated file whose first record is the header.
func ReadCSV(r io.Reader) (Sheet, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return Sheet{}, apperr.Wrap(apperr.KindBadRequest, "could not read csv file", err)
	}
	return sheetFromRecords(records), nil
}

// ReadXLSX reads the first worksheet of a workbook whose first row is the header.
func ReadXLSX(r io.Reader) (Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Sheet{}, apperr.Wrap(apperr.KindBadRequest, "could not read excel file", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Sheet{}, apperr.BadRequest("excel file has no worksheets")
	}

	records, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, apperr.Wrap(apperr.KindBadRequest, fmt.Sprintf("could not read worksheet %q", sheets[0]), err)
	}
	for _, record := range records {
		for i, value := range record {
			record[i] = plainNumber(value)
		}
	}
	return sheetFromRecords(records), nil
}

func sheetFromRecords(records [][]string) Sheet {
	if len(records) == 0 {
		return Sheet{}
	}

	sheet := Sheet{Header: records[0], Rows: make([][]string, 0, len(records)-1)}
	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		sheet.Rows = append(sheet.Rows, record)
	}
	return sheet
}

func isBlank(record []string) bool {
	for _, value := range record {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

// plainNumber rewrites raw numeric cells stored in exponent form, such as
// 8.801711112222E12, as plain digits.
func plainNumber(value string) string {
	if !strings.ContainsAny(value, "eE") {
		return value
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
