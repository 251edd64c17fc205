package service

import (
	"bytes"
	"strings"
	"testing"

	"orderhub_backend/platform/apperr"

	"github.com/xuri/excelize/v2"
)

func TestDetectColumnsPrefersExactMatches(t *testing.T) {
	cases := []struct {
		name   string
		header []string
		want   columns
	}{
		{"plain", []string{"Phone", "Name", "Address"}, columns{0, 1, 2}},
		{"customer phone is not a name", []string{"CustomerPhone", "Customer", "Area"}, columns{0, 1, 2}},
		{"snake case", []string{"customer_name", "mobile_number", "delivery_address"}, columns{1, 0, 2}},
		{"bengali", []string{"নাম", "মোবাইল", "ঠিকানা"}, columns{1, 0, 2}},
		{"bom and spaces", []string{"\ufeff Phone ", "notes"}, columns{0, -1, -1}},
		{"no phone", []string{"email", "name"}, columns{-1, 1, -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Sheet{Header: tc.header}.detectColumns()
			if got != tc.want {
				t.Fatalf("detectColumns(%v) = %+v, want %+v", tc.header, got, tc.want)
			}
		})
	}
}

func TestReadCSVSkipsBlankRows(t *testing.T) {
	input := "Phone,Name\n01711000001,Rahim\n,\n01811000002,\"Karim, Jr\"\n"

	sheet, err := ReadSheet("leads.CSV", strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[1][1] != "Karim, Jr" {
		t.Fatalf("quoted field not preserved: %q", sheet.Rows[1][1])
	}
}

func TestReadXLSXFirstSheet(t *testing.T) {
	f := excelize.NewFile()
	sheetName := f.GetSheetName(0)
	rows := [][]any{
		{"Mobile", "Customer Name"},
		{8801711000001, "Rahim"},
		{"01811000002", "Karim"},
	}
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("CoordinatesToCellName: %v", err)
		}
		if err := f.SetSheetRow(sheetName, cellRef, &row); err != nil {
			t.Fatalf("SetSheetRow: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	sheet, err := ReadSheet("leads.xlsx", &buf)
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if len(sheet.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(sheet.Rows))
	}
	if sheet.Rows[0][0] != "8801711000001" {
		t.Fatalf("numeric phone mangled: %q", sheet.Rows[0][0])
	}
	if cols := sheet.detectColumns(); cols.phone != 0 || cols.name != 1 {
		t.Fatalf("unexpected columns: %+v", cols)
	}
}

func TestReadSheetRejectsUnknownFormat(t *testing.T) {
	_, err := ReadSheet("leads.pdf", strings.NewReader(""))
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request, got %v", err)
	}
}

func TestPlainNumber(t *testing.T) {
	if got := plainNumber("8.801711112222E12"); got != "8801711112222" {
		t.Fatalf("plainNumber = %q", got)
	}
	if got := plainNumber("Eastern road"); got != "Eastern road" {
		t.Fatalf("text changed: %q", got)
	}
}
