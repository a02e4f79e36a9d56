package report

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/dgallion1/fnolgest/internal/claim"
)

func TestWriteXLSX(t *testing.T) {
	var fields claim.Fields
	fields.SetText(claim.KeyPolicyNumber, "PN-1")
	fields.SetText(claim.KeyClaimType, "collision")
	damage := 12000.0
	fields.SetAmount(claim.KeyEstimatedDamage, &damage)

	results := []claim.Result{
		claim.NewResult("a.txt", fields, []string{claim.KeyIncidentDate, claim.KeyAttachments},
			claim.Decision{Route: claim.RouteManualReview, Reason: "Missing fields: incident_date, attachments"}),
	}
	rows := append(RowsFromResults(results), Row{File: "b.exe", Error: "unsupported document type"})

	data, err := WriteXLSX(rows)
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(got))
	}
	if diff := cmp.Diff(headers, got[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	first := got[1]
	if first[0] != "a.txt" || first[1] != "Manual review" {
		t.Errorf("unexpected first row %q", first)
	}
	if first[3] != "incident_date, attachments" {
		t.Errorf("expected joined missing fields, got %q", first[3])
	}
	if first[4] != "PN-1" || first[7] != "collision" || first[8] != "12000" {
		t.Errorf("unexpected field cells %q", first)
	}

	second := got[2]
	if second[0] != "b.exe" || second[len(second)-1] != "unsupported document type" {
		t.Errorf("unexpected error row %q", second)
	}
}

func TestWriteXLSX_Empty(t *testing.T) {
	data, err := WriteXLSX(nil)
	if err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	if sheets := f.GetSheetList(); len(sheets) != 1 || sheets[0] != SheetName {
		t.Errorf("expected only %q, got %v", SheetName, sheets)
	}
	got, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected header only, got %d rows", len(got))
	}
}
