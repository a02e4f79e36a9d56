package pipeline

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dgallion1/fnolgest/internal/claim"
	"github.com/dgallion1/fnolgest/internal/extract"
)

// fnolText builds a document with every mandatory field, letting tests
// override or drop individual lines.
func fnolText(overrides map[string]string) string {
	lines := []struct{ label, value string }{
		{"Policy Number", "PN-2024-1"},
		{"Policyholder Name", "Jane Doe"},
		{"Date of Incident", "03/14/2024"},
		{"Incident Description", "Rear-ended at a stop light"},
		{"Claim Type", "collision"},
		{"Estimated Damage", "$10,000"},
		{"Attachments", "photo1.jpg; photo2.jpg"},
		{"Initial Estimate", "$9,000"},
	}
	var b strings.Builder
	for _, l := range lines {
		v, ok := overrides[l.label]
		if !ok {
			v = l.value
		}
		if v == "-" {
			continue
		}
		b.WriteString(l.label + ": " + v + "\n")
	}
	return b.String()
}

func TestProcess_FastTrack(t *testing.T) {
	p := NewProcessor(nil, Options{}, nil)
	res, err := p.Process("a.txt", fnolText(nil))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Route != claim.RouteFastTrack {
		t.Errorf("expected %q, got %q", claim.RouteFastTrack, res.Route)
	}
	if !strings.Contains(res.Reason, "10000.0 < 25000") {
		t.Errorf("unexpected reason %q", res.Reason)
	}
	if len(res.Missing) != 0 {
		t.Errorf("expected no missing fields, got %v", res.Missing)
	}
	if res.Source != "a.txt" {
		t.Errorf("expected source a.txt, got %q", res.Source)
	}
}

func TestProcess_MissingPolicyNumber(t *testing.T) {
	p := NewProcessor(nil, Options{}, nil)
	res, err := p.Process("b.txt", fnolText(map[string]string{"Policy Number": "-"}))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Route != claim.RouteManualReview {
		t.Errorf("expected %q, got %q", claim.RouteManualReview, res.Route)
	}
	if res.Reason != "Missing fields: policy_number" {
		t.Errorf("unexpected reason %q", res.Reason)
	}
	if diff := cmp.Diff([]string{claim.KeyPolicyNumber}, res.Missing); diff != "" {
		t.Errorf("missing mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_Injury(t *testing.T) {
	p := NewProcessor(nil, Options{}, nil)
	res, err := p.Process("c.txt", fnolText(map[string]string{"Claim Type": "Injury"}))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Route != claim.RouteSpecialistQueue {
		t.Errorf("expected %q, got %q", claim.RouteSpecialistQueue, res.Route)
	}
}

func TestProcess_SuspiciousOverridesFastTrack(t *testing.T) {
	p := NewProcessor(nil, Options{}, nil)
	res, err := p.Process("d.txt", fnolText(map[string]string{
		"Incident Description": "Suspicious fire in the garage",
	}))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Route != claim.RouteInvestigation {
		t.Errorf("expected %q, got %q", claim.RouteInvestigation, res.Route)
	}
}

func TestProcess_LabelWithUnparsedValueIsNotMissing(t *testing.T) {
	p := NewProcessor(nil, Options{}, nil)
	res, err := p.Process("f.txt", fnolText(map[string]string{
		"Date of Incident": "(see police report)",
	}))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Fields.IncidentDate == nil || *res.Fields.IncidentDate != "" {
		t.Errorf("expected incident_date to be an empty string, got %v", res.Fields.IncidentDate)
	}
	if len(res.Missing) != 0 {
		t.Errorf("expected no missing fields, got %v", res.Missing)
	}
	want := claim.Decision{Route: claim.RouteFastTrack, Reason: "Estimated damage 10000.0 < 25000"}
	if diff := cmp.Diff(want, claim.Decision{Route: res.Route, Reason: res.Reason}); diff != "" {
		t.Errorf("decision mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_EmptyTextRoutesToManualReview(t *testing.T) {
	p := NewProcessor(nil, Options{}, nil)
	res, err := p.Process("empty.txt", "")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.Route != claim.RouteManualReview {
		t.Errorf("expected %q, got %q", claim.RouteManualReview, res.Route)
	}
	want := "Missing fields: " + strings.Join(claim.MandatoryFields, ", ")
	if res.Reason != want {
		t.Errorf("expected reason %q, got %q", want, res.Reason)
	}
}

func TestProcess_InconsistenciesRetained(t *testing.T) {
	p := NewProcessor(nil, Options{}, nil)
	res, err := p.Process("e.txt", fnolText(map[string]string{"Initial Estimate": "$1,000"}))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if diff := cmp.Diff([]string{extract.NoteLowInitialEstimate}, res.Fields.Inconsistencies); diff != "" {
		t.Errorf("inconsistencies mismatch (-want +got):\n%s", diff)
	}
}

func TestProcess_SerializesToContract(t *testing.T) {
	p := NewProcessor(nil, Options{}, nil)
	res, err := p.Process("a.txt", fnolText(nil))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	data, err := json.Marshal(res)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := claim.ValidateResultJSON(data); err != nil {
		t.Errorf("result does not match contract: %v", err)
	}
}

type panicExtractor struct{}

func (panicExtractor) Extract(string) claim.Fields { panic("extractor fault") }

func TestProcess_InternalFaultIsGeneric(t *testing.T) {
	p := NewProcessor(panicExtractor{}, Options{}, nil)
	_, err := p.Process("x.txt", "Claimant: x")
	if !errors.Is(err, ErrProcessing) {
		t.Fatalf("expected ErrProcessing, got %v", err)
	}
	if IsAcquisition(err) {
		t.Error("processing errors must not be acquisition errors")
	}
	if err.Error() != "processing error" {
		t.Errorf("expected generic message, got %q", err.Error())
	}
}

func TestProcessDocument_AcquisitionErrors(t *testing.T) {
	p := NewProcessor(nil, Options{MaxDocumentBytes: 16}, nil)

	_, err := p.ProcessDocument("claim.exe", strings.NewReader("x"))
	if !errors.Is(err, ErrUnsupportedType) || !IsAcquisition(err) {
		t.Errorf("expected unsupported type acquisition error, got %v", err)
	}

	_, err = p.ProcessDocument("claim.txt", strings.NewReader(strings.Repeat("x", 17)))
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}

	_, err = p.ProcessDocument("claim.txt", errReader{})
	if !errors.Is(err, ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}

	res, err := p.ProcessDocument("claim.txt", strings.NewReader(strings.Repeat("x", 16)))
	if err != nil {
		t.Fatalf("expected document at the limit to pass, got %v", err)
	}
	if res.Route != claim.RouteManualReview {
		t.Errorf("expected manual review for noise, got %q", res.Route)
	}
}

func TestProcessFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "claim.txt")
	if err := os.WriteFile(path, []byte(fnolText(nil)), 0o644); err != nil {
		t.Fatal(err)
	}

	p := NewProcessor(nil, Options{}, nil)
	res, err := p.ProcessFile(path)
	if err != nil {
		t.Fatalf("ProcessFile: %v", err)
	}
	if res.Source != path {
		t.Errorf("expected source %q, got %q", path, res.Source)
	}
	if res.Route != claim.RouteFastTrack {
		t.Errorf("expected %q, got %q", claim.RouteFastTrack, res.Route)
	}

	if _, err := p.ProcessFile(filepath.Join(dir, "nope.txt")); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := p.ProcessFile(dir); !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected directory to be rejected, got %v", err)
	}
}

func TestProcess_UsesCacheAndStats(t *testing.T) {
	cache := NewCache(time.Minute)
	stats := NewStats(time.Hour)
	p := NewProcessor(nil, Options{Cache: cache, Stats: stats}, nil)

	first, err := p.Process("a.txt", fnolText(nil))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	second, err := p.Process("a.txt", fnolText(nil))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("cached result differs (-first +second):\n%s", diff)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 cached result, got %d", cache.Len())
	}

	if _, err := p.Process("b.txt", fnolText(nil)); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if cache.Len() != 2 {
		t.Errorf("expected source to be part of the cache key, got %d entries", cache.Len())
	}

	snap := stats.Snapshot()
	if snap.Count != 3 {
		t.Errorf("expected every call including the cache hit to be recorded, got %d", snap.Count)
	}
	if snap.Routes[claim.RouteFastTrack] != 3 {
		t.Errorf("expected 3 fast-track decisions, got %d", snap.Routes[claim.RouteFastTrack])
	}
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }
