package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_StripsMarkup(t *testing.T) {
	input := `# First Notice of Loss

**Policy Number:** PN-42
Claim Type: Theft

- Attachments: receipt.pdf; photo.jpg

` + "```\nInitial Estimate: $300\n```\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "fnol.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "fnol" {
		t.Errorf("expected title %q, got %q", "fnol", doc.Title)
	}

	text := doc.Text()
	for _, want := range []string{
		"First Notice of Loss",
		"Policy Number: PN-42\nClaim Type: Theft",
		"Attachments: receipt.pdf; photo.jpg",
		"Initial Estimate: $300",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("expected text to contain %q, got %q", want, text)
		}
	}
	if strings.Contains(text, "**") || strings.Contains(text, "# ") {
		t.Errorf("expected markup removed, got %q", text)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Text() != "" {
		t.Errorf("expected empty text, got %q", doc.Text())
	}
}

func TestHTMLParser_BlocksBecomeLines(t *testing.T) {
	input := `<html><head><title>FNOL 17</title><style>p{}</style></head><body>
<h1>Claim intake</h1>
<p>Policy Number: <b>PN-17</b></p>
<table><tr><td>Claim Type:</td><td>Injury</td></tr></table>
<ul><li>Attachments: xray.pdf</li></ul>
<script>var policy = "number: FAKE";</script>
</body></html>`

	p := &HTMLParser{}
	doc, err := p.Parse(strings.NewReader(input), "intake.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "FNOL 17" {
		t.Errorf("expected title from <title>, got %q", doc.Title)
	}

	want := "Claim intake\nPolicy Number: PN-17\nClaim Type: Injury\nAttachments: xray.pdf"
	if doc.Text() != want {
		t.Errorf("expected %q, got %q", want, doc.Text())
	}
}

func TestCSVParser_RowsBecomeLabeledPages(t *testing.T) {
	input := "Policy Number,Claim Type,Estimated Damage\nPN-1,collision,\"$1,200\"\nPN-2,injury,900\n"
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader(input), "export.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(doc.Pages))
	}
	want := "Policy Number: PN-1\nClaim Type: collision\nEstimated Damage: $1,200"
	if doc.Pages[0] != want {
		t.Errorf("expected first page %q, got %q", want, doc.Pages[0])
	}
}

func TestCSVParser_HeaderOnly(t *testing.T) {
	p := &CSVParser{}
	doc, err := p.Parse(strings.NewReader("Policy Number,Claim Type\n"), "empty.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Pages) != 0 {
		t.Errorf("expected no pages, got %d", len(doc.Pages))
	}
}
