package research

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"leadpulse/internal/domain/entity"
)

func sampleReport() *entity.ProspectReport {
	return &entity.ProspectReport{
		CompanyName: "Acme Corp, Inc.",
		WebsiteURL:  "https://acme.example",
		LinkedInURL: "https://linkedin.com/company/acme",
		Website: &entity.WebsiteData{
			Title:        "Acme Corp",
			KeyPoints:    []string{"We automate quoting.", "Serving 400 customers."},
			PagesScraped: []string{"https://acme.example/", "https://acme.example/about"},
		},
		Company: &entity.CompanyProfile{
			Name:         "Acme Corp",
			Industry:     "Manufacturing",
			CompanySize:  "51-200",
			Headquarters: "Portland, OR",
		},
		Posts:       []entity.CompanyPost{{Content: "We shipped v2."}},
		GeneratedAt: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()

	jsonPath, err := WriteReport(dir, sampleReport())
	if err != nil {
		t.Fatalf("WriteReport err=%v", err)
	}

	if filepath.Base(jsonPath) != "acme-corp-inc_2025-06-01.json" {
		t.Errorf("json filename = %q", filepath.Base(jsonPath))
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var decoded entity.ProspectReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if decoded.CompanyName != "Acme Corp, Inc." {
		t.Errorf("CompanyName = %q", decoded.CompanyName)
	}

	csvPath := strings.TrimSuffix(jsonPath, ".json") + "_summary.csv"
	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatalf("open summary: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want header + 1", len(rows))
	}
	row := rows[1]
	if row[3] != "Manufacturing" || row[6] != "2" || row[7] != "1" {
		t.Errorf("summary row = %v", row)
	}
}

func TestReportSlug(t *testing.T) {
	tests := map[string]string{
		"Acme Corp, Inc.": "acme-corp-inc",
		"  ":              "prospect",
		"ACME":            "acme",
	}
	for in, want := range tests {
		if got := reportSlug(in); got != want {
			t.Errorf("reportSlug(%q) = %q, want %q", in, got, want)
		}
	}
}
