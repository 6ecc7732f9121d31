package entity

import "time"

// CompanyProfile is the provider-agnostic shape of a scraped LinkedIn
// company page. Source records which provider in the fallback chain
// produced the data so callers and tests can assert the path taken.
type CompanyProfile struct {
	Name          string
	Industry      string
	CompanySize   string
	Headquarters  string
	Founded       string
	Specialties   []string
	Description   string
	Website       string
	EmployeeCount int
	Source        string
}

// CompanyPost is a single post from a company's LinkedIn page.
type CompanyPost struct {
	PostURL     string
	Author      string
	Content     string
	Engagement  map[string]int
	PublishedAt time.Time
	Source      string
}

// PersonProfile holds the subset of a scraped personal profile the
// research report uses.
type PersonProfile struct {
	Name     string
	Headline string
	Location string
	Source   string
}

// WebsitePage is one scraped page of a prospect's website.
type WebsitePage struct {
	URL      string
	Title    string
	Markdown string
}

// WebsiteData aggregates everything scraped from a prospect's website.
type WebsiteData struct {
	URL          string
	Title        string
	Description  string
	Content      string
	KeyPoints    []string
	PagesScraped []string
	ScrapedAt    time.Time
}

// ProspectReport is the assembled research output for one prospect.
// Any section may be nil/empty when the corresponding lookup failed;
// Notes records what went wrong.
type ProspectReport struct {
	CompanyName string
	WebsiteURL  string
	LinkedInURL string
	Website     *WebsiteData
	Company     *CompanyProfile
	Posts       []CompanyPost
	GeneratedAt time.Time
	Notes       []string
}

// ExtractionResult is the outcome of a schema-driven LLM extraction run.
type ExtractionResult struct {
	CompanyName string
	URL         string
	SchemaUsed  string
	PromptUsed  string
	Extracted   map[string]any
	RawContent  string
	Model       string
	ExtractedAt time.Time
}
