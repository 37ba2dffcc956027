package domain

import (
	"fmt"
	"time"
)

// SectionKey names one of the six memo sections.
type SectionKey string

const (
	SectionSummary       SectionKey = "summary"
	SectionMarket        SectionKey = "market"
	SectionProduct       SectionKey = "product"
	SectionTraction      SectionKey = "traction"
	SectionRisks         SectionKey = "risks"
	SectionOpenQuestions SectionKey = "open_questions"
)

var sectionLabels = map[SectionKey]string{
	SectionSummary:       "Executive Summary",
	SectionMarket:        "Market Opportunity",
	SectionProduct:       "Product & Technology",
	SectionTraction:      "Traction & Metrics",
	SectionRisks:         "Risks & Mitigations",
	SectionOpenQuestions: "Open Questions",
}

// SectionKeys returns the memo sections in display order.
func SectionKeys() []SectionKey {
	return []SectionKey{
		SectionSummary, SectionMarket, SectionProduct,
		SectionTraction, SectionRisks, SectionOpenQuestions,
	}
}

func (k SectionKey) Label() string {
	if l, ok := sectionLabels[k]; ok {
		return l
	}
	return string(k)
}

// ParseSectionKey validates a section name.
func ParseSectionKey(s string) (SectionKey, error) {
	k := SectionKey(s)
	if _, ok := sectionLabels[k]; !ok {
		return "", fmt.Errorf("unknown memo section %q", s)
	}
	return k, nil
}

// MemoSections is the six-section body shared by memos, versions and the
// editor's draft buffer. The wire format allows nulls; in memory a missing
// section is the empty string.
type MemoSections struct {
	Summary       string `json:"summary" yaml:"summary"`
	Market        string `json:"market" yaml:"market"`
	Product       string `json:"product" yaml:"product"`
	Traction      string `json:"traction" yaml:"traction"`
	Risks         string `json:"risks" yaml:"risks"`
	OpenQuestions string `json:"open_questions" yaml:"open_questions"`
}

func (m MemoSections) Get(k SectionKey) string {
	switch k {
	case SectionSummary:
		return m.Summary
	case SectionMarket:
		return m.Market
	case SectionProduct:
		return m.Product
	case SectionTraction:
		return m.Traction
	case SectionRisks:
		return m.Risks
	case SectionOpenQuestions:
		return m.OpenQuestions
	}
	return ""
}

func (m *MemoSections) Set(k SectionKey, v string) {
	switch k {
	case SectionSummary:
		m.Summary = v
	case SectionMarket:
		m.Market = v
	case SectionProduct:
		m.Product = v
	case SectionTraction:
		m.Traction = v
	case SectionRisks:
		m.Risks = v
	case SectionOpenQuestions:
		m.OpenQuestions = v
	}
}

// IsEmpty reports whether every section is blank.
func (m MemoSections) IsEmpty() bool {
	return m == MemoSections{}
}

type Memo struct {
	ID          int64      `json:"id" yaml:"id"`
	DealID      int64      `json:"deal_id" yaml:"deal_id"`
	CreatedByID int64      `json:"created_by_id" yaml:"created_by_id"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at" yaml:"updated_at,omitempty"`
	MemoSections `yaml:",inline"`
}

// Sections returns a copy of the memo body.
func (m *Memo) Sections() MemoSections {
	if m == nil {
		return MemoSections{}
	}
	return m.MemoSections
}

// MemoVersion is an immutable snapshot written by the server on every save.
type MemoVersion struct {
	ID            int64     `json:"id" yaml:"id"`
	MemoID        int64     `json:"memo_id" yaml:"memo_id"`
	VersionNumber int       `json:"version_number" yaml:"version_number"`
	CreatedByID   int64     `json:"created_by_id" yaml:"created_by_id"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
	MemoSections `yaml:",inline"`
}

// MemoCreate is the POST /memos payload.
type MemoCreate struct {
	DealID int64 `json:"deal_id"`
	MemoSections
}
