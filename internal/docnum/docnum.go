// Package docnum derives quotation and inspection-report numbers.
package docnum

import (
	"strings"

	"github.com/Simplici0/digiquote/internal/project"
)

// Kind is the document a number is issued for.
type Kind string

const (
	Quotation        Kind = "quotation"
	InspectionReport Kind = "inspection_report"
)

const (
	sequence         = "-001"
	inspectionPrefix = "QA-"
)

var separators = strings.NewReplacer("-", "", "/", "", ".", "")

// Allocate returns existing when it is set, otherwise a number built from the
// reference date. An empty date yields an empty number.
//
// Two documents of the same kind issued on the same day receive the same
// number; there is no counter behind the sequence suffix.
func Allocate(kind Kind, referenceDate, existing string) string {
	if existing != "" {
		return existing
	}
	digits := separators.Replace(strings.TrimSpace(referenceDate))
	if digits == "" {
		return ""
	}
	n := digits + sequence
	if kind == InspectionReport {
		n = inspectionPrefix + n
	}
	return n
}

// Fill returns a copy of p with both document numbers allocated from its
// issue date.
func Fill(p project.ProjectData) project.ProjectData {
	out := p.Clone()
	out.QuotationNumber = Allocate(Quotation, p.IssueDate, p.QuotationNumber)
	out.InspectionReportNumber = Allocate(InspectionReport, p.IssueDate, p.InspectionReportNumber)
	return out
}
