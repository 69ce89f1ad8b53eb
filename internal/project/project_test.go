package project

import (
	"errors"
	"testing"
)

func ptr(v float64) *float64 { return &v }

func sampleProject() ProjectData {
	return ProjectData{
		ProjectName: "Ledger archive",
		Tier:        TierStandard,
		WorkItems: []WorkItem{
			{ID: "w1", Quantity: 10, Formats: []FileFormat{FormatTIFF, FormatPDF}},
		},
		MiscExpenses: []MiscExpense{
			{ID: "m1", Label: "Courier", Quantity: ptr(2), UnitPrice: ptr(1500)},
		},
	}
}

func TestCloneDoesNotAliasCollections(t *testing.T) {
	orig := sampleProject()
	clone := orig.Clone()

	clone.WorkItems[0].Quantity = 99
	clone.WorkItems[0].Formats[0] = FormatJPEG
	*clone.MiscExpenses[0].UnitPrice = 1
	clone.MiscExpenses = append(clone.MiscExpenses, MiscExpense{Label: "extra"})

	if orig.WorkItems[0].Quantity != 10 {
		t.Fatalf("work item quantity leaked into original: %v", orig.WorkItems[0].Quantity)
	}
	if orig.WorkItems[0].Formats[0] != FormatTIFF {
		t.Fatalf("formats slice is shared: %v", orig.WorkItems[0].Formats)
	}
	if *orig.MiscExpenses[0].UnitPrice != 1500 {
		t.Fatalf("unit price pointer is shared: %v", *orig.MiscExpenses[0].UnitPrice)
	}
	if len(orig.MiscExpenses) != 1 {
		t.Fatalf("expense list grew on original: %d", len(orig.MiscExpenses))
	}
}

func TestWithTierOverridesOnlyTierAndDepth(t *testing.T) {
	orig := sampleProject()
	orig.InspectionDepth = InspectionSampling

	sim := orig.WithTier(TierPremium, InspectionDoubleFull)

	if sim.Tier != TierPremium || sim.InspectionDepth != InspectionDoubleFull {
		t.Fatalf("override not applied: %s/%s", sim.Tier, sim.InspectionDepth)
	}
	if orig.Tier != TierStandard || orig.InspectionDepth != InspectionSampling {
		t.Fatalf("original mutated: %s/%s", orig.Tier, orig.InspectionDepth)
	}
	if sim.ProjectName != orig.ProjectName || len(sim.WorkItems) != 1 {
		t.Fatalf("unrelated fields changed: %+v", sim)
	}
}

func TestCanonicalInspection(t *testing.T) {
	cases := map[Tier]InspectionDepth{
		TierEconomy:  InspectionSampling,
		TierStandard: InspectionFull,
		TierPremium:  InspectionDoubleFull,
	}
	for tier, want := range cases {
		if got := CanonicalInspection(tier); got != want {
			t.Fatalf("CanonicalInspection(%s) = %s, want %s", tier, got, want)
		}
	}
}

func TestHandlingListsSetFlags(t *testing.T) {
	w := WorkItem{Fragile: true, NonContact: true}
	got := w.Handling()
	if len(got) != 2 || got[0] != HandlingFragile || got[1] != HandlingNonContact {
		t.Fatalf("unexpected handling: %v", got)
	}
}

func TestEnsureIDsFillsBlanksOnly(t *testing.T) {
	p := ProjectData{WorkItems: []WorkItem{{ID: "keep"}, {}}, MiscExpenses: []MiscExpense{{}}}
	got := p.EnsureIDs()

	if got.WorkItems[0].ID != "keep" {
		t.Fatalf("existing id replaced: %q", got.WorkItems[0].ID)
	}
	if got.WorkItems[1].ID == "" || got.MiscExpenses[0].ID == "" {
		t.Fatalf("blank ids not filled: %+v", got)
	}
	if p.WorkItems[1].ID != "" {
		t.Fatalf("original mutated")
	}
}

func TestEncodeDecodeKeepsFields(t *testing.T) {
	data, err := Encode(sampleProject())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, warnings, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if got.ProjectName != "Ledger archive" || got.Tier != TierStandard {
		t.Fatalf("header fields lost: %+v", got)
	}
	if len(got.WorkItems) != 1 || len(got.WorkItems[0].Formats) != 2 {
		t.Fatalf("work items lost: %+v", got.WorkItems)
	}
	m := got.MiscExpenses[0]
	if m.Quantity == nil || *m.Quantity != 2 || m.UnitPrice == nil || *m.UnitPrice != 1500 {
		t.Fatalf("expense pointers lost: %+v", m)
	}
}

func TestDecodeRejectsNonObject(t *testing.T) {
	for _, input := range []string{`[]`, `"text"`, `42`, `null`, `{broken`} {
		if _, _, err := Decode([]byte(input)); !errors.Is(err, ErrNotObject) {
			t.Fatalf("Decode(%s) err = %v, want ErrNotObject", input, err)
		}
	}
}

func TestDecodeToleratesLooseShapes(t *testing.T) {
	input := `{
		"projectName": "Loose",
		"tier": "standard",
		"loadAdjustmentPct": "5",
		"workItems": [{"id": "a", "quantity": "12", "ocr": 1}],
		"miscExpenses": "not-a-list",
		"unknownField": true
	}`

	got, warnings, err := Decode([]byte(input))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.LoadAdjustmentPct != 5 {
		t.Fatalf("weak number not decoded: %v", got.LoadAdjustmentPct)
	}
	if len(got.WorkItems) != 1 || got.WorkItems[0].Quantity != 12 || !got.WorkItems[0].OCR {
		t.Fatalf("work item not decoded weakly: %+v", got.WorkItems)
	}
	if len(warnings) == 0 {
		t.Fatalf("expected a warning for miscExpenses")
	}
}
