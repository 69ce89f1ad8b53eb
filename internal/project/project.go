package project

import (
	"slices"

	"github.com/google/uuid"
)

// WorkItem is one billable unit of digitization work.
type WorkItem struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Quantity     float64       `json:"quantity"`
	Unit         string        `json:"unit"`
	SizeClass    SizeClass     `json:"sizeClass"`
	Resolution   Resolution    `json:"resolution"`
	ColorMode    ColorMode     `json:"colorMode"`
	Formats      []FileFormat  `json:"formats"`
	ExtraFormats string        `json:"extraFormats"`
	OCR          bool          `json:"ocr"`
	Metadata     MetadataLevel `json:"metadata"`

	Fragile             bool `json:"fragile"`
	DismantleAllowed    bool `json:"dismantleAllowed"`
	RestorationRequired bool `json:"restorationRequired"`
	NonContact          bool `json:"nonContact"`

	Notes string `json:"notes"`
}

// Handling returns the handling conditions set on the item, in table order.
func (w WorkItem) Handling() []HandlingCondition {
	var out []HandlingCondition
	if w.Fragile {
		out = append(out, HandlingFragile)
	}
	if w.DismantleAllowed {
		out = append(out, HandlingDismantleAllowed)
	}
	if w.RestorationRequired {
		out = append(out, HandlingRestorationRequired)
	}
	if w.NonContact {
		out = append(out, HandlingNonContact)
	}
	return out
}

// MiscExpense is an ad-hoc priced row. Quantity and UnitPrice are optional:
// a row without a unit price carries a lump-sum Amount.
type MiscExpense struct {
	ID        string   `json:"id"`
	Label     string   `json:"label"`
	Quantity  *float64 `json:"quantity,omitempty"`
	Unit      string   `json:"unit"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	Amount    float64  `json:"amount"`
	CalcType  CalcType `json:"calcType"`
}

// ProjectData is the aggregate root edited by the quoting surface.
type ProjectData struct {
	ProjectName string `json:"projectName"`
	ClientName  string `json:"clientName"`
	IssueDate   string `json:"issueDate"`
	ValidUntil  string `json:"validUntil"`

	Location        string `json:"location"`
	TransportMethod string `json:"transportMethod"`
	Fumigation      bool   `json:"fumigation"`
	Packing         bool   `json:"packing"`
	PickupDelivery  bool   `json:"pickupDelivery"`
	OnSite          bool   `json:"onSite"`
	Encryption      bool   `json:"encryption"`

	InspectionDepth InspectionDepth `json:"inspectionDepth"`
	InspectionNotes string          `json:"inspectionNotes"`

	DeliveryMedium string `json:"deliveryMedium"`
	DeliveryDate   string `json:"deliveryDate"`

	Tier              Tier    `json:"tier"`
	LoadAdjustmentPct float64 `json:"loadAdjustmentPct"`
	CoefficientCap    float64 `json:"coefficientCap"`
	CapException      bool    `json:"capException"`
	TaxRatePct        float64 `json:"taxRatePct"`

	SetupFeeNote      string `json:"setupFeeNote"`
	ManagementFeeNote string `json:"managementFeeNote"`

	WorkItems    []WorkItem    `json:"workItems"`
	MiscExpenses []MiscExpense `json:"miscExpenses"`

	QuotationNumber        string `json:"quotationNumber"`
	InspectionReportNumber string `json:"inspectionReportNumber"`
}

// AddOnEnabled reports whether an optional add-on is selected.
func (p ProjectData) AddOnEnabled(a AddOn) bool {
	switch a {
	case AddOnFumigation:
		return p.Fumigation
	case AddOnPacking:
		return p.Packing
	case AddOnPickupDelivery:
		return p.PickupDelivery
	case AddOnOnSite:
		return p.OnSite
	case AddOnEncryption:
		return p.Encryption
	}
	return false
}

// Clone returns a deep copy; no slice or pointer is shared with p.
func (p ProjectData) Clone() ProjectData {
	out := p
	if p.WorkItems != nil {
		out.WorkItems = make([]WorkItem, len(p.WorkItems))
		for i, w := range p.WorkItems {
			w.Formats = slices.Clone(w.Formats)
			out.WorkItems[i] = w
		}
	}
	if p.MiscExpenses != nil {
		out.MiscExpenses = make([]MiscExpense, len(p.MiscExpenses))
		for i, m := range p.MiscExpenses {
			m.Quantity = clonePtr(m.Quantity)
			m.UnitPrice = clonePtr(m.UnitPrice)
			out.MiscExpenses[i] = m
		}
	}
	return out
}

// WithTier returns a new snapshot with the tier and inspection depth
// overridden. p itself is left untouched.
func (p ProjectData) WithTier(t Tier, depth InspectionDepth) ProjectData {
	out := p.Clone()
	out.Tier = t
	out.InspectionDepth = depth
	return out
}

// NewID returns a fresh opaque identifier for a work item or expense row.
func NewID() string {
	return uuid.NewString()
}

// EnsureIDs returns a clone where every row without an id has been given one.
func (p ProjectData) EnsureIDs() ProjectData {
	out := p.Clone()
	for i := range out.WorkItems {
		if out.WorkItems[i].ID == "" {
			out.WorkItems[i].ID = NewID()
		}
	}
	for i := range out.MiscExpenses {
		if out.MiscExpenses[i].ID == "" {
			out.MiscExpenses[i].ID = NewID()
		}
	}
	return out
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
