package project

// Tier is the service level chosen for a project.
type Tier string

const (
	TierEconomy  Tier = "economy"
	TierStandard Tier = "standard"
	TierPremium  Tier = "premium"
)

// AllTiers lists tiers in presentation order (cheapest first).
func AllTiers() []Tier {
	return []Tier{TierEconomy, TierStandard, TierPremium}
}

// InspectionDepth is the rigor of quality inspection applied to the output.
type InspectionDepth string

const (
	InspectionSampling   InspectionDepth = "sampling"
	InspectionFull       InspectionDepth = "full"
	InspectionDoubleFull InspectionDepth = "double_full"
)

func AllInspectionDepths() []InspectionDepth {
	return []InspectionDepth{InspectionSampling, InspectionFull, InspectionDoubleFull}
}

// CanonicalInspection returns the inspection depth a tier is sold with.
func CanonicalInspection(t Tier) InspectionDepth {
	switch t {
	case TierEconomy:
		return InspectionSampling
	case TierPremium:
		return InspectionDoubleFull
	default:
		return InspectionFull
	}
}

type SizeClass string

const (
	SizeA4       SizeClass = "A4"
	SizeA3       SizeClass = "A3"
	SizeA2       SizeClass = "A2"
	SizeA1       SizeClass = "A1"
	SizeA0       SizeClass = "A0"
	SizeOversize SizeClass = "oversize"
)

func AllSizeClasses() []SizeClass {
	return []SizeClass{SizeA4, SizeA3, SizeA2, SizeA1, SizeA0, SizeOversize}
}

type ColorMode string

const (
	ColorMono      ColorMode = "mono"
	ColorGrayscale ColorMode = "grayscale"
	ColorFull      ColorMode = "color"
)

func AllColorModes() []ColorMode {
	return []ColorMode{ColorMono, ColorGrayscale, ColorFull}
}

type Resolution string

const (
	Res300  Resolution = "300dpi"
	Res400  Resolution = "400dpi"
	Res600  Resolution = "600dpi"
	Res1200 Resolution = "1200dpi"
)

func AllResolutions() []Resolution {
	return []Resolution{Res300, Res400, Res600, Res1200}
}

// FileFormat is a deliverable output format.
type FileFormat string

const (
	FormatTIFF     FileFormat = "tiff"
	FormatJPEG     FileFormat = "jpeg"
	FormatJPEG2000 FileFormat = "jpeg2000"
	FormatPNG      FileFormat = "png"
	FormatPDF      FileFormat = "pdf"
	FormatPDFA     FileFormat = "pdfa"
)

func AllFileFormats() []FileFormat {
	return []FileFormat{FormatTIFF, FormatJPEG, FormatJPEG2000, FormatPNG, FormatPDF, FormatPDFA}
}

// IsMaster reports whether the format is a high-fidelity master capture.
func (f FileFormat) IsMaster() bool {
	return f == FormatTIFF || f == FormatJPEG2000
}

// IsPDF reports whether the format belongs to the PDF family.
func (f FileFormat) IsPDF() bool {
	return f == FormatPDF || f == FormatPDFA
}

// MetadataLevel is how rich the per-image metadata deliverable is.
type MetadataLevel string

const (
	MetadataNone     MetadataLevel = "none"
	MetadataBasic    MetadataLevel = "basic"
	MetadataStandard MetadataLevel = "standard"
	MetadataDetailed MetadataLevel = "detailed"
)

func AllMetadataLevels() []MetadataLevel {
	return []MetadataLevel{MetadataNone, MetadataBasic, MetadataStandard, MetadataDetailed}
}

// HandlingCondition is one physical-handling constraint on the originals.
type HandlingCondition string

const (
	HandlingFragile             HandlingCondition = "fragile"
	HandlingDismantleAllowed    HandlingCondition = "dismantle_allowed"
	HandlingRestorationRequired HandlingCondition = "restoration_required"
	HandlingNonContact          HandlingCondition = "non_contact"
)

func AllHandlingConditions() []HandlingCondition {
	return []HandlingCondition{HandlingFragile, HandlingDismantleAllowed, HandlingRestorationRequired, HandlingNonContact}
}

// AddOn is an optional project-level service billed at a fixed fee.
type AddOn string

const (
	AddOnFumigation     AddOn = "fumigation"
	AddOnPacking        AddOn = "packing"
	AddOnPickupDelivery AddOn = "pickup_delivery"
	AddOnOnSite         AddOn = "on_site"
	AddOnEncryption     AddOn = "encryption"
)

// AllAddOns lists add-ons in ledger order.
func AllAddOns() []AddOn {
	return []AddOn{AddOnFumigation, AddOnPacking, AddOnPickupDelivery, AddOnOnSite, AddOnEncryption}
}

// CalcType selects how a misc expense amount is derived.
type CalcType string

const (
	CalcManual  CalcType = "manual"
	CalcExpense CalcType = "expense"
)
