package dcm

import "strings"

// Class is the conversion category assigned to a DICOM instance.
type Class int

const (
	// ClassOther covers valid DICOM instances with nothing to convert.
	ClassOther Class = iota
	// ClassImage is an instance carrying pixel data exportable as JPEG.
	ClassImage
	// ClassEncapsulatedPDF is an instance wrapping an embedded PDF document.
	ClassEncapsulatedPDF
	// ClassPresentationState is a softcopy presentation state referencing
	// image instances elsewhere in the input set.
	ClassPresentationState
)

func (c Class) String() string {
	switch c {
	case ClassImage:
		return "image"
	case ClassEncapsulatedPDF:
		return "encapsulated-pdf"
	case ClassPresentationState:
		return "presentation-state"
	default:
		return "other"
	}
}

// EncapsulatedPDFStorage is the SOP class of instances wrapping a PDF payload.
const EncapsulatedPDFStorage = "1.2.840.10008.5.1.4.1.1.104.1"

// softcopyPresentationStatePrefix covers the softcopy presentation state SOP
// class family (grayscale, color, pseudo-color, blended, ...).
const softcopyPresentationStatePrefix = "1.2.840.10008.5.1.4.1.1.11."

var sopClassNames = map[string]string{
	"1.2.840.10008.5.1.4.1.1.1":        "Computed Radiography Image Storage",
	"1.2.840.10008.5.1.4.1.1.1.1":      "Digital X-Ray Image Storage - For Presentation",
	"1.2.840.10008.5.1.4.1.1.1.1.1":    "Digital X-Ray Image Storage - For Processing",
	"1.2.840.10008.5.1.4.1.1.2":        "CT Image Storage",
	"1.2.840.10008.5.1.4.1.1.2.1":      "Enhanced CT Image Storage",
	"1.2.840.10008.5.1.4.1.1.3.1":      "Ultrasound Multi-frame Image Storage",
	"1.2.840.10008.5.1.4.1.1.4":        "MR Image Storage",
	"1.2.840.10008.5.1.4.1.1.4.1":      "Enhanced MR Image Storage",
	"1.2.840.10008.5.1.4.1.1.6.1":      "Ultrasound Image Storage",
	"1.2.840.10008.5.1.4.1.1.7":        "Secondary Capture Image Storage",
	"1.2.840.10008.5.1.4.1.1.7.2":      "Multi-frame Grayscale Byte Secondary Capture Image Storage",
	"1.2.840.10008.5.1.4.1.1.9.1.1":    "12-lead ECG Waveform Storage",
	"1.2.840.10008.5.1.4.1.1.11.1":     "Grayscale Softcopy Presentation State Storage",
	"1.2.840.10008.5.1.4.1.1.11.2":     "Color Softcopy Presentation State Storage",
	"1.2.840.10008.5.1.4.1.1.12.1":     "X-Ray Angiographic Image Storage",
	"1.2.840.10008.5.1.4.1.1.20":       "Nuclear Medicine Image Storage",
	"1.2.840.10008.5.1.4.1.1.66":       "Raw Data Storage",
	"1.2.840.10008.5.1.4.1.1.77.1.5.1": "Ophthalmic Photography 8 Bit Image Storage",
	"1.2.840.10008.5.1.4.1.1.88.11":    "Basic Text SR Storage",
	"1.2.840.10008.5.1.4.1.1.88.22":    "Enhanced SR Storage",
	"1.2.840.10008.5.1.4.1.1.88.33":    "Comprehensive SR Storage",
	"1.2.840.10008.5.1.4.1.1.88.59":    "Key Object Selection Document Storage",
	"1.2.840.10008.5.1.4.1.1.104.1":    "Encapsulated PDF Storage",
	"1.2.840.10008.5.1.4.1.1.104.2":    "Encapsulated CDA Storage",
	"1.2.840.10008.5.1.4.1.1.128":      "Positron Emission Tomography Image Storage",
	"1.2.840.10008.5.1.4.1.1.481.1":    "RT Image Storage",
	"1.2.840.10008.5.1.4.1.1.481.2":    "RT Dose Storage",
	"1.2.840.10008.5.1.4.1.1.481.3":    "RT Structure Set Storage",
	"1.2.840.10008.5.1.4.1.1.481.5":    "RT Plan Storage",
}

// SOPClassName returns the human-readable name for a SOP class UID.
func SOPClassName(uid string) string {
	if name, ok := sopClassNames[strings.TrimSpace(uid)]; ok {
		return name
	}
	return "Unknown SOP Class"
}

// IsPresentationState reports whether the SOP class UID belongs to the
// softcopy presentation state family.
func IsPresentationState(uid string) bool {
	return strings.HasPrefix(strings.TrimSpace(uid), softcopyPresentationStatePrefix)
}

// Classify assigns the conversion category from header facts alone. Pixel
// data wins over everything else; an encapsulated document only counts for
// the Encapsulated PDF SOP class; a presentation state only counts when it
// actually references other instances.
func Classify(sopClassUID string, hasPixelData, hasDocument bool, referenced int) Class {
	switch {
	case hasPixelData:
		return ClassImage
	case strings.TrimSpace(sopClassUID) == EncapsulatedPDFStorage && hasDocument:
		return ClassEncapsulatedPDF
	case IsPresentationState(sopClassUID) && referenced > 0:
		return ClassPresentationState
	default:
		return ClassOther
	}
}
