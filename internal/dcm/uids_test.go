package dcm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		sopClass   string
		hasPixels  bool
		hasDoc     bool
		referenced int
		want       Class
	}{
		{"ct image", "1.2.840.10008.5.1.4.1.1.2", true, false, 0, ClassImage},
		{"pixels win over document", EncapsulatedPDFStorage, true, true, 0, ClassImage},
		{"encapsulated pdf", EncapsulatedPDFStorage, false, true, 0, ClassEncapsulatedPDF},
		{"pdf sop class without payload", EncapsulatedPDFStorage, false, false, 0, ClassOther},
		{"grayscale presentation state", "1.2.840.10008.5.1.4.1.1.11.1", false, false, 2, ClassPresentationState},
		{"presentation state without references", "1.2.840.10008.5.1.4.1.1.11.1", false, false, 0, ClassOther},
		{"structured report", "1.2.840.10008.5.1.4.1.1.88.11", false, false, 0, ClassOther},
		{"empty header", "", false, false, 0, ClassOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.sopClass, tt.hasPixels, tt.hasDoc, tt.referenced)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSOPClassName(t *testing.T) {
	assert.Equal(t, "CT Image Storage", SOPClassName("1.2.840.10008.5.1.4.1.1.2"))
	assert.Equal(t, "Encapsulated PDF Storage", SOPClassName(EncapsulatedPDFStorage))
	assert.Equal(t, "Unknown SOP Class", SOPClassName("9.9.9"))
	assert.Equal(t, "Unknown SOP Class", SOPClassName(""))

	// UID strings arrive padded from fixed-width DICOM fields.
	assert.Equal(t, "MR Image Storage", SOPClassName("1.2.840.10008.5.1.4.1.1.4 "))
}

func TestIsPresentationState(t *testing.T) {
	assert.True(t, IsPresentationState("1.2.840.10008.5.1.4.1.1.11.1"))
	assert.True(t, IsPresentationState("1.2.840.10008.5.1.4.1.1.11.2"))
	assert.False(t, IsPresentationState("1.2.840.10008.5.1.4.1.1.2"))
	assert.False(t, IsPresentationState(""))
}
