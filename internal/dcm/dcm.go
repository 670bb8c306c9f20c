// Package dcm wraps the DICOM parsing library behind the small surface the
// conversion pipeline needs: header inspection for classification, pixel
// rendering to JPEG, and encapsulated document extraction.
package dcm

import (
	"fmt"
	"strings"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// Float and double-float pixel data live outside the generated tag
// dictionary constants, so they are spelled out here.
var (
	tagFloatPixelData       = tag.Tag{Group: 0x7FE0, Element: 0x0008}
	tagDoubleFloatPixelData = tag.Tag{Group: 0x7FE0, Element: 0x0009}
)

// Instance is the header-level view of one DICOM file, enough to decide how
// (or whether) to convert it.
type Instance struct {
	Path           string
	SOPClassUID    string
	SOPInstanceUID string
	Modality       string
	Class          Class
	ReferencedUIDs []string
}

// SOPClassName returns the display name of the instance's SOP class.
func (in Instance) SOPClassName() string {
	return SOPClassName(in.SOPClassUID)
}

// Decoder reads DICOM files via github.com/suyashkumar/dicom.
type Decoder struct{}

// NewDecoder returns a ready Decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Inspect parses the file's dataset without decoding pixel values and
// classifies it. The inspection writes nothing and holds no state, so the
// resulting Class is a pure function of the file content.
func (d *Decoder) Inspect(path string) (Instance, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return Instance{}, fmt.Errorf("parse %s: %w", path, err)
	}

	inst := Instance{
		Path:           path,
		SOPClassUID:    elementString(&ds, tag.SOPClassUID),
		SOPInstanceUID: elementString(&ds, tag.SOPInstanceUID),
		Modality:       elementString(&ds, tag.Modality),
	}
	if inst.Modality == "" {
		inst.Modality = "Unknown"
	}

	hasPixels := hasElement(&ds, tag.PixelData) ||
		hasElement(&ds, tagFloatPixelData) ||
		hasElement(&ds, tagDoubleFloatPixelData)
	hasDoc := hasElement(&ds, tag.EncapsulatedDocument)
	inst.ReferencedUIDs = referencedInstances(&ds)
	inst.Class = Classify(inst.SOPClassUID, hasPixels, hasDoc, len(inst.ReferencedUIDs))

	return inst, nil
}

// ExtractDocument returns the raw encapsulated document payload.
func (d *Decoder) ExtractDocument(path string) ([]byte, error) {
	ds, err := dicom.ParseFile(path, nil, dicom.SkipPixelData())
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	el, err := ds.FindElementByTag(tag.EncapsulatedDocument)
	if err != nil {
		return nil, fmt.Errorf("%s: no encapsulated document", path)
	}
	data, ok := el.Value.GetValue().([]byte)
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("%s: empty encapsulated document", path)
	}
	return data, nil
}

func hasElement(ds *dicom.Dataset, t tag.Tag) bool {
	_, err := ds.FindElementByTag(t)
	return err == nil
}

func elementString(ds *dicom.Dataset, t tag.Tag) string {
	el, err := ds.FindElementByTag(t)
	if err != nil {
		return ""
	}
	vals, ok := el.Value.GetValue().([]string)
	if !ok || len(vals) == 0 {
		return ""
	}
	return strings.TrimSpace(vals[0])
}

// referencedInstances collects ReferencedSOPInstanceUID values reachable
// through the ReferencedSeriesSequence, looking in both the ReferencedSOP
// and ReferencedImage nesting variants presentation states use.
func referencedInstances(ds *dicom.Dataset) []string {
	series, err := ds.FindElementByTag(tag.ReferencedSeriesSequence)
	if err != nil {
		return nil
	}
	items, ok := series.Value.GetValue().([]*dicom.SequenceItemValue)
	if !ok {
		return nil
	}

	var uids []string
	for _, item := range items {
		elements, ok := item.GetValue().([]*dicom.Element)
		if !ok {
			continue
		}
		for _, el := range elements {
			if el.Tag != tag.ReferencedSOPSequence && el.Tag != tag.ReferencedImageSequence {
				continue
			}
			refs, ok := el.Value.GetValue().([]*dicom.SequenceItemValue)
			if !ok {
				continue
			}
			for _, ref := range refs {
				refEls, ok := ref.GetValue().([]*dicom.Element)
				if !ok {
					continue
				}
				for _, refEl := range refEls {
					if refEl.Tag != tag.ReferencedSOPInstanceUID {
						continue
					}
					if vals, ok := refEl.Value.GetValue().([]string); ok && len(vals) > 0 {
						if uid := strings.TrimSpace(vals[0]); uid != "" {
							uids = append(uids, uid)
						}
					}
				}
			}
		}
	}
	return uids
}
