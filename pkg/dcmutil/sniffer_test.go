package dcmutil

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func dicomHeader(extra []byte) []byte {
	buf := make([]byte, preambleLen)
	buf = append(buf, 'D', 'I', 'C', 'M')
	return append(buf, extra...)
}

func TestDetectHeader(t *testing.T) {
	tests := []struct {
		name   string
		header []byte
		want   Kind
	}{
		{"dicom", dicomHeader(nil), KindDICOM},
		{"dicom with data", dicomHeader([]byte{0x02, 0x00, 0x00, 0x00}), KindDICOM},
		{"jpeg", []byte{0xff, 0xd8, 0xff, 0xe0, 0x00}, KindJPEG},
		{"pdf", []byte("%PDF-1.4\n"), KindPDF},
		{"garbage", bytes.Repeat([]byte{0xab}, headerLen), KindUnknown},
		{"zero preamble without magic", make([]byte, headerLen), KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectHeader(tt.header)
			if err != nil {
				t.Fatalf("detect: %v", err)
			}
			if got != tt.want {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectHeaderTooShort(t *testing.T) {
	if _, err := DetectHeader([]byte{0xff}); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestSniffFile(t *testing.T) {
	dir := t.TempDir()

	dcm := filepath.Join(dir, "a.dcm")
	if err := os.WriteFile(dcm, dicomHeader([]byte("rest")), 0o644); err != nil {
		t.Fatal(err)
	}
	kind, err := SniffFile(dcm)
	if err != nil {
		t.Fatalf("sniff: %v", err)
	}
	if kind != KindDICOM {
		t.Fatalf("got %v, want KindDICOM", kind)
	}

	// Short non-DICOM files still sniff cleanly.
	small := filepath.Join(dir, "small.dcm")
	if err := os.WriteFile(small, []byte("%PDF-1.7"), 0o644); err != nil {
		t.Fatal(err)
	}
	kind, err = SniffFile(small)
	if err != nil {
		t.Fatalf("sniff small: %v", err)
	}
	if kind != KindPDF {
		t.Fatalf("got %v, want KindPDF", kind)
	}
}
