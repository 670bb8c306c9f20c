package dcmutil

import (
	"errors"
	"io"
	"os"
)

// Kind identifies a recognized file type.
type Kind int

const (
	KindUnknown Kind = iota
	KindDICOM
	KindJPEG
	KindPDF
)

func (k Kind) String() string {
	switch k {
	case KindDICOM:
		return "dicom"
	case KindJPEG:
		return "jpeg"
	case KindPDF:
		return "pdf"
	default:
		return "unknown"
	}
}

// A DICOM Part-10 file opens with a 128-byte preamble followed by "DICM".
const (
	preambleLen = 128
	headerLen   = preambleLen + 4
)

var (
	dicmMagic = []byte{'D', 'I', 'C', 'M'}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	pdfSig    = []byte{'%', 'P', 'D', 'F', '-'}
)

// DetectHeader inspects the leading bytes of a file for known signatures.
// DICOM detection needs the full 132-byte header; JPEG and PDF need only
// the first few bytes.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < len(pdfSig) {
		return KindUnknown, errors.New("header too short")
	}

	if hasPrefix(header, jpegSig) {
		return KindJPEG, nil
	}
	if hasPrefix(header, pdfSig) {
		return KindPDF, nil
	}
	if len(header) >= headerLen && hasPrefix(header[preambleLen:], dicmMagic) {
		return KindDICOM, nil
	}

	return KindUnknown, nil
}

// SniffFile reads the header of a file to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads up to 132 bytes from r and determines its type.
// Files shorter than a DICOM header can still match the other signatures.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, headerLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return KindUnknown, err
	}

	return DetectHeader(header[:n])
}

func hasPrefix(buf, prefix []byte) bool {
	if len(buf) < len(prefix) {
		return false
	}
	for i := range prefix {
		if buf[i] != prefix[i] {
			return false
		}
	}
	return true
}
