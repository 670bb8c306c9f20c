package cmd

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromptWritesLabelAndTrimsInput(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("  /data/dicom \n"))

	dir, err := prompt(in, &out, "Enter input directory (with DICOM files): ")
	require.NoError(t, err)

	assert.Equal(t, "/data/dicom", dir)
	assert.Equal(t, "Enter input directory (with DICOM files): ", out.String())
}

func TestPromptRejectsEmptyInput(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader("\n"))

	_, err := prompt(in, &out, "Enter output directory (for JPG files): ")
	assert.Error(t, err)
}

func TestPromptReportsClosedInput(t *testing.T) {
	var out bytes.Buffer
	in := bufio.NewReader(strings.NewReader(""))

	_, err := prompt(in, &out, "Enter input directory (with DICOM files): ")
	assert.Error(t, err)
}
