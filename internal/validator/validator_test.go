package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedDetector struct {
	code  string
	ok    bool
	calls int
}

func (d *fixedDetector) DetectISO(string) (string, bool) {
	d.calls++
	return d.code, d.ok
}

const longText = "Це достатньо довгий текст для перевірки мови перекладу."

func TestCheck_EmptyTargetPasses(t *testing.T) {
	det := &fixedDetector{code: "en", ok: true}
	assert.NoError(t, New(det).Check(longText, ""))
	assert.Zero(t, det.calls)
}

func TestCheck_EmptyOutput(t *testing.T) {
	v := New(&fixedDetector{code: "uk", ok: true})

	assert.ErrorIs(t, v.Check("", "uk"), ErrEmptyOutput)
	assert.ErrorIs(t, v.Check(" \n\t", "uk"), ErrEmptyOutput)
}

func TestCheck_ShortOutputSkipsDetection(t *testing.T) {
	det := &fixedDetector{code: "en", ok: true}
	assert.NoError(t, New(det).Check("Привіт", "uk"))
	assert.Zero(t, det.calls)
}

func TestCheck_UndeterminedPasses(t *testing.T) {
	assert.NoError(t, New(&fixedDetector{ok: false}).Check(longText, "uk"))
}

func TestCheck_Match(t *testing.T) {
	tests := []struct {
		name     string
		detected string
		target   string
	}{
		{"exact", "uk", "uk"},
		{"case", "uk", "UK"},
		{"region subtag", "zh", "zh-TW"},
		{"script subtag", "sr", "sr-Latn"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New(&fixedDetector{code: tt.detected, ok: true})
			assert.NoError(t, v.Check(longText, tt.target))
		})
	}
}

func TestCheck_Mismatch(t *testing.T) {
	v := New(&fixedDetector{code: "ru", ok: true})

	err := v.Check(longText, "uk")
	require.Error(t, err)

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "uk", mismatch.Target)
	assert.Equal(t, "ru", mismatch.Detected)
	assert.Equal(t, "expected uk but detected ru", err.Error())
}
