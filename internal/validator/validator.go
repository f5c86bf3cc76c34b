// Package validator checks that translated output is written in the
// requested target language.
package validator

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// minLength is the rune count below which detection is too unreliable to
// judge; shorter output always passes.
const minLength = 20

var ErrEmptyOutput = errors.New("translation is empty")

// Detector reports the ISO 639-1 code of the language text is written in.
type Detector interface {
	DetectISO(text string) (string, bool)
}

// MismatchError names the requested and the detected language.
type MismatchError struct {
	Target   string
	Detected string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("expected %s but detected %s", e.Target, e.Detected)
}

type Validator struct {
	det Detector
}

func New(det Detector) *Validator {
	return &Validator{det: det}
}

// Check returns nil when output appears to be in target. Region and script
// subtags of target are ignored, so "zh-TW" matches detected "zh". Output
// whose language cannot be determined passes.
func (v *Validator) Check(output, target string) error {
	if strings.TrimSpace(target) == "" {
		return nil
	}

	text := strings.TrimSpace(output)
	if text == "" {
		return ErrEmptyOutput
	}
	if len([]rune(text)) < minLength {
		return nil
	}

	detected, ok := v.det.DetectISO(text)
	if !ok {
		return nil
	}

	if !strings.EqualFold(baseLanguage(detected), baseLanguage(target)) {
		return &MismatchError{Target: target, Detected: detected}
	}
	return nil
}

func baseLanguage(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	base, _ := tag.Base()
	return base.String()
}
