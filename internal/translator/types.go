package translator

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// TextFormat is the only payload format sent to the API.
const TextFormat = "text"

// ErrInvalidRequest is returned for requests that cannot be sent.
var ErrInvalidRequest = errors.New("invalid translation request")

// TranslateRequest is the JSON body of a translate call. A nil Source asks the
// API to detect the source language; it is omitted from the payload rather
// than sent as null or "".
type TranslateRequest struct {
	Q      string  `json:"q"`
	Target string  `json:"target"`
	Source *string `json:"source,omitempty"`
	Format string  `json:"format"`
}

// NewTranslateRequest builds a request with the format fixed to "text".
func NewTranslateRequest(text, target string, source *string) TranslateRequest {
	return TranslateRequest{
		Q:      text,
		Target: target,
		Source: source,
		Format: TextFormat,
	}
}

// Validate checks that text and target are present and that the language
// codes parse as BCP 47 tags.
func (r TranslateRequest) Validate() error {
	if r.Q == "" {
		return fmt.Errorf("%w: text is empty", ErrInvalidRequest)
	}
	if strings.TrimSpace(r.Target) == "" {
		return fmt.Errorf("%w: target language is empty", ErrInvalidRequest)
	}
	if _, err := language.Parse(r.Target); err != nil {
		return fmt.Errorf("%w: invalid target language %q: %v", ErrInvalidRequest, r.Target, err)
	}
	if r.Source != nil && *r.Source != "" {
		if _, err := language.Parse(*r.Source); err != nil {
			return fmt.Errorf("%w: invalid source language %q: %v", ErrInvalidRequest, *r.Source, err)
		}
	}
	return nil
}

// TranslateResponse mirrors the v2 success body:
//
//	{"data": {"translations": [{"translatedText": "...", "detectedSourceLanguage": "en"}]}}
type TranslateResponse struct {
	Data TranslateData `json:"data"`
}

type TranslateData struct {
	Translations []Translation `json:"translations"`
}

type Translation struct {
	TranslatedText         string `json:"translatedText"`
	DetectedSourceLanguage string `json:"detectedSourceLanguage,omitempty"`
}

// Result converts the first translation entry into a TranslationResult.
func (r *TranslateResponse) Result() (*TranslationResult, error) {
	if r == nil || len(r.Data.Translations) == 0 {
		return nil, ErrEmptyResult
	}
	first := r.Data.Translations[0]
	return &TranslationResult{
		TranslatedText:         first.TranslatedText,
		DetectedSourceLanguage: first.DetectedSourceLanguage,
	}, nil
}

// TranslationResult is what a successful translate call hands back.
// DetectedSourceLanguage is empty unless the API auto-detected the source.
type TranslationResult struct {
	TranslatedText         string `json:"translated_text"`
	DetectedSourceLanguage string `json:"detected_source_language,omitempty"`
}

func (r *TranslationResult) HasDetectedSource() bool {
	return r.DetectedSourceLanguage != ""
}
