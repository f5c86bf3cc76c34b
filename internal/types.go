package internal

import (
	"time"

	"github.com/google/uuid"
)

// TranslationJob is one CLI invocation: translate InputPath into OutputPath.
// An empty SourceLang means the API detects the source language.
type TranslationJob struct {
	ID         string    `json:"id"`
	InputPath  string    `json:"input_path"`
	OutputPath string    `json:"output_path"`
	SourceLang string    `json:"source_lang,omitempty"`
	TargetLang string    `json:"target_lang"`
	Verbose    bool      `json:"verbose"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewTranslationJob(inputPath, outputPath, sourceLang, targetLang string, verbose bool) TranslationJob {
	return TranslationJob{
		ID:         uuid.New().String(),
		InputPath:  inputPath,
		OutputPath: outputPath,
		SourceLang: sourceLang,
		TargetLang: targetLang,
		Verbose:    verbose,
		Timestamp:  time.Now(),
	}
}

// Source returns the source language for the API, nil meaning auto-detect.
// "auto" is accepted as an explicit spelling of auto-detect.
func (j TranslationJob) Source() *string {
	if j.SourceLang == "" || j.SourceLang == "auto" {
		return nil
	}
	s := j.SourceLang
	return &s
}
