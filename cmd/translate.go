/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/valpere/filetran/internal"
	"github.com/valpere/filetran/internal/detector"
	"github.com/valpere/filetran/internal/fileio"
	"github.com/valpere/filetran/internal/logger"
	"github.com/valpere/filetran/internal/orchestrator"
	"github.com/valpere/filetran/internal/translator"
	"github.com/valpere/filetran/internal/validator"
)

var (
	inputFile   string
	outputFile  string
	sourceLang  string
	targetLang  string
	guessSource bool
	checkOutput bool
)

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a text file",
	Long: `Translate the contents of a text file with the Google Cloud Translation
v2 API and write the result to the output file.

The source language is detected by the API unless --source is given.
--guess-source detects it locally before the request is sent.

The API key is read from --api-key, GOOGLE_TRANSLATE_API_KEY,
FILETRAN_API_KEY or the api_key entry of the config file.`,
	Example: `  filetran translate -i note.txt -o note.uk.txt -t uk
  filetran translate -i note.txt -o note.de.txt -t de -s en -v`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadSettings(viper.GetViper())
		job := internal.NewTranslationJob(inputFile, outputFile, sourceLang, targetLang, cfg.Verbose)

		level := logger.Verbosity(logger.ParseLevel(cfg.LogLevel), cfg.Verbose)
		log := logger.New(cmd.ErrOrStderr(), cfg.LogLevel).Level(level).
			With().Str("job_id", job.ID).Logger()

		run := translateRun{
			files: fileio.New(afero.NewOsFs()),
			out:   cmd.OutOrStdout(),
			log:   log,
		}
		if guessSource || checkOutput {
			det := detector.New()
			if guessSource {
				run.detect = det.DetectISO
			}
			if checkOutput {
				run.check = validator.New(det).Check
			}
		}

		return run.execute(cmd.Context(), job, cfg)
	},
}

// translateRun carries the collaborators of one translate invocation.
type translateRun struct {
	files  *fileio.Files
	out    io.Writer
	log    zerolog.Logger
	detect func(string) (string, bool)
	check  func(output, target string) error
}

func (r translateRun) execute(ctx context.Context, job internal.TranslationJob, cfg settings) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	if strings.TrimSpace(job.TargetLang) == "" {
		return fmt.Errorf("target language is required")
	}
	if r.files.SamePath(job.InputPath, job.OutputPath) {
		return fmt.Errorf("input file and output file cannot be the same")
	}

	if job.Verbose {
		r.log.Info().
			Str("input", job.InputPath).
			Str("output", job.OutputPath).
			Str("target", job.TargetLang).
			Str("source", sourceLabel(job.SourceLang)).
			Msg("Translating file")
	}

	text, err := r.files.ReadFile(job.InputPath)
	if err != nil {
		return err
	}

	if job.Verbose {
		chars := len([]rune(text))
		if size, err := r.files.Size(job.InputPath); err != nil {
			r.log.Debug().Err(err).Msg("Could not stat input file")
			r.log.Info().Msgf("Read %d characters", chars)
		} else {
			r.log.Info().Msgf("Read %d characters (%s)", chars, humanize.Bytes(uint64(size)))
		}
		if r.files.Exists(job.OutputPath) {
			r.log.Info().Str("output", job.OutputPath).Msg("Output file exists and will be replaced")
		}
	}

	if job.Source() == nil && r.detect != nil {
		if detected, ok := r.detect(text); ok {
			job.SourceLang = detected
			r.log.Info().Str("source", detected).Msg("Guessed source language")
		}
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	service := translator.NewGoogleService(cfg.APIKey,
		translator.WithBaseURL(cfg.BaseURL),
		translator.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
		translator.WithLogger(r.log),
	)

	orchCfg := cfg.orchestratorConfig()
	if job.Verbose {
		orchCfg.OnRetry = func(ev orchestrator.RetryEvent) {
			r.log.Warn().
				Err(ev.Err).
				Msgf("Rate limit exceeded. Waiting %s before retry (attempt %d/%d)",
					ev.Delay.Round(time.Millisecond), ev.Attempt, ev.MaxRetries)
		}
	}

	orch := orchestrator.New(service, orchCfg)

	r.log.Debug().Int("chars", len(text)).Msg("Sending translation request")

	result, err := orch.Translate(ctx, text, job.TargetLang, job.Source())
	if err != nil {
		return fmt.Errorf("translation failed: %w", err)
	}

	if err := r.files.WriteFile(job.OutputPath, result.TranslatedText); err != nil {
		return err
	}

	if r.check != nil {
		if err := r.check(result.TranslatedText, job.TargetLang); err != nil {
			r.log.Warn().Err(err).Str("target", job.TargetLang).Msg("Output language check failed")
		}
	}

	fmt.Fprintln(r.out, "Translation successful!")
	fmt.Fprintf(r.out, "  %s → %s\n", job.InputPath, job.OutputPath)

	if job.Verbose {
		if result.HasDetectedSource() {
			r.log.Info().Str("source", result.DetectedSourceLanguage).Msg("Detected source language")
		}
		r.log.Info().
			Str("output", job.OutputPath).
			Str("elapsed", time.Since(job.Timestamp).Round(time.Millisecond).String()).
			Msg("Saved translation")
	}

	return nil
}

func sourceLabel(lang string) string {
	if lang == "" || lang == "auto" {
		return "auto-detect"
	}
	return lang
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input text file (required)")
	translateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (required)")
	translateCmd.Flags().StringVarP(&targetLang, "target", "t", "", "Target language code, e.g. uk, de, fr (required)")
	translateCmd.Flags().StringVarP(&sourceLang, "source", "s", "", "Source language code (default: detected by the API)")
	translateCmd.Flags().BoolVar(&guessSource, "guess-source", false, "Detect the source language locally when --source is not set")
	translateCmd.Flags().BoolVar(&checkOutput, "check-output", false, "Warn when the output does not look like the target language")

	translateCmd.Flags().String("api-key", "", "Google Cloud Translation API key")
	translateCmd.Flags().BoolP("verbose", "v", false, "Show progress and retry details")
	translateCmd.Flags().Duration("timeout", 0, "Overall deadline including retries (0 disables)")
	translateCmd.Flags().Int("max-retries", orchestrator.DefaultMaxRetries, "Retries after rate-limit responses")
	translateCmd.Flags().String("classifier", "structured", "Retry policy: structured or message")

	viper.BindPFlag("api_key", translateCmd.Flags().Lookup("api-key"))
	viper.BindPFlag("verbose", translateCmd.Flags().Lookup("verbose"))
	viper.BindPFlag("timeout", translateCmd.Flags().Lookup("timeout"))
	viper.BindPFlag("retry.max_retries", translateCmd.Flags().Lookup("max-retries"))
	viper.BindPFlag("retry.classifier", translateCmd.Flags().Lookup("classifier"))

	translateCmd.MarkFlagRequired("input")
	translateCmd.MarkFlagRequired("output")
	translateCmd.MarkFlagRequired("target")
}
