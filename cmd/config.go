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
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/valpere/filetran/internal/orchestrator"
	"github.com/valpere/filetran/internal/translator"
)

// settings is the resolved configuration for one run.
type settings struct {
	APIKey       string
	BaseURL      string
	HTTPTimeout  time.Duration
	Timeout      time.Duration
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Classifier   string
	LogLevel     string
	Verbose      bool
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", translator.DefaultBaseURL)
	v.SetDefault("http.timeout", 30*time.Second)
	v.SetDefault("timeout", time.Duration(0))
	v.SetDefault("retry.max_retries", orchestrator.DefaultMaxRetries)
	v.SetDefault("retry.initial_delay", orchestrator.DefaultInitialDelay)
	v.SetDefault("retry.max_delay", orchestrator.DefaultMaxDelay)
	v.SetDefault("retry.classifier", "structured")
	v.SetDefault("log.level", "warn")
}

// initConfig reads the config file and wires environment variables.
// The API key may come from GOOGLE_TRANSLATE_API_KEY or FILETRAN_API_KEY.
func initConfig(cfgFile string) {
	setDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".filetran")
	}

	viper.SetEnvPrefix("FILETRAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	viper.BindEnv("api_key", "FILETRAN_API_KEY", "GOOGLE_TRANSLATE_API_KEY")

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	} else if cfgFile != "" {
		fmt.Fprintf(os.Stderr, "Failed to read config file %s: %v\n", cfgFile, err)
	}
}

func loadSettings(v *viper.Viper) settings {
	return settings{
		APIKey:       strings.TrimSpace(v.GetString("api_key")),
		BaseURL:      v.GetString("api.base_url"),
		HTTPTimeout:  v.GetDuration("http.timeout"),
		Timeout:      v.GetDuration("timeout"),
		MaxRetries:   v.GetInt("retry.max_retries"),
		InitialDelay: v.GetDuration("retry.initial_delay"),
		MaxDelay:     v.GetDuration("retry.max_delay"),
		Classifier:   v.GetString("retry.classifier"),
		LogLevel:     v.GetString("log.level"),
		Verbose:      v.GetBool("verbose"),
	}
}

func (s settings) validate() error {
	if s.APIKey == "" {
		return fmt.Errorf("API key required: use --api-key or set GOOGLE_TRANSLATE_API_KEY")
	}
	if s.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", s.MaxRetries)
	}
	if s.InitialDelay > s.MaxDelay {
		return fmt.Errorf("retry.initial_delay (%s) exceeds retry.max_delay (%s)", s.InitialDelay, s.MaxDelay)
	}
	return nil
}

// orchestratorConfig maps settings onto the retry loop. Zero retries in the
// settings means no retries, which New expresses as a negative count.
func (s settings) orchestratorConfig() orchestrator.OrchestratorConfig {
	maxRetries := s.MaxRetries
	if maxRetries == 0 {
		maxRetries = -1
	}
	return orchestrator.OrchestratorConfig{
		MaxRetries:   maxRetries,
		InitialDelay: s.InitialDelay,
		MaxDelay:     s.MaxDelay,
		Classify:     translator.ClassifierByName(s.Classifier),
	}
}
