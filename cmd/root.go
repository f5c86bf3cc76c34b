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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "0.1.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "filetran",
	Short: "Translate text files with Google Cloud Translation",
	Long: `A CLI application that translates the contents of a text file with the
Google Cloud Translation v2 API and writes the result to an output file.

Rate-limit and quota responses are retried with exponential backoff
(1s, 2s, 4s, ... capped at 32s, 5 retries by default).

Use "filetran translate --help" for translation options.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initConfig(cfgFile)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.filetran.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error (default warn)")

	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
}
