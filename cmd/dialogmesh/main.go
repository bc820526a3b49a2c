// Package main is the dialogmesh command line. It runs the dialogue HTTP
// service and a small interactive client for it.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	logLevel string
	verbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "dialogmesh",
	Short: "LLM driven dialogue service for voice assistants",
	Long: `dialogmesh turns a user utterance into a reply and a list of device
directives by asking a language model, decoding its call_function
instructions and dispatching them to registered providers.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level=debug")

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to the YAML config file")
	serveCmd.Flags().IntVarP(&listenPort, "port", "p", 0, "Override the configured listen port")

	chatCmd.Flags().StringVar(&chatEndpoint, "endpoint", "http://localhost:8080/process", "URL of the /process endpoint")
	chatCmd.Flags().StringVar(&chatAge, "age", "adult", "Age class sent with every turn")
	chatCmd.Flags().StringVar(&chatGender, "gender", "male", "Gender class sent with every turn")
	chatCmd.Flags().StringVar(&chatSession, "session", "", "Resume an existing session id")

	rootCmd.AddCommand(serveCmd, chatCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
