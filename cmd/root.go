package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "lexaid",
	Short: "AI legal assistant for Nigerian police-encounter law",
	Long: `Lexaid is a legal assistant focused on Nigerian law around police
searches, arrests, seizures and assaults. It tracks each conversation's
facts and timeline, matches them against a statute catalog, and answers
through a retrieval backend with an LLM fallback.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".lexaid.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
