package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var appversion = "0.1.0"

func main() {
	root := &cobra.Command{
		Use:           "gptstamp",
		Short:         "Stamp GPT partition tables into raw disk images",
		Version:       appversion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logrus.SetLevel(logrus.DebugLevel)
		}
	}
	root.AddCommand(stampCmd())

	if err := root.Execute(); err != nil {
		logrus.Fatal(err)
	}
}
