package cmd

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// versionCmd prints build details and the config file in use.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gitasana.",
	Long:  `Display the release version, git commit, build timestamp, Go runtime and platform, plus the config file that was loaded.`,
	PreRunE: func(_ *cobra.Command, _ []string) error {
		return loadConfigFile()
	},
	Run: func(cmd *cobra.Command, _ []string) {
		configFile := viper.ConfigFileUsed()
		if configFile == "" {
			configFile = "(none)"
		}
		cmd.Printf("gitasana CLI\n")
		cmd.Printf("  Version:  %s\n", version)
		cmd.Printf("  Commit:   %s\n", commit)
		cmd.Printf("  Built:    %s\n", date)
		cmd.Printf("  Runtime:  %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
		cmd.Printf("  Config:   %s\n", configFile)
	},
}
