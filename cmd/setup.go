package cmd

import (
	"fmt"

	"github.com/futile/cli/config"
	"github.com/futile/cli/ui"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the config directory and a placeholder config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newConfig()
		if err != nil {
			return err
		}
		return setup(c)
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func setup(c Config) error {
	created, err := config.Setup(c.ConfigFile)
	if err != nil {
		ui.ErrorMsg("Setup failed", nil, fmt.Sprintf("Check that %s is writable", c.AppDir))
		return err
	}

	if !created {
		ui.Detail(fmt.Sprintf("Config already exists at %s", ui.Primary.Render(c.ConfigFile)))
		return nil
	}

	c.Logger.Info("Created config", "path", c.ConfigFile)
	ui.SuccessMsg(fmt.Sprintf("Created %s", ui.Primary.Render(c.ConfigFile)))
	ui.Printf("  %s Add your backup tasks to it, then run %s\n", ui.Dim.Render("Tip:"), ui.Bold.Render("futile backup"))
	return nil
}
