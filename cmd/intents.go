package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tech-Applywizz-git-account/only-ai-service-folder-autofill-extesnion/services"
)

func init() {
	intentsCmd.Flags().Bool("sharing", false, "Also show which intents the store keeps")
}

var intentsCmd = &cobra.Command{
	Use:   "intents",
	Short: "List the intent taxonomy",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		for _, intent := range services.AllowedIntents() {
			fmt.Fprintln(out, intent)
		}

		sharing, _ := cmd.Flags().GetBool("sharing")
		if !sharing {
			return nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nStored with answers: %s\n", strings.Join(cfg.ShareableIntents, ", "))
		fmt.Fprintf(out, "Stored without answers: %s\n", strings.Join(cfg.PatternOnlyIntents, ", "))
		return nil
	},
}
