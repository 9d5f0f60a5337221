package commands

import (
	"fmt"
	"path/filepath"

	"gitlite/pkg/config"
	"gitlite/pkg/repo"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create an empty repository",
	Long: `Create the repository skeleton (objects/, refs/ and HEAD) in ./.git or --repo.
Running init against an existing repository fails; nothing is modified.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := filepath.Abs(viper.GetString(config.KeyRepoPath))
		if err != nil {
			return err
		}

		if _, err := repo.Init(root); err != nil {
			return fmt.Errorf("init failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Initialized empty repository in %s\n", root)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
