package commands

import (
	"errors"
	"fmt"

	"gitlite/pkg/exporter"
	"gitlite/pkg/storage"

	"github.com/spf13/cobra"
)

var (
	catPretty bool
	catType   bool
	catSize   bool
	catExists bool
)

var catFileCmd = &cobra.Command{
	Use:   "cat-file (-p | -t | -s | -e) <object>",
	Short: "Provide content, type or size of a stored object",
	Long: `Read an object by its id (full 40 hex characters, or an unambiguous prefix of
at least 4) and print it. -p writes the raw payload bytes to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, existsOnly, err := catMode()
		if err != nil {
			return err
		}

		a, err := loadApp(cmd.Context())
		if err != nil {
			return err
		}
		exp := exporter.NewExporter(a.Objects)

		if existsOnly {
			ok, err := exp.Exists(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%s: %w", args[0], storage.ErrNotFound)
			}
			return nil
		}

		// writer 设置为 stdout, 二进制内容可以通过 > file 重定向
		return exp.PrintObject(cmd.Context(), args[0], mode, cmd.OutOrStdout())
	},
}

// catMode 检查模式参数: 必须且只能有一个
// -e 不打印任何内容, 由 existsOnly 表示
func catMode() (mode exporter.Mode, existsOnly bool, err error) {
	n := 0
	for _, set := range []bool{catPretty, catType, catSize, catExists} {
		if set {
			n++
		}
	}
	if n != 1 {
		return 0, false, errors.New("exactly one of -p, -t, -s or -e is required")
	}

	switch {
	case catExists:
		return 0, true, nil
	case catType:
		return exporter.ModeType, false, nil
	case catSize:
		return exporter.ModeSize, false, nil
	default:
		return exporter.ModePretty, false, nil
	}
}

func init() {
	catFileCmd.Flags().BoolVarP(&catPretty, "pretty", "p", false, "print the object payload")
	catFileCmd.Flags().BoolVarP(&catType, "type", "t", false, "print the object type")
	catFileCmd.Flags().BoolVarP(&catSize, "size", "s", false, "print the object size")
	catFileCmd.Flags().BoolVarP(&catExists, "exists", "e", false, "exit with zero status if the object exists")
	rootCmd.AddCommand(catFileCmd)
}
