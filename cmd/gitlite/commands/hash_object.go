package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gitlite/pkg/app"
	"gitlite/pkg/config"
	"gitlite/pkg/core"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

var (
	hashWrite bool
	hashStdin bool
)

var hashObjectCmd = &cobra.Command{
	Use:   "hash-object [-w] (--stdin | <file>...)",
	Short: "Compute object ids and optionally store blobs",
	Long: `Compute the blob id of each file (sha1 of "blob <size>\0<content>") and print
one id per line, in argument order. With -w the objects are also written.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if hashStdin && len(args) > 0 {
			return errors.New("--stdin cannot be combined with file arguments")
		}
		if !hashStdin && len(args) == 0 {
			return errors.New("requires at least one file (or --stdin)")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// 1. 准备 seal/write 函数
		// 不带 -w 时不需要仓库，只需要 codec
		var (
			seal  func(payload []byte) (*core.Sealed, error)
			write func(ctx context.Context, obj core.Object) error
		)
		if hashWrite {
			a, err := loadApp(ctx)
			if err != nil {
				return err
			}
			seal = func(p []byte) (*core.Sealed, error) { return a.Objects.Seal(core.TypeBlob, p) }
			write = a.Objects.Write
		} else {
			codec, err := app.NewCodec()
			if err != nil {
				return err
			}
			seal = func(p []byte) (*core.Sealed, error) { return codec.Seal(core.TypeBlob, p) }
		}

		// 2. --stdin
		if hashStdin {
			payload, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			id, err := hashOne(ctx, payload, seal, write)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		}

		// 3. 多个文件并发处理，按参数顺序输出
		ids := make([]string, len(args))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(max(1, viper.GetInt(config.KeyHashWorkers)))
		for i, path := range args {
			g.Go(func() error {
				payload, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("cannot read %s: %w", path, err)
				}
				id, err := hashOne(gctx, payload, seal, write)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				ids[i] = id
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, id := range ids {
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	},
}

func hashOne(ctx context.Context, payload []byte, seal func([]byte) (*core.Sealed, error), write func(context.Context, core.Object) error) (string, error) {
	sealed, err := seal(payload)
	if err != nil {
		return "", err
	}
	if write != nil {
		if err := write(ctx, sealed); err != nil {
			return "", err
		}
	}
	return sealed.ID().String(), nil
}

func init() {
	hashObjectCmd.Flags().BoolVarP(&hashWrite, "write", "w", false, "write the object into the object database")
	hashObjectCmd.Flags().BoolVar(&hashStdin, "stdin", false, "read the object from standard input")
	rootCmd.AddCommand(hashObjectCmd)
}
