package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gitlite/pkg/app"
	"gitlite/pkg/config"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
	// 全局应用实例，供需要仓库的子命令使用 (测试里可以直接注入)
	GL *app.App
)

var rootCmd = &cobra.Command{
	Use:   "gitlite",
	Short: "gitlite: a git-compatible loose object store",
	// main 负责打印错误，避免重复输出
	SilenceErrors: true,
	SilenceUsage:  true,
	// PersistentPreRunE 会在所有子命令执行前运行
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(cmd)
	},
}

// Execute 是入口
func Execute() error {
	defer closeApp()
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./gitlite.yaml or $HOME/.gitlite/gitlite.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on stderr")

	// repo.path 既可以在 yaml 里写，也可以用 --repo 覆盖
	rootCmd.PersistentFlags().String("repo", "", "repository directory (default is ./.git)")
	if err := viper.BindPFlag(config.KeyRepoPath, rootCmd.PersistentFlags().Lookup("repo")); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to bind flag:", err)
		os.Exit(1)
	}
}

// initConfig 读取配置文件和环境变量
func initConfig() {
	if err := config.Load(cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, "Config error:", err)
		os.Exit(1)
	}
}

// setupLogging 日志统一写 stderr, stdout 只留给命令输出
func setupLogging(cmd *cobra.Command) error {
	level, err := config.LogLevel()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

// loadApp 按需初始化 App (hash-object 不带 -w 时不需要仓库)
func loadApp(ctx context.Context) (*app.App, error) {
	if GL != nil {
		return GL, nil
	}
	a, err := app.NewApp(ctx)
	if err != nil {
		return nil, err
	}
	GL = a
	return GL, nil
}

func closeApp() {
	if GL == nil {
		return
	}
	if err := GL.Close(); err != nil {
		slog.Warn("failed to close app", slog.String("err", err.Error()))
	}
	GL = nil
}
