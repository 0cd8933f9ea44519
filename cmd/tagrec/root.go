package main

import (
	"github.com/spf13/cobra"

	"github.com/rushteam/tagrec/config"
	"github.com/rushteam/tagrec/pkg/logx"
)

// options 是所有子命令共享的全局参数与加载后的配置。
type options struct {
	configPath string
	logLevel   string
	logFormat  string
	storeType  string
	storePath  string

	cfg *config.App
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:           "tagrec",
		Short:         "Content-based item recommender using TF-IDF tag vectors",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: tagrec.yaml if present)")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: console|json")
	flags.StringVar(&opts.storeType, "store", "", "model snapshot store: memory|redis|bolt|sqlite")
	flags.StringVar(&opts.storePath, "store-path", "", "file path for bolt/sqlite stores")

	rootCmd.AddCommand(recommendCmd(opts))
	rootCmd.AddCommand(scoreCmd(opts))
	rootCmd.AddCommand(buildCmd(opts))
	rootCmd.AddCommand(inspectCmd(opts))

	return rootCmd
}

// load 读取配置，命令行参数优先于配置文件和环境变量。
func (o *options) load(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.logFormat != "" {
		cfg.Log.Format = o.logFormat
	}
	if o.storeType != "" {
		cfg.Store.Driver = o.storeType
	}
	if o.storePath != "" {
		cfg.Store.Path = o.storePath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	cfg.Log.Output = cmd.ErrOrStderr()
	logx.Init(cfg.Log)

	o.cfg = cfg
	return nil
}
