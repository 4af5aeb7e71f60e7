package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver"
	"github.com/vmlinuzx/peekaboo-mcp/filesystemserver/config"
)

func main() {
	if err := newApp(viper.New()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(v *viper.Viper) *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "peekaboo-mcp [ROOT]",
		Short: "Read-only filesystem MCP server confined to a single root directory",
		Long: `Serve a read-only view of ROOT over the Model Context Protocol on stdio.

ROOT defaults to the current working directory. Every setting can also be
given as a PEEKABOO_* environment variable, e.g. PEEKABOO_MAX_DEPTH=5.`,
		Version:       filesystemserver.Version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				return nil
			}
			v.SetConfigFile(configFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config file: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), v, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (yaml, json or toml)")
	flags.String(config.KeyRoot, "", "root directory to serve (default: current directory)")
	flags.Bool(config.KeyRecursive, true, "list directories recursively")
	flags.Int(config.KeyMaxDepth, 10, "maximum recursion depth")
	flags.Int64(config.KeyTimeoutMs, 30000, "per-operation timeout in milliseconds, 0 disables")
	flags.String(config.KeyMaxFileSize, "10MiB", "largest file that may be read, 0 disables")
	flags.String(config.KeyMaxTotalSize, "100MiB", "largest byte total per request, 0 disables")
	flags.String(config.KeyLogLevel, "info", "log level (error, warn, info, debug)")
	flags.String(config.KeyLogFile, "", "write logs to this file instead of stderr")

	config.SetDefaults(v)
	config.BindEnv(v)
	for _, key := range []string{
		config.KeyRoot,
		config.KeyRecursive,
		config.KeyMaxDepth,
		config.KeyTimeoutMs,
		config.KeyMaxFileSize,
		config.KeyMaxTotalSize,
		config.KeyLogLevel,
		config.KeyLogFile,
	} {
		v.BindPFlag(key, flags.Lookup(key))
	}

	cmd.AddCommand(
		newServeCommand(v),
		newInfoCommand(v),
		newVersionCommand(),
	)
	return cmd
}

func newServeCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [ROOT]",
		Short: "Serve MCP over stdio",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), v, args)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), filesystemserver.Version)
			return err
		},
	}
}

func newInfoCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "info [ROOT]",
		Short: "Show the tools offered by the MCP server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, args)
			if err != nil {
				return err
			}
			info, err := inspectInfo(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			j, err := json.MarshalIndent(info, "", "    ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(j))
			return err
		},
	}
}

// Info describes the server for the info command.
type Info struct {
	Name    string     `json:"name"`
	Version string     `json:"version"`
	Root    string     `json:"root"`
	Tools   []mcp.Tool `json:"tools"`
}

func inspectInfo(ctx context.Context, cfg config.Config) (*Info, error) {
	fss, err := filesystemserver.NewFilesystemServer(cfg, zerolog.Nop())
	if err != nil {
		return nil, err
	}

	mcpClient, err := client.NewInProcessClient(fss)
	if err != nil {
		return nil, err
	}
	defer mcpClient.Close()

	if err := mcpClient.Start(ctx); err != nil {
		return nil, err
	}
	initRequest := mcp.InitializeRequest{}
	initRequest.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initRequest.Params.ClientInfo = mcp.Implementation{
		Name:    "peekaboo-info",
		Version: filesystemserver.Version,
	}
	if _, err := mcpClient.Initialize(ctx, initRequest); err != nil {
		return nil, err
	}

	tools, err := mcpClient.ListTools(ctx, mcp.ListToolsRequest{})
	if err != nil {
		return nil, err
	}
	return &Info{
		Name:    filesystemserver.ServerName,
		Version: filesystemserver.Version,
		Root:    cfg.RootDirectory,
		Tools:   tools.Tools,
	}, nil
}

func serve(ctx context.Context, v *viper.Viper, args []string) error {
	cfg, err := loadConfig(v, args)
	if err != nil {
		return err
	}

	logger, closeLog, err := initLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	fss, err := filesystemserver.NewFilesystemServer(cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to create server")
		return fmt.Errorf("failed to create server: %w", err)
	}

	logger.Info().
		Str("root", cfg.RootDirectory).
		Bool("recursive", cfg.Recursive).
		Int("max_depth", cfg.MaxDepth).
		Msg("peekaboo-mcp server started")

	// Serve requests
	if err := server.ServeStdio(fss); err != nil {
		logger.Error().Err(err).Msg("server error")
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// loadConfig reads the configuration, letting a positional ROOT override
// every other source.
func loadConfig(v *viper.Viper, args []string) (config.Config, error) {
	if len(args) == 1 {
		v.Set(config.KeyRoot, args[0])
	}
	return config.Load(v)
}

// initLogger logs to stderr, or to the configured file, since stdout
// carries the protocol stream.
func initLogger(cfg config.Config) (zerolog.Logger, func(), error) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	var output io.Writer = os.Stderr
	closeLog := func() {}
	if cfg.LogFile != "" {
		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return zerolog.Nop(), closeLog, fmt.Errorf("failed to open log file: %w", err)
		}
		output = file
		closeLog = func() { file.Close() }
	}

	logger := zerolog.New(output).Level(level).With().
		Timestamp().
		Str("service", filesystemserver.ServerName).
		Logger()
	return logger, closeLog, nil
}
