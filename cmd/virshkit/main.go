package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jbweber/virshkit/internal/config"
	"github.com/jbweber/virshkit/internal/executor"
	"github.com/jbweber/virshkit/internal/libvirt"
	"github.com/jbweber/virshkit/internal/output"
	"github.com/jbweber/virshkit/internal/virsh"
)

var (
	version = "dev"
	commit  = "unknown"
)

var (
	configPath   string
	envFile      string
	uriFlag      string
	virshFlag    string
	debug        bool
	ignoreErrors bool
	persistent   bool
	outputFormat string
	noHeaders    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "virshkit",
	Short: "virshkit - drive virsh one-shot or through a persistent session",
	Long: `virshkit issues lifecycle and inspection operations against libvirt
domains, networks and storage pools by running virsh.

Every command either spawns a fresh virsh process or, with --persistent,
runs inside one long-lived interactive virsh session.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if debug {
			logrus.SetLevel(logrus.DebugLevel)
		}
		return output.ValidateFormat(outputFormat)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "YAML configuration file")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file read before the process environment")
	flags.StringVarP(&uriFlag, "uri", "c", "", "libvirt connection URI")
	flags.StringVar(&virshFlag, "virsh", "", "virsh executable, optionally with a wrapper (\"sudo virsh\")")
	flags.BoolVar(&debug, "debug", false, "log every virsh invocation")
	flags.BoolVar(&ignoreErrors, "ignore-errors", false, "report failed invocations instead of returning an error")
	flags.BoolVar(&persistent, "persistent", false, "run commands in one interactive virsh session")
	flags.StringVarP(&outputFormat, "output", "o", "table", "output format: table, yaml, json")
	flags.BoolVar(&noHeaders, "no-headers", false, "omit table headers")

	rootCmd.AddCommand(testConnCmd)
	rootCmd.AddCommand(configCmd)
}

// loadConfig merges the configuration file, the environment and the flags,
// in that order.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Defaults()
	if configPath != "" {
		loaded, err := config.LoadFromFile(configPath)
		if err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	if err := config.LoadFromEnv(&cfg, envFile); err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("uri") {
		cfg.URI = uriFlag
	}
	if flags.Changed("virsh") {
		cfg.ExecutablePath = virshFlag
	}
	if flags.Changed("debug") {
		cfg.Debug = debug
	}
	if flags.Changed("ignore-errors") {
		cfg.IgnoreErrors = ignoreErrors
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.ResolveExecutable(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// facade is what the commands need from either façade flavor.
type facade interface {
	virsh.Operations
	Get(key string) (any, error)
	Close() error
}

func openFacade(ctx context.Context, cmd *cobra.Command) (facade, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if persistent {
		p, err := virsh.NewPersistent(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return p, nil
	}
	return virsh.New(cfg), nil
}

// withFacade opens a façade, runs fn and closes it again.
func withFacade(cmd *cobra.Command, fn func(ctx context.Context, v facade) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	v, err := openFacade(ctx, cmd)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := v.Close(); closeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close virsh session: %v\n", closeErr)
		}
	}()
	return fn(ctx, v)
}

func newFormatter() (output.Formatter, error) {
	return output.NewFormatter(output.Options{
		Format:    output.Format(outputFormat),
		NoHeaders: noHeaders,
	})
}

func printResult(r *executor.Result) error {
	formatter, err := newFormatter()
	if err != nil {
		return err
	}
	text, err := formatter.FormatResult(r)
	if err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(text)
	return nil
}

// printText prints the trimmed output of a query operation.
func printText(command, text string) error {
	return printResult(&executor.Result{Command: command, Stdout: text + "\n"})
}

var testConnCmd = &cobra.Command{
	Use:   "test-conn",
	Short: "Test the virsh and libvirt daemon connections",
	Long: `Run a few host queries through virsh, then connect to the libvirt
daemon socket directly and display its version information.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			fmt.Println("Testing virsh connection...")

			uri, err := v.CanonicalURI(ctx)
			if err != nil {
				return fmt.Errorf("failed to query connection URI: %w", err)
			}
			fmt.Printf("✓ Connection URI: %s\n", uri)

			driver, err := v.Driver(ctx)
			if err != nil {
				return fmt.Errorf("failed to query driver: %w", err)
			}
			fmt.Printf("✓ Driver: %s\n", driver)

			hostname, err := v.Hostname(ctx)
			if err != nil {
				return fmt.Errorf("failed to query hostname: %w", err)
			}
			fmt.Printf("✓ Hypervisor hostname: %s\n", hostname)

			socket, err := libvirt.SocketForURI(uri)
			if err != nil {
				fmt.Printf("Skipping daemon probe: %v\n", err)
				return nil
			}
			client, err := libvirt.ConnectWithContext(ctx, socket, 5*time.Second)
			if err != nil {
				return fmt.Errorf("failed to connect to libvirt: %w", err)
			}
			defer func() {
				if closeErr := client.Close(); closeErr != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close libvirt connection: %v\n", closeErr)
				}
			}()
			fmt.Println("✓ Connected to libvirt daemon")

			if err := client.Ping(); err != nil {
				return fmt.Errorf("connection test failed: %w", err)
			}
			libVersion, err := client.LibVersion()
			if err != nil {
				return fmt.Errorf("failed to get libvirt version: %w", err)
			}
			fmt.Printf("✓ Libvirt version: %s\n", libVersion)

			fmt.Println("\nConnection test successful!")
			return nil
		})
	},
}

var saveConfigTo string

func init() {
	configCmd.Flags().StringVar(&saveConfigTo, "save", "", "write the effective configuration to this YAML file")
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after merging the configuration file, the
environment and the command line flags, or save it with --save.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if saveConfigTo != "" {
			if err := config.SaveToFile(&cfg, saveConfigTo); err != nil {
				return err
			}
			fmt.Printf("✓ Configuration written to %s\n", saveConfigTo)
			return nil
		}

		props := virsh.New(cfg).Config()
		fmt.Printf("uri: %s\n", props.URI)
		fmt.Printf("executable_path: %s\n", props.ExecutablePath)
		fmt.Printf("ignore_errors: %t\n", props.IgnoreErrors)
		fmt.Printf("debug: %t\n", props.Debug)
		fmt.Printf("command_timeout: %s\n", props.CommandTimeout)
		fmt.Printf("startup_timeout: %s\n", props.StartupTimeout)
		return nil
	},
}
