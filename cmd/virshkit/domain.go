package main

import (
	"context"
	"fmt"

	"al.essio.dev/pkg/shellescape"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(execCmd)
	rootCmd.AddCommand(queryCmd("domstate", "Show the state of a domain", facade.Domstate))
	rootCmd.AddCommand(queryCmd("dominfo", "Show basic information about a domain", facade.Dominfo))
	rootCmd.AddCommand(queryCmd("domid", "Show the id of a running domain", facade.Domid))
	rootCmd.AddCommand(queryCmd("domuuid", "Show the UUID of a domain", facade.Domuuid))
	rootCmd.AddCommand(queryCmd("vcpuinfo", "Show virtual CPU information of a domain", facade.Vcpuinfo))
	rootCmd.AddCommand(dumpxmlCmd)

	rootCmd.AddCommand(lifecycleCmd("start", "Start a domain", "started", facade.Start))
	rootCmd.AddCommand(lifecycleCmd("shutdown", "Gracefully shut down a domain", "shut down", facade.Shutdown))
	rootCmd.AddCommand(lifecycleCmd("destroy", "Forcefully stop a domain", "destroyed", facade.Destroy))
	rootCmd.AddCommand(lifecycleCmd("suspend", "Pause a domain", "suspended", facade.Suspend))
	rootCmd.AddCommand(lifecycleCmd("resume", "Resume a paused domain", "resumed", facade.Resume))
	rootCmd.AddCommand(lifecycleCmd("undefine", "Remove the definition of an inactive domain", "undefined", facade.Undefine))
	rootCmd.AddCommand(lifecycleCmd("remove", "Stop a domain if needed and undefine it", "removed", facade.RemoveDomain))
	rootCmd.AddCommand(defineCmd)
	rootCmd.AddCommand(saveCmd)
	rootCmd.AddCommand(restoreCmd)
	rootCmd.AddCommand(migrateCmd)
}

var execCmd = &cobra.Command{
	Use:   "exec <virsh command...>",
	Short: "Run an arbitrary virsh command",
	Long: `Run any virsh sub-command and print what it returned.

Example:
  virshkit exec -- list --all
  virshkit --persistent exec -- net-list --all`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			result, err := v.Command(ctx, shellescape.QuoteCommand(args))
			if err != nil {
				return err
			}
			return printResult(result)
		})
	},
}

// queryCmd builds a command printing the output of a single-domain query.
func queryCmd(name, short string, op func(facade, context.Context, string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <domain>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFacade(cmd, func(ctx context.Context, v facade) error {
				out, err := op(v, ctx, args[0])
				if err != nil {
					return err
				}
				return printText(name+" "+args[0], out)
			})
		},
	}
}

// lifecycleCmd builds a command for a boolean catalog operation.
func lifecycleCmd(name, short, done string, op func(facade, context.Context, string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <domain>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFacade(cmd, func(ctx context.Context, v facade) error {
				ok, err := op(v, ctx, args[0])
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("failed to %s domain %s", name, args[0])
				}
				fmt.Printf("✓ Domain %s %s\n", args[0], done)
				return nil
			})
		},
	}
}

var dumpxmlTo string

var dumpxmlCmd = &cobra.Command{
	Use:   "dumpxml <domain>",
	Short: "Print the XML description of a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			out, err := v.Dumpxml(ctx, args[0], dumpxmlTo)
			if err != nil {
				return err
			}
			if dumpxmlTo != "" {
				fmt.Printf("✓ Domain XML written to %s\n", dumpxmlTo)
				return nil
			}
			return printText("dumpxml "+args[0], out)
		})
	},
}

var defineCmd = &cobra.Command{
	Use:   "define <domain.xml>",
	Short: "Define a domain from an XML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			ok, err := v.Define(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("failed to define domain from %s", args[0])
			}
			fmt.Printf("✓ Domain defined from %s\n", args[0])
			return nil
		})
	},
}

var saveCmd = &cobra.Command{
	Use:   "save <domain> <file>",
	Short: "Save the state of a paused domain to a file",
	Long: `Save the state of a domain to a file. The domain must be paused and
is shut off afterwards.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			if err := v.Save(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("✓ Domain %s saved to %s\n", args[0], args[1])
			return nil
		})
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <domain> <file>",
	Short: "Restore a shut off domain from a saved state file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			if err := v.Restore(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("✓ Domain %s restored from %s\n", args[0], args[1])
			return nil
		})
	},
}

var (
	migrateOption string
	migrateExtra  string
)

var migrateCmd = &cobra.Command{
	Use:   "migrate <domain> <dest-uri>",
	Short: "Migrate a domain to another host",
	Long: `Migrate a domain to another host.

Example:
  virshkit migrate vm1 qemu+ssh://host2/system --option "--live --persistent"`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			result, err := v.Migrate(ctx, args[0], args[1], migrateOption, migrateExtra)
			if err != nil {
				return err
			}
			return printResult(result)
		})
	},
}

func init() {
	dumpxmlCmd.Flags().StringVar(&dumpxmlTo, "to", "", "write the XML to this file instead of printing it")
	migrateCmd.Flags().StringVar(&migrateOption, "option", "", "options placed before the domain")
	migrateCmd.Flags().StringVar(&migrateExtra, "extra", "", "arguments appended after the destination")
}
