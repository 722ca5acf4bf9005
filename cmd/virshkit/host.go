package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jbweber/virshkit/internal/executor"
	"github.com/jbweber/virshkit/internal/virsh"
)

var extraArgs string

func init() {
	rootCmd.AddCommand(hostCmd)
	hostCmd.AddCommand(hostQueryCmd("uri", "Show the canonical connection URI", facade.CanonicalURI))
	hostCmd.AddCommand(hostQueryCmd("hostname", "Show the hypervisor hostname", facade.Hostname))
	hostCmd.AddCommand(hostQueryCmd("version", "Show library and hypervisor versions", facade.Version))
	hostCmd.AddCommand(hostQueryCmd("driver", "Show the hypervisor driver", facade.Driver))
	hostCmd.AddCommand(hostResultCmd("nodeinfo", "Show node information", facade.Nodeinfo))
	hostCmd.AddCommand(hostResultCmd("freecell", "Show free memory per NUMA cell", facade.Freecell))

	rootCmd.AddCommand(vcpupinCmd)
	rootCmd.AddCommand(monitorCmd)

	for _, c := range []*cobra.Command{netCreateCmd, netListCmd, netDestroyCmd, poolCreateCmd} {
		c.Flags().StringVar(&extraArgs, "extra", "", "arguments appended to the virsh command")
	}
	rootCmd.AddCommand(netCmd)
	netCmd.AddCommand(netCreateCmd, netListCmd, netDestroyCmd)

	rootCmd.AddCommand(poolCmd)
	poolCmd.AddCommand(poolInfoCmd, poolDestroyCmd, poolCreateCmd)
	poolCreateCmd.Flags().StringVar(&poolType, "type", "dir", fmt.Sprintf("pool type %v", virsh.PoolTypes))
	poolCreateCmd.Flags().StringVar(&poolTarget, "target", "", "target path of the pool")
}

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Query the hypervisor host",
}

func hostQueryCmd(name, short string, op func(facade, context.Context) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFacade(cmd, func(ctx context.Context, v facade) error {
				out, err := op(v, ctx)
				if err != nil {
					return err
				}
				return printText(name, out)
			})
		},
	}
}

func hostResultCmd(name, short string, op func(facade, context.Context, string) (*executor.Result, error)) *cobra.Command {
	var extra string
	c := &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFacade(cmd, func(ctx context.Context, v facade) error {
				result, err := op(v, ctx, extra)
				if err != nil {
					return err
				}
				return printResult(result)
			})
		},
	}
	c.Flags().StringVar(&extra, "extra", "", "arguments appended to the virsh command")
	return c
}

var vcpupinCmd = &cobra.Command{
	Use:   "vcpupin <domain> <vcpu> <cpu-list>",
	Short: "Pin a virtual CPU to host CPUs",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		vcpu, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid vcpu %q: %w", args[1], err)
		}
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			ok, err := v.Vcpupin(ctx, args[0], vcpu, args[2])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("failed to pin vcpu %d of %s", vcpu, args[0])
			}
			fmt.Printf("✓ vcpu %d of %s pinned to %s\n", vcpu, args[0], args[2])
			return nil
		})
	},
}

var monitorCmd = &cobra.Command{
	Use:   "monitor <domain> <hmp command>",
	Short: "Send a human monitor command to a QEMU domain",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			result, err := v.QemuMonitorCommand(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printResult(result)
		})
	},
}

var netCmd = &cobra.Command{
	Use:   "net",
	Short: "Manage virtual networks",
}

var netCreateCmd = &cobra.Command{
	Use:   "create <network.xml>",
	Short: "Create a transient network from an XML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			result, err := v.NetCreate(ctx, args[0], extraArgs)
			if err != nil {
				return err
			}
			return printResult(result)
		})
	},
}

var netListOptions string

var netListCmd = &cobra.Command{
	Use:   "list",
	Short: "List networks",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			result, err := v.NetList(ctx, netListOptions, extraArgs)
			if err != nil {
				return err
			}
			return printResult(result)
		})
	},
}

func init() {
	netListCmd.Flags().StringVar(&netListOptions, "options", "", "net-list options, for example --all")
}

var netDestroyCmd = &cobra.Command{
	Use:   "destroy <network>",
	Short: "Stop a network",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			result, err := v.NetDestroy(ctx, args[0], extraArgs)
			if err != nil {
				return err
			}
			return printResult(result)
		})
	},
}

var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Manage storage pools",
}

var poolInfoCmd = &cobra.Command{
	Use:   "info <pool>",
	Short: "Check that a storage pool exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			ok, err := v.PoolInfo(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("pool %s not found", args[0])
			}
			fmt.Printf("✓ Pool %s exists\n", args[0])
			return nil
		})
	},
}

var poolDestroyCmd = &cobra.Command{
	Use:   "destroy <pool>",
	Short: "Stop a storage pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			ok, err := v.PoolDestroy(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("failed to destroy pool %s", args[0])
			}
			fmt.Printf("✓ Pool %s destroyed\n", args[0])
			return nil
		})
	},
}

var (
	poolType   string
	poolTarget string
)

var poolCreateCmd = &cobra.Command{
	Use:   "create <pool>",
	Short: "Create and start a transient storage pool",
	Long: `Create and start a transient storage pool.

Example:
  virshkit pool create scratch --type dir --target /var/lib/scratch`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			ok, err := v.PoolCreateAs(ctx, args[0], poolType, poolTarget, extraArgs)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("failed to create pool %s", args[0])
			}
			fmt.Printf("✓ Pool %s created\n", args[0])
			return nil
		})
	},
}
