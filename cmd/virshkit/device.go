package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"libvirt.org/go/libvirtxml"

	"github.com/jbweber/virshkit/internal/executor"
)

var deviceExtra string

func init() {
	for _, c := range []*cobra.Command{attachDeviceCmd, detachDeviceCmd, attachDiskCmd, changeMediaCmd} {
		c.Flags().StringVar(&deviceExtra, "extra", "", "arguments appended to the virsh command, for example --config")
	}
	rootCmd.AddCommand(attachDeviceCmd, detachDeviceCmd, attachDiskCmd, changeMediaCmd)
	rootCmd.AddCommand(interfaceCmd("attach-interface", "Attach a network interface to a domain", facade.AttachInterface))
	rootCmd.AddCommand(interfaceCmd("detach-interface", "Detach a network interface from a domain", facade.DetachInterface))

	attachDiskCmd.Flags().StringVar(&diskTarget, "target", "vdb", "target device name in the guest")
	attachDiskCmd.Flags().StringVar(&diskBus, "bus", "virtio", "target bus")
	attachDiskCmd.Flags().StringVar(&diskFormat, "format", "qcow2", "image format")
	attachDiskCmd.Flags().StringVar(&diskDevice, "device", "disk", "disk or cdrom")
	attachDiskCmd.Flags().BoolVar(&diskReadOnly, "readonly", false, "attach read-only")
}

func deviceCmd(use, short, verb string, op func(facade, context.Context, string, string, string) (bool, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <domain> <device.xml>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFacade(cmd, func(ctx context.Context, v facade) error {
				ok, err := op(v, ctx, args[0], args[1], deviceExtra)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("failed to %s device %s", verb, args[1])
				}
				fmt.Printf("✓ Device %s %sed\n", args[1], verb)
				return nil
			})
		},
	}
}

var (
	attachDeviceCmd = deviceCmd("attach-device", "Attach a device described by an XML file", "attach", facade.AttachDevice)
	detachDeviceCmd = deviceCmd("detach-device", "Detach a device described by an XML file", "detach", facade.DetachDevice)
)

func interfaceCmd(name, short string, op func(facade, context.Context, string, string) (*executor.Result, error)) *cobra.Command {
	var option string
	c := &cobra.Command{
		Use:   name + " <domain>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withFacade(cmd, func(ctx context.Context, v facade) error {
				result, err := op(v, ctx, args[0], option)
				if err != nil {
					return err
				}
				return printResult(result)
			})
		},
	}
	c.Flags().StringVar(&option, "option", "", "interface options, for example \"--type network --source default\"")
	return c
}

var (
	diskTarget   string
	diskBus      string
	diskFormat   string
	diskDevice   string
	diskReadOnly bool
)

var attachDiskCmd = &cobra.Command{
	Use:   "attach-disk <domain> <image>",
	Short: "Attach a disk image to a domain",
	Long: `Attach a disk image to a domain. The device XML is generated from the
flags.

Example:
  virshkit attach-disk vm1 /var/lib/libvirt/images/data.qcow2 --target vdb`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		disk := newDisk(args[1])
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			ok, err := v.AttachDisk(ctx, args[0], disk, deviceExtra)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("failed to attach %s to %s", args[1], args[0])
			}
			fmt.Printf("✓ %s attached to %s as %s\n", args[1], args[0], diskTarget)
			return nil
		})
	},
}

func newDisk(image string) *libvirtxml.DomainDisk {
	disk := &libvirtxml.DomainDisk{
		Device: diskDevice,
		Driver: &libvirtxml.DomainDiskDriver{Name: "qemu", Type: diskFormat},
		Source: &libvirtxml.DomainDiskSource{
			File: &libvirtxml.DomainDiskSourceFile{File: image},
		},
		Target: &libvirtxml.DomainDiskTarget{Dev: diskTarget, Bus: diskBus},
	}
	if diskReadOnly || diskDevice == "cdrom" {
		disk.ReadOnly = &libvirtxml.DomainDiskReadOnly{}
	}
	return disk
}

var changeMediaCmd = &cobra.Command{
	Use:   "change-media <domain> <device> [source]",
	Short: "Insert or eject removable media",
	Long: `Replace the media of a cdrom or floppy device. Without a source the
current media is ejected.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := ""
		if len(args) == 3 {
			source = args[2]
		}
		return withFacade(cmd, func(ctx context.Context, v facade) error {
			ok, err := v.ChangeMedia(ctx, args[0], args[1], source, deviceExtra)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("failed to change media of %s on %s", args[1], args[0])
			}
			if source == "" {
				fmt.Printf("✓ Media ejected from %s\n", args[1])
			} else {
				fmt.Printf("✓ %s inserted into %s\n", source, args[1])
			}
			return nil
		})
	},
}
