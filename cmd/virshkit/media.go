package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jbweber/virshkit/internal/media"
)

var (
	mediaLabel      string
	mediaFiles      []string
	seedInstanceID  string
	seedHostname    string
	seedUserData    string
	mediaInsertInto string
)

func init() {
	rootCmd.AddCommand(mediaCmd)
	mediaCmd.AddCommand(mediaBuildCmd, mediaSeedCmd)

	mediaBuildCmd.Flags().StringVar(&mediaLabel, "label", "VIRSHKIT", "volume label")
	mediaBuildCmd.Flags().StringSliceVarP(&mediaFiles, "file", "f", nil, "host file to put in the image root (repeatable)")

	mediaSeedCmd.Flags().StringVar(&seedInstanceID, "instance-id", "", "cloud-init instance id (required)")
	mediaSeedCmd.Flags().StringVar(&seedHostname, "hostname", "", "local hostname of the guest")
	mediaSeedCmd.Flags().StringVar(&seedUserData, "user-data", "", "file with cloud-init user data")
	_ = mediaSeedCmd.MarkFlagRequired("instance-id")

	for _, c := range []*cobra.Command{mediaBuildCmd, mediaSeedCmd} {
		c.Flags().StringVar(&mediaInsertInto, "insert", "", "insert the image into <domain>:<device> after building it")
	}
}

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Build ISO images for removable media",
}

var mediaBuildCmd = &cobra.Command{
	Use:   "build <image.iso>",
	Short: "Build an ISO image from host files",
	Long: `Build an ISO image from host files, optionally inserting it into a
domain's cdrom right away.

Example:
  virshkit media build /tmp/tools.iso -f driver.exe -f setup.cmd --insert vm1:hdc`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := media.ReadFiles(mediaFiles...)
		if err != nil {
			return err
		}
		if err := media.WriteISO(args[0], mediaLabel, files); err != nil {
			return fmt.Errorf("failed to build image: %w", err)
		}
		fmt.Printf("✓ Image %s written (%d file(s))\n", args[0], len(files))
		return insertMedia(cmd, args[0])
	},
}

var mediaSeedCmd = &cobra.Command{
	Use:   "seed <image.iso>",
	Short: "Build a cloud-init NoCloud seed image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed := media.Seed{InstanceID: seedInstanceID, Hostname: seedHostname}
		if seedUserData != "" {
			data, err := os.ReadFile(seedUserData)
			if err != nil {
				return fmt.Errorf("failed to read user data: %w", err)
			}
			seed.UserData = string(data)
		}

		data, err := media.BuildSeedISO(seed)
		if err != nil {
			return fmt.Errorf("failed to build seed image: %w", err)
		}
		if err := os.WriteFile(args[0], data, 0644); err != nil {
			return fmt.Errorf("failed to write file %s: %w", args[0], err)
		}
		fmt.Printf("✓ Seed image %s written\n", args[0])
		return insertMedia(cmd, args[0])
	},
}

// insertMedia handles --insert domain:device.
func insertMedia(cmd *cobra.Command, image string) error {
	if mediaInsertInto == "" {
		return nil
	}
	domain, device, ok := cutTarget(mediaInsertInto)
	if !ok {
		return fmt.Errorf("invalid --insert %q, want <domain>:<device>", mediaInsertInto)
	}

	abs, err := filepath.Abs(image)
	if err != nil {
		return fmt.Errorf("failed to make %s absolute: %w", image, err)
	}

	return withFacade(cmd, func(ctx context.Context, v facade) error {
		ok, err := v.ChangeMedia(ctx, domain, device, abs, "")
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("failed to insert %s into %s", abs, mediaInsertInto)
		}
		fmt.Printf("✓ %s inserted into %s of %s\n", abs, device, domain)
		return nil
	})
}

func cutTarget(s string) (string, string, bool) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
