package virsh

import (
	"context"
	"fmt"
	"os"

	"libvirt.org/go/libvirtxml"

	"github.com/jbweber/virshkit/internal/executor"
)

// AttachDevice attaches the device described by xmlFile to a domain.
func AttachDevice(ctx context.Context, p Params, name, xmlFile, extra string) (bool, error) {
	_, err := p.run(ctx, join("attach-device --domain "+name, "--file "+xmlFile, extra))
	return outcome(err, "Attaching device to VM %s failed", name)
}

// DetachDevice detaches the device described by xmlFile from a domain.
func DetachDevice(ctx context.Context, p Params, name, xmlFile, extra string) (bool, error) {
	_, err := p.run(ctx, join("detach-device --domain "+name, "--file "+xmlFile, extra))
	return outcome(err, "Detaching device from VM %s failed", name)
}

// AttachInterface attaches a network interface. option carries the
// interface arguments, e.g. "--type network --source default".
func AttachInterface(ctx context.Context, p Params, name, option string) (*executor.Result, error) {
	return p.run(ctx, join("attach-interface", domainFlag(name), option))
}

// DetachInterface detaches a network interface.
func DetachInterface(ctx context.Context, p Params, name, option string) (*executor.Result, error) {
	return p.run(ctx, join("detach-interface", domainFlag(name), option))
}

// ChangeMedia inserts source into the removable device (a target such as
// "hdc" or a source path) of a domain, replacing any current media. An
// empty source ejects.
func ChangeMedia(ctx context.Context, p Params, name, device, source, extra string) (bool, error) {
	command := join("change-media", name, device, "--eject", extra)
	if source != "" {
		command = join("change-media", name, device, source, "--update", extra)
	}
	_, err := p.run(ctx, command)
	return outcome(err, "Changing media %s of VM %s failed", device, name)
}

// AttachDisk renders disk as device XML and attaches it to a domain.
func AttachDisk(ctx context.Context, p Params, name string, disk *libvirtxml.DomainDisk, extra string) (bool, error) {
	xml, err := disk.Marshal()
	if err != nil {
		return false, fmt.Errorf("failed to marshal disk XML: %w", err)
	}

	path, cleanup, err := writeTempXML("disk", xml)
	if err != nil {
		return false, err
	}
	defer cleanup()

	return AttachDevice(ctx, p, name, path, extra)
}

func domainFlag(name string) string {
	if name == "" {
		return ""
	}
	return "--domain " + name
}

// writeTempXML stores xml in a temporary file for commands that only take
// --file arguments.
func writeTempXML(kind, xml string) (string, func(), error) {
	f, err := os.CreateTemp("", "virshkit-"+kind+"-*.xml")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	cleanup := func() { _ = os.Remove(f.Name()) }

	if _, err := f.WriteString(xml); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, fmt.Errorf("failed to write %s XML: %w", kind, err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("failed to write %s XML: %w", kind, err)
	}
	return f.Name(), cleanup, nil
}
