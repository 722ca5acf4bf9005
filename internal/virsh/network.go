package virsh

import (
	"context"
	"fmt"

	"libvirt.org/go/libvirtxml"

	"github.com/jbweber/virshkit/internal/executor"
)

// NetCreate creates a transient network from an XML file.
func NetCreate(ctx context.Context, p Params, xmlFile, extra string) (*executor.Result, error) {
	return p.run(ctx, join("net-create --file "+xmlFile, extra))
}

// NetCreateXML renders network and creates it as a transient network.
func NetCreateXML(ctx context.Context, p Params, network *libvirtxml.Network, extra string) (*executor.Result, error) {
	xml, err := network.Marshal()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal network XML: %w", err)
	}

	path, cleanup, err := writeTempXML("network", xml)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	return NetCreate(ctx, p, path, extra)
}

// NetList lists networks on the host.
func NetList(ctx context.Context, p Params, options, extra string) (*executor.Result, error) {
	return p.run(ctx, join("net-list", options, extra))
}

// NetDestroy stops an active network.
func NetDestroy(ctx context.Context, p Params, name, extra string) (*executor.Result, error) {
	return p.run(ctx, join("net-destroy --network "+name, extra))
}
