package virsh

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jbweber/virshkit/internal/executor"
)

// Command runs an arbitrary virsh sub-command.
func Command(ctx context.Context, p Params, command string) (*executor.Result, error) {
	return p.run(ctx, command)
}

// Freecell prints the free memory of the host or of a NUMA cell.
func Freecell(ctx context.Context, p Params, extra string) (*executor.Result, error) {
	return p.run(ctx, join("freecell", extra))
}

// Nodeinfo prints basic information about the host.
func Nodeinfo(ctx context.Context, p Params, extra string) (*executor.Result, error) {
	return p.run(ctx, join("nodeinfo", extra))
}

// CanonicalURI returns the canonical URI of the hypervisor connection.
func CanonicalURI(ctx context.Context, p Params) (string, error) {
	return trimmed(ctx, p, "uri")
}

// Hostname returns the hypervisor host name.
func Hostname(ctx context.Context, p Params) (string, error) {
	return trimmed(ctx, p, "hostname")
}

// Version returns the version report of virsh and the hypervisor.
func Version(ctx context.Context, p Params) (string, error) {
	return trimmed(ctx, p, "version")
}

// Driver returns the hypervisor driver name: the scheme of the canonical
// URI without any "+transport" suffix ("qemu" for "qemu+ssh://host/system").
func Driver(ctx context.Context, p Params) (string, error) {
	uri, err := CanonicalURI(ctx, p)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("failed to parse canonical URI %q: %w", uri, err)
	}
	driver, _, _ := strings.Cut(u.Scheme, "+")
	return driver, nil
}

func trimmed(ctx context.Context, p Params, command string) (string, error) {
	result, err := p.run(ctx, command)
	if err != nil {
		return "", err
	}
	return result.TrimmedStdout(), nil
}
