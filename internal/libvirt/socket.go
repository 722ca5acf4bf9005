package libvirt

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// SystemSocket is the socket of the system-wide daemon (qemu:///system).
const SystemSocket = "/var/run/libvirt/libvirt-sock"

// SocketForURI returns the local socket path serving uri. Only local
// connections can be probed: an explicit ?socket= parameter wins, then
// "/session" maps to the per-user daemon, and everything else to the
// system daemon. An empty uri means the system daemon.
func SocketForURI(uri string) (string, error) {
	if uri == "" {
		return SystemSocket, nil
	}

	u, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("invalid connection URI %q: %w", uri, err)
	}
	if sock := u.Query().Get("socket"); sock != "" {
		return sock, nil
	}
	if u.Host != "" {
		return "", fmt.Errorf("connection URI %q names remote host %s; only local daemons can be probed", uri, u.Host)
	}
	if _, transport, ok := strings.Cut(u.Scheme, "+"); ok && transport != "unix" {
		return "", fmt.Errorf("connection URI %q uses transport %s; only unix sockets can be probed", uri, transport)
	}

	if u.Path == "/session" {
		runtimeDir := os.Getenv("XDG_RUNTIME_DIR")
		if runtimeDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to locate session socket: %w", err)
			}
			return filepath.Join(home, ".cache", "libvirt", "libvirt-sock"), nil
		}
		return filepath.Join(runtimeDir, "libvirt", "libvirt-sock"), nil
	}
	return SystemSocket, nil
}
