// Package libvirt probes the libvirt daemon directly over its RPC socket.
//
// It wraps github.com/digitalocean/go-libvirt and is used to cross-check what
// the virsh catalog reports: whether the daemon is reachable, its library
// version, and the state of domains expressed with the same names virsh
// prints ("running", "shut off", ...).
//
//	sock, err := libvirt.SocketForURI("qemu:///system")
//	if err != nil {
//	    return err
//	}
//	client, err := libvirt.Connect(sock, 5*time.Second)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	state, err := client.DomainState("vm1")
//
// Only local daemons are supported; remote URIs are rejected by SocketForURI.
// Tests can supply their own API implementation through NewClient.
package libvirt
