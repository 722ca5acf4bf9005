package virsh

import (
	"context"

	"libvirt.org/go/libvirtxml"

	"github.com/jbweber/virshkit/internal/executor"
)

// Operations is the catalog bound to a configuration. Virsh and Persistent
// implement it.
type Operations interface {
	Command(ctx context.Context, command string) (*executor.Result, error)
	Domname(ctx context.Context, id string) (*executor.Result, error)
	QemuMonitorCommand(ctx context.Context, name, command string) (*executor.Result, error)
	Vcpupin(ctx context.Context, name string, vcpu int, cpuList string) (bool, error)
	Vcpuinfo(ctx context.Context, name string) (string, error)
	VcpucountLive(ctx context.Context, name string) (string, error)
	Freecell(ctx context.Context, extra string) (*executor.Result, error)
	Nodeinfo(ctx context.Context, extra string) (*executor.Result, error)
	CanonicalURI(ctx context.Context) (string, error)
	Hostname(ctx context.Context) (string, error)
	Version(ctx context.Context) (string, error)
	Driver(ctx context.Context) (string, error)

	Domstate(ctx context.Context, name string) (string, error)
	Domid(ctx context.Context, name string) (string, error)
	Dominfo(ctx context.Context, name string) (string, error)
	Domuuid(ctx context.Context, name string) (string, error)
	Screenshot(ctx context.Context, name, filename string) (string, error)
	Dumpxml(ctx context.Context, name, toFile string) (string, error)
	IsAlive(ctx context.Context, name string) (bool, error)
	IsDead(ctx context.Context, name string) (bool, error)
	Suspend(ctx context.Context, name string) (bool, error)
	Resume(ctx context.Context, name string) (bool, error)
	Save(ctx context.Context, name, path string) error
	Restore(ctx context.Context, name, path string) error
	Start(ctx context.Context, name string) (bool, error)
	Shutdown(ctx context.Context, name string) (bool, error)
	Destroy(ctx context.Context, name string) (bool, error)
	Define(ctx context.Context, xmlPath string) (bool, error)
	Undefine(ctx context.Context, name string) (bool, error)
	RemoveDomain(ctx context.Context, name string) (bool, error)
	DomainExists(ctx context.Context, name string) (bool, error)
	Migrate(ctx context.Context, name, destURI, option, extra string) (*executor.Result, error)

	AttachDevice(ctx context.Context, name, xmlFile, extra string) (bool, error)
	DetachDevice(ctx context.Context, name, xmlFile, extra string) (bool, error)
	AttachInterface(ctx context.Context, name, option string) (*executor.Result, error)
	DetachInterface(ctx context.Context, name, option string) (*executor.Result, error)
	ChangeMedia(ctx context.Context, name, device, source, extra string) (bool, error)
	AttachDisk(ctx context.Context, name string, disk *libvirtxml.DomainDisk, extra string) (bool, error)

	NetCreate(ctx context.Context, xmlFile, extra string) (*executor.Result, error)
	NetCreateXML(ctx context.Context, network *libvirtxml.Network, extra string) (*executor.Result, error)
	NetList(ctx context.Context, options, extra string) (*executor.Result, error)
	NetDestroy(ctx context.Context, name, extra string) (*executor.Result, error)

	PoolInfo(ctx context.Context, name string) (bool, error)
	PoolDestroy(ctx context.Context, name string) (bool, error)
	PoolCreateAs(ctx context.Context, name, poolType, target, extra string) (bool, error)
}

var (
	_ Operations = (*Virsh)(nil)
	_ Operations = (*Persistent)(nil)
)

func (v *Virsh) Command(ctx context.Context, command string) (*executor.Result, error) {
	return Command(ctx, v.params(), command)
}

func (v *Virsh) Domname(ctx context.Context, id string) (*executor.Result, error) {
	return Domname(ctx, v.params(), id)
}

func (v *Virsh) QemuMonitorCommand(ctx context.Context, name, command string) (*executor.Result, error) {
	return QemuMonitorCommand(ctx, v.params(), name, command)
}

func (v *Virsh) Vcpupin(ctx context.Context, name string, vcpu int, cpuList string) (bool, error) {
	return Vcpupin(ctx, v.params(), name, vcpu, cpuList)
}

func (v *Virsh) Vcpuinfo(ctx context.Context, name string) (string, error) {
	return Vcpuinfo(ctx, v.params(), name)
}

func (v *Virsh) VcpucountLive(ctx context.Context, name string) (string, error) {
	return VcpucountLive(ctx, v.params(), name)
}

func (v *Virsh) Freecell(ctx context.Context, extra string) (*executor.Result, error) {
	return Freecell(ctx, v.params(), extra)
}

func (v *Virsh) Nodeinfo(ctx context.Context, extra string) (*executor.Result, error) {
	return Nodeinfo(ctx, v.params(), extra)
}

func (v *Virsh) CanonicalURI(ctx context.Context) (string, error) {
	return CanonicalURI(ctx, v.params())
}

func (v *Virsh) Hostname(ctx context.Context) (string, error) {
	return Hostname(ctx, v.params())
}

func (v *Virsh) Version(ctx context.Context) (string, error) {
	return Version(ctx, v.params())
}

func (v *Virsh) Driver(ctx context.Context) (string, error) {
	return Driver(ctx, v.params())
}

func (v *Virsh) Domstate(ctx context.Context, name string) (string, error) {
	return Domstate(ctx, v.params(), name)
}

func (v *Virsh) Domid(ctx context.Context, name string) (string, error) {
	return Domid(ctx, v.params(), name)
}

func (v *Virsh) Dominfo(ctx context.Context, name string) (string, error) {
	return Dominfo(ctx, v.params(), name)
}

func (v *Virsh) Domuuid(ctx context.Context, name string) (string, error) {
	return Domuuid(ctx, v.params(), name)
}

func (v *Virsh) Screenshot(ctx context.Context, name, filename string) (string, error) {
	return Screenshot(ctx, v.params(), name, filename)
}

func (v *Virsh) Dumpxml(ctx context.Context, name, toFile string) (string, error) {
	return Dumpxml(ctx, v.params(), name, toFile)
}

func (v *Virsh) IsAlive(ctx context.Context, name string) (bool, error) {
	return IsAlive(ctx, v.params(), name)
}

func (v *Virsh) IsDead(ctx context.Context, name string) (bool, error) {
	return IsDead(ctx, v.params(), name)
}

func (v *Virsh) Suspend(ctx context.Context, name string) (bool, error) {
	return Suspend(ctx, v.params(), name)
}

func (v *Virsh) Resume(ctx context.Context, name string) (bool, error) {
	return Resume(ctx, v.params(), name)
}

func (v *Virsh) Save(ctx context.Context, name, path string) error {
	return Save(ctx, v.params(), name, path)
}

func (v *Virsh) Restore(ctx context.Context, name, path string) error {
	return Restore(ctx, v.params(), name, path)
}

func (v *Virsh) Start(ctx context.Context, name string) (bool, error) {
	return Start(ctx, v.params(), name)
}

func (v *Virsh) Shutdown(ctx context.Context, name string) (bool, error) {
	return Shutdown(ctx, v.params(), name)
}

func (v *Virsh) Destroy(ctx context.Context, name string) (bool, error) {
	return Destroy(ctx, v.params(), name)
}

func (v *Virsh) Define(ctx context.Context, xmlPath string) (bool, error) {
	return Define(ctx, v.params(), xmlPath)
}

func (v *Virsh) Undefine(ctx context.Context, name string) (bool, error) {
	return Undefine(ctx, v.params(), name)
}

func (v *Virsh) RemoveDomain(ctx context.Context, name string) (bool, error) {
	return RemoveDomain(ctx, v.params(), name)
}

func (v *Virsh) DomainExists(ctx context.Context, name string) (bool, error) {
	return DomainExists(ctx, v.params(), name)
}

func (v *Virsh) Migrate(ctx context.Context, name, destURI, option, extra string) (*executor.Result, error) {
	return Migrate(ctx, v.params(), name, destURI, option, extra)
}

func (v *Virsh) AttachDevice(ctx context.Context, name, xmlFile, extra string) (bool, error) {
	return AttachDevice(ctx, v.params(), name, xmlFile, extra)
}

func (v *Virsh) DetachDevice(ctx context.Context, name, xmlFile, extra string) (bool, error) {
	return DetachDevice(ctx, v.params(), name, xmlFile, extra)
}

func (v *Virsh) AttachInterface(ctx context.Context, name, option string) (*executor.Result, error) {
	return AttachInterface(ctx, v.params(), name, option)
}

func (v *Virsh) DetachInterface(ctx context.Context, name, option string) (*executor.Result, error) {
	return DetachInterface(ctx, v.params(), name, option)
}

func (v *Virsh) ChangeMedia(ctx context.Context, name, device, source, extra string) (bool, error) {
	return ChangeMedia(ctx, v.params(), name, device, source, extra)
}

func (v *Virsh) AttachDisk(ctx context.Context, name string, disk *libvirtxml.DomainDisk, extra string) (bool, error) {
	return AttachDisk(ctx, v.params(), name, disk, extra)
}

func (v *Virsh) NetCreate(ctx context.Context, xmlFile, extra string) (*executor.Result, error) {
	return NetCreate(ctx, v.params(), xmlFile, extra)
}

func (v *Virsh) NetCreateXML(ctx context.Context, network *libvirtxml.Network, extra string) (*executor.Result, error) {
	return NetCreateXML(ctx, v.params(), network, extra)
}

func (v *Virsh) NetList(ctx context.Context, options, extra string) (*executor.Result, error) {
	return NetList(ctx, v.params(), options, extra)
}

func (v *Virsh) NetDestroy(ctx context.Context, name, extra string) (*executor.Result, error) {
	return NetDestroy(ctx, v.params(), name, extra)
}

func (v *Virsh) PoolInfo(ctx context.Context, name string) (bool, error) {
	return PoolInfo(ctx, v.params(), name)
}

func (v *Virsh) PoolDestroy(ctx context.Context, name string) (bool, error) {
	return PoolDestroy(ctx, v.params(), name)
}

func (v *Virsh) PoolCreateAs(ctx context.Context, name, poolType, target, extra string) (bool, error) {
	return PoolCreateAs(ctx, v.params(), name, poolType, target, extra)
}
