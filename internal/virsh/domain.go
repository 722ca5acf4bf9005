package virsh

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jbweber/virshkit/internal/executor"
)

// Domname converts a domain id or UUID to its name.
func Domname(ctx context.Context, p Params, id string) (*executor.Result, error) {
	return p.run(ctx, "domname --domain "+id)
}

// QemuMonitorCommand runs a human monitor command inside the domain's QEMU.
func QemuMonitorCommand(ctx context.Context, p Params, name, command string) (*executor.Result, error) {
	return p.run(ctx, fmt.Sprintf("qemu-monitor-command %s --hmp '%s'", name, command))
}

// Vcpupin changes the physical CPU affinity of one virtual CPU.
func Vcpupin(ctx context.Context, p Params, name string, vcpu int, cpuList string) (bool, error) {
	_, err := p.run(ctx, fmt.Sprintf("vcpupin %s %d %s", name, vcpu, cpuList))
	return outcome(err, "Virsh vcpupin VM %s failed", name)
}

// Vcpuinfo returns the virtual CPU report of a domain.
func Vcpuinfo(ctx context.Context, p Params, name string) (string, error) {
	return trimmed(ctx, p, "vcpuinfo "+name)
}

// VcpucountLive returns the number of active virtual CPUs of a running domain.
func VcpucountLive(ctx context.Context, p Params, name string) (string, error) {
	return trimmed(ctx, p, "vcpucount --live --active "+name)
}

// Domstate returns the state of a domain, e.g. "running" or "shut off".
func Domstate(ctx context.Context, p Params, name string) (string, error) {
	return trimmed(ctx, p, "domstate "+name)
}

// Domid returns the numeric id of a running domain.
func Domid(ctx context.Context, p Params, name string) (string, error) {
	return trimmed(ctx, p, "domid "+name)
}

// Dominfo returns the basic information report of a domain.
func Dominfo(ctx context.Context, p Params, name string) (string, error) {
	return trimmed(ctx, p, "dominfo "+name)
}

// Domuuid returns the UUID of a domain.
func Domuuid(ctx context.Context, p Params, name string) (string, error) {
	return trimmed(ctx, p, "domuuid "+name)
}

// Dumpxml returns the domain XML. When toFile is set the output is
// redirected there by the shell and the returned string is empty.
func Dumpxml(ctx context.Context, p Params, name, toFile string) (string, error) {
	if toFile != "" {
		return trimmed(ctx, p, fmt.Sprintf("dumpxml %s > %s", name, toFile))
	}
	return trimmed(ctx, p, "dumpxml "+name)
}

// Screenshot captures the domain console into filename on the host and
// returns filename. Failures are never returned as errors; only the first
// one counted in p.ScreenshotErrors is logged.
func Screenshot(ctx context.Context, p Params, name, filename string) (string, error) {
	_, err := p.run(ctx, fmt.Sprintf("screenshot %s %s", name, filename))
	if err == nil {
		return filename, nil
	}
	if !isCommandError(err) {
		return filename, err
	}

	if p.ScreenshotErrors == nil || *p.ScreenshotErrors < 1 {
		logrus.Errorf("Error taking VM %s screenshot. You might have to disable "+
			"regular screendumps in your test configuration.\n%v\nThis will be "+
			"the only logged error message.", name, err)
	}
	if p.ScreenshotErrors != nil {
		*p.ScreenshotErrors++
	}
	return filename, nil
}

// IsDead reports whether the domain is undefined or not running. A failing
// state query counts as dead even when p ignores errors.
func IsDead(ctx context.Context, p Params, name string) (bool, error) {
	state, err := Domstate(ctx, p.strict(), name)
	if err != nil {
		if isCommandError(err) {
			return true, nil
		}
		return false, err
	}
	return !IsAliveState(state), nil
}

// IsAlive reports whether the domain is running, idle, paused or in no state.
func IsAlive(ctx context.Context, p Params, name string) (bool, error) {
	dead, err := IsDead(ctx, p, name)
	if err != nil {
		return false, err
	}
	return !dead, nil
}

// DomainExists reports whether the domain is defined.
func DomainExists(ctx context.Context, p Params, name string) (bool, error) {
	_, err := p.strict().run(ctx, "domstate "+name)
	if err == nil {
		return true, nil
	}
	if isCommandError(err) {
		logrus.Warnf("VM %s does not exist:\n%v", name, err)
		return false, nil
	}
	return false, err
}

// Suspend pauses the domain and reports whether it ended up paused.
func Suspend(ctx context.Context, p Params, name string) (bool, error) {
	if _, err := p.run(ctx, "suspend "+name); err != nil {
		return outcome(err, "Suspending VM %s failed", name)
	}
	state, err := Domstate(ctx, p, name)
	if err != nil {
		return outcome(err, "Suspending VM %s failed", name)
	}
	if state != StatePaused {
		return false, nil
	}
	logrus.Debugf("Suspended VM %s", name)
	return true, nil
}

// Resume unpauses the domain and reports whether it is alive afterwards.
func Resume(ctx context.Context, p Params, name string) (bool, error) {
	if _, err := p.run(ctx, "resume "+name); err != nil {
		return outcome(err, "Resume VM %s failed", name)
	}
	alive, err := IsAlive(ctx, p, name)
	if err != nil || !alive {
		return false, err
	}
	logrus.Debugf("Resumed VM %s", name)
	return true, nil
}

// Save stores the state of a paused domain into path. The domain must be
// paused before and shut off afterwards, otherwise a *StatusError is
// returned.
func Save(ctx context.Context, p Params, name, path string) error {
	state, err := Domstate(ctx, p, name)
	if err != nil {
		return err
	}
	if state != StatePaused {
		return &StatusError{Domain: name, State: state, Message: fmt.Sprintf("cannot save a VM that is %s", state)}
	}

	logrus.Debugf("Saving VM %s to %s", name, path)
	if _, err := p.run(ctx, fmt.Sprintf("save %s %s", name, path)); err != nil {
		return err
	}

	state, err = Domstate(ctx, p, name)
	if err != nil {
		return err
	}
	if state != StateShutOff {
		return &StatusError{Domain: name, State: state, Message: fmt.Sprintf("VM not shut off after save, it is %s", state)}
	}
	return nil
}

// Restore loads domain state from path. The domain must be shut off before
// and paused or running afterwards, otherwise a *StatusError is returned.
// Whether path actually belongs to name is not checked.
func Restore(ctx context.Context, p Params, name, path string) error {
	state, err := Domstate(ctx, p, name)
	if err != nil {
		return err
	}
	if state != StateShutOff {
		return &StatusError{Domain: name, State: state, Message: fmt.Sprintf("cannot restore a VM that is %s", state)}
	}

	logrus.Debugf("Restoring VM %s from %s", name, path)
	if _, err := p.run(ctx, "restore "+path); err != nil {
		return err
	}

	state, err = Domstate(ctx, p, name)
	if err != nil {
		return err
	}
	if state != StatePaused && state != StateRunning {
		return &StatusError{Domain: name, State: state, Message: fmt.Sprintf("VM not paused after restore, it is %s", state)}
	}
	return nil
}

// Start boots a defined, inactive domain. An already alive domain is a
// success without running anything.
func Start(ctx context.Context, p Params, name string) (bool, error) {
	alive, err := IsAlive(ctx, p, name)
	if err != nil {
		return false, err
	}
	if alive {
		return true, nil
	}
	_, err = p.run(ctx, "start "+name)
	return outcome(err, "Start VM %s failed", name)
}

// Shutdown asks the guest to power off. A domain already shut off is a
// success.
func Shutdown(ctx context.Context, p Params, name string) (bool, error) {
	return stopDomain(ctx, p, "shutdown", name)
}

// Destroy forcefully stops the domain. A domain already shut off is a
// success.
func Destroy(ctx context.Context, p Params, name string) (bool, error) {
	return stopDomain(ctx, p, "destroy", name)
}

func stopDomain(ctx context.Context, p Params, verb, name string) (bool, error) {
	state, err := Domstate(ctx, p, name)
	if err != nil {
		return outcome(err, "Failed to %s VM %s", verb, name)
	}
	if state == StateShutOff {
		return true, nil
	}
	_, err = p.run(ctx, verb+" "+name)
	return outcome(err, "Failed to %s VM %s", verb, name)
}

// Define creates a persistent domain from an XML file.
func Define(ctx context.Context, p Params, xmlPath string) (bool, error) {
	_, err := p.run(ctx, "define --file "+xmlPath)
	return outcome(err, "Define %s failed", xmlPath)
}

// Undefine removes the persistent definition of a domain.
func Undefine(ctx context.Context, p Params, name string) (bool, error) {
	if _, err := p.run(ctx, "undefine "+name); err != nil {
		return outcome(err, "undefine VM %s failed", name)
	}
	logrus.Debugf("undefined VM %s", name)
	return true, nil
}

// RemoveDomain destroys the domain if it is alive and undefines it. It is
// best-effort: a missing domain or a failed step still reports true.
func RemoveDomain(ctx context.Context, p Params, name string) (bool, error) {
	exists, err := DomainExists(ctx, p, name)
	if err != nil {
		return false, err
	}
	if !exists {
		return true, nil
	}

	alive, err := IsAlive(ctx, p, name)
	if err != nil {
		return false, err
	}
	if alive {
		if _, err := Destroy(ctx, p, name); err != nil {
			return false, err
		}
	}
	if _, err := Undefine(ctx, p, name); err != nil {
		return false, err
	}
	return true, nil
}

// Migrate moves a domain to another host. option goes before the domain,
// extra after the destination URI.
func Migrate(ctx context.Context, p Params, name, destURI, option, extra string) (*executor.Result, error) {
	command := join("migrate", option)
	if name != "" {
		command = join(command, "--domain", name)
	}
	if destURI != "" {
		command = join(command, "--desturi", destURI)
	}
	return p.run(ctx, join(command, extra))
}
