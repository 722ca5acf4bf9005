// Package virsh is the operation catalog for the virsh management tool and
// the façades that bind it to a configuration.
//
// Every catalog function takes a context, a Params value and typed
// arguments, builds one virsh sub-command and runs it through the executor.
// Functions fall into three styles:
//
//   - Raw: return the *executor.Result or its trimmed stdout and pass every
//     error through (Command, Migrate, NetCreate, Dominfo, ...).
//   - Boolean: return (bool, error). A failed virsh command is logged and
//     reported as false; session and configuration faults are still returned
//     as errors (Start, Shutdown, AttachDevice, PoolCreateAs, ...).
//   - Strict: verify the domain state before and after and return a
//     *StatusError on mismatch (Save, Restore).
//
// Virsh binds the catalog to a config.Properties and spawns one process per
// call. Persistent does the same over a single interactive session.
package virsh
