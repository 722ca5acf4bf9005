package virsh

// Domain states as printed by "virsh domstate".
const (
	StateUndefined   = "undefined"
	StateShutOff     = "shut off"
	StateRunning     = "running"
	StatePaused      = "paused"
	StateIdle        = "idle"
	StateNoState     = "no state"
	StateInShutdown  = "in shutdown"
	StateCrashed     = "crashed"
	StatePMSuspended = "pmsuspended"
)

// aliveStates are the states in which a domain counts as alive.
var aliveStates = map[string]bool{
	StateRunning: true,
	StateIdle:    true,
	StateNoState: true,
	StatePaused:  true,
}

// IsAliveState reports whether state is one of running, idle, no state or
// paused.
func IsAliveState(state string) bool {
	return aliveStates[state]
}
