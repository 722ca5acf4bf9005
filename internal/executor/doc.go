// Package executor runs sub-commands of the management binary and normalizes
// the outcome into a Result.
//
// Two paths exist. When Options.Session is set the sub-command is typed into
// the persistent interactive session; stderr is then always empty and the
// exit status is inferred by the session. Otherwise a command line of the form
//
//	<executable_path> [-c '<uri>'] <subcommand>
//
// is spawned as a one-shot child process through a Runner and the real exit
// status is used.
//
// In both cases a nonzero status is reported as a *CommandError unless
// Options.IgnoreErrors is set.
package executor
