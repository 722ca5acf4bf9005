// Package session provides a persistent interactive channel to the
// management binary.
//
// A Session spawns the binary once (on a pseudo-terminal by default), waits
// for its prompt, and then exchanges newline-terminated commands with it,
// reading each response up to the next prompt:
//
//	s, err := session.Open(ctx, session.Options{ExecutablePath: "/usr/bin/virsh"})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	status, out, err := s.SendCommand(ctx, "domstate vm1", time.Minute, 0)
//
// The interactive channel carries no exit status and merges stdout and
// stderr. Status is inferred from the text: a line starting with "error:"
// or containing "failed" (case-insensitive) means failure.
//
// Sessions opened through a Registry can be looked up again by id.
package session
