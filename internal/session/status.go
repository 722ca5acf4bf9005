package session

import (
	"regexp"
	"strings"
)

// errorPatterns are the textual failure markers the interactive shell
// prints. virsh reports no exit status over the interactive channel, so a
// command is considered failed when any output line matches one of these.
// This is approximate: legitimate output containing "failed" is classified
// as a failure too.
var errorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^error:\s*`),
	regexp.MustCompile(`(?i)failed`),
}

// InferStatus returns 1 when any line of output matches an error marker and
// 0 otherwise.
func InferStatus(output string) int {
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		for _, re := range errorPatterns {
			if re.MatchString(line) {
				return 1
			}
		}
	}
	return 0
}
