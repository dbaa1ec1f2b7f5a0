//go:build !unix

package shellutil

import "os/exec"

// setProcessGroup is a no-op where process groups are unavailable; the
// default CommandContext cancellation kills only the direct child.
func setProcessGroup(cmd *exec.Cmd) {}
