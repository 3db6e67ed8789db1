//go:build !unix

package trainer

import (
	"os/exec"
	"time"
)

// configureProcessGroup falls back to killing the direct child only.
func configureProcessGroup(cmd *exec.Cmd, grace time.Duration) {
	cmd.WaitDelay = grace
}
