package browser

import (
	"fmt"
	"os/exec"
	"runtime"
)

var openers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// Open launches the user's default browser at the given URL. The command is
// started and not waited on.
func Open(url string) error {
	cmd, ok := openers[runtime.GOOS]
	if !ok {
		return fmt.Errorf("browser: unsupported OS %q", runtime.GOOS)
	}
	return exec.Command(cmd[0], append(cmd[1:], url)...).Start()
}
