// Package open hands a stream address to another program.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// StartWith opens the address with app, or with the system's default handler
// when app is empty, and returns without waiting for it.
func StartWith(address, app string) error {
	cmd, err := command(runtime.GOOS, address, app)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(goos, address, app string) (*exec.Cmd, error) {
	switch goos {
	case "windows":
		if app == "" {
			rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
			return exec.Command(rundll, "url.dll,FileProtocolHandler", address), nil
		}
		// start treats & as a command separator
		return exec.Command("cmd", "/C", "start", "", app, strings.ReplaceAll(address, "&", "^&")), nil
	case "darwin":
		if app == "" {
			return exec.Command("open", address), nil
		}
		return exec.Command("open", "-a", app, address), nil
	case "linux":
		if app == "" {
			return exec.Command("xdg-open", address), nil
		}
		return exec.Command(app, address), nil
	case "android":
		if app == "" {
			return exec.Command("termux-open", address), nil
		}
		return exec.Command("termux-open", "--choose", address), nil
	default:
		return nil, fmt.Errorf("cannot open streams on %s", goos)
	}
}
