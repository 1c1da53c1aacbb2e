// Package open hands resolved media URLs to the system default handler or to a chosen player.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// Start opens input with app, or with the default handler when app is empty, without waiting for it to exit.
func Start(input, app string) error {
	cmd, err := Command(runtime.GOOS, input, app)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command builds the command that opens input on goos.
func Command(goos, input, app string) (*exec.Cmd, error) {
	if app == "" {
		switch goos {
		case "windows":
			rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
			return exec.Command(rundll, "url.dll,FileProtocolHandler", input), nil
		case "darwin":
			return exec.Command("open", input), nil
		case "linux":
			return exec.Command("xdg-open", input), nil
		case "android":
			return exec.Command("termux-open", input), nil
		}
		return nil, fmt.Errorf("unsupported OS: %s", goos)
	}

	switch goos {
	case "windows":
		// cmd's start treats & as a command separator
		escaped := strings.ReplaceAll(input, "&", "^&")
		return exec.Command("cmd", "/C", "start", "", app, escaped), nil
	case "darwin":
		return exec.Command("open", "-a", app, input), nil
	case "linux":
		return exec.Command(app, input), nil
	case "android":
		return exec.Command("termux-open", "--choose", input), nil
	}
	return nil, fmt.Errorf("unsupported OS: %s", goos)
}
