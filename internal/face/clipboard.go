package face

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"
)

// ErrNoClipboard is returned when no clipboard command can be found.
var ErrNoClipboard = errors.New("no clipboard command available")

const clipboardTimeout = 5 * time.Second

// clipboardTool is a command that reads the clipboard contents from stdin.
type clipboardTool struct {
	env  string // Session variable that must be set for the tool to work
	args []string
}

var clipboardTools = []clipboardTool{
	{env: "WAYLAND_DISPLAY", args: []string{"wl-copy"}},
	{env: "DISPLAY", args: []string{"xclip", "-selection", "clipboard"}},
	{env: "DISPLAY", args: []string{"xsel", "--clipboard", "--input"}},
}

// copyText copies text to the system clipboard using command, or the first
// tool that fits the current session when command is empty.
func copyText(text, command string) error {
	args := clipboardCommand(command, os.Getenv, exec.LookPath)
	if len(args) == 0 {
		return ErrNoClipboard
	}

	ctx, cancel := context.WithTimeout(context.Background(), clipboardTimeout)
	defer cancel()

	c := exec.CommandContext(ctx, args[0], args[1:]...)
	c.Stdin = strings.NewReader(text)
	return c.Run()
}

// clipboardCommand resolves the command line to run.
func clipboardCommand(configured string, getenv func(string) string, lookPath func(string) (string, error)) []string {
	if configured != "" {
		return strings.Fields(configured)
	}

	for _, tool := range clipboardTools {
		if getenv(tool.env) == "" {
			continue
		}
		if _, err := lookPath(tool.args[0]); err == nil {
			return tool.args
		}
	}
	return nil
}
