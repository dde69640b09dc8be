package notify

import (
	"fmt"
	"io"
	"os"
	"strings"

	fcolor "github.com/fatih/color"
	"golang.org/x/term"
)

// WritePatch writes unified diff text line by line. On a terminal, additions
// are green, deletions red, hunk markers cyan and file headers bold; anywhere
// else the text is written verbatim so it can be fed to patch tools. A
// trailing newline is added when missing.
func WritePatch(writer io.Writer, patchText string) {
	if patchText == "" {
		return
	}

	if writer == nil {
		writer = os.Stdout
	}

	colored := isTerminal(writer)

	lines := strings.Split(strings.TrimSuffix(patchText, "\n"), "\n")
	for _, line := range lines {
		var err error
		if colored {
			_, err = patchLineColor(line).Fprintln(writer, line)
		} else {
			_, err = fmt.Fprintln(writer, line)
		}

		handleNotifyError(err)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)

	return ok && term.IsTerminal(int(file.Fd()))
}

func patchLineColor(line string) *fcolor.Color {
	switch {
	case strings.HasPrefix(line, "Index: "), strings.HasPrefix(line, "==="),
		strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
		return fcolor.New(fcolor.Bold)
	case strings.HasPrefix(line, "@@"):
		return fcolor.New(fcolor.FgCyan)
	case strings.HasPrefix(line, "+"):
		return fcolor.New(fcolor.FgGreen)
	case strings.HasPrefix(line, "-"):
		return fcolor.New(fcolor.FgRed)
	default:
		return fcolor.New(fcolor.Reset)
	}
}
