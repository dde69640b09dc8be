package notify

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	fcolor "github.com/fatih/color"
)

// MessageType selects the symbol and color of a message.
type MessageType int

// Message types, one per line prefix ksync prints.
const (
	ErrorType MessageType = iota
	WarningType
	ActivityType
	GenerateType
	SuccessType
	InfoType
	// TitleType prints an emoji instead of a symbol, in bold.
	TitleType
)

// defaultTitleEmoji heads titles that name no emoji.
const defaultTitleEmoji = "ℹ️"

type style struct {
	symbol     string
	attributes []fcolor.Attribute
}

var styles = map[MessageType]style{ //nolint:gochecknoglobals // read-only lookup table
	ErrorType:    {symbol: "✗ ", attributes: []fcolor.Attribute{fcolor.FgRed}},
	WarningType:  {symbol: "⚠ ", attributes: []fcolor.Attribute{fcolor.FgYellow}},
	ActivityType: {symbol: "► ", attributes: []fcolor.Attribute{fcolor.Reset}},
	GenerateType: {symbol: "✚ ", attributes: []fcolor.Attribute{fcolor.Reset}},
	SuccessType:  {symbol: "✔ ", attributes: []fcolor.Attribute{fcolor.FgGreen}},
	InfoType:     {symbol: "ℹ ", attributes: []fcolor.Attribute{fcolor.FgBlue}},
	TitleType:    {attributes: []fcolor.Attribute{fcolor.Reset, fcolor.Bold}},
}

// Message is one line (or indented block) of user facing output.
type Message struct {
	Type    MessageType
	Content string
	// Args format Content when present.
	Args []any
	// Elapsed is appended to success messages when positive.
	Elapsed time.Duration
	// Emoji heads title messages.
	Emoji string
	// Writer defaults to os.Stdout.
	Writer io.Writer
}

// Errorf reports a failure.
func Errorf(writer io.Writer, format string, args ...any) {
	printf(writer, ErrorType, format, args)
}

// Warningf reports a non-fatal problem, such as a value shown undecoded.
func Warningf(writer io.Writer, format string, args ...any) {
	printf(writer, WarningType, format, args)
}

// Activityf reports a record present in one store only.
func Activityf(writer io.Writer, format string, args ...any) {
	printf(writer, ActivityType, format, args)
}

// Generatef reports a written manifest.
func Generatef(writer io.Writer, format string, args ...any) {
	printf(writer, GenerateType, format, args)
}

// Successf reports a completed step.
func Successf(writer io.Writer, format string, args ...any) {
	printf(writer, SuccessType, format, args)
}

// SuccessWithElapsedf reports a completed step and how long it took.
func SuccessWithElapsedf(writer io.Writer, elapsed time.Duration, format string, args ...any) {
	WriteMessage(Message{Type: SuccessType, Content: format, Args: args, Elapsed: elapsed, Writer: writer})
}

// Infof writes a summary or hint.
func Infof(writer io.Writer, format string, args ...any) {
	printf(writer, InfoType, format, args)
}

// Titlef opens a command's output.
func Titlef(writer io.Writer, emoji, format string, args ...any) {
	WriteMessage(Message{Type: TitleType, Content: fmt.Sprintf(format, args...), Emoji: emoji, Writer: writer})
}

func printf(writer io.Writer, msgType MessageType, format string, args []any) {
	WriteMessage(Message{Type: msgType, Content: format, Args: args, Writer: writer})
}

// WriteMessage prints msg with its type's symbol and color. Continuation lines
// of multi-line content are indented under the first.
func WriteMessage(msg Message) {
	writer := msg.Writer
	if writer == nil {
		writer = os.Stdout
	}

	content := msg.Content
	if len(msg.Args) > 0 {
		content = fmt.Sprintf(msg.Content, msg.Args...)
	}

	msgStyle := styles[msg.Type]
	content = indentContinuation(content, msgStyle.symbol)
	color := fcolor.New(msgStyle.attributes...)

	var err error

	switch {
	case msg.Type == TitleType:
		emoji := msg.Emoji
		if emoji == "" {
			emoji = defaultTitleEmoji
		}

		_, err = color.Fprintf(writer, "%s %s\n", emoji, content)
	case msg.Type == SuccessType && msg.Elapsed > 0:
		_, err = color.Fprintf(writer, "%s%s [%s]\n", msgStyle.symbol, content, msg.Elapsed.Round(time.Millisecond))
	default:
		_, err = color.Fprintf(writer, "%s%s\n", msgStyle.symbol, content)
	}

	handleNotifyError(err)
}

// handleNotifyError reports write failures on stderr; output is best effort.
func handleNotifyError(err error) {
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "notify: failed to print message: %v\n", err)
	}
}

func indentContinuation(content, symbol string) string {
	if symbol == "" || !strings.Contains(content, "\n") {
		return content
	}

	indent := strings.Repeat(" ", len([]rune(symbol)))
	lines := strings.Split(content, "\n")

	for index := 1; index < len(lines); index++ {
		if lines[index] != "" {
			lines[index] = indent + lines[index]
		}
	}

	return strings.Join(lines, "\n")
}
