package terminal

import (
	"fmt"
	"io"
	"log"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/fatih/color"
)

// UI is a terminal UI
type UI interface {
	AutoConfirm() bool
	Ask(answer interface{}, questions ...*survey.Question) error
	AskOne(answer interface{}, prompt survey.Prompt) error
	Confirm(format string, args ...interface{}) (bool, error)
	Print(logs ...Log)
}

// UIConfig holds the global config for the CLI ui
type UIConfig struct {
	AutoConfirm   bool
	DisableColors bool
	OutputFormat  OutputFormat
	OutputTarget  string
}

// NewUI creates a new terminal UI
func NewUI(config UIConfig, in io.Reader, out, err io.Writer, errLogger *log.Logger) UI {
	noColor := config.DisableColors
	if config.OutputFormat == OutputFormatJSON {
		noColor = true
	}
	color.NoColor = noColor

	return &ui{
		config:    config,
		in:        in,
		out:       out,
		err:       err,
		errLogger: errLogger,
	}
}

type ui struct {
	config    UIConfig
	in        io.Reader
	out       io.Writer
	err       io.Writer
	errLogger *log.Logger
}

func (ui *ui) AutoConfirm() bool {
	return ui.config.AutoConfirm
}

func (ui *ui) Ask(answer interface{}, questions ...*survey.Question) error {
	return survey.Ask(questions, answer, ui.withStdio())
}

func (ui *ui) AskOne(answer interface{}, prompt survey.Prompt) error {
	return survey.AskOne(prompt, answer, ui.withStdio())
}

func (ui *ui) Confirm(format string, args ...interface{}) (bool, error) {
	if ui.config.AutoConfirm {
		return true, nil
	}

	var proceed bool
	if err := ui.AskOne(&proceed, &survey.Confirm{Message: fmt.Sprintf(format, args...)}); err != nil {
		return false, err
	}
	return proceed, nil
}

func (ui *ui) Print(logs ...Log) {
	for _, log := range logs {
		output, outputErr := log.Print(ui.config.OutputFormat)
		if outputErr != nil {
			ui.logErr(outputErr)
			continue
		}

		writer := ui.out
		if log.Level == LogLevelError {
			writer = ui.err
		}

		if _, err := fmt.Fprintln(writer, output); err != nil {
			ui.logErr(err)
		}
	}
}

func (ui *ui) logErr(err error) {
	if ui.errLogger == nil {
		return
	}
	ui.errLogger.Print(err)
}

func (ui *ui) withStdio() survey.AskOpt {
	in, inOK := ui.in.(terminal.FileReader)
	if !inOK {
		in = noopFdReader{ui.in}
	}
	out, outOK := ui.out.(terminal.FileWriter)
	if !outOK {
		out = noopFdWriter{ui.out}
	}
	return survey.WithStdio(in, out, ui.err)
}

type noopFdReader struct {
	io.Reader
}

func (r noopFdReader) Fd() uintptr {
	return 0
}

type noopFdWriter struct {
	io.Writer
}

func (w noopFdWriter) Fd() uintptr {
	return 0
}
