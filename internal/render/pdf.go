package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

const (
	// PrinterNone disables PDF output.
	PrinterNone = "none"

	printerWkhtmltopdf = "wkhtmltopdf"
)

var (
	ErrPrint = errors.New("error printing report to PDF")

	// chromeCommands are looked up in order when no PDF command is configured.
	chromeCommands = []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable", "chrome"}
)

// Printer converts the HTML report file into a PDF file.
type Printer interface {
	Print(ctx context.Context, htmlPath, pdfPath string) error
}

// CommandPrinter prints with an external HTML to PDF converter,
// either wkhtmltopdf or a headless Chrome/Chromium.
type CommandPrinter struct {
	// Path is the converter executable.
	Path string
	args func(htmlPath, pdfPath string) []string
}

// NewPrinter returns a Printer for the configured command.
//
// An empty command looks up wkhtmltopdf and then a Chrome/Chromium binary in PATH,
// a nil Printer is returned for the none command.
func NewPrinter(command string) (Printer, error) {
	command = strings.TrimSpace(command)

	switch command {
	case PrinterNone:
		return nil, nil
	case "":
		for _, candidate := range append([]string{printerWkhtmltopdf}, chromeCommands...) {
			if p, err := lookupPrinter(candidate); err == nil {
				return p, nil
			}
		}

		return nil, errors.Wrap(ErrPrint, "no wkhtmltopdf or Chrome/Chromium executable found in PATH")
	case "chrome":
		for _, candidate := range chromeCommands {
			if p, err := lookupPrinter(candidate); err == nil {
				return p, nil
			}
		}

		return nil, errors.Wrap(ErrPrint, "no Chrome/Chromium executable found in PATH")
	default:
		p, err := lookupPrinter(command)
		if err != nil {
			return nil, err
		}

		return p, nil
	}
}

func lookupPrinter(command string) (*CommandPrinter, error) {
	path, err := exec.LookPath(command)
	if err != nil {
		return nil, errors.Wrap(ErrPrint, err.Error())
	}

	if strings.Contains(filepath.Base(path), printerWkhtmltopdf) {
		return &CommandPrinter{Path: path, args: wkhtmltopdfArgs}, nil
	}

	return &CommandPrinter{Path: path, args: chromeArgs}, nil
}

func wkhtmltopdfArgs(htmlPath, pdfPath string) []string {
	return []string{"--quiet", "--enable-local-file-access", htmlPath, pdfPath}
}

func chromeArgs(htmlPath, pdfPath string) []string {
	return []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--no-pdf-header-footer",
		"--print-to-pdf=" + pdfPath,
		"file://" + filepath.ToSlash(htmlPath),
	}
}

// Print runs the converter on the HTML file, the HTML file is left in place on failure.
func (p *CommandPrinter) Print(ctx context.Context, htmlPath, pdfPath string) error {
	htmlPath, err := filepath.Abs(htmlPath)
	if err != nil {
		return errors.Wrap(ErrPrint, err.Error())
	}

	pdfPath, err = filepath.Abs(pdfPath)
	if err != nil {
		return errors.Wrap(ErrPrint, err.Error())
	}

	var stderr bytes.Buffer

	// nolint:gosec // the converter path is from the operator configuration
	cmd := exec.CommandContext(ctx, p.Path, p.args(htmlPath, pdfPath)...)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(ErrPrint, strings.TrimSpace(err.Error()+": "+stderr.String()))
	}

	if _, err := os.Stat(pdfPath); err != nil {
		return errors.Wrap(ErrPrint, "converter produced no output: "+err.Error())
	}

	return nil
}
