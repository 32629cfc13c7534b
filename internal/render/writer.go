package render

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/msiegy/meraki-eol-manager/internal/app"
	"github.com/msiegy/meraki-eol-manager/internal/metrics"
	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const (
	pkgName = "internal/render"

	fileMode = 0o644
	dirMode  = 0o755
)

// Artifacts lists the report files written.
type Artifacts struct {
	HTML string
	JSON string
	PDF  string
	// PDFErr is set when the PDF could not be printed, the HTML report is written regardless.
	PDFErr error
}

// Writer persists the report artifacts.
type Writer struct {
	opts    *app.ReportOptions
	printer Printer
	logger  *logrus.Logger
}

// NewWriter returns a report Writer, a nil printer disables the PDF output.
func NewWriter(opts *app.ReportOptions, printer Printer, logger *logrus.Logger) *Writer {
	return &Writer{opts: opts, printer: printer, logger: logger}
}

// Write writes the HTML report, the JSON report when enabled, and then prints the PDF.
//
// An error is returned when the HTML or JSON report could not be written,
// a PDF print failure is logged and returned in the Artifacts.
func (w *Writer) Write(ctx context.Context, run *model.RunResult) (*Artifacts, error) {
	ctx, span := otel.Tracer(pkgName).Start(ctx, "Writer.Write")
	defer span.End()

	defer metrics.ObserveStage("render", time.Now())

	if err := os.MkdirAll(w.opts.OutputDir, dirMode); err != nil {
		return nil, errors.Wrap(ErrRender, err.Error())
	}

	artifacts := &Artifacts{}

	var html bytes.Buffer
	if err := HTML(&html, w.opts.Title, run); err != nil {
		return nil, err
	}

	if err := writeFile(w.opts.HTMLPath(), html.Bytes()); err != nil {
		return nil, err
	}

	artifacts.HTML = w.opts.HTMLPath()
	w.logger.WithField("path", artifacts.HTML).Info("HTML report written")

	if w.opts.WriteJSON {
		var buf bytes.Buffer
		if err := JSON(&buf, run); err != nil {
			return artifacts, err
		}

		if err := writeFile(w.opts.JSONPath(), buf.Bytes()); err != nil {
			return artifacts, err
		}

		artifacts.JSON = w.opts.JSONPath()
		w.logger.WithField("path", artifacts.JSON).Info("JSON report written")
	}

	if w.printer == nil {
		return artifacts, nil
	}

	if err := w.printer.Print(ctx, artifacts.HTML, w.opts.PDFPath()); err != nil {
		artifacts.PDFErr = err
		w.logger.WithError(err).Warn("PDF generation failed, the HTML report is available")

		return artifacts, nil
	}

	artifacts.PDF = w.opts.PDFPath()
	w.logger.WithField("path", artifacts.PDF).Info("PDF report written")

	return artifacts, nil
}

// writeFile writes through a temporary file in the same directory so a failed write does not leave a truncated report.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(ErrRender, err.Error())
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrap(ErrRender, err.Error())
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(ErrRender, err.Error())
	}

	if err := os.Chmod(tmp.Name(), fileMode); err != nil {
		return errors.Wrap(ErrRender, err.Error())
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(ErrRender, err.Error())
	}

	return nil
}
