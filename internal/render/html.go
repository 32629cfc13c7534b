package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"io"
	"time"

	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
)

var (
	//go:embed templates/*.html.tmpl
	templateFS embed.FS

	//go:embed assets/logo.svg
	logoSVG []byte

	reportTemplate = template.Must(template.ParseFS(templateFS, "templates/report.html.tmpl"))

	ErrRender = errors.New("error rendering report")
)

// DefaultTitle is the report page title and heading when none is configured.
const DefaultTitle = "Cisco Meraki Lifecycle Report"

type htmlData struct {
	Title       string
	Logo        template.URL
	GeneratedAt string
	Run         *model.RunResult
}

// HTML writes the run result as an HTML page,
// one section per organization report followed by the organizations that could not be reported.
func HTML(w io.Writer, title string, run *model.RunResult) error {
	if run == nil {
		return errors.Wrap(ErrRender, "no run result")
	}

	if title == "" {
		title = DefaultTitle
	}

	data := &htmlData{
		Title:       title,
		Logo:        template.URL("data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString(logoSVG)),
		GeneratedAt: run.GeneratedAt.Format(time.RFC1123),
		Run:         run,
	}

	// render in full before writing so a template error leaves no partial page.
	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return errors.Wrap(ErrRender, "HTML: "+err.Error())
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return errors.Wrap(ErrRender, "HTML: "+err.Error())
	}

	return nil
}
