package render

import (
	"encoding/json"
	"io"

	"github.com/msiegy/meraki-eol-manager/internal/model"
	"github.com/pkg/errors"
)

// JSON writes the run result as indented JSON.
func JSON(w io.Writer, run *model.RunResult) error {
	if run == nil {
		return errors.Wrap(ErrRender, "no run result")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(run); err != nil {
		return errors.Wrap(ErrRender, "JSON: "+err.Error())
	}

	return nil
}
