package format

import (
	"encoding/json"
	"io"

	"github.com/emenda-labs/bccheck/core/changespec"
)

// JSON writes the report as an indented JSON document.
type JSON struct {
	w io.Writer
}

func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

func (j *JSON) Write(report changespec.Report) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
