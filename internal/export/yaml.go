package export

import (
	"fmt"
	"io"

	"github.com/iksnae/hookchat/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes a session as a YAML document with the stored field names
type YAMLExporter struct{}

func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(stored(session)); err != nil {
		_ = enc.Close()
		return fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	return enc.Close()
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}
