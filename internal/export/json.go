package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/hookchat/internal"
)

// JSONExporter writes a session in the shape it is stored under the sessions
// key, indented for reading.
type JSONExporter struct{}

func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(stored(session))
}

func (e *JSONExporter) Extension() string {
	return "json"
}

// stored copies session with a nil log replaced by an empty one, so an
// untouched session exports "messages": [] like the persisted list does.
func stored(session *internal.Session) internal.Session {
	s := *session
	if s.Messages == nil {
		s.Messages = []internal.Message{}
	}
	return s
}
