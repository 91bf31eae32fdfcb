package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/hookchat/internal"
)

// JSONLExporter exports sessions in JSONL format (one message per line)
type JSONLExporter struct{}

type jsonlLine struct {
	SessionID string        `json:"session_id"`
	Index     int           `json:"index"`
	Role      internal.Role `json:"role"`
	Content   string        `json:"content"`
}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)

	for i, msg := range session.Messages {
		line := jsonlLine{
			SessionID: session.ID,
			Index:     i,
			Role:      msg.Role,
			Content:   msg.Content,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message %d: %w", i, err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
