package basisv1

import (
	"encoding/json"
	"errors"
	"fmt"

	"basislab/internal/basis"
)

// Case is one evaluation request travelling from a source to the runner.
type Case struct {
	ID    string      `json:"id" yaml:"id"`
	Input basis.Input `json:"input" yaml:",inline"`
}

// Outcome pairs a Case with the engine's answer. Error is set for the
// degenerate classification and for transport failures alike; Result is
// always populated when the engine was reached.
type Outcome struct {
	Case   Case          `json:"case"`
	Result *basis.Result `json:"result,omitempty"`
	Error  string        `json:"error,omitempty"`
}

// DecodeCase parses a JSON-encoded case. fallbackID is used when the
// payload carries no id (e.g. the Kafka message key).
func DecodeCase(raw []byte, fallbackID string) (Case, error) {
	var c Case
	if len(raw) == 0 {
		return c, errors.New("empty case payload")
	}
	if err := json.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("decode case: %w", err)
	}
	if c.ID == "" {
		c.ID = fallbackID
	}
	return c, nil
}

func (o *Outcome) Encode() ([]byte, error) { return json.Marshal(o) }
