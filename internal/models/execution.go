package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Execution mirrors the payload returned by the orchestrator's
// /api/v1/executions/{id} endpoint. Only the fields the dashboard consumes
// are decoded; Data keeps the raw per-node results for step extraction.
type Execution struct {
	ID         string    `json:"id"`
	Status     string    `json:"status"`
	StartedAt  string    `json:"startedAt,omitempty"`
	StoppedAt  string    `json:"stoppedAt,omitempty"`
	Mode       string    `json:"mode,omitempty"`
	WorkflowID string    `json:"workflowId,omitempty"`
	Error      string    `json:"error,omitempty"`
	Data       *NodeRuns `json:"data,omitempty"`
}

// NodeRuns holds per-node run results keyed by node name. The orchestrator
// emits nodes in execution order, and the current-step display depends on
// which node ran last, so the JSON object's key order is preserved instead
// of being lost to map decoding.
type NodeRuns struct {
	Order []string
	Runs  map[string][]NodeResult
}

// Add appends runs for a node, registering the node on first use.
func (n *NodeRuns) Add(name string, runs ...NodeResult) *NodeRuns {
	if n.Runs == nil {
		n.Runs = make(map[string][]NodeResult)
	}
	if _, seen := n.Runs[name]; !seen {
		n.Order = append(n.Order, name)
	}
	n.Runs[name] = append(n.Runs[name], runs...)
	return n
}

// Len reports the number of distinct nodes. Safe on a nil receiver.
func (n *NodeRuns) Len() int {
	if n == nil {
		return 0
	}
	return len(n.Order)
}

func (n *NodeRuns) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("node runs: expected object, got %v", tok)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("node runs: expected key, got %v", keyTok)
		}

		var runs []NodeResult
		if err := dec.Decode(&runs); err != nil {
			return fmt.Errorf("node runs: decode %q: %w", name, err)
		}
		n.Add(name, runs...)
	}

	_, err = dec.Token()
	return err
}

func (n NodeRuns) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range n.Order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		runs, err := json.Marshal(n.Runs[name])
		if err != nil {
			return nil, err
		}
		buf.Write(runs)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// NodeResult is a single run of a workflow node inside an execution.
type NodeResult struct {
	Error         string `json:"error,omitempty"`
	StartTime     string `json:"startTime,omitempty"`
	ExecutionTime string `json:"executionTime,omitempty"`
}

// ExecutionStep is the simplified per-node view derived for the dashboard.
type ExecutionStep struct {
	Step      string `json:"step"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ExecutionStatus is the derived status summary returned to the dashboard.
// Data carries the raw per-node results alongside the derived view.
type ExecutionStatus struct {
	ExecutionID string          `json:"executionId"`
	Status      string          `json:"status"`
	StartedAt   string          `json:"startedAt,omitempty"`
	StoppedAt   string          `json:"stoppedAt,omitempty"`
	Mode        string          `json:"mode,omitempty"`
	WorkflowID  string          `json:"workflowId,omitempty"`
	CurrentStep string          `json:"currentStep,omitempty"`
	Steps       []ExecutionStep `json:"steps"`
	Progress    int             `json:"progress"`
	Error       string          `json:"error,omitempty"`
	Data        *NodeRuns       `json:"data,omitempty"`
}
