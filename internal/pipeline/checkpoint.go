package pipeline

import (
	"encoding/json"
	"os"
	"time"

	"git.home.luguber.info/inful/pkgfoundry/internal/config"
	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
)

// Checkpoint is a JSON snapshot of a run's state, written after failed
// runs so the inputs and partial progress can be inspected later.
type Checkpoint struct {
	RunID       string         `json:"run_id"`
	SavedAt     time.Time      `json:"saved_at"`
	Config      *config.Config `json:"config"`
	Descriptors []string       `json:"descriptors,omitempty"`
	Warnings    []string       `json:"warnings,omitempty"`
	Written     []string       `json:"written,omitempty"`
}

// Checkpoint captures the run's current state.
func (r *Run) Checkpoint() Checkpoint {
	cp := Checkpoint{
		RunID:    r.ID(),
		SavedAt:  r.Now(),
		Config:   r.Config(),
		Warnings: r.Warnings(),
		Written:  r.WrittenPaths(),
	}
	for _, d := range r.Descriptors() {
		cp.Descriptors = append(cp.Descriptors, d.Name)
	}
	return cp
}

// SaveCheckpoint writes the snapshot to path.
func (r *Run) SaveCheckpoint(path string) error {
	data, err := json.MarshalIndent(r.Checkpoint(), "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.KindInternal, errors.SeverityFatal, "encode checkpoint")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.IO(err, "write checkpoint").WithContext("path", path)
	}
	return nil
}

// LoadCheckpoint reads a snapshot back from path.
func LoadCheckpoint(path string) (Checkpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Checkpoint{}, errors.IO(err, "read checkpoint").WithContext("path", path)
	}
	var cp Checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		return Checkpoint{}, errors.Wrap(err, errors.KindInternal, errors.SeverityFatal, "decode checkpoint").
			WithContext("path", path)
	}
	return cp, nil
}
