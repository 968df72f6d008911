package stages

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pkgfoundry/internal/errors"
	"git.home.luguber.info/inful/pkgfoundry/internal/manifest"
	"git.home.luguber.info/inful/pkgfoundry/internal/pipeline"
)

// writeEntry materializes one manifest entry under root. An existing
// file is left alone unless the entry carries the override flag; the
// skip is recorded as a run warning so collisions never pass silently.
// Written paths are recorded on the run for compensation.
func writeEntry(run *pipeline.Run, stage, root string, e manifest.Entry) error {
	target := filepath.Join(root, filepath.FromSlash(e.Path))

	if _, err := os.Lstat(target); err == nil {
		if !e.Override {
			run.AddWarning(stage, "kept existing file "+e.Path)
			return nil
		}
	} else if !os.IsNotExist(err) {
		return errors.IO(err, "stat target file").WithContext("path", e.Path)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return errors.IO(err, "create output directory").WithContext("path", e.Path)
	}

	mode := os.FileMode(0o644)
	if e.Executable {
		mode = 0o755
	}
	if err := os.WriteFile(target, e.Content, mode); err != nil {
		return errors.IO(err, "write generated file").WithContext("path", e.Path)
	}
	run.RecordWritten(stage, target)
	return nil
}

// removeWritten deletes the files one stage recorded, newest first,
// then prunes directories left empty. Files written by other stages
// stay untouched. Best effort.
func removeWritten(run *pipeline.Run, stage string) {
	written := run.StageWritten(stage)
	for i := len(written) - 1; i >= 0; i-- {
		if err := os.Remove(written[i]); err != nil && !os.IsNotExist(err) {
			run.Log().Warn("compensation could not remove file", "path", written[i], "error", err)
		}
	}
	for i := len(written) - 1; i >= 0; i-- {
		pruneEmptyDirs(filepath.Dir(written[i]), run.OutputDir())
	}
}

func pruneEmptyDirs(dir, stop string) {
	for dir != stop && len(dir) > len(stop) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
	// The output root itself goes last, and only if empty.
	_ = os.Remove(stop)
}
