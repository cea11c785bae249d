package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"github.com/jsphweid/handex/constants"
)

// RemovalDelay is how long staged files stick around after creation or
// download before they are deleted.
const RemovalDelay = 10 * time.Minute

var sweepDebounced = debounce.New(5 * time.Second)

// NewPath returns a fresh, exclusively-owned path in the staging
// directory. uuid names cannot collide across concurrent requests.
func NewPath(ext string) (string, error) {
	dir := constants.GetStagingDir()
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", fmt.Errorf("could not create staging dir: %v", err)
	}
	return filepath.Join(dir, uuid.New().String()+ext), nil
}

// ScheduleRemoval deletes the file after the fixed delay and kicks a
// debounced sweep for anything an earlier run left behind.
func ScheduleRemoval(path string) {
	time.AfterFunc(RemovalDelay, func() {
		os.Remove(path)
	})
	sweepDebounced(sweep)
}

func sweep() {
	dir := constants.GetStagingDir()
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		info, err := e.Info()
		if err != nil {
			continue
		}
		if time.Since(info.ModTime()) > RemovalDelay {
			os.Remove(filepath.Join(dir, e.Name()))
		}
	}
}
