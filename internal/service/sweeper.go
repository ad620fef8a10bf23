package service

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
)

// ImageSweeper removes uploaded profile images that no user references.
// Image writes are not transactional with the registration commit, so a
// failed commit can strand a file in the upload directory.
type ImageSweeper struct {
	dir    string
	users  UserStore
	maxAge time.Duration
	log    *logrus.Logger
}

// NewImageSweeper returns a sweeper for dir. Files younger than 24 hours
// are left alone so in-flight registrations are never raced.
func NewImageSweeper(dir string, users UserStore, log *logrus.Logger) *ImageSweeper {
	return &ImageSweeper{dir: dir, users: users, maxAge: 24 * time.Hour, log: log}
}

// Sweep deletes unreferenced files older than the grace period. Scheduled
// from main via cron; errors are logged, never fatal.
func (s *ImageSweeper) Sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	referenced, err := s.users.ProfileImageNames(ctx)
	if err != nil {
		s.log.Errorf("Image sweep aborted: %v", err)
		return
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Errorf("Failed to read upload directory: %v", err)
		}
		return
	}

	cutoff := time.Now().Add(-s.maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil {
			s.log.Errorf("Failed to remove orphaned image %s: %v", entry.Name(), err)
			continue
		}
		s.log.Infof("Removed orphaned profile image: %s", entry.Name())
	}
}
