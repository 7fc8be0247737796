package worker

import (
	"context"

	"github.com/ghzx55/graderevive/internal/storage"
)

// ArchiveJob copies an uploaded transcript into the archive. data must not
// be modified after the job is submitted.
func ArchiveJob(archive *storage.TranscriptArchive, sessionID, filename string, data []byte) Job {
	return func(ctx context.Context) error {
		_, err := archive.Archive(ctx, sessionID, filename, data)
		return err
	}
}

// PurgeJob removes every archived transcript of a deleted session.
func PurgeJob(archive *storage.TranscriptArchive, sessionID string) Job {
	return func(ctx context.Context) error {
		_, err := archive.Purge(ctx, sessionID)
		return err
	}
}
