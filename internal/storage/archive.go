package storage

import (
	"bytes"
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/ghzx55/graderevive/internal/logger"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var contentTypes = map[string]string{
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".xlsm": "application/vnd.ms-excel.sheet.macroEnabled.12",
	".csv":  "text/csv",
}

// TranscriptArchive keeps a copy of every uploaded transcript under
// <prefix>/<session id>/<uuid><ext>.
type TranscriptArchive struct {
	store  Storage
	prefix string
	newID  func() string
	log    zerolog.Logger
}

func NewTranscriptArchive(store Storage, prefix string) *TranscriptArchive {
	return &TranscriptArchive{
		store:  store,
		prefix: strings.Trim(prefix, "/"),
		newID:  uuid.NewString,
		log:    logger.Get(),
	}
}

// Archive uploads data and returns the object key.
func (a *TranscriptArchive) Archive(ctx context.Context, sessionID, filename string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	key := path.Join(a.prefix, sessionID, a.newID()+ext)

	contentType, ok := contentTypes[ext]
	if !ok {
		contentType = "application/octet-stream"
	}

	if err := a.store.Upload(ctx, key, bytes.NewReader(data), contentType); err != nil {
		a.log.Error().Err(err).
			Str("session_id", sessionID).
			Str("key", key).
			Msg("Failed to archive transcript")
		return "", err
	}

	a.log.Info().
		Str("session_id", sessionID).
		Str("key", key).
		Int("size", len(data)).
		Msg("Transcript archived")
	return key, nil
}

// Purge deletes every archived transcript of a session and returns how many
// objects were removed.
func (a *TranscriptArchive) Purge(ctx context.Context, sessionID string) (int, error) {
	keys, err := a.store.List(ctx, path.Join(a.prefix, sessionID)+"/")
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, key := range keys {
		if err := a.store.Delete(ctx, key); err != nil {
			a.log.Error().Err(err).
				Str("session_id", sessionID).
				Str("key", key).
				Msg("Failed to delete archived transcript")
			return removed, err
		}
		removed++
	}

	if removed > 0 {
		a.log.Info().Str("session_id", sessionID).Int("removed", removed).Msg("Archived transcripts purged")
	}
	return removed, nil
}
