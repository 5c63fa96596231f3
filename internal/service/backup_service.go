package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// BackupService exports the current snapshot to object storage
type BackupService struct {
	backupRepo domain.BackupRepository
	snapshots  *SnapshotService
	now        func() time.Time
}

// NewBackupService creates a new BackupService
func NewBackupService(backupRepo domain.BackupRepository, snapshots *SnapshotService) *BackupService {
	return &BackupService{
		backupRepo: backupRepo,
		snapshots:  snapshots,
		now:        time.Now,
	}
}

// CreateBackup writes the current snapshot as JSON and returns where it went
func (s *BackupService) CreateBackup(ctx context.Context) (*domain.Backup, error) {
	snapshot := s.snapshots.Current()
	body, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	now := s.now().UTC()
	key := fmt.Sprintf("snapshots/%s/v%d-%s.json", now.Format("2006/01/02"), snapshot.Version, uuid.New().String())

	url, err := s.backupRepo.Put(ctx, key, body)
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload backup")
		return nil, domain.WrapStoreError("upload backup", err)
	}

	log.Info().Str("key", key).Uint64("version", snapshot.Version).Int("bytes", len(body)).Msg("Backup created")
	return &domain.Backup{
		Key:       key,
		URL:       url,
		Version:   snapshot.Version,
		Size:      int64(len(body)),
		CreatedAt: now,
	}, nil
}
