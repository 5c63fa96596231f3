package domain

import (
	"context"
	"time"
)

// Backup describes a snapshot export written to object storage
type Backup struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Version   uint64    `json:"version"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

// BackupRepository stores snapshot exports
type BackupRepository interface {
	Put(ctx context.Context, key string, body []byte) (url string, err error)
}
