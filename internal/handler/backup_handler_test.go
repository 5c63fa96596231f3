package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/dafibh/tally/tally-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBackup(t *testing.T) {
	s := newTestServer(t)
	s.categories.AddCategory(foodCategory)
	s.load(t)

	rec := s.do(http.MethodPost, "/api/v1/backups", "")

	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode[domain.Backup](t, rec)
	assert.True(t, strings.HasPrefix(got.Key, "snapshots/"))
	assert.Equal(t, "https://backups.test/"+got.Key, got.URL)
	assert.Equal(t, uint64(1), got.Version)
	assert.Contains(t, string(s.backups.Objects[got.Key]), `"Food"`)
}

func TestCreateBackup_Disabled(t *testing.T) {
	s := newTestServer(t, withoutBackups())

	rec := s.do(http.MethodPost, "/api/v1/backups", "")

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, ErrorTypeUnavailable, decode[ProblemDetails](t, rec).Type)
}

func TestCreateBackup_UploadFailure(t *testing.T) {
	s := newTestServer(t)
	s.backups.PutFn = func(ctx context.Context, key string, body []byte) (string, error) {
		return "", errors.New("access denied")
	}

	rec := s.do(http.MethodPost, "/api/v1/backups", "")

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
