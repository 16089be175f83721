package mamedb

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	apperrors "rom-manager/core/errors"
	"rom-manager/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// datServer serves archive for every request and counts hits.
func datServer(t *testing.T, archive []byte) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Header().Set("Content-Type", "application/zip")
		_, _ = w.Write(archive)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func TestService_Load(t *testing.T) {
	srv, hits := datServer(t, zipDat(t, testCore.UnzippedDatFile, testDat))
	svc := NewService(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))

	db, err := svc.Load(context.Background(), testCore)
	require.NoError(t, err)
	assert.Equal(t, "mame2010", db.Core)
	assert.Equal(t, "MAME v0.139", db.Description)
	assert.Equal(t, []string{"pacman", "puckman"}, db.Names())

	again, err := svc.Load(context.Background(), testCore)
	require.NoError(t, err)
	assert.Same(t, db, again)
	assert.Equal(t, int32(1), hits.Load())
}

func TestService_LoadFromStore(t *testing.T) {
	srv, hits := datServer(t, zipDat(t, testCore.UnzippedDatFile, testDat))
	store := newTestStore(t)

	first := NewService(Config{BaseURL: srv.URL}, zaptest.NewLogger(t), WithStore(store))
	_, err := first.Load(context.Background(), testCore)
	require.NoError(t, err)

	second := NewService(Config{BaseURL: srv.URL}, zaptest.NewLogger(t), WithStore(store))
	db, err := second.Load(context.Background(), testCore)
	require.NoError(t, err)
	assert.Equal(t, 2, db.Len())
	assert.Equal(t, int32(1), hits.Load(), "second service reads the store")
}

func TestService_MirrorWriteThrough(t *testing.T) {
	archive := zipDat(t, testCore.UnzippedDatFile, testDat)
	srv, hits := datServer(t, archive)
	key := "dats/" + testCore.DatFile

	m := new(mocks.Client)
	m.On("StatObject", mock.Anything, "mamedb", key, minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})
	m.On("PutObject", mock.Anything, "mamedb", key, mock.Anything, int64(len(archive)), mock.AnythingOfType("minio.PutObjectOptions")).
		Return(minio.UploadInfo{Key: key}, nil)

	svc := NewService(Config{BaseURL: srv.URL}, zaptest.NewLogger(t), WithMirror(NewStorageSource(m, "mamedb", "dats/")))
	_, err := svc.Load(context.Background(), testCore)
	require.NoError(t, err)

	assert.Equal(t, int32(1), hits.Load())
	m.AssertExpectations(t)
}

func TestService_WrongMember(t *testing.T) {
	srv, _ := datServer(t, zipDat(t, "MAME v0.78.dat", testDat))
	svc := NewService(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))

	_, err := svc.Load(context.Background(), testCore)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestService_LoadLibrary(t *testing.T) {
	svc := NewService(Config{BaseURL: "http://127.0.0.1:0"}, zaptest.NewLogger(t))

	_, err := svc.LoadLibrary(context.Background(), "snes9x_libretro")
	assert.True(t, apperrors.IsNotFound(err))
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Fetch(context.Context, CoreInfo) ([]byte, error) {
	return nil, &apperrors.NetworkError{URL: "http://dats.invalid", StatusCode: http.StatusBadGateway}
}

func TestService_LoadAll(t *testing.T) {
	cores := []Core{{Info: testCore, Path: "/retroarch/cores/mame2010_libretro.so"}}

	t.Run("AllFailing", func(t *testing.T) {
		svc := NewService(Config{}, zaptest.NewLogger(t), WithRemote(failingSource{}))
		_, err := svc.LoadAll(context.Background(), cores)
		assert.True(t, errors.Is(err, apperrors.ErrNetwork))
	})

	t.Run("NoCores", func(t *testing.T) {
		svc := NewService(Config{}, zaptest.NewLogger(t), WithRemote(failingSource{}))
		dbs, err := svc.LoadAll(context.Background(), nil)
		require.NoError(t, err)
		assert.Empty(t, dbs)
	})

	t.Run("Loaded", func(t *testing.T) {
		srv, _ := datServer(t, zipDat(t, testCore.UnzippedDatFile, testDat))
		svc := NewService(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))
		dbs, err := svc.LoadAll(context.Background(), cores)
		require.NoError(t, err)
		require.Len(t, dbs, 1)
		assert.Equal(t, "mame2010", dbs[0].Identity())
	})

	t.Run("Cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		srv, _ := datServer(t, zipDat(t, testCore.UnzippedDatFile, testDat))
		svc := NewService(Config{BaseURL: srv.URL}, zaptest.NewLogger(t))
		_, err := svc.LoadAll(ctx, cores)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
