package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/nsxzhou1114/news-portal/internal/config"
	"github.com/nsxzhou1114/news-portal/internal/errs"
	"github.com/nsxzhou1114/news-portal/pkg/storage"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var generatedName = regexp.MustCompile(`^\d{8}_\d{6}_[0-9a-f]{8}\.png$`)

func newMediaService(t *testing.T, env *testEnv, store storage.Storage, maxSize int64) *MediaService {
	t.Helper()
	cfg := &config.MediaConfig{
		MaxFileSize:       maxSize,
		AllowedExtensions: []string{"png", "jpg", "jpeg", "gif", "webp", "bmp"},
	}
	return NewMediaService(env.repos, store, env.system, cfg, env.metrics, zap.NewNop())
}

func TestMediaService_RejectsDisallowedExtension(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	svc := newMediaService(t, env, storage.NewLocal(dir, "/uploads"), 0)

	for _, name := range []string{"photo.exe", "photo", "photo.png.sh"} {
		_, err := svc.Upload(context.Background(), name, "", strings.NewReader("data"))
		require.ErrorIs(t, err, errs.ErrValidation, name)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
	n, err := svc.Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestMediaService_UploadAccepted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	dir := t.TempDir()
	svc := newMediaService(t, env, storage.NewLocal(dir, "/uploads"), 0)

	payload := bytes.Repeat([]byte{0x89, 'P', 'N', 'G'}, 1000)
	resp, err := svc.Upload(ctx, "photo.png", "image/png", bytes.NewReader(payload))
	require.NoError(t, err)

	require.Regexp(t, generatedName, resp.Filename)
	require.Equal(t, "photo.png", resp.OriginalName)
	require.Equal(t, "image/png", resp.FileType)
	require.EqualValues(t, len(payload), resp.FileSize)
	require.Equal(t, "/uploads/"+resp.Filename, resp.URL)

	onDisk, err := os.ReadFile(filepath.Join(dir, resp.Filename))
	require.NoError(t, err)
	require.Equal(t, payload, onDisk)

	stored, err := svc.Get(ctx, resp.ID)
	require.NoError(t, err)
	require.EqualValues(t, len(payload), stored.FileSize)
	require.Equal(t, float64(1), testutil.ToFloat64(env.metrics.MediaUploaded))
}

func TestMediaService_ExtensionCaseInsensitive(t *testing.T) {
	env := newTestEnv(t)
	svc := newMediaService(t, env, storage.NewLocal(t.TempDir(), "/uploads"), 0)

	resp, err := svc.Upload(context.Background(), "HOLIDAY.PNG", "", strings.NewReader("x"))
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(resp.Filename, ".png"))
	require.Equal(t, "image/png", resp.FileType)
}

func TestMediaService_SizeLimit(t *testing.T) {
	env := newTestEnv(t)
	dir := t.TempDir()
	svc := newMediaService(t, env, storage.NewLocal(dir, "/uploads"), 8)

	_, err := svc.Upload(context.Background(), "big.png", "", strings.NewReader("0123456789"))
	require.ErrorIs(t, err, errs.ErrValidation)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries, "oversized file is cleaned up")

	_, err = svc.Upload(context.Background(), "ok.png", "", strings.NewReader("01234567"))
	require.NoError(t, err)
}

func TestMediaService_UploadFile(t *testing.T) {
	env := newTestEnv(t)
	svc := newMediaService(t, env, storage.NewLocal(t.TempDir(), "/uploads"), 0)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", "photo.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("pngbytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/media", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	resp, err := svc.UploadFile(context.Background(), req.MultipartForm.File["file"][0])
	require.NoError(t, err)
	require.EqualValues(t, 8, resp.FileSize)

	_, err = svc.UploadFile(context.Background(), nil)
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestMediaService_DeleteRemovesFile(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	dir := t.TempDir()
	svc := newMediaService(t, env, storage.NewLocal(dir, "/uploads"), 0)

	resp, err := svc.Upload(ctx, "photo.png", "", strings.NewReader("data"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, resp.ID))
	_, err = os.Stat(filepath.Join(dir, resp.Filename))
	require.True(t, os.IsNotExist(err))

	require.ErrorIs(t, svc.Delete(ctx, resp.ID), errs.ErrNotFound)
}

// brokenRemoveStorage 写入正常、删除总是失败
type brokenRemoveStorage struct {
	*storage.Local
}

func (brokenRemoveStorage) Remove(context.Context, string) error {
	return errors.New("permission denied")
}

func TestMediaService_DeleteToleratesFileRemovalFailure(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newMediaService(t, env, brokenRemoveStorage{storage.NewLocal(t.TempDir(), "/uploads")}, 0)

	resp, err := svc.Upload(ctx, "photo.png", "", strings.NewReader("data"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, resp.ID))
	_, err = svc.Get(ctx, resp.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.Equal(t, float64(1), testutil.ToFloat64(env.metrics.MediaFileLeaks))
}

// failingSaveStorage 写入失败
type failingSaveStorage struct {
	*storage.Local
}

func (failingSaveStorage) Save(context.Context, string, io.Reader) (string, int64, error) {
	return "", 0, errors.New("disk full")
}

func TestMediaService_SaveFailureIsStorageError(t *testing.T) {
	env := newTestEnv(t)
	svc := newMediaService(t, env, failingSaveStorage{storage.NewLocal(t.TempDir(), "/uploads")}, 0)

	_, err := svc.Upload(context.Background(), "photo.png", "", strings.NewReader("data"))
	require.ErrorIs(t, err, errs.ErrStorage)
}

func TestMediaService_List(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	svc := newMediaService(t, env, storage.NewLocal(t.TempDir(), "/uploads"), 0)

	for _, name := range []string{"a.png", "b.jpg", "c.gif"} {
		_, err := svc.Upload(ctx, name, "", strings.NewReader(name))
		require.NoError(t, err)
	}
	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
}
