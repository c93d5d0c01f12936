package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"testing"

	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/constants"
	"github.com/tlcms/tlcms/internal/repository"
)

// countingStorage 统计存储调用次数的测试替身
type countingStorage struct {
	uploads int
	removes int
	failPut bool
}

func (s *countingStorage) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	s.uploads++
	if s.failPut {
		return errors.New("storage unavailable")
	}
	_, err := io.Copy(io.Discard, reader)
	return err
}

func (s *countingStorage) PublicURL(key string) string {
	return "/" + key
}

func (s *countingStorage) Remove(ctx context.Context, key string) error {
	s.removes++
	return nil
}

func newMediaService(t *testing.T, store *countingStorage) (*MediaService, *repository.GormMediaRepository) {
	t.Helper()
	db := newTestDB(t)
	repo := repository.NewMediaRepository(db)
	cfg := &config.Config{}
	cfg.Upload.MaxSize = 10 * 1024 * 1024
	cfg.Upload.AllowedTypePrefixes = []string{"image/", "video/", "audio/"}
	return NewMediaService(cfg, repo, store), repo
}

func makeFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("create form file failed: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("write form file failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer failed: %v", err)
	}

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read form failed: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	store := &countingStorage{}
	svc, repo := newMediaService(t, store)

	file := makeFileHeader(t, "photo.png", pngBytes(t, 3, 2))
	media, err := svc.Upload(context.Background(), file, "user-1")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if media.MediaType != constants.MediaTypeImage {
		t.Fatalf("media type want image got %s", media.MediaType)
	}
	if media.MimeType != "image/png" {
		t.Fatalf("mime type want image/png got %s", media.MimeType)
	}
	if media.OriginalFilename != "photo.png" {
		t.Fatalf("original filename lost: %s", media.OriginalFilename)
	}
	// 存储文件名随机生成，不复用原始名
	if media.Filename == "photo.png" {
		t.Fatalf("stored filename must be randomized")
	}
	if media.Width == nil || media.Height == nil || *media.Width != 3 || *media.Height != 2 {
		t.Fatalf("image dimensions not probed: %+v %+v", media.Width, media.Height)
	}
	if store.uploads != 1 {
		t.Fatalf("storage uploads want 1 got %d", store.uploads)
	}

	saved, err := repo.GetByID(media.ID)
	if err != nil || saved == nil {
		t.Fatalf("media row not persisted: %v", err)
	}
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	store := &countingStorage{}
	svc, repo := newMediaService(t, store)

	file := makeFileHeader(t, "notes.txt", []byte("plain text content"))
	_, err := svc.Upload(context.Background(), file, "user-1")
	if !errors.Is(err, ErrUnsupportedMediaType) {
		t.Fatalf("want ErrUnsupportedMediaType got %v", err)
	}

	// 拒绝发生在任何存储调用之前
	if store.uploads != 0 {
		t.Fatalf("rejected upload must not touch storage, got %d calls", store.uploads)
	}
	items, err := repo.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("rejected upload must not persist rows")
	}
}

func TestUploadRejectsOversizedFile(t *testing.T) {
	store := &countingStorage{}
	svc, _ := newMediaService(t, store)
	svc.cfg.Upload.MaxSize = 10

	file := makeFileHeader(t, "big.png", pngBytes(t, 10, 10))
	if _, err := svc.Upload(context.Background(), file, "user-1"); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("want ErrFileTooLarge got %v", err)
	}
	if store.uploads != 0 {
		t.Fatalf("oversized upload must not touch storage")
	}
}

func TestDeleteMediaRemovesObject(t *testing.T) {
	store := &countingStorage{}
	svc, _ := newMediaService(t, store)

	file := makeFileHeader(t, "photo.png", pngBytes(t, 1, 1))
	media, err := svc.Upload(context.Background(), file, "user-1")
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if err := svc.Delete(context.Background(), media.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if store.removes != 1 {
		t.Fatalf("storage removes want 1 got %d", store.removes)
	}

	if err := svc.Delete(context.Background(), media.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete want ErrNotFound got %v", err)
	}
}

func TestClassifyMediaType(t *testing.T) {
	prefixes := []string{"image/", "video/", "audio/"}
	cases := []struct {
		contentType string
		want        string
	}{
		{"image/png", constants.MediaTypeImage},
		{"image/webp", constants.MediaTypeImage},
		{"video/mp4", constants.MediaTypeVideo},
		{"audio/mpeg", constants.MediaTypeAudio},
		{"application/pdf", ""},
		{"text/plain; charset=utf-8", ""},
	}
	for _, tc := range cases {
		if got := classifyMediaType(tc.contentType, prefixes); got != tc.want {
			t.Fatalf("%s: want %q got %q", tc.contentType, tc.want, got)
		}
	}
}
