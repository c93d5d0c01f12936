package service

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"

	"github.com/tlcms/tlcms/internal/config"
	"github.com/tlcms/tlcms/internal/constants"
	"github.com/tlcms/tlcms/internal/logger"
	"github.com/tlcms/tlcms/internal/models"
	"github.com/tlcms/tlcms/internal/repository"
	"github.com/tlcms/tlcms/internal/storage"
)

// MediaService 媒体服务，负责上传管线与媒体库维护
type MediaService struct {
	cfg       *config.Config
	mediaRepo repository.MediaRepository
	store     storage.ObjectStorage
}

// NewMediaService 创建媒体服务实例
func NewMediaService(cfg *config.Config, mediaRepo repository.MediaRepository, store storage.ObjectStorage) *MediaService {
	return &MediaService{
		cfg:       cfg,
		mediaRepo: mediaRepo,
		store:     store,
	}
}

// List 媒体库列表
func (s *MediaService) List() ([]models.Media, error) {
	return s.mediaRepo.List()
}

// Get 获取单条媒体记录
func (s *MediaService) Get(id string) (*models.Media, error) {
	media, err := s.mediaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if media == nil {
		return nil, ErrNotFound
	}
	return media, nil
}

// Upload 处理文件上传：校验大小与类型、写入对象存储、落库。
// 类型校验不通过时不会产生任何存储调用。
func (s *MediaService) Upload(ctx context.Context, file *multipart.FileHeader, uploadedBy string) (*models.Media, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return nil, fmt.Errorf("%w（最大 %d MB）", ErrFileTooLarge, s.cfg.Upload.MaxSize/1024/1024)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 读取文件头部识别 MIME 类型
	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil && err != io.EOF {
		return nil, err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return nil, err
	}
	contentType := http.DetectContentType(buffer)

	mediaType := classifyMediaType(contentType, s.cfg.Upload.AllowedTypePrefixes)
	if mediaType == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMediaType, contentType)
	}

	var width, height *int
	if mediaType == constants.MediaTypeImage {
		w, h, err := decodeImageDimensions(src, contentType)
		if err != nil {
			// 尺寸探测失败不阻断上传
			logger.Warnw("image_dimensions_probe_failed",
				"filename", file.Filename,
				"content_type", contentType,
				"error", err,
			)
		} else {
			width, height = &w, &h
		}
		if _, err := src.Seek(0, 0); err != nil {
			return nil, err
		}
	}

	// 随机文件名，避免覆盖与路径猜测
	ext := strings.ToLower(filepath.Ext(file.Filename))
	filename := uuid.New().String() + ext
	key := "uploads/" + filename

	if err := s.store.Upload(ctx, key, src, file.Size, contentType); err != nil {
		return nil, err
	}

	media := &models.Media{
		Filename:         filename,
		OriginalFilename: file.Filename,
		MimeType:         contentType,
		Size:             file.Size,
		URL:              s.store.PublicURL(key),
		StoragePath:      key,
		MediaType:        mediaType,
		Width:            width,
		Height:           height,
		UploadedBy:       uploadedBy,
	}
	if err := s.mediaRepo.Create(media); err != nil {
		// 对象已写入而记录落库失败：留下孤儿对象，记日志供人工清理
		logger.Errorw("media_record_create_failed",
			"storage_path", key,
			"error", err,
		)
		return nil, err
	}

	logger.Infow("media_uploaded",
		"media_id", media.ID,
		"media_type", mediaType,
		"size", file.Size,
	)
	return media, nil
}

// Delete 删除媒体记录并尽力清理存储对象。
// 存储清理失败只记日志，不影响删除结果。
func (s *MediaService) Delete(ctx context.Context, id string) error {
	media, err := s.mediaRepo.GetByID(id)
	if err != nil {
		return err
	}
	if media == nil {
		return ErrNotFound
	}

	affected, err := s.mediaRepo.Delete(id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	if err := s.store.Remove(ctx, media.StoragePath); err != nil {
		logger.Warnw("media_object_remove_failed",
			"media_id", id,
			"storage_path", media.StoragePath,
			"error", err,
		)
	}
	return nil
}

// classifyMediaType 按 MIME 前缀归类，未命中返回空串
func classifyMediaType(contentType string, allowedPrefixes []string) string {
	for _, prefix := range allowedPrefixes {
		if !strings.HasPrefix(contentType, prefix) {
			continue
		}
		switch prefix {
		case "image/":
			return constants.MediaTypeImage
		case "video/":
			return constants.MediaTypeVideo
		case "audio/":
			return constants.MediaTypeAudio
		}
	}
	return ""
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if strings.EqualFold(contentType, "image/webp") {
		width, height, err := decodeWebPDimensions(src)
		if err != nil {
			return 0, 0, fmt.Errorf("无法解析 WebP 图片: %w", err)
		}
		return width, height, nil
	}

	if _, err := src.Seek(0, 0); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, fmt.Errorf("无法解析图片: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func decodeWebPDimensions(src io.ReadSeeker) (int, int, error) {
	if _, err := src.Seek(0, 0); err != nil {
		return 0, 0, err
	}

	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, fmt.Errorf("无效的 WebP 文件头")
	}

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(src, chunkHeader); err != nil {
			return 0, 0, err
		}
		chunkType := string(chunkHeader[0:4])
		chunkSize := int(binary.LittleEndian.Uint32(chunkHeader[4:8]))
		if chunkSize < 0 {
			return 0, 0, fmt.Errorf("无效的 WebP chunk")
		}

		data := make([]byte, chunkSize)
		if _, err := io.ReadFull(src, data); err != nil {
			return 0, 0, err
		}

		if chunkType == "VP8X" {
			if len(data) < 10 {
				return 0, 0, fmt.Errorf("VP8X chunk 长度不足")
			}
			width := 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16
			height := 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16
			return width, height, nil
		}
		if chunkType == "VP8 " {
			if len(data) < 10 {
				return 0, 0, fmt.Errorf("VP8 chunk 长度不足")
			}
			width := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
			height := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
			return width, height, nil
		}
		if chunkType == "VP8L" {
			if len(data) < 5 {
				return 0, 0, fmt.Errorf("VP8L chunk 长度不足")
			}
			if data[0] != 0x2f {
				return 0, 0, fmt.Errorf("VP8L 签名无效")
			}
			bits := binary.LittleEndian.Uint32(data[1:5])
			width := int(bits&0x3FFF) + 1
			height := int((bits>>14)&0x3FFF) + 1
			return width, height, nil
		}

		if chunkSize%2 == 1 {
			if _, err := src.Seek(1, io.SeekCurrent); err != nil {
				return 0, 0, err
			}
		}
	}
}
