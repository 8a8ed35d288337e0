package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/GRAF231/brigada/internal/access"
	"github.com/GRAF231/brigada/internal/entity"
	"github.com/GRAF231/brigada/internal/repository"
	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// StatusMessageService сервис ленты статусов проекта
type StatusMessageService struct {
	statusRepo  *repository.StatusMessageRepository
	projectRepo *repository.ProjectRepository
	minioClient *minio.Client
	bucket      string
}

// NewStatusMessageService создаёт сервис ленты статусов
func NewStatusMessageService(statusRepo *repository.StatusMessageRepository, projectRepo *repository.ProjectRepository, minioClient *minio.Client, bucket string) *StatusMessageService {
	return &StatusMessageService{
		statusRepo:  statusRepo,
		projectRepo: projectRepo,
		minioClient: minioClient,
		bucket:      bucket,
	}
}

// UploadFile вложение, переданное с сообщением
type UploadFile struct {
	FileName    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// StatusFeed страница ленты статусов
type StatusFeed struct {
	Messages []entity.StatusMessage `json:"messages"`
	Total    int64                  `json:"total"`
}

// Create публикует сообщение в ленте проекта, загружая вложения в MinIO
func (s *StatusMessageService) Create(ctx context.Context, p access.Principal, projectID, message string, files []UploadFile) (*entity.StatusMessage, error) {
	if message == "" && len(files) == 0 {
		return nil, fmt.Errorf("%w: сообщение не может быть пустым", ErrValidation)
	}

	if err := s.checkAccess(ctx, p, projectID); err != nil {
		return nil, err
	}

	if len(files) > 0 && s.minioClient == nil {
		return nil, fmt.Errorf("%w: хранилище вложений недоступно", ErrValidation)
	}

	attachments := make(entity.JSONBArray, 0, len(files))
	for _, file := range files {
		att := entity.Attachment{
			ID:           generateID(),
			FileName:     file.FileName,
			OriginalName: file.FileName,
			MimeType:     file.ContentType,
			Size:         file.Size,
		}
		att.ObjectName = fmt.Sprintf("%s/%s%s", projectID, att.ID, filepath.Ext(file.FileName))

		_, err := s.minioClient.PutObject(ctx, s.bucket, att.ObjectName, file.Reader, file.Size, minio.PutObjectOptions{
			ContentType: file.ContentType,
		})
		if err != nil {
			return nil, fmt.Errorf("загрузка вложения %s: %w", file.FileName, err)
		}

		attachments = append(attachments, map[string]interface{}{
			"id":            att.ID,
			"file_name":     att.FileName,
			"original_name": att.OriginalName,
			"object_name":   att.ObjectName,
			"mime_type":     att.MimeType,
			"size":          att.Size,
		})
	}

	msg := &entity.StatusMessage{
		ID:          generateID(),
		ProjectID:   projectID,
		UserID:      p.ID,
		Message:     message,
		Attachments: attachments,
	}
	if err := s.statusRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("создание сообщения: %w", err)
	}
	return s.statusRepo.FindByID(ctx, msg.ID)
}

// CreateSystem публикует служебное сообщение от имени менеджера проекта
func (s *StatusMessageService) CreateSystem(ctx context.Context, projectID, message string) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return err
	}

	msg := &entity.StatusMessage{
		ID:        generateID(),
		ProjectID: projectID,
		UserID:    project.ManagerID,
		Message:   message,
	}
	return s.statusRepo.Create(ctx, msg)
}

// List возвращает страницу ленты статусов
func (s *StatusMessageService) List(ctx context.Context, p access.Principal, projectID string, limit, offset int) (*StatusFeed, error) {
	if err := s.checkAccess(ctx, p, projectID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	msgs, total, err := s.statusRepo.ListByProject(ctx, projectID, limit, offset)
	if err != nil {
		return nil, err
	}
	return &StatusFeed{Messages: msgs, Total: total}, nil
}

// Delete удаляет сообщение. Доступно автору и менеджеру.
func (s *StatusMessageService) Delete(ctx context.Context, p access.Principal, id string) error {
	msg, err := s.statusRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: сообщение не найдено", ErrNotFound)
		}
		return err
	}

	if msg.UserID != p.ID && !p.IsManager() {
		return fmt.Errorf("%w: удалять сообщение может автор или менеджер", ErrForbidden)
	}
	return s.statusRepo.Delete(ctx, id)
}

// AttachmentURL выдаёт временную ссылку на скачивание вложения
func (s *StatusMessageService) AttachmentURL(ctx context.Context, p access.Principal, messageID, attachmentID string) (string, error) {
	msg, err := s.statusRepo.FindByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: сообщение не найдено", ErrNotFound)
		}
		return "", err
	}

	if err := s.checkAccess(ctx, p, msg.ProjectID); err != nil {
		return "", err
	}
	if s.minioClient == nil {
		return "", fmt.Errorf("%w: хранилище вложений недоступно", ErrValidation)
	}

	for _, raw := range msg.Attachments {
		att, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		if att["id"] == attachmentID {
			objectName, _ := att["object_name"].(string)
			u, err := s.minioClient.PresignedGetObject(ctx, s.bucket, objectName, 15*time.Minute, nil)
			if err != nil {
				return "", fmt.Errorf("presign attachment: %w", err)
			}
			return u.String(), nil
		}
	}
	return "", fmt.Errorf("%w: вложение не найдено", ErrNotFound)
}

func (s *StatusMessageService) checkAccess(ctx context.Context, p access.Principal, projectID string) error {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: проект не найден", ErrNotFound)
		}
		return err
	}

	isMember, err := s.projectRepo.IsMember(ctx, projectID, p.ID)
	if err != nil {
		return err
	}
	if !access.CanViewProject(p, project, isMember) {
		return fmt.Errorf("%w: нет доступа к проекту", ErrForbidden)
	}
	return nil
}
