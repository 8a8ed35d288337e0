package service

import (
	"github.com/GRAF231/brigada/internal/config"
	"github.com/GRAF231/brigada/internal/repository"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services набор сервисов
type Services struct {
	Auth          *AuthService
	User          *UserService
	Project       *ProjectService
	Estimate      *EstimateService
	Schedule      *ScheduleService
	StatusMessage *StatusMessageService
	PriceList     *PriceListService
	Reminder      *ReminderService
}

// NewServices создаёт набор сервисов
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	// Клиент MinIO для вложений в ленте статусов
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("minio client init failed, attachments disabled", zap.Error(err))
			minioClient = nil
		}
	}

	statusSvc := NewStatusMessageService(repos.StatusMessage, repos.Project, minioClient, cfg.MinIO.Bucket)

	return &Services{
		Auth:          NewAuthService(repos.User, rdb, cfg),
		User:          NewUserService(repos.User),
		Project:       NewProjectService(repos.Project, repos.User),
		Estimate:      NewEstimateService(repos.Estimate, repos.Project),
		Schedule:      NewScheduleService(repos.Schedule, repos.Project),
		StatusMessage: statusSvc,
		PriceList:     NewPriceListService(repos.PriceList),
		Reminder:      NewReminderService(repos.Schedule, statusSvc, logger),
	}
}

func generateID() string {
	return uuid.New().String()[:32]
}
