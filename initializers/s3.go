package initializers

import (
	"context"

	filestorage "doc-flow-backend/lib/file-storage"
	s3client "doc-flow-backend/s3"

	log "github.com/sirupsen/logrus"
)

func InitS3(ctx context.Context) {
	if err := s3client.Connect(ctx); err != nil {
		log.WithError(err).Error("Ошибка инициализации клиента S3")
		return
	}
	filestorage.NewInstance(s3client.Client)
	log.Info("S3 клиент успешно инициализирован")
}
