package filestorage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"doc-flow-backend/config"

	"github.com/minio/minio-go/v7"
)

type Provider interface {
	// UploadSignedDoc сохраняет подписанный документ, возвращает путь объекта
	UploadSignedDoc(ctx context.Context, spaceID, submissionID, fileName string, file []byte) (path string, err error)
	GetFile(ctx context.Context, path string) ([]byte, error)
}

var Instance Provider

func NewInstance(s3client *minio.Client) {
	Instance = &impl{
		s3client: s3client,
	}
}

type impl struct {
	s3client *minio.Client
}

func (i impl) UploadSignedDoc(ctx context.Context, spaceID, submissionID, fileName string, file []byte) (string, error) {
	path := fmt.Sprintf("%s/%s/%s", spaceID, submissionID, fileName)
	_, err := i.s3client.PutObject(ctx, config.Conf.S3.BucketName, path,
		bytes.NewReader(file), int64(len(file)),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return "", err
	}
	return path, nil
}

func (i impl) GetFile(ctx context.Context, path string) ([]byte, error) {
	object, err := i.s3client.GetObject(ctx, config.Conf.S3.BucketName, path, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer object.Close()
	return io.ReadAll(object)
}
