package erpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"doc-flow-backend/config"
	dbmodels "doc-flow-backend/models/db"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const pushPath = "/api/v1/approved-documents"

// ApprovedDocPayload согласованный документ для учетной системы
type ApprovedDocPayload struct {
	SubmissionID string                  `json:"submission_id"`
	SpaceID      string                  `json:"space_id"`
	DocType      string                  `json:"doc_type"`
	DocNumber    string                  `json:"doc_number"`
	Title        string                  `json:"title"`
	Data         dbmodels.SubmissionData `json:"data"`
	ApprovedAt   time.Time               `json:"approved_at"`
}

type Provider interface {
	// PushApproved передача согласованного документа в учетную систему.
	// Сбой передачи логируется и не влияет на статус документа
	PushApproved(ctx context.Context, payload ApprovedDocPayload) error
}

var Instance Provider

func NewProvider() {
	Instance = &impl{
		endpoint: config.Conf.Erp.Endpoint,
		apiKey:   config.Conf.Erp.ApiKey,
		client: &http.Client{
			Timeout: time.Duration(config.Conf.Erp.Timeout) * time.Second,
		},
	}
}

type impl struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func (i impl) PushApproved(ctx context.Context, payload ApprovedDocPayload) error {
	if i.endpoint == "" {
		log.WithField("submission_id", payload.SubmissionID).
			Warn("документ не передан в учетную систему, интеграция не настроена")
		return nil
	}
	uri := i.endpoint + pushPath
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "ошибка сериализации документа")
	}
	r, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return err
	}
	r.Header.Add("Content-Type", "application/json")
	r.Header.Add("X-Api-Key", i.apiKey)

	logger := log.
		WithField("external_request", uri).
		WithField("submission_id", payload.SubmissionID)

	resp, err := i.client.Do(r)
	if err != nil {
		logger.WithError(err).Error("ошибка передачи документа в учетную систему")
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		err = errors.Errorf("учетная система ответила кодом %v: %v", resp.StatusCode, string(respBody))
		logger.WithError(err).Error("документ не принят учетной системой")
		return err
	}
	logger.Info(fmt.Sprintf("документ %v передан в учетную систему", payload.DocNumber))
	return nil
}
