package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// New creates a new middleware handler
func New(config ...Config) fiber.Handler {
	var cfg Config
	if len(config) == 0 {
		cfg = ConfigDefault
	} else {
		cfg = config[0]
	}
	tags := map[string]bool{}
	for _, tag := range cfg.Tags {
		tags[tag] = true
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		if c.Method() == "OPTIONS" {
			return err
		}

		fields := log.Fields{}
		if tags[TagStatus] {
			fields[TagStatus] = c.Response().StatusCode()
		}
		if tags[TagLatency] {
			fields[TagLatency] = time.Since(start).String()
		}
		if tags[TagMethod] {
			fields[TagMethod] = c.Method()
		}
		if tags[TagPath] {
			fields[TagPath] = c.Path()
		}
		if tags[RequestID] {
			fields[RequestID] = uuid.NewString()
		}
		isFailed := c.Response().StatusCode() >= 300
		if tags[TagBody] && isFailed {
			fields[TagBody] = string(c.Body())
		}
		if tags[TagResBody] && isFailed {
			fields[TagResBody] = string(c.Response().Body())
		}

		entry := log.WithFields(fields)
		if cfg.Logger != nil {
			entry = cfg.Logger.WithFields(fields)
		}
		if isFailed {
			entry.Warn("запрос api")
		} else {
			entry.Info("запрос api")
		}
		return err
	}
}
