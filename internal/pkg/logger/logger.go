package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/sirupsen/logrus"
)

// AppLogger writes HTTP access logs. Application events go through ZapLogger.
type AppLogger struct {
	*logrus.Logger
	service  string
	nrApp    *newrelic.Application
	filePath string
	file     *os.File
}

// Config holds access logger configuration
type Config struct {
	Level    string `json:"level" mapstructure:"level"`
	FilePath string `json:"file_path" mapstructure:"file_path"`
	Service  string `json:"service" mapstructure:"service"`
}

// NewAppLogger creates a new access logger
func NewAppLogger(config Config, nrApp *newrelic.Application) (*AppLogger, error) {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyTime:  "timestamp",
			logrus.FieldKeyLevel: "level",
			logrus.FieldKeyMsg:   "message",
		},
	})

	appLogger := &AppLogger{
		Logger:  logger,
		service: config.Service,
		nrApp:   nrApp,
	}

	if config.FilePath != "" {
		if err := appLogger.setupFileOutput(config.FilePath); err != nil {
			return nil, fmt.Errorf("failed to setup file output: %w", err)
		}
	}

	return appLogger, nil
}

// InitAppLoggerFromConfig builds the access logger from application config
func InitAppLoggerFromConfig(configs *models.Config, nrApp *newrelic.Application) (*AppLogger, error) {
	return NewAppLogger(Config{
		Level:    configs.Logger.Level,
		FilePath: configs.Logger.FilePath,
		Service:  configs.App.Name,
	}, nrApp)
}

func (al *AppLogger) setupFileOutput(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	al.filePath = filePath
	al.file = file
	al.Logger.SetOutput(io.MultiWriter(os.Stdout, file))

	return nil
}

// Close closes the log file
func (al *AppLogger) Close() error {
	if al.file != nil {
		return al.file.Close()
	}
	return nil
}

// WithNewRelicContext adds trace correlation fields from the transaction
func (al *AppLogger) WithNewRelicContext(txn *newrelic.Transaction) *logrus.Entry {
	entry := al.WithFields(logrus.Fields{})

	if txn != nil {
		ctx := newrelic.NewContext(context.Background(), txn)
		entry = entry.WithContext(ctx)

		if md := txn.GetLinkingMetadata(); md.TraceID != "" {
			entry = entry.WithFields(logrus.Fields{
				"trace.id": md.TraceID,
				"span.id":  md.SpanID,
			})
		}
	}

	return entry
}

// WithFields adds custom fields plus the service name
func (al *AppLogger) WithFields(fields logrus.Fields) *logrus.Entry {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["service"] = al.service

	return al.Logger.WithFields(fields)
}

// LogHTTPRequest logs one served request at a level derived from the status code
func (al *AppLogger) LogHTTPRequest(txn *newrelic.Transaction, method, path, clientIP, requestID string, statusCode int, latency time.Duration, err error) {
	entry := al.WithNewRelicContext(txn).WithFields(logrus.Fields{
		"status":     statusCode,
		"latency":    latency.String(),
		"latency_ms": latency.Milliseconds(),
		"client_ip":  clientIP,
		"method":     method,
		"path":       path,
		"request_id": requestID,
	})
	if err != nil {
		entry = entry.WithError(err)
	}

	switch {
	case statusCode >= 500:
		entry.Error("Server error")
	case statusCode >= 400:
		entry.Warn("Client error")
	default:
		entry.Info("Request processed")
	}
}

// GetFilePath returns the current log file path
func (al *AppLogger) GetFilePath() string {
	return al.filePath
}
