package initializers

import (
	"context"

	"github.com/Kariqs/bookbuy-api/utils"
	"go.uber.org/zap"
)

// NewMailer prefers the HTTP relay, then SMTP, and logs messages when neither
// is configured.
func NewMailer(cfg *Config, log *zap.Logger) utils.Mailer {
	switch {
	case cfg.MailAPIURL != "":
		log.Info("Mail via HTTP relay", zap.String("url", cfg.MailAPIURL))
		return utils.NewAPIMailer(cfg.MailAPIURL, cfg.MailAPIKey, cfg.SMTP.From)
	case cfg.SMTP.Host != "":
		log.Info("Mail via SMTP", zap.String("host", cfg.SMTP.Host))
		return utils.NewSMTPMailer(cfg.SMTP)
	default:
		log.Warn("No mail transport configured, emails are only logged")
		return utils.NewLogMailer(log)
	}
}

// NewImageUploader returns the S3 uploader, or a disabled one without a bucket.
func NewImageUploader(ctx context.Context, cfg *Config, log *zap.Logger) (utils.ImageUploader, error) {
	if cfg.S3.Bucket == "" {
		log.Warn("S3_BUCKET is not set, book image uploads are disabled")
		return utils.DisabledUploader{}, nil
	}
	return utils.NewS3Uploader(ctx, cfg.S3)
}
