// Package backup periodically copies the journal files to an S3-compatible
// bucket so a lost disk costs at most one backup interval of records.
package backup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"inn-backend/internal/config"
	"inn-backend/internal/journal"
	"inn-backend/internal/logger"
)

// Scheduler uploads journal snapshots on a fixed interval.
type Scheduler struct {
	cfg   *config.Config
	store *journal.Store
	log   zerolog.Logger

	mu     sync.Mutex
	ticker *time.Ticker
	stop   chan struct{}
}

func NewScheduler(cfg *config.Config, store *journal.Store) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		store: store,
		log:   logger.WithComponent("backup"),
	}
}

// Start launches the backup loop. The first backup runs immediately.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		return // already running
	}

	interval := time.Duration(s.cfg.Backup.IntervalMinutes) * time.Minute
	s.ticker = time.NewTicker(interval)
	s.stop = make(chan struct{})

	go func() {
		s.log.Info().Dur("interval", interval).Msg("journal backup scheduler started")
		s.runBackup()

		for {
			select {
			case <-s.ticker.C:
				s.runBackup()
			case <-s.stop:
				s.log.Info().Msg("journal backup scheduler stopped")
				return
			}
		}
	}()
}

// Stop halts the backup loop.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ticker != nil {
		s.ticker.Stop()
		close(s.stop)
		s.ticker = nil
	}
}

// runBackup uploads one snapshot of each journal file.
func (s *Scheduler) runBackup() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := s.newClient(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to configure backup client")
		return
	}

	stamp := time.Now().Format("20060102_150405")
	for _, name := range s.store.Journals() {
		data, err := os.ReadFile(s.store.Path(name))
		if err != nil {
			if os.IsNotExist(err) {
				continue // journal not created yet
			}
			s.log.Error().Err(err).Str("journal", string(name)).Msg("failed to read journal for backup")
			continue
		}

		key := fmt.Sprintf("journals/%s/%s-invoices_%s.log", name, name, stamp)
		_, err = client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.cfg.Backup.Bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String("application/x-ndjson"),
		})
		if err != nil {
			s.log.Error().Err(err).Str("journal", string(name)).Msg("failed to upload journal backup")
			continue
		}

		s.log.Info().
			Str("journal", string(name)).
			Str("key", key).
			Int("bytes", len(data)).
			Msg("journal backup uploaded")
	}
}

func (s *Scheduler) newClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.cfg.Backup.AccessKey,
			s.cfg.Backup.SecretKey,
			"",
		)),
		awsconfig.WithRegion(s.cfg.Backup.Region),
	)
	if err != nil {
		return nil, err
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.cfg.Backup.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.cfg.Backup.Endpoint)
		}
	}), nil
}
