package dnshost

import (
	"context"
	"errors"
	"time"

	"govdns/internal/config"
	"govdns/internal/model"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Worker periodically pushes pending local DNS records to the vendor.
// Provisioning itself stays request/response; the worker is only a consumer
// of the service that retries records the API accepted but has not synced.
type Worker struct {
	db      *gorm.DB
	service *Service
	config  config.SyncWorkerConfig
	logger  *logrus.Entry
	stopCh  chan struct{}
}

// NewWorker creates a record sync worker
func NewWorker(db *gorm.DB, service *Service, cfg config.SyncWorkerConfig, logger *logrus.Entry) *Worker {
	return &Worker{
		db:      db,
		service: service,
		config:  cfg,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// Start starts the worker loop
func (w *Worker) Start() {
	if !w.config.Enabled {
		w.logger.Info("record sync worker disabled, not starting")
		return
	}

	w.logger.WithFields(logrus.Fields{
		"interval_sec": w.config.IntervalSec,
		"batch_size":   w.config.BatchSize,
	}).Info("record sync worker starting")

	go w.run()
}

// Stop stops the worker loop
func (w *Worker) Stop() {
	close(w.stopCh)
}

func (w *Worker) run() {
	ticker := time.NewTicker(time.Duration(w.config.IntervalSec) * time.Second)
	defer ticker.Stop()

	// Run immediately on start
	w.tick()

	for {
		select {
		case <-ticker.C:
			w.tick()
		case <-w.stopCh:
			w.logger.Info("record sync worker stopped")
			return
		}
	}
}

// tick processes one batch of pending records
func (w *Worker) tick() {
	records, err := w.service.GetPendingRecords(w.config.BatchSize)
	if err != nil {
		w.logger.WithError(err).Error("failed to fetch pending records")
		return
	}
	if len(records) == 0 {
		return
	}

	w.logger.WithField("count", len(records)).Info("syncing pending DNS records")

	for _, record := range records {
		w.syncRecord(record)
	}
}

// syncRecord pushes one local record to the vendor zone it belongs to
func (w *Worker) syncRecord(record model.DNSRecord) {
	entry := w.logger.WithFields(logrus.Fields{
		"record_id": record.ID,
		"zone_id":   record.DNSZoneID,
		"type":      string(record.Type),
		"name":      record.Name,
	})

	vendorZone, err := model.ActiveVendorZone(w.db, record.DNSZoneID)
	if err != nil {
		if errors.Is(err, model.ErrNoActiveLink) {
			entry.Warn("zone has no active vendor link, skipping record")
			if markErr := w.service.MarkRecordError(record.ID, "zone has no active vendor link"); markErr != nil {
				entry.WithError(markErr).Error("failed to mark record as error")
			}
			return
		}
		entry.WithError(err).Error("failed to resolve active vendor zone")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, err := w.service.CreateRecord(ctx, vendorZone.XZoneID, RecordData{
		Type:    string(record.Type),
		Name:    record.Name,
		Content: record.Content,
		TTL:     record.TTL,
		Comment: record.Comment,
	})
	if err != nil {
		if markErr := w.service.MarkRecordError(record.ID, err.Error()); markErr != nil {
			entry.WithError(markErr).Error("failed to mark record as error")
		}
		return
	}

	if err := w.service.MarkRecordActive(record.ID, created); err != nil {
		entry.WithError(err).Error("failed to persist vendor record link")
		return
	}

	entry.Info("DNS record synced")
}
