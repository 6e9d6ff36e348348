package usecase

import (
	"context"
	"fmt"
	"strconv"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"

	"github.com/AzizDev404/Qr/internal/domain/repository"
)

const (
	// allocAttempts bounds collision retries. Hitting the bound means the
	// entropy source is broken, not that we were unlucky five times, so the
	// allocator stops hard instead of looping.
	allocAttempts = 5

	idAlphabet      = "0123456789abcdefghijklmnopqrstuvwxyz"
	idEntropyLength = 7
)

// Allocator mints collision-checked identifiers for new QR records.
type Allocator struct {
	records repository.RecordRepository
	logger  *zap.Logger
	now     func() time.Time
}

// NewAllocator creates an allocator backed by the given record repository.
func NewAllocator(records repository.RecordRepository, logger *zap.Logger) *Allocator {
	return &Allocator{
		records: records,
		logger:  logger,
		now:     time.Now,
	}
}

// Allocate returns an identifier no existing record uses. Candidates combine
// a base36 time component with random entropy; each is checked against the
// repository before being handed out.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= allocAttempts; attempt++ {
		candidate, err := a.candidate()
		if err != nil {
			return "", fmt.Errorf("failed to generate id candidate: %w", err)
		}

		existing, err := a.records.FindByID(ctx, candidate)
		if err != nil {
			return "", storeError(err)
		}
		if existing == nil {
			return candidate, nil
		}

		a.logger.Warn("qr id collision, retrying",
			zap.String("candidate", candidate),
			zap.Int("attempt", attempt))
	}

	a.logger.Error("qr id allocation exhausted",
		zap.Int("attempts", allocAttempts))
	return "", ErrAllocationExhausted
}

func (a *Allocator) candidate() (string, error) {
	entropy, err := gonanoid.Generate(idAlphabet, idEntropyLength)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(a.now().UnixMilli(), 36) + entropy, nil
}
