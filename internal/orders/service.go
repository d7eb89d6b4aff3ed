package orders

import (
	"context"
	"fmt"
	"strings"

	"github.com/markberon/sari-store-backend/pkg/db/models"
	pkgerrors "github.com/markberon/sari-store-backend/pkg/errors"
	"github.com/markberon/sari-store-backend/pkg/format"
	"github.com/markberon/sari-store-backend/pkg/logger"
	"github.com/markberon/sari-store-backend/pkg/ordernum"
)

// Service exposes order read and history reconciliation operations.
type Service interface {
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	HistoryByPhone(ctx context.Context, phone string) ([]Summary, error)
	MergeHistory(ctx context.Context, phone string, local []Summary) ([]Summary, error)
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds an orders service backed by the provided repository.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if !ordernum.Valid(orderNumber) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order number")
	}
	return s.repo.FindByNumber(ctx, orderNumber)
}

func (s *service) HistoryByPhone(ctx context.Context, phone string) ([]Summary, error) {
	normalized, err := normalizedPhone(phone)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListByPhone(ctx, normalized)
	if err != nil {
		return nil, err
	}
	summaries := make([]Summary, 0, len(list))
	for _, order := range list {
		summaries = append(summaries, SummaryFromModel(order))
	}
	return summaries, nil
}

// MergeHistory reconciles the client's cached history against the server's
// copy for the same phone number. The server side is authoritative for any
// order number both sides know. When the server-side lookup fails, the
// client's cached subset is still a legitimate partial view, so the merge
// degrades to it instead of failing the whole request.
func (s *service) MergeHistory(ctx context.Context, phone string, local []Summary) ([]Summary, error) {
	normalized, err := normalizedPhone(phone)
	if err != nil {
		return nil, err
	}
	remote, err := s.repo.ListByPhone(ctx, normalized)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "order history fetch failed, serving cached copy")
		return MergeHistories(local, nil), nil
	}
	summaries := make([]Summary, 0, len(remote))
	for _, order := range remote {
		summaries = append(summaries, SummaryFromModel(order))
	}
	return MergeHistories(local, summaries), nil
}

func normalizedPhone(phone string) (string, error) {
	normalized := format.NormalizePhone(phone)
	if !format.ValidMobile(normalized) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid mobile number")
	}
	return normalized, nil
}
