package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	"checkout-funnel/internal/client"
	"checkout-funnel/internal/dto"
	"checkout-funnel/internal/model"
	"checkout-funnel/internal/repository"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const (
	defaultLeadSource = "popup"
	defaultLeadName   = "Anonymous"

	unconfiguredWarning = "Email captured but not sent to the mailing list due to missing configuration"
)

// LeadService captures leads and forwards them to the mailing-list provider.
// Local capture is the primary success condition: provider failures are
// logged and the caller still sees success.
type LeadService interface {
	CaptureLead(ctx context.Context, req *dto.LeadRequest) (*dto.SubscribeResponse, error)
	Subscribe(ctx context.Context, email string) (*dto.SubscribeResponse, error)
	ListLeads(ctx context.Context) ([]*model.Lead, error)
}

type leadServiceImpl struct {
	leadRepo    repository.LeadRepository
	subscribers client.SubscriberClient
	logger      *slog.Logger
}

func NewLeadService(
	leadRepo repository.LeadRepository,
	subscribers client.SubscriberClient,
	logger *slog.Logger,
) LeadService {
	return &leadServiceImpl{
		leadRepo:    leadRepo,
		subscribers: subscribers,
		logger:      logger,
	}
}

func validateEmail(email string) error {
	if email == "" {
		return ValidationError("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return ValidationError("Invalid email format")
	}
	return nil
}

func (s *leadServiceImpl) CaptureLead(ctx context.Context, req *dto.LeadRequest) (*dto.SubscribeResponse, error) {
	if err := validateEmail(req.Email); err != nil {
		return nil, err
	}

	name := req.Name
	if name == "" {
		name = defaultLeadName
	}
	source := req.Source
	if source == "" {
		source = defaultLeadSource
	}

	lead := &model.Lead{
		Email:  req.Email,
		Name:   name,
		Source: source,
	}
	if err := s.leadRepo.Append(ctx, lead); err != nil {
		return nil, fmt.Errorf("store lead: %w", err)
	}

	s.logger.Info("New lead captured", "email", lead.Email, "source", lead.Source)

	resp := &dto.SubscribeResponse{Success: true, IsNewSubscriber: true}

	if !s.subscribers.Configured() {
		s.logger.Warn("Mailing-list integration skipped: missing API key or group id")
		resp.Warning = unconfiguredWarning
		return resp, nil
	}

	if err := s.subscribers.Subscribe(ctx, req.Email, req.Name); err != nil {
		// Lead is already stored; upstream failure does not fail the caller.
		s.logger.Error("Mailing-list subscribe failed", "email", req.Email, "error", err)
	}

	return resp, nil
}

func (s *leadServiceImpl) Subscribe(ctx context.Context, email string) (*dto.SubscribeResponse, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}

	if !s.subscribers.Configured() {
		s.logger.Warn("Mailing-list API key or group id is missing")
		return &dto.SubscribeResponse{
			Success:         true,
			IsNewSubscriber: true,
			Warning:         unconfiguredWarning,
		}, nil
	}

	if err := s.subscribers.Subscribe(ctx, email, ""); err != nil {
		s.logger.Error("Mailing-list subscribe failed", "email", email, "error", err)
		return &dto.SubscribeResponse{Success: true, IsNewSubscriber: true}, nil
	}

	return &dto.SubscribeResponse{Success: true, IsNewSubscriber: true}, nil
}

func (s *leadServiceImpl) ListLeads(ctx context.Context) ([]*model.Lead, error) {
	return s.leadRepo.List(ctx)
}
