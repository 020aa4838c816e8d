package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"checkout-funnel/internal/client"
	"checkout-funnel/internal/dto"
	"checkout-funnel/internal/model"
	"checkout-funnel/internal/repository"
	"checkout-funnel/internal/session"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Decision string

const (
	DecisionAccept  Decision = "accept"
	DecisionDecline Decision = "decline"
)

// FunnelService drives the post-checkout page sequence. Transitions only
// move forward; accept paths charge the vaulted payment method before any
// record mutation, and entering the terminal stage triggers the delivery
// notification.
type FunnelService interface {
	Advance(ctx context.Context, claims *session.Claims, req *dto.AdvanceRequest) (*dto.AdvanceResponse, error)
	Verify(ctx context.Context, claims *session.Claims, page string) (*dto.VerifyResponse, error)
}

type funnelServiceImpl struct {
	paypalClient client.PaypalClient
	purchaseRepo repository.PurchaseRepository
	delivery     DeliveryService
	sessions     *session.Manager
	prices       *PriceTable
	window       time.Duration
	logger       *slog.Logger
}

func NewFunnelService(
	paypalClient client.PaypalClient,
	purchaseRepo repository.PurchaseRepository,
	delivery DeliveryService,
	sessions *session.Manager,
	prices *PriceTable,
	window time.Duration,
	logger *slog.Logger,
) FunnelService {
	return &funnelServiceImpl{
		paypalClient: paypalClient,
		purchaseRepo: purchaseRepo,
		delivery:     delivery,
		sessions:     sessions,
		prices:       prices,
		window:       window,
		logger:       logger,
	}
}

func (s *funnelServiceImpl) Advance(ctx context.Context, claims *session.Claims, req *dto.AdvanceRequest) (*dto.AdvanceResponse, error) {
	decision := Decision(req.Decision)
	if decision != DecisionAccept && decision != DecisionDecline {
		return nil, ValidationError("Decision must be accept or decline")
	}

	purchase, err := s.purchaseRepo.FindByOrderID(ctx, claims.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.ErrInvalidSession
		}
		return nil, fmt.Errorf("load purchase record: %w", err)
	}

	var next model.Stage

	switch {
	case claims.Stage == model.StageUpsell && decision == DecisionAccept:
		if err := s.chargeVault(ctx, claims, req, s.prices.Upsell, "Premium Business Package"); err != nil {
			return nil, err
		}
		if err := s.purchaseRepo.SetUpsell(ctx, purchase.OrderID); err != nil {
			return nil, fmt.Errorf("record upsell purchase: %w", err)
		}
		purchase.Upsell = true
		next = model.StageSuccess

	case claims.Stage == model.StageUpsell && decision == DecisionDecline:
		next = model.StageDownsell

	case claims.Stage == model.StageDownsell && decision == DecisionAccept:
		if err := s.chargeVault(ctx, claims, req, s.prices.Downsell, "Growth & Sales Accelerator"); err != nil {
			return nil, err
		}
		if err := s.purchaseRepo.SetDownsell(ctx, purchase.OrderID); err != nil {
			return nil, fmt.Errorf("record downsell purchase: %w", err)
		}
		purchase.Downsell = true
		next = model.StageSuccess

	case claims.Stage == model.StageDownsell && decision == DecisionDecline:
		next = model.StageSuccess

	default:
		return nil, ErrInvalidTransition
	}

	if next == model.StageSuccess {
		s.delivery.Notify(ctx, purchase.OrderID, purchase.Email, purchase.Name, purchase.Products())
	}

	token, err := s.sessions.Issue(purchase, next)
	if err != nil {
		return nil, fmt.Errorf("reissue funnel session: %w", err)
	}

	s.logger.Info("Funnel advanced",
		"order_id", purchase.OrderID,
		"from", claims.Stage,
		"decision", decision,
		"to", next)

	return &dto.AdvanceResponse{
		Stage:        next,
		Products:     purchase.Products(),
		SessionToken: token,
	}, nil
}

func (s *funnelServiceImpl) chargeVault(ctx context.Context, claims *session.Claims, req *dto.AdvanceRequest, price decimal.Decimal, description string) error {
	token := req.PaymentToken
	if token == "" {
		token = claims.PayerID
	}
	if token == "" {
		return ValidationError("No vaulted payment method for this purchase")
	}

	result, err := s.paypalClient.CreateVaultOrder(ctx, amountString(price), s.prices.Currency, token, description)
	if err != nil {
		return fmt.Errorf("charge vaulted payment: %w", err)
	}

	s.logger.Info("Vault charge captured",
		"order_id", result.ID,
		"status", result.Status,
		"description", description)
	return nil
}

func (s *funnelServiceImpl) Verify(ctx context.Context, claims *session.Claims, page string) (*dto.VerifyResponse, error) {
	purchase, err := s.purchaseRepo.FindByOrderID(ctx, claims.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, session.ErrInvalidSession
		}
		return nil, fmt.Errorf("load purchase record: %w", err)
	}

	// The thank-you page applies the stricter payment-verification check:
	// the record must be verified and still inside the validity window,
	// measured from the purchase itself.
	if page == string(model.StageThankYou) {
		if !purchase.Verified || time.Since(purchase.CreatedAt) >= s.window {
			return nil, session.ErrInvalidSession
		}
	}

	return &dto.VerifyResponse{
		Verified: purchase.Verified,
		Stage:    claims.Stage,
		Email:    purchase.Email,
		Name:     purchase.Name,
		OrderID:  purchase.OrderID,
		Products: purchase.Products(),
	}, nil
}
