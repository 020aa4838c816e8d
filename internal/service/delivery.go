package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"checkout-funnel/internal/client"
	"checkout-funnel/internal/dto"
	"checkout-funnel/internal/model"
	"checkout-funnel/internal/repository"
)

// DeliveryService announces which product bundle to fulfill and issues
// download links. Notification is at-most-once per order and best-effort:
// failures are logged, never surfaced, and never retried.
type DeliveryService interface {
	Notify(ctx context.Context, orderID, email, name string, products model.Products) bool
	DownloadLink() *dto.DownloadLinkResponse
}

type deliveryServiceImpl struct {
	deliveryRepo repository.DeliveryRepository
	downloads    *client.DownloadLinkIssuer
	logger       *slog.Logger
}

func NewDeliveryService(
	deliveryRepo repository.DeliveryRepository,
	downloads *client.DownloadLinkIssuer,
	logger *slog.Logger,
) DeliveryService {
	return &deliveryServiceImpl{
		deliveryRepo: deliveryRepo,
		downloads:    downloads,
		logger:       logger,
	}
}

// Notify reports whether a notification actually went out this call. A
// previously notified order is skipped; the actual email send is an external
// collaborator's job, so the rendered message is logged only.
func (s *deliveryServiceImpl) Notify(ctx context.Context, orderID, email, name string, products model.Products) bool {
	if email == "" {
		s.logger.Warn("Delivery notification skipped: no email", "order_id", orderID)
		return false
	}

	if orderID != "" {
		already, err := s.deliveryRepo.Exists(ctx, orderID)
		if err != nil {
			s.logger.Error("Delivery dedupe lookup failed", "order_id", orderID, "error", err)
			return false
		}
		if already {
			s.logger.Info("Delivery already notified, skipping", "order_id", orderID)
			return false
		}
	}

	subject, body := buildDeliveryEmail(name, products)
	s.logger.Info("Delivering products",
		"order_id", orderID,
		"email", email,
		"subject", subject,
		"body", body)

	if orderID != "" {
		err := s.deliveryRepo.MarkNotified(ctx, &model.Delivery{
			OrderID:  orderID,
			Email:    email,
			Products: productList(products),
		})
		if err != nil {
			s.logger.Error("Recording delivery notification failed", "order_id", orderID, "error", err)
		}
	}

	return true
}

func (s *deliveryServiceImpl) DownloadLink() *dto.DownloadLinkResponse {
	link := s.downloads.Issue()
	return &dto.DownloadLinkResponse{
		DownloadLink: link.URL,
		Warning:      link.Warning,
		Error:        link.Err,
	}
}

var bundleNames = map[string]string{
	"mainProduct": "Social Media Content Bundle (100 Viral Reels & Carousel Templates + Threads Authority)",
	"orderBump":   "Story Selling Secrets: Convert Followers into Customers Using IG Stories",
	"upsell":      "Premium Business Package (The Passive Income Playbook + The Faceless Formula + Sales Funnel Secrets)",
	"downsell":    "Growth & Sales Accelerator (Reels Domination + Meta Ads Mastery)",
}

func productList(products model.Products) string {
	var skus []string
	if products.MainProduct {
		skus = append(skus, "mainProduct")
	}
	if products.OrderBump {
		skus = append(skus, "orderBump")
	}
	if products.Upsell {
		skus = append(skus, "upsell")
	}
	if products.Downsell {
		skus = append(skus, "downsell")
	}
	return strings.Join(skus, ",")
}

func buildDeliveryEmail(name string, products model.Products) (subject, body string) {
	if name == "" {
		name = "there"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hello %s,\n\nThank you for your purchase! Here are your download links:\n\n", name)
	for _, sku := range strings.Split(productList(products), ",") {
		if bundle, ok := bundleNames[sku]; ok {
			fmt.Fprintf(&b, "- %s [Download Link]\n", bundle)
		}
	}
	b.WriteString("\nEnjoy your products!\n")

	return "Your Purchase Is Ready", b.String()
}
