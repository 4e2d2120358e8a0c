package services

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"hunger_express/internal/models"
	"hunger_express/internal/repository"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentProvider is the external payment gateway. Amounts are in the
// smallest currency unit (paise).
type PaymentProvider interface {
	CreateOrder(amountPaise int64, receipt string) (providerOrderID string, err error)
	Refund(providerPaymentID string, amountPaise int64) (refundID string, err error)
}

// ProviderOrder is what the checkout frontend needs to open the provider's
// payment widget.
type ProviderOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"keyId"`
}

type RefundResult struct {
	RefundID string `json:"refundId,omitempty"`
	Status   string `json:"status"`
	Deferred bool   `json:"-"`
}

type PaymentService interface {
	CreateProviderOrder(amountPaise int64, receipt string) (*ProviderOrder, error)
	HandleWebhook(payload []byte, signature string) error
	Refund(orderID uint) (*RefundResult, error)
}

type paymentService struct {
	paymentRepo   repository.PaymentRepository
	eventRepo     repository.WebhookEventRepository
	provider      PaymentProvider
	keyID         string
	webhookSecret string
	now           func() time.Time
}

func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	eventRepo repository.WebhookEventRepository,
	provider PaymentProvider,
	keyID, webhookSecret string,
) PaymentService {
	return &paymentService{
		paymentRepo:   paymentRepo,
		eventRepo:     eventRepo,
		provider:      provider,
		keyID:         keyID,
		webhookSecret: webhookSecret,
		now:           time.Now,
	}
}

// CreateProviderOrder asks the gateway for a checkout order and persists a
// CREATED payment stub keyed by the provider order id. The stub is linked to
// a local order later, when checkout completes.
func (s *paymentService) CreateProviderOrder(amountPaise int64, receipt string) (*ProviderOrder, error) {
	if receipt == "" {
		receipt = "rcpt_" + uuid.NewString()
	}

	providerOrderID, err := s.provider.CreateOrder(amountPaise, receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to create provider order: %w", err)
	}

	payment := &models.Payment{
		Provider:        "RAZORPAY",
		ProviderOrderID: providerOrderID,
		Status:          string(models.PaymentCreated),
		Amount:          float64(amountPaise) / 100,
	}
	if err := s.paymentRepo.Create(payment); err != nil {
		return nil, fmt.Errorf("failed to persist payment: %w", err)
	}

	return &ProviderOrder{
		OrderID:  providerOrderID,
		Amount:   amountPaise,
		Currency: "INR",
		KeyID:    s.keyID,
	}, nil
}

type webhookEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}

type webhookEnvelope struct {
	ID      string `json:"id"`
	Event   string `json:"event"`
	Payload struct {
		Payment *struct {
			Entity *webhookEntity `json:"entity"`
		} `json:"payment"`
		Order *struct {
			Entity *webhookEntity `json:"entity"`
		} `json:"order"`
	} `json:"payload"`
}

// HandleWebhook verifies the HMAC signature over the raw payload,
// deduplicates by provider event id and reconciles payment state from the
// payment and order sub-events. Sub-event failures are logged, not bubbled,
// so one malformed entity cannot block the receipt or the 200 response.
func (s *paymentService) HandleWebhook(payload []byte, signature string) error {
	if signature == "" {
		return ErrBadSignature
	}

	mac := hmac.New(sha256.New, []byte(s.webhookSecret))
	mac.Write(payload)
	computed := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(computed), []byte(signature)) {
		log.Printf("Invalid webhook signature")
		return ErrBadSignature
	}

	var env webhookEnvelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	// Idempotency: a replayed event id is a no-op
	if env.ID != "" {
		seen, err := s.eventRepo.ExistsByEventID(env.ID)
		if err != nil {
			return fmt.Errorf("failed to check webhook event: %w", err)
		}
		if seen {
			return nil
		}
	}

	sum := sha256.Sum256(payload)
	event := &models.PaymentWebhookEvent{
		EventType:     env.Event,
		Signature:     signature,
		PayloadSHA256: hex.EncodeToString(sum[:]),
		ReceivedAt:    s.now(),
	}
	if env.ID != "" {
		event.EventID = &env.ID
	}
	if err := s.eventRepo.Create(event); err != nil {
		return fmt.Errorf("failed to record webhook event: %w", err)
	}

	if env.Payload.Payment != nil && env.Payload.Payment.Entity != nil {
		if err := s.reconcilePaymentEntity(env.Payload.Payment.Entity); err != nil {
			log.Printf("Failed to reconcile payment event: %v", err)
		}
	}
	if env.Payload.Order != nil && env.Payload.Order.Entity != nil {
		if err := s.reconcileOrderEntity(env.Payload.Order.Entity); err != nil {
			log.Printf("Failed to reconcile order event: %v", err)
		}
	}

	return nil
}

func (s *paymentService) reconcilePaymentEntity(entity *webhookEntity) error {
	if entity.OrderID == "" {
		return nil
	}
	payment, err := s.paymentRepo.GetByProviderOrderID(entity.OrderID)
	if err != nil {
		return err
	}
	if payment == nil {
		return nil
	}

	if entity.ID != "" {
		payment.ProviderPaymentID = entity.ID
	}
	switch strings.ToUpper(entity.Status) {
	case "CAPTURED":
		payment.Status = string(models.PaymentCaptured)
	case "AUTHORIZED":
		payment.Status = string(models.PaymentAuthorized)
	case "FAILED":
		payment.Status = string(models.PaymentFailed)
	case "REFUNDED":
		payment.Status = string(models.PaymentRefunded)
	default:
		// keep existing status
	}
	return s.paymentRepo.Update(payment)
}

func (s *paymentService) reconcileOrderEntity(entity *webhookEntity) error {
	if entity.ID == "" {
		return nil
	}
	payment, err := s.paymentRepo.GetByProviderOrderID(entity.ID)
	if err != nil {
		return err
	}
	if payment == nil {
		return nil
	}

	if strings.EqualFold(entity.Status, "paid") {
		payment.Status = string(models.PaymentCaptured)
		return s.paymentRepo.Update(payment)
	}
	return nil
}

// Refund refunds the latest payment on an order for the full captured
// amount. When the provider payment id is not yet known the refund is
// deferred: the payment is flagged REFUND_REQUESTED and no provider call is
// made.
func (s *paymentService) Refund(orderID uint) (*RefundResult, error) {
	payment, err := s.paymentRepo.GetLatestByOrderID(orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to load payment: %w", err)
	}
	if payment == nil {
		return nil, ErrNotFound
	}

	if payment.ProviderPaymentID == "" {
		payment.Status = string(models.PaymentRefundRequested)
		if err := s.paymentRepo.Update(payment); err != nil {
			return nil, fmt.Errorf("failed to flag refund: %w", err)
		}
		return &RefundResult{Status: payment.Status, Deferred: true}, nil
	}

	refundID, err := s.provider.Refund(payment.ProviderPaymentID, int64(math.Round(payment.Amount*100)))
	if err != nil {
		return nil, fmt.Errorf("refund failed: %w", err)
	}

	payment.Status = string(models.PaymentRefunded)
	if err := s.paymentRepo.Update(payment); err != nil {
		return nil, fmt.Errorf("failed to update payment: %w", err)
	}

	return &RefundResult{RefundID: refundID, Status: payment.Status}, nil
}
