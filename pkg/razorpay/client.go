package razorpay

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// Client wraps the Razorpay SDK behind the payment-provider interface the
// services consume. Amounts are in paise, currency is fixed to INR.
type Client struct {
	api *razorpay.Client
}

func NewClient(keyID, keySecret string) *Client {
	return &Client{api: razorpay.NewClient(keyID, keySecret)}
}

func (c *Client) CreateOrder(amountPaise int64, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": "INR",
		"receipt":  receipt,
	}

	body, err := c.api.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create failed: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return "", fmt.Errorf("razorpay order create returned no id")
	}
	return orderID, nil
}

func (c *Client) Refund(providerPaymentID string, amountPaise int64) (string, error) {
	body, err := c.api.Payment.Refund(providerPaymentID, int(amountPaise), nil, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay refund failed: %w", err)
	}

	refundID, _ := body["id"].(string)
	return refundID, nil
}
