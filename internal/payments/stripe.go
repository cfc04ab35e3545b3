// Package payments creates Stripe checkout sessions for cart purchases.
package payments

import (
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/checkout/session"
)

// Client wraps Stripe checkout session creation.
type Client struct {
	enabled bool
}

// NewClient configures the Stripe SDK with the given secret key. An empty
// key yields a disabled client whose calls fail cleanly.
func NewClient(secretKey string) *Client {
	if secretKey == "" {
		return &Client{}
	}
	stripe.Key = secretKey
	return &Client{enabled: true}
}

// Enabled reports whether a secret key was configured.
func (c *Client) Enabled() bool {
	return c.enabled
}

// CartItem is a single purchasable line in a checkout.
type CartItem struct {
	ProductName string  `json:"productName"`
	CompanyName string  `json:"companyName"`
	Price       float64 `json:"price"`
	Quantity    int64   `json:"quantity"`
}

// CreateCheckoutSession builds a hosted checkout session for the cart and
// returns its ID. Prices are in RON.
func (c *Client) CreateCheckoutSession(items []CartItem, frontendURL string) (string, error) {
	if !c.enabled {
		return "", fmt.Errorf("stripe is not configured")
	}
	if len(items) == 0 {
		return "", fmt.Errorf("cart is empty")
	}

	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(items))
	for _, item := range items {
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		name := item.ProductName
		if item.CompanyName != "" {
			name = fmt.Sprintf("%s (%s)", item.ProductName, item.CompanyName)
		}

		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(string(stripe.CurrencyRON)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(name),
				},
				UnitAmount: stripe.Int64(int64(math.Round(item.Price * 100))),
			},
			Quantity: stripe.Int64(qty),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  lineItems,
		SuccessURL: stripe.String(frontendURL + "/cart/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(frontendURL + "/cart"),
	}

	sess, err := session.New(params)
	if err != nil {
		return "", fmt.Errorf("failed to create checkout session: %w", err)
	}
	return sess.ID, nil
}
