package checkout

import (
	"context"
	"fmt"

	"github.com/Ansh-Mishra04/project/config"
	"github.com/Ansh-Mishra04/project/internal/entity"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// Gateway is the payment provider checkout is opened through.
type Gateway interface {
	CreateOrder(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type razorpayGateway struct {
	client *razorpay.Client
	cfg    *config.RazorpayConfig
}

func NewRazorpayGateway(cfg *config.RazorpayConfig) Gateway {
	return &razorpayGateway{
		client: razorpay.NewClient(cfg.KeyID, cfg.KeySecret),
		cfg:    cfg,
	}
}

// CreateOrder registers the order with the provider. Single attempt: if
// the provider is unreachable the error goes back to the caller as is.
func (g *razorpayGateway) CreateOrder(ctx context.Context, req *entity.CheckoutRequest) (*entity.CheckoutOrder, error) {
	data := map[string]interface{}{
		"amount":   req.Amount,
		"currency": req.Currency,
		"receipt":  req.Receipt,
		"notes": map[string]interface{}{
			"description": req.Description,
			"email":       req.Registrant.Email,
		},
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok || orderID == "" {
		return nil, fmt.Errorf("payment order response has no id")
	}

	return &entity.CheckoutOrder{
		OrderID:     orderID,
		Key:         g.cfg.KeyID,
		Amount:      req.Amount,
		Currency:    req.Currency,
		Name:        g.cfg.DisplayName,
		Description: req.Description,
		ThemeColor:  g.cfg.ThemeColor,
		Prefill:     req.Registrant,
	}, nil
}

func (g *razorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}

	return utils.VerifyPaymentSignature(params, signature, g.cfg.KeySecret)
}
