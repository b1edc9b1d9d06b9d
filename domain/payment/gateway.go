package payment

import (
	"context"
	"strings"

	"posimarket/domain/shared"

	"github.com/google/uuid"
)

// Charge what the gateway is asked to authorise
type Charge struct {
	PaymentID string
	OrderID   string
	Amount    shared.Money
	Method    Method
}

// Authorization gateway answer
type Authorization struct {
	Status        Status
	TransactionID string
	Reason        string
}

// Gateway payment processor
type Gateway interface {
	Authorize(ctx context.Context, charge Charge) (Authorization, error)
}

// SimulatedGateway approves PIX and card charges at once; BOLETO stays pending
// until the slip is paid, which this gateway never observes.
type SimulatedGateway struct{}

func (SimulatedGateway) Authorize(ctx context.Context, charge Charge) (Authorization, error) {
	if err := ctx.Err(); err != nil {
		return Authorization{}, err
	}
	txID := "SIM-" + strings.ToUpper(uuid.NewString()[:8])
	switch charge.Method {
	case MethodPix, MethodCreditCard:
		return Authorization{Status: StatusApproved, TransactionID: txID}, nil
	case MethodBoleto:
		return Authorization{Status: StatusPending, TransactionID: txID}, nil
	default:
		return Authorization{Status: StatusRejected, Reason: "unsupported method"}, nil
	}
}
