package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// usableAmount rejects amounts that would corrupt totals. Source amounts are
// expected to be positive; zero or negative ones are logged and left out.
func usableAmount(kind string, id uuid.UUID, amount decimal.Decimal) bool {
	if amount.IsPositive() {
		return true
	}
	zap.L().Warn("ledger: non-positive amount excluded from totals",
		zap.String("kind", kind),
		zap.String("id", id.String()),
		zap.String("amount", amount.String()),
	)
	return false
}

func countsInvoice(id uuid.UUID, cancelled bool, amount decimal.Decimal) bool {
	if cancelled {
		return false
	}
	return usableAmount(string(KindInvoice), id, amount)
}

func countsPayment(id uuid.UUID, completed bool, amount decimal.Decimal) bool {
	if !completed {
		return false
	}
	return usableAmount(string(KindPayment), id, amount)
}
