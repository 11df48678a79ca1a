package matching

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"property-sales-backend/internal/format"
	"property-sales-backend/internal/models"
	"property-sales-backend/internal/services/ledger"
)

type Decision string

const (
	DecisionAutoAllocate Decision = "auto_allocate"
	DecisionNeedsReview  Decision = "needs_review"
	DecisionUnallocated  Decision = "unallocated"
)

const (
	autoAllocateThreshold = 90
	needsReviewThreshold  = 60

	amountWeight    = 0.6
	dateWeight      = 0.3
	ambiguityWeight = 0.1
)

// Suggestion ranks one open invoice as the target of an unallocated payment.
type Suggestion struct {
	InvoiceID      uuid.UUID       `json:"invoice_id"`
	InvoiceNumber  string          `json:"invoice_number"`
	Remaining      decimal.Decimal `json:"remaining"`
	DueDate        time.Time       `json:"due_date"`
	AmountScore    float64         `json:"amount_score"`
	DateScore      float64         `json:"date_score"`
	AmbiguityScore float64         `json:"ambiguity_score"`
	Score          float64         `json:"score"`
	Decision       Decision        `json:"decision"`
}

// Suggest scores the buyer's open invoices for payment p. An invoice is open
// when it resolves to pending or overdue at now and still has something left
// to pay. Results are sorted best first; ties go to the earlier due date.
func Suggest(p models.Payment, invoices []models.Invoice, payments []models.Payment, now time.Time) []Suggestion {
	type candidate struct {
		inv       models.Invoice
		remaining decimal.Decimal
	}

	var candidates []candidate
	for _, inv := range invoices {
		if inv.BuyerID != p.BuyerID {
			continue
		}
		switch ledger.ResolveStatus(inv, now) {
		case models.InvoiceStatusPending, models.InvoiceStatusOverdue:
		default:
			continue
		}
		remaining := ledger.MatchPayments(inv, payments).Remaining
		if !remaining.IsPositive() {
			continue
		}
		candidates = append(candidates, candidate{inv: inv, remaining: remaining})
	}

	ambiguityScore := 100.0
	if len(candidates) > 1 {
		ambiguityScore = 80.0
	}

	suggestions := make([]Suggestion, 0, len(candidates))
	for _, c := range candidates {
		amountScore := computeAmountScore(p.Amount, c.remaining)
		dateScore := computeDateScore(p.PaymentDate, c.inv.DueDate)
		score := amountWeight*amountScore + dateWeight*dateScore + ambiguityWeight*ambiguityScore
		score = math.Round(math.Min(score, 100)*100) / 100

		suggestions = append(suggestions, Suggestion{
			InvoiceID:      c.inv.ID,
			InvoiceNumber:  c.inv.InvoiceNumber,
			Remaining:      c.remaining,
			DueDate:        c.inv.DueDate,
			AmountScore:    amountScore,
			DateScore:      dateScore,
			AmbiguityScore: ambiguityScore,
			Score:          score,
			Decision:       decide(score),
		})
	}

	slices.SortStableFunc(suggestions, func(a, b Suggestion) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return a.DueDate.Compare(b.DueDate)
	})
	return suggestions
}

// Best returns the top suggestion, or false when nothing is open.
func Best(suggestions []Suggestion) (Suggestion, bool) {
	if len(suggestions) == 0 {
		return Suggestion{}, false
	}
	return suggestions[0], true
}

func decide(score float64) Decision {
	switch {
	case score >= autoAllocateThreshold:
		return DecisionAutoAllocate
	case score >= needsReviewThreshold:
		return DecisionNeedsReview
	default:
		return DecisionUnallocated
	}
}

// computeAmountScore is 100 for a payment that settles the remaining balance
// exactly and falls linearly with the relative difference.
func computeAmountScore(amount, remaining decimal.Decimal) float64 {
	if !remaining.IsPositive() || !amount.IsPositive() {
		return 0
	}
	diff := amount.Sub(remaining).Abs().Div(remaining)
	ratio, _ := diff.Float64()
	return math.Max(0, 100*(1-ratio))
}

func computeDateScore(paymentDate, dueDate time.Time) float64 {
	if dueDate.IsZero() {
		return 20
	}
	days := math.Abs(float64(format.DaysBetween(dueDate, paymentDate)))

	switch {
	case days <= 3:
		return 100
	case days <= 7:
		return 80
	case days <= 15:
		return 60
	case days <= 30:
		return 40
	default:
		return 20
	}
}
