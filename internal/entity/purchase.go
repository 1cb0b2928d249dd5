package entity

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultPurchaseStatus is assumed for rows stored without a status.
const DefaultPurchaseStatus = "Pago"

// Upstream payment statuses are free text, so payment state is decided by
// membership in these lists, never by a flag.
var (
	PaidPurchaseStatuses = []string{
		"Pago",
		"AGUARDANDO ENVIO",
		"A ENVIAR",
		"PROBLEMAS NA ENTREGA",
		"FINALIZADO",
		"ENVIADO",
	}

	UnpaidPurchaseStatuses = []string{
		"AGUARDANDO PAGAMENTO",
		"PENDENTE",
		"AGUARDANDO YAPAY",
		"EM MONITORAMENTO",
		"AGUARDANDO VINDI",
	}
)

type PaymentClass string

const (
	PaymentPaid         PaymentClass = "PAID"
	PaymentUnpaid       PaymentClass = "UNPAID"
	PaymentUnclassified PaymentClass = "UNCLASSIFIED"
)

var paymentClasses = func() map[string]PaymentClass {
	m := make(map[string]PaymentClass, len(PaidPurchaseStatuses)+len(UnpaidPurchaseStatuses))
	for _, s := range PaidPurchaseStatuses {
		m[s] = PaymentPaid
	}
	for _, s := range UnpaidPurchaseStatuses {
		m[s] = PaymentUnpaid
	}
	return m
}()

// ClassifyPayment maps a raw purchase status to its payment class.
func ClassifyPayment(status string) PaymentClass {
	if c, ok := paymentClasses[status]; ok {
		return c
	}
	return PaymentUnclassified
}

// Purchase is one monetary transaction of a lead. A zero Date means the
// stored date was missing or unparseable.
type Purchase struct {
	ID         string          `json:"id"`
	LeadID     string          `json:"lead_id,omitempty"`
	Date       time.Time       `json:"date"`
	Value      decimal.Decimal `json:"value"`
	Status     string          `json:"status"`
	LeadOrigin string          `json:"lead_origin,omitempty"`
}

func (p Purchase) Payment() PaymentClass { return ClassifyPayment(p.Status) }

// PurchaseSet is a purchase history split by payment class. Every slice is
// ordered newest first.
type PurchaseSet struct {
	All          []Purchase
	Paid         []Purchase
	Unpaid       []Purchase
	Unclassified []Purchase
}

// NormalizePurchases sorts a copy of in by date, newest first, and partitions
// it. Undated purchases go last.
func NormalizePurchases(in []Purchase) PurchaseSet {
	all := slices.Clone(in)
	SortPurchasesDesc(all)

	set := PurchaseSet{All: all}
	for _, p := range all {
		switch p.Payment() {
		case PaymentPaid:
			set.Paid = append(set.Paid, p)
		case PaymentUnpaid:
			set.Unpaid = append(set.Unpaid, p)
		default:
			set.Unclassified = append(set.Unclassified, p)
		}
	}
	return set
}

func SortPurchasesDesc(ps []Purchase) {
	slices.SortStableFunc(ps, func(a, b Purchase) int {
		switch {
		case a.Date.IsZero() && b.Date.IsZero():
			return 0
		case a.Date.IsZero():
			return 1
		case b.Date.IsZero():
			return -1
		}
		return b.Date.Compare(a.Date)
	})
}

func (s PurchaseSet) PaidTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Paid {
		total = total.Add(p.Value)
	}
	return total
}

func (s PurchaseSet) PaidCount() int { return len(s.Paid) }

// LastPaid returns the most recent paid purchase.
func (s PurchaseSet) LastPaid() (Purchase, bool) {
	if len(s.Paid) == 0 {
		return Purchase{}, false
	}
	return s.Paid[0], true
}
