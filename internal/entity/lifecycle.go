package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fixed business thresholds. Values are in BRL with no conversion.
const (
	VIPThreshold     = 1000
	InactivityWindow = 90 * 24 * time.Hour
)

var vipThreshold = decimal.NewFromInt(VIPThreshold)

// Classification is the effective (status, after-sales status) pair of a lead.
// An empty AfterSales means unset.
type Classification struct {
	Status     LeadStatus
	AfterSales LeadStatus
}

// Classify derives the effective lifecycle stage of a lead. It is a view: the
// same history classifies differently as now advances, so callers pass now
// explicitly and never persist the result.
func Classify(status, afterSales LeadStatus, purchases PurchaseSet, now time.Time) Classification {
	if status == "" {
		status = StatusNovo
	}
	c := Classification{Status: status, AfterSales: afterSales}

	if status.IsAfterSales() && c.AfterSales == "" {
		c.AfterSales = status
	}

	switch {
	case purchases.PaidCount() > 0:
		stage := paidStage(purchases, now)
		c.Status = stage
		c.AfterSales = stage
	case len(purchases.Unpaid) > 0:
		c.Status = StatusAguardandoPagamento
	case status == StatusSemClassificacao || status == StatusGanho:
		// won without any purchase on record
		c.Status = StatusPerdido
		c.AfterSales = ""
	}
	return c
}

func paidStage(purchases PurchaseSet, now time.Time) LeadStatus {
	last, _ := purchases.LastPaid()

	switch {
	case isOverdue(last.Date, now):
		return StatusInativo
	case purchases.PaidTotal().GreaterThan(vipThreshold):
		return StatusVIP
	case purchases.PaidCount() > 1:
		return StatusRecorrente
	default:
		return StatusPrimeiraCompra
	}
}

// isOverdue treats an undated purchase as recent.
func isOverdue(lastPaid, now time.Time) bool {
	if lastPaid.IsZero() {
		return false
	}
	return now.Sub(lastPaid) > InactivityWindow
}
