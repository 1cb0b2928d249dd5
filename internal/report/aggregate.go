package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xavierca1/fortis-crm/internal/entity"
)

// PaidMediaOrigin is the lead origin attributed to paid traffic.
const PaidMediaOrigin = "Tráfego pago"

// DailyTrendMaxDays is the longest period still charted day by day.
const DailyTrendMaxDays = 45

// StatusRow is the status projection of one lead.
type StatusRow struct {
	Status     entity.LeadStatus
	AfterSales entity.LeadStatus
}

// ActivityRow is a lead whose last purchase fell inside the period.
type ActivityRow struct {
	Status         entity.LeadStatus
	UF             string
	LastPurchaseAt time.Time
}

// StatsInput is the joined result of the dashboard reads. Period slices hold
// rows already filtered to their window; AllPurchases and AllStatuses are
// unfiltered.
type StatsInput struct {
	Period Period

	TotalLeads     int
	PrevTotalLeads int
	AllStatuses    []StatusRow
	PeriodActivity []ActivityRow

	Investment          decimal.Decimal
	PrevInvestment      decimal.Decimal
	AllTimeInvestment   decimal.Decimal
	PeriodPurchases     []entity.Purchase
	PrevPeriodPurchases []entity.Purchase
	AllPurchases        []entity.Purchase
	PaidLeadsCount      int
}

// Snapshot holds the raw figures of one window. All-time fields repeat in
// both windows.
type Snapshot struct {
	TotalLeads        int             `json:"total_leads"`
	TotalCustomers    int             `json:"total_customers"`
	TotalSalesValue   decimal.Decimal `json:"total_sales_value"`
	TotalInvestment   decimal.Decimal `json:"total_investment"`
	TotalAdsPurchases int             `json:"total_ads_purchases"`
	SalesInvestment   decimal.Decimal `json:"sales_investment"`
	PaidLeadsCount    int             `json:"paid_leads_count"`
	TotalSalesCount   int             `json:"total_sales_count"`
	PaidSalesValue    decimal.Decimal `json:"paid_sales_value"`
}

type KPIs struct {
	ROAS             decimal.Decimal `json:"roas"`
	CAC              decimal.Decimal `json:"cac"`
	ARPU             decimal.Decimal `json:"arpu"`
	AveragePurchases decimal.Decimal `json:"average_purchases"`
	LTV              decimal.Decimal `json:"ltv"`
}

type TrendPoint struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

type Bucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

type GlobalStats struct {
	Period Period `json:"period"`

	Snapshot
	Prev Snapshot `json:"prev"`

	KPIs     KPIs `json:"kpis"`
	PrevKPIs KPIs `json:"prev_kpis"`

	StatusCounts     map[entity.LeadStatus]int `json:"status_counts"`
	UFCounts         map[string]int            `json:"uf_counts"`
	AfterSalesCounts map[entity.LeadStatus]int `json:"after_sales_counts"`
	AcquisitionTrend []TrendPoint              `json:"acquisition_trend"`
	SalesBuckets     []Bucket                  `json:"sales_buckets"`

	Deltas map[string]Delta `json:"deltas"`
}

// Aggregate computes the dashboard figures. It is pure; in is not modified.
func Aggregate(in StatsInput) GlobalStats {
	allRevenue := sumValues(in.AllPurchases)
	customers := distinctLeads(in.AllPurchases)
	paidValue, paidCount := paidMedia(in.PeriodPurchases)
	prevPaidValue, prevPaidCount := paidMedia(in.PrevPeriodPurchases)

	cur := Snapshot{
		TotalLeads:        in.TotalLeads,
		TotalCustomers:    customers,
		TotalSalesValue:   allRevenue,
		TotalInvestment:   in.Investment,
		TotalAdsPurchases: len(in.AllPurchases),
		SalesInvestment:   in.AllTimeInvestment,
		PaidLeadsCount:    in.PaidLeadsCount,
		TotalSalesCount:   paidCount,
		PaidSalesValue:    paidValue,
	}
	prev := cur
	prev.TotalLeads = in.PrevTotalLeads
	prev.TotalInvestment = in.PrevInvestment
	prev.TotalSalesCount = prevPaidCount
	prev.PaidSalesValue = prevPaidValue

	out := GlobalStats{
		Period:           in.Period,
		Snapshot:         cur,
		Prev:             prev,
		KPIs:             ComputeKPIs(cur),
		PrevKPIs:         ComputeKPIs(prev),
		AfterSalesCounts: AfterSalesCounts(in.AllStatuses),
		SalesBuckets:     DayOfMonthBuckets(in.AllPurchases, in.Period.Current.Start.Location()),
	}
	out.StatusCounts, out.UFCounts = activityCounts(in.PeriodActivity)
	out.AcquisitionTrend = AcquisitionTrend(in.PeriodActivity, in.Period.Current)
	out.Deltas = map[string]Delta{
		"total_leads":       NewDelta(decimal.NewFromInt(int64(cur.TotalLeads)), decimal.NewFromInt(int64(prev.TotalLeads)), HigherIsBetter),
		"total_investment":  NewDelta(cur.TotalInvestment, prev.TotalInvestment, LowerIsBetter),
		"paid_sales_value":  NewDelta(cur.PaidSalesValue, prev.PaidSalesValue, HigherIsBetter),
		"total_sales_count": NewDelta(decimal.NewFromInt(int64(cur.TotalSalesCount)), decimal.NewFromInt(int64(prev.TotalSalesCount)), HigherIsBetter),
		"roas":              NewDelta(out.KPIs.ROAS, out.PrevKPIs.ROAS, HigherIsBetter),
	}
	return out
}

// ComputeKPIs derives the ratios of a snapshot. A zero denominator yields zero.
func ComputeKPIs(s Snapshot) KPIs {
	k := KPIs{
		ROAS: safeDiv(s.PaidSalesValue, s.TotalInvestment),
		CAC:  safeDiv(s.SalesInvestment, decimal.NewFromInt(int64(s.PaidLeadsCount))),
	}
	customers := decimal.NewFromInt(int64(s.TotalCustomers))
	k.ARPU = safeDiv(s.TotalSalesValue, customers)
	k.AveragePurchases = safeDiv(decimal.NewFromInt(int64(s.TotalAdsPurchases)), customers)
	k.LTV = k.ARPU.Mul(k.AveragePurchases)
	return k
}

// AfterSalesCounts tallies customers by after-sales stage over every lead.
// Won or finished customers with no stage count as first purchase.
func AfterSalesCounts(rows []StatusRow) map[entity.LeadStatus]int {
	counts := make(map[entity.LeadStatus]int, len(entity.AfterSalesStatuses))
	for _, s := range entity.AfterSalesStatuses {
		counts[s] = 0
	}
	for _, r := range rows {
		if !r.Status.In(entity.CustomerStatuses) {
			continue
		}
		stage := r.AfterSales
		if stage == "" {
			stage = r.Status
		}
		switch {
		case stage.IsAfterSales():
			counts[stage]++
		case r.Status == entity.StatusGanho || r.Status == entity.StatusFinalizado:
			counts[entity.StatusPrimeiraCompra]++
		}
	}
	return counts
}

func activityCounts(rows []ActivityRow) (map[entity.LeadStatus]int, map[string]int) {
	status := make(map[entity.LeadStatus]int)
	uf := make(map[string]int)
	for _, r := range rows {
		switch {
		case r.Status.In(entity.CustomerStatuses):
			status[entity.StatusGanho]++
		case r.Status == entity.StatusSemClassificacao:
			status[entity.StatusPerdido]++
		default:
			status[r.Status]++
		}
		if u := strings.TrimSpace(r.UF); u != "" {
			uf[u]++
		}
	}
	return status, uf
}

// AcquisitionTrend counts last-purchase events per day for windows up to
// DailyTrendMaxDays long and per month otherwise, in chronological order.
func AcquisitionTrend(rows []ActivityRow, w Window) []TrendPoint {
	days := int(math.Ceil(w.Duration().Hours() / 24))
	daily := days <= DailyTrendMaxDays
	loc := w.Start.Location()

	counts := make(map[string]int)
	labels := make(map[string]string)
	for _, r := range rows {
		if r.LastPurchaseAt.IsZero() {
			continue
		}
		t := r.LastPurchaseAt.In(loc)
		var key, label string
		if daily {
			key, label = t.Format(DateLayout), DayLabel(t)
		} else {
			key, label = t.Format("2006-01"), MonthLabel(t)
		}
		counts[key]++
		labels[key] = label
	}

	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]TrendPoint, len(keys))
	for i, k := range keys {
		points[i] = TrendPoint{Key: k, Label: labels[k], Value: counts[k]}
	}
	return points
}

// DayOfMonthBuckets groups purchases by the day of month they happened on in
// loc, the business zone of the dashboard. A nil loc means UTC.
func DayOfMonthBuckets(purchases []entity.Purchase, loc *time.Location) []Bucket {
	if loc == nil {
		loc = time.UTC
	}
	buckets := []Bucket{{Range: "1 a 8"}, {Range: "9 a 16"}, {Range: "17 a 24"}, {Range: "25 a 31"}}
	for _, p := range purchases {
		if p.Date.IsZero() {
			continue
		}
		switch day := p.Date.In(loc).Day(); {
		case day <= 8:
			buckets[0].Count++
		case day <= 16:
			buckets[1].Count++
		case day <= 24:
			buckets[2].Count++
		default:
			buckets[3].Count++
		}
	}
	return buckets
}

func paidMedia(purchases []entity.Purchase) (decimal.Decimal, int) {
	total := decimal.Zero
	n := 0
	for _, p := range purchases {
		if IsPaidMedia(p.LeadOrigin) {
			total = total.Add(p.Value)
			n++
		}
	}
	return total, n
}

// IsPaidMedia matches the paid traffic origin ignoring case and padding.
func IsPaidMedia(origin string) bool {
	return strings.EqualFold(strings.TrimSpace(origin), PaidMediaOrigin)
}

func sumValues(purchases []entity.Purchase) decimal.Decimal {
	total := decimal.Zero
	for _, p := range purchases {
		total = total.Add(p.Value)
	}
	return total
}

func distinctLeads(purchases []entity.Purchase) int {
	seen := make(map[string]struct{}, len(purchases))
	for _, p := range purchases {
		seen[p.LeadID] = struct{}{}
	}
	return len(seen)
}

func safeDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}
	return a.Div(b)
}
