package insight

import (
	"context"
	"math"

	"golang.org/x/text/message"

	"github.com/salescope/salescope/internal/model"
	"github.com/salescope/salescope/internal/service"
)

// defaultRules returns the fixed rule battery. Order is significant: it is the
// display order, never re-sorted by magnitude.
func defaultRules() []Rule {
	return []Rule{
		{Name: "totals", Generate: ruleTotals},
		{Name: "top_region", Generate: ruleTopRegion},
		{Name: "repeat_rate", Generate: ruleRepeatRate},
		{Name: "top_product", Generate: ruleTopProduct},
		{Name: "discount_margins", Generate: ruleDiscountMargins},
		{Name: "monthly_growth", Generate: ruleMonthlyGrowth},
		{Name: "payment_method", Generate: rulePaymentMethod},
		{Name: "age_bucket", Generate: ruleAgeBucket},
		{Name: "gender", Generate: ruleGender},
		{Name: "high_income", Generate: ruleHighIncome},
		{Name: "new_order", Generate: ruleNewOrder},
	}
}

// ruleTotals always emits, even over an empty dataset.
func ruleTotals(ctx context.Context, src service.AggregateSource, p *message.Printer, _ *model.Order) (string, error) {
	totals, err := src.Totals(ctx)
	if err != nil {
		return "", err
	}
	return p.Sprintf("📊 Total portfolio: **$%.0f** revenue across **%d** orders from **%d** customers.",
		totals.Revenue, totals.Orders, totals.Customers), nil
}

func ruleTopRegion(ctx context.Context, src service.AggregateSource, p *message.Printer, _ *model.Order) (string, error) {
	region, err := src.TopRegionByRevenue(ctx)
	if err != nil || region == nil {
		return "", err
	}
	return p.Sprintf("🏆 Top region is **%s** with **$%.0f** in total revenue.",
		region.Name, region.Value), nil
}

func ruleRepeatRate(ctx context.Context, src service.AggregateSource, p *message.Printer, _ *model.Order) (string, error) {
	rate, err := src.RepeatCustomerRate(ctx, watchRegion)
	if err != nil || rate == nil {
		return "", err
	}
	text := p.Sprintf("🔁 %s region repeat customer rate is **%.1f%%**.", watchRegion, *rate)
	if *rate < repeatRateBenchmark {
		text = p.Sprintf("⚠️ %s region repeat customer rate is **%.1f%%** — below the %.0f%% benchmark. "+
			"Consider a re-engagement campaign for lapsed %s buyers.",
			watchRegion, *rate, repeatRateBenchmark, watchRegion)
	}
	return text, nil
}

func ruleTopProduct(ctx context.Context, src service.AggregateSource, p *message.Printer, _ *model.Order) (string, error) {
	product, err := src.TopProductByRevenue(ctx)
	if err != nil || product == nil {
		return "", err
	}
	return p.Sprintf("📦 Best-selling product: **%s** — **$%.0f** revenue to date.",
		product.Name, product.Value), nil
}

// ruleDiscountMargins emits only when both the high-discount and full-price
// cohorts have orders.
func ruleDiscountMargins(ctx context.Context, src service.AggregateSource, p *message.Printer, _ *model.Order) (string, error) {
	margins, err := src.DiscountMargins(ctx)
	if err != nil {
		return "", err
	}
	if margins.HighDiscount == 0 || margins.FullPrice == 0 {
		return "", nil
	}
	diff := math.Round((margins.FullPrice-margins.HighDiscount)*10) / 10
	return p.Sprintf("🔍 Orders with >15%% discount average **%.1f%%** margin vs **%.1f%%** for full-price orders — a **%.1fpp** margin compression.",
		margins.HighDiscount, margins.FullPrice, diff), nil
}

// ruleMonthlyGrowth emits when at least two distinct months are present. The
// directional indicator matches the sign of the change.
func ruleMonthlyGrowth(ctx context.Context, src service.AggregateSource, p *message.Printer, _ *model.Order) (string, error) {
	months, err := src.MonthlyRevenue(ctx, 2)
	if err != nil {
		return "", err
	}
	if len(months) < 2 {
		return "", nil
	}

	curr, prev := months[0].Revenue, months[1].Revenue
	pct := 0.0
	if prev != 0 {
		pct = math.Round((curr-prev)/prev*1000) / 10
	}
	arrow, direction := "📈", "up"
	if pct < 0 {
		arrow, direction = "📉", "down"
	}
	return p.Sprintf("%s Most recent month (**%s**) revenue is **$%.0f** — %s **%.1f%%** vs prior month.",
		arrow, months[0].Month, curr, direction, math.Abs(pct)), nil
}

func rulePaymentMethod(ctx context.Context, src service.AggregateSource, p *message.Printer, _ *model.Order) (string, error) {
	method, err := src.TopPaymentMethodByAvgOrder(ctx)
	if err != nil || method == nil {
		return "", err
	}
	return p.Sprintf("💳 High-value choice: Customers paying with **%s** have the highest Average Order Value (**$%.2f**).",
		method.Name, method.Value), nil
}

func ruleAgeBucket(ctx context.Context, src service.AggregateSource, p *message.Printer, _ *model.Order) (string, error) {
	bucket, err := src.TopAgeBucketByRevenue(ctx)
	if err != nil || bucket == nil {
		return "", err
	}
	return p.Sprintf("👥 The **%s** demographic is your primary revenue driver.", bucket.Name), nil
}

// ruleGender emits only when a known gender leads by revenue.
func ruleGender(ctx context.Context, src service.AggregateSource, p *message.Printer, _ *model.Order) (string, error) {
	gender, err := src.TopGenderByRevenue(ctx)
	if err != nil || gender == nil || gender.Name == "Unknown" {
		return "", err
	}
	return p.Sprintf("🚻 **%s** buyers represent your largest segment by revenue.", gender.Name), nil
}

func ruleHighIncome(ctx context.Context, src service.AggregateSource, p *message.Printer, _ *model.Order) (string, error) {
	avg, err := src.HighIncomeAvgOrder(ctx, highIncomeThreshold)
	if err != nil || avg == nil {
		return "", err
	}
	return p.Sprintf("💎 High-income bracket (>$1M) average purchase: **$%.0f**.", *avg), nil
}

// ruleNewOrder acknowledges a freshly cleaned record when one was supplied.
func ruleNewOrder(_ context.Context, _ service.AggregateSource, p *message.Printer, newOrder *model.Order) (string, error) {
	if newOrder == nil {
		return "", nil
	}
	margin := math.Round(newOrder.Margin()*10) / 10
	return p.Sprintf("✅ New order **%s** added — **$%.2f** revenue at a **%.1f%%** margin.",
		newOrder.OrderID, newOrder.SalesAmount, margin), nil
}
