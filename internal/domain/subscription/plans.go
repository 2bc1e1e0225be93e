package subscription

import (
	"sort"

	"laborhub/internal/domain"
)

// Plan is one row of the fee and quota table.
type Plan struct {
	Type         domain.PlanType `json:"plan_type"`
	Name         string          `json:"name"`
	BookingLimit int             `json:"booking_limit"` // -1 = unlimited
	CompanyFee   float64         `json:"company_fee"`
	rank         int
}

// PlanTable is immutable once built. Lookups return copies.
type PlanTable struct {
	plans map[domain.PlanType]Plan
}

// DefaultPlans is the table used in production.
func DefaultPlans() PlanTable {
	return NewPlanTable(
		Plan{Type: domain.PlanFree, Name: "Free", BookingLimit: 10, CompanyFee: 1000},
		Plan{Type: domain.PlanBasic, Name: "Basic", BookingLimit: 30, CompanyFee: 500},
		Plan{Type: domain.PlanPremium, Name: "Premium", BookingLimit: domain.UnlimitedBookings, CompanyFee: 0},
	)
}

// NewPlanTable ranks plans in the order given, cheapest tier first.
func NewPlanTable(plans ...Plan) PlanTable {
	m := make(map[domain.PlanType]Plan, len(plans))
	for i, p := range plans {
		p.rank = i
		m[p.Type] = p
	}
	return PlanTable{plans: m}
}

func (t PlanTable) Lookup(pt domain.PlanType) (Plan, bool) {
	p, ok := t.plans[pt]
	return p, ok
}

func (t PlanTable) All() []Plan {
	out := make([]Plan, 0, len(t.plans))
	for _, p := range t.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].rank < out[j].rank })
	return out
}

// UpgradeTo names the next tier, or "" for the top one.
func (t PlanTable) UpgradeTo(pt domain.PlanType) string {
	cur, ok := t.plans[pt]
	if !ok {
		return ""
	}
	for _, p := range t.All() {
		if p.rank == cur.rank+1 {
			return string(p.Type)
		}
	}
	return ""
}
