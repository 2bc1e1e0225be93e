package subscription

import "laborhub/internal/domain"

// UpgradeRequest is sent by a customer to change plan
type UpgradeRequest struct {
	PlanType string `json:"planType" binding:"required"`
}

// SubscriptionResponse is the public representation of a subscription
type SubscriptionResponse struct {
	ID           int64           `json:"id"`
	CustomerID   int64           `json:"customer_id"`
	PlanType     domain.PlanType `json:"plan_type"`
	PlanName     string          `json:"plan_name"`
	BookingLimit int             `json:"booking_limit"`
	Unlimited    bool            `json:"unlimited"`
	CompanyFee   float64         `json:"company_fee"`
	FeeOverride  bool            `json:"fee_override"`
	IsActive     bool            `json:"is_active"`
}

func (s *Service) toResponse(sub *domain.Subscription) SubscriptionResponse {
	name := string(sub.PlanType)
	if plan, ok := s.plans.Lookup(sub.PlanType); ok {
		name = plan.Name
	}
	return SubscriptionResponse{
		ID:           sub.ID,
		CustomerID:   sub.CustomerID,
		PlanType:     sub.PlanType,
		PlanName:     name,
		BookingLimit: sub.BookingLimit,
		Unlimited:    sub.Unlimited(),
		CompanyFee:   s.feeFor(sub),
		FeeOverride:  sub.CompanyFee != nil,
		IsActive:     sub.IsActive,
	}
}
