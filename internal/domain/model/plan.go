package model

import "github.com/manojneupaneweb/GoGain-sub000/internal/domain"

// PlanItem describes the membership plan a user is purchasing. The plan
// catalogue itself is owned by the commerce backend; the pipeline only
// carries enough to settle the purchase.
type PlanItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	Price        int64  `json:"price"` // whole rupees
}

func (p *PlanItem) Validate() error {
	if p == nil || p.ID == "" || p.Price <= 0 {
		return domain.ErrInvalidArgument
	}
	return nil
}
