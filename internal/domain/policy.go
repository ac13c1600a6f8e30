package domain

import "sort"

// RefundPolicy is one rule of the ordered-by-priority cancellation rule set.
// CategoryID nil means the rule applies to any vehicle category.
type RefundPolicy struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	HoursBeforePickup int32  `json:"hours_before_pickup"`
	CategoryID        *int64 `json:"category_id,omitempty"`
	RefundPercent     int32  `json:"refund_percent"`
	RefundDeposit     bool   `json:"refund_deposit"`
	Priority          int32  `json:"priority"`
	Active            bool   `json:"active"`
}

// SelectRefundPolicy picks the single best-matching active policy for a
// cancellation happening hoursUntilPickup hours before pickup, for a vehicle in
// categoryID. Qualifying policies are ordered by ascending priority, with
// category-scoped rules beating any-category rules at equal priority, then by
// descending hours threshold so the most generous qualifying rule wins.
// Returns nil when nothing matches.
func SelectRefundPolicy(policies []RefundPolicy, hoursUntilPickup float64, categoryID int64) *RefundPolicy {
	var eligible []RefundPolicy
	for _, p := range policies {
		if !p.Active {
			continue
		}
		if float64(p.HoursBeforePickup) > hoursUntilPickup {
			continue
		}
		if p.CategoryID != nil && *p.CategoryID != categoryID {
			continue
		}
		eligible = append(eligible, p)
	}
	if len(eligible) == 0 {
		return nil
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.Priority != b.Priority {
			return a.Priority < b.Priority
		}
		aScoped, bScoped := a.CategoryID != nil, b.CategoryID != nil
		if aScoped != bScoped {
			return aScoped
		}
		return a.HoursBeforePickup > b.HoursBeforePickup
	})
	return &eligible[0]
}
