package domain

import "slices"

// Personalization tailors the first session to the stated pain points.
type Personalization struct {
	DashboardWidgetOrder   []string `json:"dashboard_widget_order"`
	RecommendedFirstAction string   `json:"recommended_first_action"`
	PriorityFeatures       []string `json:"priority_features"`
}

// Personalize derives priority features, the recommended first action and
// the dashboard widget order. Later rules override earlier ones.
func Personalize(painPoints []string) Personalization {
	p := Personalization{
		DashboardWidgetOrder:   []string{"quotes", "revenue", "projects", "clients"},
		RecommendedFirstAction: FirstActionCreateQuote,
		PriorityFeatures:       []string{},
	}
	if len(painPoints) == 0 {
		return p
	}

	for _, id := range painPoints {
		for _, pp := range PainPoints {
			if pp.ID == id && !slices.Contains(p.PriorityFeatures, pp.Feature) {
				p.PriorityFeatures = append(p.PriorityFeatures, pp.Feature)
			}
		}
	}

	switch {
	case slices.Contains(painPoints, "quoting_slow"):
		p.RecommendedFirstAction = FirstActionCreateQuote
	case slices.Contains(painPoints, "no_visibility"):
		p.RecommendedFirstAction = FirstActionAddProject
	}

	if slices.Contains(painPoints, "margins_unknown") {
		p.DashboardWidgetOrder = []string{"revenue", "margins", "quotes", "projects"}
	}
	if slices.Contains(painPoints, "chasing_payments") {
		p.DashboardWidgetOrder = []string{"invoices", "revenue", "quotes", "projects"}
	}
	return p
}
