package domain

// Option is a selectable catalog entry.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// CompanyTypes lists the supported company types.
var CompanyTypes = []Option{
	{ID: "video_production", Label: "Video Production"},
	{ID: "event_production", Label: "Event Production"},
	{ID: "photography", Label: "Photography"},
	{ID: "live_streaming", Label: "Live Streaming / Broadcast"},
	{ID: "post_production", Label: "Post-Production"},
	{ID: "corporate", Label: "Corporate / In-house Team"},
	{ID: "other", Label: "Other"},
}

// PrimaryFocusOptions lists the kinds of work a company focuses on.
var PrimaryFocusOptions = []Option{
	{ID: "commercial", Label: "Commercial / Advertising"},
	{ID: "corporate", Label: "Corporate / Internal Comms"},
	{ID: "documentary", Label: "Documentary"},
	{ID: "branded_content", Label: "Branded Content"},
	{ID: "events_live", Label: "Events / Live"},
	{ID: "music_videos", Label: "Music Videos"},
	{ID: "social_content", Label: "Social Content"},
	{ID: "weddings", Label: "Weddings"},
	{ID: "other", Label: "Other"},
}

// TeamSizeJustMe marks a solo account.
const TeamSizeJustMe = "just_me"

// TeamSize is a team size bucket with its upper bound.
type TeamSize struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value int    `json:"value"`
}

// TeamSizes lists the team size buckets.
var TeamSizes = []TeamSize{
	{ID: TeamSizeJustMe, Label: "Just me", Value: 1},
	{ID: "2-5", Label: "2-5 people", Value: 5},
	{ID: "6-15", Label: "6-15 people", Value: 15},
	{ID: "16+", Label: "16+ people", Value: 100},
}

// PainPoint maps a stated problem to the feature that addresses it.
type PainPoint struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Feature string `json:"feature"`
}

// PainPoints lists the pain points offered during onboarding.
var PainPoints = []PainPoint{
	{ID: "quoting_slow", Label: "Quoting takes too long", Feature: "quotes"},
	{ID: "margins_unknown", Label: "Don't know my margins", Feature: "dashboard"},
	{ID: "crew_scattered", Label: "Crew contacts are scattered", Feature: "crew"},
	{ID: "equipment_chaos", Label: "Equipment tracking is chaos", Feature: "equipment"},
	{ID: "chasing_payments", Label: "Chasing invoices and payments", Feature: "invoices"},
	{ID: "no_visibility", Label: "No visibility on project status", Feature: "projects"},
	{ID: "client_comms", Label: "Managing client communications", Feature: "crm"},
	{ID: "deliverables", Label: "Tracking deliverables and revisions", Feature: "projects"},
}

// DefaultPaymentTerms applies when the profile step leaves terms empty.
const DefaultPaymentTerms = "net_30"

// PaymentTerms lists the invoice payment terms.
var PaymentTerms = []Option{
	{ID: "due_on_receipt", Label: "Due on Receipt"},
	{ID: "net_7", Label: "Net 7"},
	{ID: "net_14", Label: "Net 14"},
	{ID: "net_30", Label: "Net 30"},
	{ID: "net_45", Label: "Net 45"},
	{ID: "net_60", Label: "Net 60"},
}

var defaultCrewRoles = map[string][]string{
	"video_production": {"Director", "Producer", "DP / Camera Operator", "Sound Recordist", "Editor", "Gaffer"},
	"event_production": {"Production Manager", "Technical Director", "AV Technician", "Stage Manager", "Lighting Tech"},
	"photography":      {"Photographer", "Photo Assistant", "Retoucher", "Studio Manager"},
	"live_streaming":   {"Stream Producer", "Technical Director", "Camera Operator", "Audio Engineer", "Graphics Operator"},
	"post_production":  {"Editor", "Colorist", "Sound Designer", "VFX Artist", "Motion Graphics"},
	"corporate":        {"Producer", "Videographer", "Editor", "Project Manager"},
	"other":            {"Director", "Producer", "Camera Operator", "Editor"},
}

// DefaultCrewRoles returns the starter crew roles for a company type.
func DefaultCrewRoles(companyType string) []string {
	roles, ok := defaultCrewRoles[companyType]
	if !ok {
		roles = defaultCrewRoles["other"]
	}
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}

// EquipmentCategories lists the starter equipment packages.
var EquipmentCategories = []Option{
	{ID: "camera", Label: "Camera Package"},
	{ID: "lighting", Label: "Lighting Package"},
	{ID: "audio", Label: "Audio Package"},
	{ID: "grip", Label: "Grip Package"},
	{ID: "other", Label: "Other"},
}

// DayRates are suggested crew day rates in USD.
type DayRates struct {
	Junior int `json:"junior"`
	Mid    int `json:"mid"`
	Senior int `json:"senior"`
}

var suggestedRates = map[string]DayRates{
	"US": {Junior: 350, Mid: 550, Senior: 850},
	"GB": {Junior: 300, Mid: 500, Senior: 750},
	"DE": {Junior: 300, Mid: 500, Senior: 700},
	"SG": {Junior: 250, Mid: 400, Senior: 600},
	"MY": {Junior: 100, Mid: 200, Senior: 350},
	"AU": {Junior: 400, Mid: 600, Senior: 900},
}

var defaultRates = DayRates{Junior: 250, Mid: 400, Senior: 600}

// SuggestedRates returns the day rates for a country, or the default.
func SuggestedRates(country string) DayRates {
	if r, ok := suggestedRates[country]; ok {
		return r
	}
	return defaultRates
}

// First actions offered at the end of onboarding.
const (
	FirstActionCreateQuote      = "create_quote"
	FirstActionAddProject       = "add_project"
	FirstActionExploreDashboard = "explore_dashboard"
)

// FirstActions lists the first action choices.
var FirstActions = []Option{
	{ID: FirstActionCreateQuote, Label: "Create a quote"},
	{ID: FirstActionAddProject, Label: "Add a project"},
	{ID: FirstActionExploreDashboard, Label: "Explore the dashboard"},
}

// Plans offered on the billing step.
var Plans = []Option{
	{ID: "starter", Label: "Starter"},
	{ID: "professional", Label: "Professional"},
}

// DefaultPlan is preselected on the billing step.
const DefaultPlan = "starter"

func hasOption(options []Option, id string) bool {
	for _, o := range options {
		if o.ID == id {
			return true
		}
	}
	return false
}

func hasTeamSize(id string) bool {
	for _, t := range TeamSizes {
		if t.ID == id {
			return true
		}
	}
	return false
}
