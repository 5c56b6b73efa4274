package scoring

var defaultCatalog = MustCatalog(defaultQuestions())

// DefaultCatalog 参考题库，进程内只构建一次
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

func defaultQuestions() []Question {
	return []Question{
		{
			ID: "demand_lead_sources", Pillar: PillarDemand, Order: 1, Type: SingleChoice, Weight: 1.5,
			Text: "Where do most of your new leads come from today?",
			Options: []Option{
				{Value: "referrals_only", Label: "Word of mouth / referrals only", Score: 2},
				{Value: "one_channel", Label: "One paid or organic channel", Score: 5},
				{Value: "multi_channel", Label: "Several channels, tracked loosely", Score: 7},
				{Value: "attributed", Label: "Several channels with clear attribution", Score: 10},
			},
		},
		{
			ID: "revenue_pricing_model", Pillar: PillarRevenue, Order: 2, Type: SingleChoice, Weight: 1.5,
			Text: "How is your pricing structured?",
			Options: []Option{
				{Value: "hourly", Label: "Hourly / time-for-money", Score: 2},
				{Value: "project", Label: "Per project", Score: 5},
				{Value: "packages", Label: "Productized packages", Score: 8},
				{Value: "recurring", Label: "Recurring retainers or subscriptions", Score: 10},
			},
		},
		{
			ID: "engine_delivery_consistency", Pillar: PillarEngine, Order: 3, Type: Scale, Weight: 1.0,
			Text:     "How consistent is your service delivery from one client to the next?",
			Help:     "1 = every client is a custom adventure, 10 = fully documented playbook",
			ScaleMin: 1, ScaleMax: 10,
		},
		{
			ID: "admin_tooling", Pillar: PillarAdmin, Order: 4, Type: SingleChoice, Weight: 1.0,
			Text: "How do you manage invoicing, scheduling and client records?",
			Options: []Option{
				{Value: "paper", Label: "Paper, email and memory", Score: 1},
				{Value: "spreadsheets", Label: "Spreadsheets", Score: 4},
				{Value: "separate_apps", Label: "Separate apps that don't talk to each other", Score: 6},
				{Value: "integrated", Label: "An integrated, automated stack", Score: 10},
			},
		},
		{
			ID: "marketing_channels", Pillar: PillarMarketing, Order: 5, Type: MultiChoice, Weight: 1.0,
			Text: "Which marketing activities do you run every month?",
			Options: []Option{
				{Value: "social", Label: "Social media posting", Score: 3},
				{Value: "email", Label: "Email newsletter", Score: 3},
				{Value: "content", Label: "Blog / SEO content", Score: 3},
				{Value: "ads", Label: "Paid ads", Score: 3},
				{Value: "none", Label: "None of these", Score: 0},
			},
		},
		{
			ID: "demand_pipeline_visibility", Pillar: PillarDemand, Order: 6, Type: Scale, Weight: 1.0,
			Text:     "How clearly can you see next month's pipeline today?",
			ScaleMin: 1, ScaleMax: 10,
		},
		{
			ID: "revenue_streams", Pillar: PillarRevenue, Order: 7, Type: MultiChoice, Weight: 1.0,
			Text: "Which revenue streams does the business have?",
			Options: []Option{
				{Value: "core_service", Label: "Core service", Score: 4},
				{Value: "upsells", Label: "Upsells / add-ons", Score: 3},
				{Value: "recurring", Label: "Recurring revenue", Score: 4},
				{Value: "digital_products", Label: "Digital products or courses", Score: 3},
				{Value: "partnerships", Label: "Affiliate or partner income", Score: 2},
			},
		},
		{
			ID: "engine_owner_dependency", Pillar: PillarEngine, Order: 8, Type: SingleChoice, Weight: 2.0,
			Text: "If you stepped away for two weeks, what would happen?",
			Options: []Option{
				{Value: "stops", Label: "The business stops", Score: 1},
				{Value: "slows", Label: "Things slow down a lot", Score: 4},
				{Value: "mostly_runs", Label: "It mostly runs with some fires", Score: 7},
				{Value: "runs", Label: "It runs without me", Score: 10},
			},
		},
		{
			ID: "admin_hours", Pillar: PillarAdmin, Order: 9, Type: Scale, Weight: 1.0,
			Text:     "How well-contained is your weekly admin time?",
			Help:     "1 = admin eats most of my week, 10 = admin is a non-issue",
			ScaleMin: 1, ScaleMax: 10,
		},
		{
			ID: "marketing_strategy", Pillar: PillarMarketing, Order: 10, Type: SingleChoice, Weight: 1.5,
			Text: "Do you have a documented marketing plan?",
			Options: []Option{
				{Value: "none", Label: "No plan", Score: 0},
				{Value: "in_head", Label: "It's in my head", Score: 3},
				{Value: "loose", Label: "A loose written plan", Score: 6},
				{Value: "calendar", Label: "A plan with calendar and KPIs", Score: 10},
			},
		},
		{
			ID: "demand_followup", Pillar: PillarDemand, Order: 11, Type: MultiChoice, Weight: 1.0,
			Text: "What happens after a new enquiry arrives?",
			Options: []Option{
				{Value: "auto_reply", Label: "Automatic acknowledgement", Score: 3},
				{Value: "crm_entry", Label: "Logged in a CRM", Score: 3},
				{Value: "booking_link", Label: "Self-serve booking link", Score: 3},
				{Value: "nurture", Label: "Nurture sequence", Score: 3},
			},
		},
		{
			ID: "revenue_forecast_confidence", Pillar: PillarRevenue, Order: 12, Type: Scale, Weight: 1.0,
			Text:     "How confident are you in your revenue forecast for the next quarter?",
			ScaleMin: 1, ScaleMax: 10,
		},
		{
			ID: "engine_automation", Pillar: PillarEngine, Order: 13, Type: MultiChoice, Weight: 1.0,
			Text: "Which parts of delivery are automated?",
			Options: []Option{
				{Value: "onboarding", Label: "Client onboarding", Score: 3},
				{Value: "reporting", Label: "Reporting", Score: 3},
				{Value: "handoffs", Label: "Team hand-offs", Score: 2},
				{Value: "qa", Label: "Quality checks", Score: 2},
				{Value: "ai_assist", Label: "AI-assisted production", Score: 3},
			},
		},
		{
			ID: "admin_finance_visibility", Pillar: PillarAdmin, Order: 14, Type: SingleChoice, Weight: 1.5,
			Text: "How often do you review profit and cash flow?",
			Options: []Option{
				{Value: "never", Label: "Only at tax time", Score: 1},
				{Value: "quarterly", Label: "Quarterly", Score: 4},
				{Value: "monthly", Label: "Monthly", Score: 7},
				{Value: "weekly_dashboard", Label: "Weekly, from a live dashboard", Score: 10},
			},
		},
		{
			ID: "marketing_content_confidence", Pillar: PillarMarketing, Order: 15, Type: Scale, Weight: 1.0,
			Text:     "How confident are you producing marketing content consistently?",
			ScaleMin: 1, ScaleMax: 10,
		},
		{
			ID: "demand_conversion_rate", Pillar: PillarDemand, Order: 16, Type: SingleChoice, Weight: 1.0,
			Text: "Roughly what share of qualified enquiries become clients?",
			Options: []Option{
				{Value: "unknown", Label: "I don't know", Score: 0},
				{Value: "under_20", Label: "Under 20%", Score: 3},
				{Value: "20_40", Label: "20–40%", Score: 6},
				{Value: "over_40", Label: "Over 40%", Score: 10},
			},
		},
		{
			ID: "revenue_client_concentration", Pillar: PillarRevenue, Order: 17, Type: SingleChoice, Weight: 1.0,
			Text: "How much of revenue comes from your largest client?",
			Options: []Option{
				{Value: "over_50", Label: "More than half", Score: 1},
				{Value: "25_50", Label: "25–50%", Score: 4},
				{Value: "10_25", Label: "10–25%", Score: 7},
				{Value: "under_10", Label: "Under 10%", Score: 10},
			},
		},
		{
			ID: "engine_team_capacity", Pillar: PillarEngine, Order: 18, Type: Scale, Weight: 1.0,
			Text:     "How much spare delivery capacity does the team have?",
			ScaleMin: 1, ScaleMax: 10,
		},
		{
			ID: "admin_automations", Pillar: PillarAdmin, Order: 19, Type: MultiChoice, Weight: 1.0,
			Text: "Which admin tasks already run on autopilot?",
			Options: []Option{
				{Value: "invoicing", Label: "Invoicing and reminders", Score: 3},
				{Value: "scheduling", Label: "Scheduling", Score: 3},
				{Value: "contracts", Label: "Contracts and e-signatures", Score: 2},
				{Value: "bookkeeping", Label: "Bookkeeping sync", Score: 3},
			},
		},
		{
			ID: "marketing_measurement", Pillar: PillarMarketing, Order: 20, Type: SingleChoice, Weight: 1.0,
			Text: "How do you measure marketing results?",
			Options: []Option{
				{Value: "dont", Label: "We don't", Score: 0},
				{Value: "gut_feel", Label: "Gut feel", Score: 2},
				{Value: "platform_stats", Label: "Platform stats (likes, opens)", Score: 5},
				{Value: "revenue_attribution", Label: "Leads and revenue per channel", Score: 10},
			},
		},
	}
}
