package scoring

// Band 推荐建议的三个分段
type Band string

const (
	BandFoundational Band = "foundational"
	BandIntermediate Band = "intermediate"
	BandAdvanced     Band = "advanced"
)

// 分段阈值：[0,4) foundational, [4,7) intermediate, [7,10] advanced
const (
	IntermediateThreshold = 4.0
	AdvancedThreshold     = 7.0
)

func BandFor(score float64) Band {
	switch {
	case score < IntermediateThreshold:
		return BandFoundational
	case score < AdvancedThreshold:
		return BandIntermediate
	default:
		return BandAdvanced
	}
}

// Recommendations 维度 -> 建议列表
type Recommendations map[Pillar][]string

// RecommendationTable 静态文案表
var RecommendationTable = map[Pillar]map[Band][]string{
	PillarDemand: {
		BandFoundational: {
			"Pick one lead channel and commit to it for 90 days before adding another.",
			"Ask every new client how they found you and log the answer.",
			"Set up an instant auto-reply so no enquiry waits more than a minute.",
		},
		BandIntermediate: {
			"Add UTM tags and a simple CRM so each lead has a known source.",
			"Build a short nurture sequence for enquiries that aren't ready to buy.",
			"Review pipeline weekly and cut channels that don't convert.",
		},
		BandAdvanced: {
			"Use AI lead scoring to prioritise follow-ups by likelihood to close.",
			"Run structured experiments on your best channel to push cost per lead down.",
			"Turn happy clients into a formal referral programme.",
		},
	},
	PillarRevenue: {
		BandFoundational: {
			"Package your most common service into a fixed-price offer.",
			"Raise prices for new clients and track the effect on close rate.",
			"Reduce dependence on your largest client by targeting two similar accounts.",
		},
		BandIntermediate: {
			"Introduce a recurring retainer or maintenance plan.",
			"Add one upsell that naturally follows your core service.",
			"Forecast revenue monthly from signed work plus weighted pipeline.",
		},
		BandAdvanced: {
			"Launch a digital product that sells without your time.",
			"Model pricing tiers against margin, not just competitor rates.",
			"Build partner or affiliate income around tools you already recommend.",
		},
	},
	PillarEngine: {
		BandFoundational: {
			"Write down the steps of your delivery process, even as a rough checklist.",
			"Identify the one task only you can do and start documenting it.",
			"Use templates for proposals, onboarding emails and reports.",
		},
		BandIntermediate: {
			"Automate client onboarding with forms and triggered emails.",
			"Create standard operating procedures for every repeatable deliverable.",
			"Introduce AI assistants for first drafts and research.",
		},
		BandAdvanced: {
			"Connect delivery tools so hand-offs happen without manual steps.",
			"Track delivery metrics and review them with the team each month.",
			"Delegate quality checks with clear acceptance criteria.",
		},
	},
	PillarAdmin: {
		BandFoundational: {
			"Move invoicing to an accounting tool with automatic reminders.",
			"Use an online scheduler instead of back-and-forth emails.",
			"Block a fixed weekly slot for admin instead of doing it ad hoc.",
		},
		BandIntermediate: {
			"Connect your payment, accounting and CRM tools.",
			"Review profit and cash flow every month from one report.",
			"Automate contract sending and e-signatures.",
		},
		BandAdvanced: {
			"Build a live finance dashboard with margin per client.",
			"Hand remaining admin to a VA with documented procedures.",
			"Use AI to categorise expenses and draft routine correspondence.",
		},
	},
	PillarMarketing: {
		BandFoundational: {
			"Choose one platform where your clients spend time and post weekly.",
			"Write a one-page marketing plan with a single monthly goal.",
			"Start collecting email addresses from your website.",
		},
		BandIntermediate: {
			"Build a content calendar and batch-produce a month at a time.",
			"Send a regular newsletter with one clear call to action.",
			"Track leads and revenue per channel, not just likes and opens.",
		},
		BandAdvanced: {
			"Repurpose long-form content into short posts with AI tooling.",
			"Run paid campaigns against proven organic content.",
			"Attribute revenue to campaigns and reinvest in the top performers.",
		},
	},
}

// GenerateRecommendations 按维度得分选取静态建议，无随机性
func GenerateRecommendations(scores DreamScores) Recommendations {
	out := make(Recommendations, len(AllPillars))
	for _, p := range AllPillars {
		src := RecommendationTable[p][BandFor(scores.Pillar(p))]
		recs := make([]string, len(src))
		copy(recs, src)
		out[p] = recs
	}
	return out
}
