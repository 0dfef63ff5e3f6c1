package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmoonthego/cmo-engine/pkg/models"
)

// OutputSchemaKeys are the top-level keys of the CMO report, in the order the
// generator is told to emit them.
var OutputSchemaKeys = []string{
	"brand",
	"executive_summary",
	"brand_health_overview",
	"swot_analysis",
	"growth_quadrant_vs_competitors",
	"priority_fixes_bottom_funnel",
	"brand_positioning_messaging_review",
	"channel_budget_suggestions",
	"campaign_planning_ideas",
}

// BrandContext is the brand profile shown to the generator. Blank fields render as N/A.
type BrandContext struct {
	Website           string
	Industry          string
	RegionOfOperation string
	TargetLocation    string
	TargetAudience    string
	PrimaryOffering   string
	USP               string
}

// RevenueLossDefinition explains the revenue loss metric carried in the analytics section.
const RevenueLossDefinition = `Formula:

Average Revenue Conversion Loss (Percentage):
    RevenueLoss% = ((LCP - 2.5) x 7) + (((TBT - 200) / 100) x 3) + (CLS x 10)

Assumptions and metric impacts:
- LCP (Largest Contentful Paint): threshold 2.5 seconds. Every second above 2.5s is an estimated 7% drop in conversions.
- TBT (Total Blocking Time): threshold 200 milliseconds. Every 100ms above 200ms is an estimated 3% drop in conversions.
- CLS (Cumulative Layout Shift): threshold 0.1 units. Every 1.0 unit increase is an estimated 10% drop in conversions.

Interpretation:
- A positive RevenueLoss% is a projected revenue loss: the metrics exceed their thresholds, and a larger value means a larger expected hit to conversion rate and revenue.
- A negative RevenueLoss% means the metrics are better than their thresholds: these factors are not contributing to conversion loss and indicate an optimal performance state.`

// outputSchema is the JSON shape the generator must return. Key order matches OutputSchemaKeys.
const outputSchema = `{
  "brand": {
    "name": "Example Brand",
    "website": "https://example.com"
  },
  "executive_summary": "3-4 sentence strategic summary of brand health, digital position, and key recommendations.",
  "brand_health_overview": "Insightful paragraph(s) covering awareness, perception, loyalty, and brand sentiment trends.",
  "swot_analysis": {
    "strengths": ["..."],
    "weaknesses": ["..."],
    "opportunities": ["..."],
    "threats": ["..."]
  },
  "growth_quadrant_vs_competitors": {
    "quadrant_type": "High Awareness / Low Conversion",
    "competitor_positions": [
      {
        "name": "Competitor A",
        "position": "High Awareness / High Conversion",
        "reasoning": "Brief explanation for placement."
      },
      {
        "name": "Competitor B",
        "position": "Low Awareness / High Conversion",
        "reasoning": "Brief explanation for placement."
      }
    ]
  },
  "priority_fixes_bottom_funnel": [
    {
      "issue": "Clearly describe the issue causing SEO or website-driven revenue loss",
      "source": "seo" | "website" | "both",
      "impact": "Quantify or qualify revenue loss, drop-off, or conversion friction if possible",
      "recommended_fix": "Actionable solution (technical, UX, or content-based) to restore or grow revenue at BoFu"
    }
  ],
  "brand_positioning_messaging_review": "Assessment of current positioning, clarity of messaging, meta/H1/value prop alignment.",
  "channel_budget_suggestions": [
    {
      "channel": "Paid Search",
      "suggestion": "Reduce spend by 15% due to saturated CPCs and low ROAS"
    },
    {
      "channel": "SEO",
      "suggestion": "Increase investment in blog clusters targeting bottom-of-funnel keywords"
    }
  ],
  "campaign_planning_ideas": [
    {
      "campaign_name": "Back-to-School Performance Launch",
      "goal": "Drive mid-funnel engagement with Gen Z students",
      "messaging_theme": "Speed, personal growth, student ambition",
      "channels": ["Instagram", "YouTube", "Email"]
    },
    {
      "campaign_name": "Trust & Testimonials Retargeting",
      "goal": "Boost conversion rate with social proof",
      "messaging_theme": "Real stories, verified ratings, peer success",
      "channels": ["Retargeting Ads", "Landing Pages", "TikTok"]
    }
  ]
}`

// BuildCMOReportSystemPrompt creates the system message for CMO report generation.
// The output schema section is identical for every brand; only the profile block
// and the report date vary.
func BuildCMOReportSystemPrompt(brand BrandContext, reportDate time.Time) string {
	var prompt strings.Builder

	prompt.WriteString("Act as the Chief Marketing Officer for the following brand, and generate a full strategic brand report intended for executive leadership and board members.\n\n")

	prompt.WriteString("### Brand Profile\n")
	prompt.WriteString(fmt.Sprintf("- Website: %s\n", orNotAvailable(brand.Website)))
	prompt.WriteString(fmt.Sprintf("- Industry: %s\n", orNotAvailable(brand.Industry)))
	prompt.WriteString(fmt.Sprintf("- Region of Operation: %s\n", orNotAvailable(brand.RegionOfOperation)))
	prompt.WriteString(fmt.Sprintf("- Target Location: %s\n", orNotAvailable(brand.TargetLocation)))
	prompt.WriteString(fmt.Sprintf("- Target Audience: %s\n", orNotAvailable(brand.TargetAudience)))
	prompt.WriteString(fmt.Sprintf("- Primary Offering: %s\n", orNotAvailable(brand.PrimaryOffering)))
	prompt.WriteString(fmt.Sprintf("- Unique Selling Proposition (USP): %s\n\n", orNotAvailable(brand.USP)))

	prompt.WriteString("### Data Inputs\n")
	prompt.WriteString("The user message contains the brand's analysis data as a JSON object. ")
	prompt.WriteString(fmt.Sprintf("Values marked %q were not available; infer from context instead of reporting them as missing.\n\n", models.NotAvailable))

	prompt.WriteString("Your task is to generate a **structured JSON report** based on the given input data. ")
	prompt.WriteString("The output must help executive stakeholders understand the brand's position, performance risks, and growth levers.\n\n")
	prompt.WriteString("---\n\n")

	prompt.WriteString("**Output Format**\n\n")
	prompt.WriteString("Return a **valid JSON object** with the following top-level keys in this exact order:\n\n")
	prompt.WriteString(outputSchema)
	prompt.WriteString("\n\n---\n\n")

	prompt.WriteString("**Special Instructions for Bottom-of-Funnel Fixes**\n")
	prompt.WriteString("- The 'priority_fixes_bottom_funnel' section must only focus on issues that **directly cause revenue loss or leakage**\n")
	prompt.WriteString("- These must come from either:\n")
	prompt.WriteString("  - **SEO drop-offs** (e.g., keyword cannibalization, poor SERP CTR, missing schema)\n")
	prompt.WriteString("  - **Website performance issues** (e.g., broken forms, slow mobile load, friction in lead gen UX)\n")
	prompt.WriteString("- For each issue:\n")
	prompt.WriteString(fmt.Sprintf("  - Use the 'source' field to flag whether the issue is %q, %q, or %q\n",
		models.FixSourceSEO, models.FixSourceWebsite, models.FixSourceBoth))
	prompt.WriteString("  - Make sure the fix is specific and implementable (no vague suggestions)\n\n")
	prompt.WriteString("---\n\n")

	prompt.WriteString("**General Formatting & Style**\n")
	prompt.WriteString("- Use **markdown-style bold headings** only inside the JSON values where helpful\n")
	prompt.WriteString("- Start with **brand name and website URL** in the 'brand' object\n")
	prompt.WriteString("- Use bullet lists or arrays where specified\n")
	prompt.WriteString("- Write in a **concise, executive tone** for brand leadership and growth teams\n")
	prompt.WriteString("- If data is unavailable, use inferred logic. **Never skip a section or say \"no data\"**\n")
	prompt.WriteString("- Do not mention or rely on external tools, platforms, or vendors\n\n")
	prompt.WriteString("---\n")
	prompt.WriteString("Your output is a strategic intelligence memo. Structure it strictly as valid JSON. ")
	prompt.WriteString("Prioritize clarity, business impact, and next-step relevance.\n\n")

	prompt.WriteString(fmt.Sprintf("Report date: %s\n", reportDate.UTC().Format("2006-01-02")))

	return prompt.String()
}

func orNotAvailable(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NotAvailable
	}
	return s
}
