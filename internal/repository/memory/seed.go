package memory

import "ragguard/internal/domain/models"

// SeedDocuments returns the demo corpus: three public documents anyone may
// read and three restricted documents gated to the managers group by the
// seeded policy tuples.
func SeedDocuments() []*models.Document {
	return []*models.Document{
		{
			ID:          "holiday_schedule",
			Title:       "Company Holiday Schedule",
			Content:     "The company will be closed on December 25th and January 1st. All employees get 10 vacation days per year.",
			Sensitivity: models.SensitivityPublic,
		},
		{
			ID:          "office_policies",
			Title:       "Office Policies",
			Content:     "The office hours are 9 AM to 5 PM. Remote work is allowed on Fridays. Dress code is business casual.",
			Sensitivity: models.SensitivityPublic,
		},
		{
			ID:          "health_benefits",
			Title:       "Health Benefits",
			Content:     "All employees are eligible for health insurance. The company covers 80% of premiums. Dental and vision are included.",
			Sensitivity: models.SensitivityPublic,
		},
		{
			ID:          "q4_budget",
			Title:       "Q4 Budget Report",
			Content:     "The Q4 budget allocation is $500,000. Marketing gets $150k, Engineering gets $200k, Sales gets $100k, and Operations gets $50k.",
			Sensitivity: models.SensitivityRestricted,
		},
		{
			ID:          "salary_bands",
			Title:       "Salary Information",
			Content:     "Manager salaries range from $120k to $180k. Senior engineers earn $100k-$140k. Junior employees start at $60k.",
			Sensitivity: models.SensitivityRestricted,
		},
		{
			ID:          "executive_strategy",
			Title:       "Executive Strategy",
			Content:     "The company plans to expand to 3 new markets next year and is considering an IPO the year after. Confidential discussions with investors are ongoing.",
			Sensitivity: models.SensitivityRestricted,
		},
	}
}
