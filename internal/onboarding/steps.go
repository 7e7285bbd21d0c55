package onboarding

import "resume-builder/internal/blobs"

// Step is one onboarding category page.
type Step struct {
	Key         string         `json:"key"`
	Category    blobs.Category `json:"category"`
	Title       string         `json:"title"`
	Helper      string         `json:"helper"`
	Placeholder string         `json:"placeholder"`
	// Tags marks steps whose description is a comma or line separated list.
	Tags bool `json:"tags"`
}

// Steps are shown in this order.
var Steps = []Step{
	{
		Key:         "work",
		Category:    blobs.CategoryWorkExperience,
		Title:       "Work experience",
		Helper:      "Roles, internships, and contract gigs.",
		Placeholder: "Role, company, timeframe, stack, scope of impact, metrics. Aim for 3-5 sentences.",
	},
	{
		Key:         "volunteering",
		Category:    blobs.CategoryVolunteering,
		Title:       "Volunteering",
		Helper:      "Community, pro-bono, leadership roles.",
		Placeholder: "What you built/delivered, who benefited, frequency, and measurable outcomes.",
	},
	{
		Key:         "projects",
		Category:    blobs.CategoryProject,
		Title:       "Projects",
		Helper:      "Solo or team projects that show initiative.",
		Placeholder: "Problem, solution, tech choices, challenges, metrics or user impact.",
	},
	{
		Key:         "school",
		Category:    blobs.CategorySchool,
		Title:       "School involvement",
		Helper:      "Clubs, research, TA roles, competitions.",
		Placeholder: "Responsibilities, achievements, tools used, and any leadership/mentorship.",
	},
	{
		Key:         "awards",
		Category:    blobs.CategoryAward,
		Title:       "Awards & achievements",
		Helper:      "Scholarships, hackathon wins, publications.",
		Placeholder: "What the award recognizes, selection criteria, scale (regional/national), year.",
	},
	{
		Key:         "skills",
		Category:    blobs.CategorySkill,
		Title:       "Technical skills",
		Helper:      "Tech stack as comma or line separated tags.",
		Placeholder: "e.g., TypeScript, React, Next.js, PostgreSQL, AWS",
		Tags:        true,
	},
}

func stepByKey(key string) (Step, bool) {
	for _, s := range Steps {
		if s.Key == key {
			return s, true
		}
	}
	return Step{}, false
}
