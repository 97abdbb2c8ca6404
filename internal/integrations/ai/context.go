package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/zaqqye/portfolio_backend/internal/models"
)

// portfolioContext summarizes profile, skills and projects into the system
// prompt for the chat assistant.
func (s *Service) portfolioContext(ctx context.Context) (string, error) {
	db := s.DB.WithContext(ctx)

	var profile models.Profile
	if err := db.Limit(1).Find(&profile, models.SingletonID).Error; err != nil {
		return "", err
	}
	var skills []models.Skill
	if err := db.Order("category, name").Find(&skills).Error; err != nil {
		return "", err
	}
	var projects []models.Project
	if err := db.Order("sort_order ASC, id ASC").Limit(20).Find(&projects).Error; err != nil {
		return "", err
	}

	var b strings.Builder
	name := profile.Name
	if name == "" {
		name = "the site owner"
	}
	fmt.Fprintf(&b, "You are the assistant on the portfolio website of %s. ", name)
	b.WriteString("Answer questions about their work using only the facts below. If the answer is not in the facts, say so and suggest the contact form.\n\n")
	if profile.Headline != "" {
		fmt.Fprintf(&b, "Headline: %s\n", profile.Headline)
	}
	if profile.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n", profile.Bio)
	}
	if len(skills) > 0 {
		names := make([]string, 0, len(skills))
		for _, sk := range skills {
			names = append(names, sk.Name)
		}
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(names, ", "))
	}
	for _, p := range projects {
		fmt.Fprintf(&b, "Project %q: %s", p.Title, p.Summary)
		if len(p.TechStack) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(p.TechStack, ", "))
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}
