package ui

import (
	"github.com/gin-gonic/gin"

	"resume-builder/internal/blobs"
	"resume-builder/internal/onboarding"
	"resume-builder/internal/shared/server/respond"
)

type categoryView struct {
	Value blobs.Category `json:"value"`
	Label string         `json:"label"`
}

// Config is everything a client needs to render labels, wizard steps and controls.
type Config struct {
	Categories      []categoryView    `json:"categories"`
	OnboardingSteps []onboarding.Step `json:"onboardingSteps"`
	Variants        []Style           `json:"variants"`
}

// BuildConfig assembles the config from the canonical definitions.
func BuildConfig() Config {
	cats := make([]categoryView, 0, len(blobs.Categories))
	for _, c := range blobs.Categories {
		cats = append(cats, categoryView{Value: c, Label: c.Label()})
	}
	styles := make([]Style, 0, len(Variants))
	for _, v := range Variants {
		styles = append(styles, v.Style())
	}
	return Config{Categories: cats, OnboardingSteps: onboarding.Steps, Variants: styles}
}

func RegisterRoutes(rg *gin.RouterGroup) {
	cfg := BuildConfig()
	rg.GET("/ui/config", func(c *gin.Context) {
		c.Header("Cache-Control", "public, max-age=300")
		respond.OK(c, cfg)
	})
}
