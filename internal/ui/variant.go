// Package ui publishes the presentational vocabulary clients render from.
package ui

import "fmt"

// Variant is a button or card treatment.
type Variant int

const (
	Primary Variant = iota
	Secondary
	Glass
	Ghost
)

// Variants lists every variant in declaration order.
var Variants = []Variant{Primary, Secondary, Glass, Ghost}

// Style describes how a client draws a variant.
type Style struct {
	Variant     string `json:"variant"`
	Classes     string `json:"classes"`
	Translucent bool   `json:"translucent"`
	Bordered    bool   `json:"bordered"`
}

func (v Variant) String() string {
	switch v {
	case Primary:
		return "primary"
	case Secondary:
		return "secondary"
	case Glass:
		return "glass"
	case Ghost:
		return "ghost"
	default:
		return fmt.Sprintf("variant(%d)", int(v))
	}
}

// Style panics on values outside Variants.
func (v Variant) Style() Style {
	switch v {
	case Primary:
		return Style{Variant: v.String(), Classes: "bg-accent hover:bg-accent-hover text-white rounded-lg"}
	case Secondary:
		return Style{Variant: v.String(), Classes: "bg-card hover:bg-muted text-foreground rounded-lg border border-border", Bordered: true}
	case Glass:
		return Style{Variant: v.String(), Classes: "text-foreground rounded-xl", Translucent: true}
	case Ghost:
		return Style{Variant: v.String(), Classes: "hover:bg-card text-foreground rounded-lg"}
	default:
		panic(fmt.Sprintf("ui: unknown variant %d", int(v)))
	}
}

// ParseVariant maps a name back to its Variant.
func ParseVariant(name string) (Variant, bool) {
	for _, v := range Variants {
		if v.String() == name {
			return v, true
		}
	}
	return 0, false
}
