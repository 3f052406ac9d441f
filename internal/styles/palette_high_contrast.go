package styles

// HighContrastTheme favors legibility on low-quality terminals.
var HighContrastTheme = Theme{
	Name: "high-contrast",
	Base: BaseColors{
		Background: "16",
		Foreground: "231",
		Muted:      "250",
		Accent:     "51",
	},
	Timeline: TimelineColors{
		Dots:      "46",
		PastDots:  "244",
		ActiveDot: "226",
		Line:      "46",
		Area:      "22",
		Footer:    "236",
		Today:     "196",
		TodayLine: "250",
		Axis:      "231",
		Label:     "231",
		Tooltip:   "229",
	},
}
