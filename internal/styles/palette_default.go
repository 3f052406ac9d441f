package styles

// DefaultTheme mirrors the light grey scheduler palette.
var DefaultTheme = Theme{
	Name: "default",
	Base: BaseColors{
		Background: "#e0e0e0",
		Foreground: "#333333",
		Muted:      "245",
		Accent:     "#71af26",
	},
	Timeline: TimelineColors{
		Dots:      "#71af26",
		PastDots:  "#9e9e9e",
		ActiveDot: "#3d7a0a",
		Line:      "#71af26",
		Area:      "#b8d99a",
		Footer:    "#bfbfbf",
		Today:     "#e30b5c",
		TodayLine: "#808080",
		Axis:      "#666666",
		Label:     "#666666",
		Tooltip:   "#666666",
	},
}
