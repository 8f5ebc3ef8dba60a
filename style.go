package uikit

// ButtonStyle defines how a button draws itself.
type ButtonStyle struct {
	TextColor  uint32
	FillColor  uint32
	FontScale  float32
	TextCenter bool // Center text in the region; otherwise left-aligned at TextPad
	TextPad    float32
}

// DefaultButtonStyle returns white text on black, centered.
func DefaultButtonStyle() ButtonStyle {
	return ButtonStyle{
		TextColor:  RGBA(255, 255, 255, 255),
		FillColor:  RGBA(0, 0, 0, 255),
		FontScale:  1,
		TextCenter: true,
		TextPad:    4,
	}
}

// EditStyle defines the edit-mode overlay.
type EditStyle struct {
	HandleColor uint32
	BorderColor uint32
	BorderWidth float32
	GuideColor  uint32
	GlowColor   uint32
}

// DefaultEditStyle returns the blue overlay with cyan snap guides.
func DefaultEditStyle() EditStyle {
	return EditStyle{
		HandleColor: RGBA(0, 120, 215, 255),
		BorderColor: RGBA(0, 120, 215, 255),
		BorderWidth: 2,
		GuideColor:  RGBA(0, 180, 255, 200),
		GlowColor:   RGBA(0, 180, 255, 60),
	}
}
