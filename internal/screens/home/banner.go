package home

import (
	"charm.land/lipgloss/v2"

	"github.com/DJSaunders1997/GPTeasers/internal/ui/theme"
)

const bannerArt = `
  ██████╗ ██████╗ ████████╗███████╗ █████╗ ███████╗███████╗██████╗ ███████╗
 ██╔════╝ ██╔══██╗╚══██╔══╝██╔════╝██╔══██╗██╔════╝██╔════╝██╔══██╗██╔════╝
 ██║  ███╗██████╔╝   ██║   █████╗  ███████║███████╗█████╗  ██████╔╝███████╗
 ██║   ██║██╔═══╝    ██║   ██╔══╝  ██╔══██║╚════██║██╔══╝  ██╔══██╗╚════██║
 ╚██████╔╝██║        ██║   ███████╗██║  ██║███████║███████╗██║  ██║███████║
  ╚═════╝ ╚═╝        ╚═╝   ╚══════╝╚═╝  ╚═╝╚══════╝╚══════╝╚═╝  ╚═╝╚══════╝`

const bannerCompact = "G P T e a s e r s"

const tagline = "AI generated trivia on any topic"

// RenderBanner returns the banner, or a one-line fallback when width is
// under 80 columns.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Bold(true)

	if width < 80 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
