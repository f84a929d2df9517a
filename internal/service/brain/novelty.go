package brain

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var bannerBorders = []lipgloss.Border{
	lipgloss.NormalBorder(),
	lipgloss.RoundedBorder(),
	lipgloss.DoubleBorder(),
	lipgloss.ThickBorder(),
	lipgloss.BlockBorder(),
	lipgloss.ASCIIBorder(),
}

func (b *Brain) isEasterEgg(question string) bool {
	for _, p := range b.vocab.EasterEggs.Phrases {
		if p != "" && strings.Contains(question, p) {
			return true
		}
	}
	return false
}

// easterEgg picks one payload. Links go out verbatim, anything else is
// framed in a randomly chosen banner border inside a code fence, so chat
// transports render it preformatted.
func (b *Brain) easterEgg() []string {
	payloads := b.vocab.EasterEggs.Payloads
	if len(payloads) == 0 {
		return []string{"✨"}
	}

	s := payloads[b.rnd.Intn(len(payloads))]
	if strings.Contains(s, "http") {
		return []string{s}
	}

	border := bannerBorders[b.rnd.Intn(len(bannerBorders))]
	banner := lipgloss.NewStyle().Border(border).Padding(0, 1).Render(strings.ToUpper(s))
	return []string{"```\n" + banner + "\n```"}
}
