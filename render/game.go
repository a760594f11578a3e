// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package render

import (
	"fmt"
	"strings"

	"github.com/danielhkuo/devpoker/models"
)

// ParseModeMarkdownV2 is Telegram's strict markdown dialect.
const ParseModeMarkdownV2 = "MarkdownV2"

const greeting = `
To start *Planning Poker* use /poker command\.
Add any description after the command to provide context\.

*Example:*
` + "```" + `
/poker https://issue\.tracker/TASK\-123
` + "```" + `

*Example with multiline description:*
` + "```" + `
/poker https://issue\.tracker/TASK\-123
Design DevPoker bot keyboard layout
` + "```" + `

Group several topics into a game with /game followed by a name, and finish it with /endgame to see how many topics were estimated\.

Special cards:
\* ❓ — Unsure how to estimate

Discussion buttons:
\* ✂️ — Task must be broken down
\* ♾️ — Impossible to estimate or task cannot be completed
\* ☕️ — I need a break
`

// Help renders the usage greeting.
func Help() View {
	return View{
		Text:                  greeting,
		ParseMode:             ParseModeMarkdownV2,
		DisableWebPagePreview: true,
	}
}

// Game renders a game message. stats is shown once the game has ended.
func Game(g *models.Game, stats *models.GameStatistics) View {
	var b strings.Builder

	fmt.Fprintf(&b, "Game: %s", g.Name)
	if !g.Active() {
		b.WriteString(" (ended)")
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "Facilitator: %s\n", g.Owner.Key())
	b.WriteString("\n")

	if g.Active() {
		b.WriteString("Start topics with /poker. Finish the game with /endgame.")
	}
	if stats != nil {
		fmt.Fprintf(&b, "Resolved sessions: %d\n", stats.SessionsCount)
		fmt.Fprintf(&b, "Estimated topics: %d", stats.EstimatedSessionsCount)
	}

	return View{Text: b.String()}
}
