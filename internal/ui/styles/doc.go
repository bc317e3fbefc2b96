// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the ndu-tui chat.

All colors use Lip Gloss AdaptiveColor for automatic light/dark terminal
detection.

# Color System (colors.go)

  - Green - Brand color, header and user highlights
  - Gold - Accent for the assistant and suggested prompts
  - Rose - Error banner
  - Surface/Overlay - backgrounds, borders and separators
  - TextPrimary/TextSecondary/TextMuted - body text, labels, timestamps

# Theme (theme.go)

Theme bundles the styled components of the chat widget: header, message
bubbles, typing indicator, error banner, welcome screen, history menu and
input area.

	theme := styles.NewTheme()
	theme.SetSize(width, height)
	header := theme.Header.Width(width).Render("Chat with Ndu")

# Layout Modes

GetLayoutMode maps the terminal width to a responsive mode:

	LayoutNarrow - < 60 columns, bubbles use the full width
	LayoutMedium - 60-100 columns
	LayoutWide   - > 100 columns, bubbles are capped for readability
*/
package styles
