// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package main

import "github.com/charmbracelet/lipgloss"

var (
	ColorFlash   = lipgloss.Color("#FFD700")
	ColorDim     = lipgloss.Color("#7A7A7A")
	ColorWarning = lipgloss.Color("#FF8C00")
	ColorError   = lipgloss.Color("#FF3300")
)

var (
	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorFlash).
			Bold(true)

	StyleHeader = lipgloss.NewStyle().
			Foreground(ColorFlash).
			Bold(true).
			Underline(true)

	StyleDim = lipgloss.NewStyle().
			Foreground(ColorDim)

	StyleWarning = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Bold(true)

	StyleError = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	StyleReport = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorFlash).
			Padding(0, 1)
)
