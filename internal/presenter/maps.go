// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"github.com/vorlif/spreak/localize"

	"github.com/wneessen/lightning-locator/internal/estimate"
)

// MoonPhaseIcon is a map where moon phase names are keys and their corresponding emoji representations are values.
var MoonPhaseIcon = map[string]string{
	"New Moon":        "🌑",
	"Waxing Crescent": "🌒",
	"First Quarter":   "🌓",
	"Waxing Gibbous":  "🌔",
	"Full Moon":       "🌕",
	"Waning Gibbous":  "🌖",
	"Third Quarter":   "🌗",
	"Waning Crescent": "🌘",
}

// labelText maps estimation labels to their display text.
var labelText = map[estimate.Label]localize.MsgID{
	estimate.LabelClose:      "RUN, GOATS!",
	estimate.LabelGoodTiming: "Pro Listener! Keep that timing tight.",
}

var labelIcon = map[estimate.Label]string{
	estimate.LabelClose:      "⚡🐐",
	estimate.LabelGoodTiming: "🎧",
}

const (
	BadgeProListener localize.MsgID = "Pro Listener"
	BadgeNightWatch  localize.MsgID = "Night Watch"
)

// conditionIcons maps WMO weather code groups to emoji for day (true) and night (false).
var conditionIcons = map[int]map[bool]string{
	0:  {true: "☀️", false: "🌙"},
	1:  {true: "🌤️", false: "🌙"},
	2:  {true: "⛅", false: "☁️"},
	3:  {true: "☁️", false: "☁️"},
	45: {true: "🌫️", false: "🌫️"},
	48: {true: "🌫️", false: "🌫️"},
	51: {true: "🌦️", false: "🌧️"},
	53: {true: "🌧️", false: "🌧️"},
	55: {true: "🌧️", false: "🌧️"},
	56: {true: "🌧️", false: "🌧️"},
	57: {true: "🌧️", false: "🌧️"},
	61: {true: "🌦️", false: "🌧️"},
	63: {true: "🌧️", false: "🌧️"},
	65: {true: "🌧️", false: "🌧️"},
	66: {true: "🌧️", false: "🌧️"},
	67: {true: "🌧️", false: "🌧️"},
	71: {true: "🌨️", false: "🌨️"},
	73: {true: "🌨️", false: "🌨️"},
	75: {true: "❄️", false: "❄️"},
	77: {true: "🌨️", false: "🌨️"},
	80: {true: "🌦️", false: "🌧️"},
	81: {true: "🌧️", false: "🌧️"},
	82: {true: "⛈️", false: "⛈️"},
	85: {true: "🌨️", false: "🌨️"},
	86: {true: "❄️", false: "❄️"},
	95: {true: "⛈️", false: "⛈️"},
	96: {true: "⛈️", false: "⛈️"},
	99: {true: "⛈️", false: "⛈️"},
}

var i18nVars = map[string]localize.MsgID{
	"target":          "Target",
	"delay":           "Delay",
	"samples":         "Heading samples",
	"near":            "Near",
	"weather":         "Weather",
	"moonphase":       "Moonphase",
	"badge":           "Badge",
	"bearing":         "Bearing",
	"distance":        "Distance",
	"radius":          "Uncertainty",
	"estimated":       "Estimated strike",
	"safety":          "Thunder within 30 seconds. Seek shelter immediately.",
	"nostrikes":       "No strikes recorded yet.",
	"shown":           "Showing %d of %d strikes",
	"prompt_flash":    "Flash seen? Press Enter to start timing.",
	"prompt_thunder":  "Thunder heard? Press Enter to stop.",
	"new moon":        "New moon",
	"waxing crescent": "Waxing crescent",
	"first quarter":   "First quarter",
	"waxing gibbous":  "Waxing gibbous",
	"full moon":       "Full moon",
	"waning gibbous":  "Waning gibbous",
	"third quarter":   "Third quarter",
	"waning crescent": "Waning crescent",
}
