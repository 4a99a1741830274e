// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package presenter

import (
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/vorlif/humanize"
)

func (p *Presenter) templateFuncMap() template.FuncMap {
	return template.FuncMap{
		"timeFormat":    timeFormat,
		"localizedTime": p.localizedTime,
		"naturalTime":   p.naturalTime,
		"floatFormat":   floatFormat,
		"emojiSpace":    EmojiWithSpace,
		"loc":           p.Localize,
		"lc":            strings.ToLower,
		"uc":            strings.ToUpper,
	}
}

// Localize translates a template key or moon phase name. Unknown values are returned unchanged.
func (p *Presenter) Localize(val string) string {
	if raw, ok := i18nVars[strings.ToLower(val)]; ok {
		return p.localizer.Get(raw)
	}
	return val
}

func (p *Presenter) localizedTime(val time.Time) string {
	return p.humanizer.FormatTime(val, humanize.TimeFormat)
}

func (p *Presenter) naturalTime(val time.Time) string {
	return p.humanizer.NaturalTime(val)
}

func timeFormat(val time.Time, fmt string) string {
	return val.Format(fmt)
}

// floatFormat truncates val to the given precision.
func floatFormat(val float64, precision int) string {
	pow := math.Pow(10, float64(precision))
	return fmt.Sprintf("%.*f", precision, math.Trunc(val*pow)/pow)
}

// EmojiWithSpace pads an emoji so that the following text starts at the same column for
// narrow and wide glyphs.
func EmojiWithSpace(emoji string) string {
	if emoji == "" {
		return ""
	}
	pad := 1
	if runewidth.StringWidth(emoji) < 2 {
		pad = 2
	}
	return emoji + strings.Repeat(" ", pad)
}
