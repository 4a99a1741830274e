// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package presenter renders strike estimates as localized text.
package presenter

import (
	"bytes"
	"fmt"
	"text/template"
	"time"

	"github.com/nathan-osman/go-sunrise"
	"github.com/vorlif/humanize"
	"github.com/vorlif/humanize/locale/de"
	"github.com/vorlif/spreak"
	"github.com/vorlif/spreak/localize"
	"github.com/wneessen/go-moonphase"

	"github.com/wneessen/lightning-locator/internal/config"
	"github.com/wneessen/lightning-locator/internal/estimate"
	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/i18n"
	"github.com/wneessen/lightning-locator/internal/weather"
)

const kmPerMile = 1.609344

// WeatherView wraps the weather conditions with presentation-related fields.
type WeatherView struct {
	weather.Conditions

	Condition     string
	ConditionIcon string
}

// TemplateContext is the data available to the summary and details templates.
type TemplateContext struct {
	Result     estimate.Result
	RecordedAt time.Time

	Label     estimate.Label
	LabelText string
	LabelIcon string

	Units        string
	DistanceUnit string
	Distance     float64
	Radius       float64
	DelaySeconds float64
	Compass      string

	SafetyWarning bool
	Daylight      bool
	SunriseTime   time.Time
	SunsetTime    time.Time
	MoonPhase     string
	MoonPhaseIcon string
	Badge         string

	Place   string
	Weather *WeatherView
}

type Presenter struct {
	summary   *template.Template
	details   *template.Template
	localizer *spreak.Localizer
	humanizer *humanize.Humanizer
	units     string
	funMode   bool
}

func New(conf *config.Config, loc *spreak.Localizer) (*Presenter, error) {
	collection, err := humanize.New(humanize.WithLocale(de.New()))
	if err != nil {
		return nil, fmt.Errorf("failed to create humanizer: %w", err)
	}
	pres := &Presenter{
		localizer: loc,
		humanizer: collection.CreateHumanizer(i18n.Tag(conf.Locale)),
		units:     conf.Units,
		funMode:   conf.FunMode(),
	}

	pres.summary, err = template.New("summary").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Summary)
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary template: %w", err)
	}
	pres.details, err = template.New("details").Funcs(pres.templateFuncMap()).Parse(conf.Templates.Details)
	if err != nil {
		return nil, fmt.Errorf("failed to parse details template: %w", err)
	}
	return pres, nil
}

// BuildContext assembles the template context for a strike recorded at the given time.
// Weather conditions and place are optional.
func (p *Presenter) BuildContext(result estimate.Result, at time.Time, cond *weather.Conditions, place string) TemplateContext {
	label := result.Label(p.funMode)
	rise, set, daylight := Daylight(result.Origin, at)
	moon := moonphase.New(at)

	ctx := TemplateContext{
		Result:        result,
		RecordedAt:    at,
		Label:         label,
		LabelIcon:     labelIcon[label],
		Units:         p.units,
		DelaySeconds:  result.Delay.Seconds(),
		Compass:       result.CompassDirection(),
		SafetyWarning: result.SafetyWarning(),
		Daylight:      daylight,
		SunriseTime:   rise,
		SunsetTime:    set,
		MoonPhase:     moon.PhaseName(),
		MoonPhaseIcon: MoonPhaseIcon[moon.PhaseName()],
		Place:         place,
	}
	if msg, ok := labelText[label]; ok {
		ctx.LabelText = p.localizer.Get(msg)
	}
	if badge := Badge(result, daylight); badge != "" {
		ctx.Badge = p.localizer.Get(badge)
	}

	switch p.units {
	case "imperial":
		ctx.DistanceUnit = "mi"
		ctx.Distance = result.DistanceMi
		ctx.Radius = result.RadiusKm / kmPerMile
	default:
		ctx.DistanceUnit = "km"
		ctx.Distance = result.DistanceKm
		ctx.Radius = result.RadiusKm
	}

	if cond != nil {
		ctx.Weather = &WeatherView{
			Conditions:    *cond,
			Condition:     p.localizer.Get(cond.Condition()),
			ConditionIcon: conditionIcons[cond.WeatherCode][daylight],
		}
	}
	return ctx
}

// Summary renders the one-line summary.
func (p *Presenter) Summary(ctx TemplateContext) (string, error) {
	return render(p.summary, ctx)
}

// Details renders the multi-line details block.
func (p *Presenter) Details(ctx TemplateContext) (string, error) {
	return render(p.details, ctx)
}

func render(tpl *template.Template, ctx TemplateContext) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := tpl.Execute(buf, ctx); err != nil {
		return "", fmt.Errorf("failed to render %s template: %w", tpl.Name(), err)
	}
	return buf.String(), nil
}

// Badge returns the badge awarded for a strike, or an empty string.
func Badge(result estimate.Result, daylight bool) localize.MsgID {
	switch {
	case result.GoodTiming():
		return BadgeProListener
	case !daylight:
		return BadgeNightWatch
	default:
		return ""
	}
}

// Daylight returns the sunrise and sunset around the given instant and whether the sun is
// up at the coordinate. The neighbouring UTC days are considered as well, since the local
// day of a location far from Greenwich spans two UTC dates.
func Daylight(coord geo.Coordinate, at time.Time) (time.Time, time.Time, bool) {
	utc := at.UTC()
	var firstRise, firstSet time.Time
	for _, offset := range []int{-1, 0, 1} {
		day := utc.AddDate(0, 0, offset)
		rise, set := sunrise.SunriseSunset(coord.Lat, coord.Lon, day.Year(), day.Month(), day.Day())
		if rise.IsZero() || set.IsZero() {
			continue
		}
		if !utc.Before(rise) && utc.Before(set) {
			return rise, set, true
		}
		if offset == 0 {
			firstRise, firstSet = rise, set
		}
	}
	return firstRise, firstSet, false
}
