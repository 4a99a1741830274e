// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package service wires the sensors, fix sources, estimator, enrichment and history
// into the operations offered by the command line.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/vorlif/spreak"

	"github.com/wneessen/lightning-locator/internal/config"
	"github.com/wneessen/lightning-locator/internal/estimate"
	"github.com/wneessen/lightning-locator/internal/export"
	"github.com/wneessen/lightning-locator/internal/geo"
	"github.com/wneessen/lightning-locator/internal/geocode"
	"github.com/wneessen/lightning-locator/internal/geocode/provider/nominatim"
	"github.com/wneessen/lightning-locator/internal/gpsfix"
	"github.com/wneessen/lightning-locator/internal/http"
	"github.com/wneessen/lightning-locator/internal/i18n"
	"github.com/wneessen/lightning-locator/internal/logger"
	"github.com/wneessen/lightning-locator/internal/presenter"
	"github.com/wneessen/lightning-locator/internal/sampler"
	"github.com/wneessen/lightning-locator/internal/session"
	"github.com/wneessen/lightning-locator/internal/store"
	"github.com/wneessen/lightning-locator/internal/weather"
	"github.com/wneessen/lightning-locator/internal/weather/provider/openmeteo"
)

const enrichTimeout = 15 * time.Second

var (
	// ErrNegativeDelay is returned when an estimate is requested with a negative delay.
	ErrNegativeDelay = errors.New("flash-to-thunder delay must not be negative")
	// ErrInvalidHeading is returned when a requested heading is NaN or infinite.
	ErrInvalidHeading = errors.New("heading must be a finite number")
	// ErrInvalidAccuracy is returned when an origin override carries a negative or
	// non-finite accuracy.
	ErrInvalidAccuracy = errors.New("origin accuracy must be a finite, non-negative number")
)

// Request holds the inputs of a non-interactive estimate.
type Request struct {
	Delay    time.Duration
	Headings []float64
	Notes    string
	// Origin overrides the configured fix sources when set.
	Origin *gpsfix.Fix
}

// Report is a persisted strike together with its rendered output.
type Report struct {
	Strike  store.Strike
	Context presenter.TemplateContext
	Summary string
	Details string
}

type Service struct {
	config    *config.Config
	logger    *logger.Logger
	clock     clockwork.Clock
	params    estimate.Params
	presenter *presenter.Presenter

	fixSources []gpsfix.Source
	headings   sampler.Source
	session    *session.Session
	store      *store.Store

	weather  weather.Provider
	geocoder geocode.Geocoder
}

func New(conf *config.Config, log *logger.Logger, loc *spreak.Localizer) (*Service, error) {
	return newService(conf, log, loc, clockwork.NewRealClock())
}

func newService(conf *config.Config, log *logger.Logger, loc *spreak.Localizer, clock clockwork.Clock) (*Service, error) {
	if log == nil {
		log = logger.Discard()
	}
	pres, err := presenter.New(conf, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to create presenter: %w", err)
	}
	strikes, err := store.Open(conf.Storage.Path, clock)
	if err != nil {
		return nil, fmt.Errorf("failed to open strike history: %w", err)
	}

	service := &Service{
		config: conf,
		logger: log,
		clock:  clock,
		params: estimate.Params{
			ReactionSeconds:   conf.Uncertainty.ReactionSeconds,
			CompassDeg:        conf.Uncertainty.CompassDeg,
			DefaultBearingDeg: conf.Sensor.Heading,
		},
		presenter:  pres,
		fixSources: fixSources(conf, http.New(log)),
		headings:   headingSource(conf),
		session:    session.New(clock),
		store:      strikes,
	}

	if conf.Weather.Enabled {
		provider, err := openmeteo.New(log, conf.Units)
		if err != nil {
			_ = strikes.Close()
			return nil, fmt.Errorf("failed to create weather provider: %w", err)
		}
		service.weather = provider
	}
	if conf.Geocode.Enabled {
		coder := nominatim.New(http.New(log), i18n.Tag(conf.Locale))
		service.geocoder = geocode.NewCachedGeocoderWithClock(coder, conf.Geocode.CacheHitTTL,
			conf.Geocode.CacheMissTTL, clock)
	}

	return service, nil
}

func fixSources(conf *config.Config, client *http.Client) []gpsfix.Source {
	var sources []gpsfix.Source
	for _, name := range conf.Location.Sources {
		switch name {
		case "gpsd":
			sources = append(sources, gpsfix.NewGPSDSource(conf.Location.GPSDHost, conf.Location.GPSDPort,
				conf.Location.Timeout))
		case "geoclue":
			sources = append(sources, gpsfix.NewGeoClueSource(conf.Location.Timeout))
		case "file":
			sources = append(sources, gpsfix.NewFileSource(conf.Location.File))
		case "static":
			coord := geo.Coordinate{Lat: conf.Location.Latitude, Lon: conf.Location.Longitude}
			sources = append(sources, gpsfix.NewStaticSource(coord, conf.Location.Accuracy))
		case "beacondb":
			sources = append(sources, gpsfix.NewBeaconDBSource(client))
		case "geoip":
			sources = append(sources, gpsfix.NewGeoIPSource(client))
		}
	}
	return sources
}

func headingSource(conf *config.Config) sampler.Source {
	if conf.Sensor.Source == "static" {
		return sampler.NewStaticSource(conf.Sensor.Heading)
	}
	return sampler.NewIIOSource(conf.Sensor.Device, conf.Sensor.Invert)
}

// Close releases the strike history.
func (s *Service) Close() error {
	return s.store.Close()
}

// Presenter returns the presenter used to render reports.
func (s *Service) Presenter() *presenter.Presenter {
	return s.presenter
}

// Estimate computes, enriches, persists and renders a strike from explicit inputs.
func (s *Service) Estimate(ctx context.Context, req Request) (Report, error) {
	if req.Delay < 0 {
		return Report{}, ErrNegativeDelay
	}
	for _, heading := range req.Headings {
		if math.IsNaN(heading) || math.IsInf(heading, 0) {
			return Report{}, fmt.Errorf("%w: %v", ErrInvalidHeading, heading)
		}
	}

	var fix gpsfix.Fix
	if req.Origin != nil {
		fix = *req.Origin
		if !fix.Coordinate.Valid() {
			return Report{}, gpsfix.ErrInvalidCoordinate
		}
		if fix.AccuracyM < 0 || math.IsNaN(fix.AccuracyM) || math.IsInf(fix.AccuracyM, 0) {
			return Report{}, ErrInvalidAccuracy
		}
	} else {
		var err error
		fix, err = gpsfix.Best(ctx, s.fixSources...)
		if err != nil {
			return Report{}, fmt.Errorf("failed to acquire position fix: %w", err)
		}
	}
	s.logger.Debug("position fix acquired", slog.String("source", fix.Source),
		slog.String("coordinate", fix.Coordinate.String()), slog.Float64("accuracy_m", fix.AccuracyM))

	headings := s.headingsOrFallback(ctx, req.Headings)
	result := estimate.Estimate(fix, headings, req.Delay, s.params)
	s.logger.Debug("strike estimated", slog.Float64("bearing", result.BearingDeg),
		slog.Float64("distance_km", result.DistanceKm), slog.Float64("radius_km", result.RadiusKm),
		slog.Int("samples", result.Samples))

	at := s.clock.Now()
	cond, place := s.enrich(ctx, result.Target)
	tplCtx := s.presenter.BuildContext(result, at, cond, place)

	strike := store.Strike{
		Result:   result,
		Notes:    req.Notes,
		Place:    place,
		Daylight: tplCtx.Daylight,
		Badge:    string(presenter.Badge(result, tplCtx.Daylight)),
	}
	if cond != nil {
		code := cond.WeatherCode
		strike.WeatherCode = &code
	}
	strike, err := s.store.Add(ctx, strike)
	if err != nil {
		return Report{}, fmt.Errorf("failed to store strike: %w", err)
	}
	tplCtx.RecordedAt = strike.CreatedAt

	return s.render(strike, tplCtx)
}

func (s *Service) render(strike store.Strike, tplCtx presenter.TemplateContext) (Report, error) {
	summary, err := s.presenter.Summary(tplCtx)
	if err != nil {
		return Report{}, err
	}
	details, err := s.presenter.Details(tplCtx)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Strike:  strike,
		Context: tplCtx,
		Summary: summary,
		Details: details,
	}, nil
}

// headingsOrFallback returns the given headings, or a single reading from the heading source
// when none were given. An empty result makes the estimator use the configured default.
func (s *Service) headingsOrFallback(ctx context.Context, headings []float64) []float64 {
	if len(headings) > 0 || s.headings == nil {
		return headings
	}
	heading, err := s.headings.Heading(ctx)
	if err != nil {
		s.logger.Warn("failed to read heading, using default bearing", slog.String("source", s.headings.Name()),
			logger.Err(err))
		return nil
	}
	return []float64{heading}
}

// enrich looks up the weather at and the place near the target. Failures are logged and
// leave the respective value empty.
func (s *Service) enrich(ctx context.Context, target geo.Coordinate) (*weather.Conditions, string) {
	ctx, cancel := context.WithTimeout(ctx, enrichTimeout)
	defer cancel()

	var (
		wg    sync.WaitGroup
		cond  *weather.Conditions
		place string
	)
	if s.weather != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			current, err := s.weather.Current(ctx, target)
			if err != nil {
				s.logger.Warn("failed to fetch weather conditions", slog.String("provider", s.weather.Name()),
					logger.Err(err))
				return
			}
			cond = current
		}()
	}
	if s.geocoder != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			addr, err := s.geocoder.Reverse(ctx, target)
			if err != nil {
				s.logger.Warn("failed to reverse geocode target", slog.String("provider", s.geocoder.Name()),
					logger.Err(err))
				return
			}
			if addr.AddressFound {
				place = addr.Place()
			}
		}()
	}
	wg.Wait()
	return cond, place
}

// History returns the most recent strikes. A non-positive limit uses the configured limit.
func (s *Service) History(ctx context.Context, limit int) ([]store.Strike, error) {
	if limit <= 0 {
		limit = s.config.Storage.HistoryLimit
	}
	return s.store.List(ctx, limit)
}

// Count returns the number of strikes in the history.
func (s *Service) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// Show renders a single stored strike.
func (s *Service) Show(ctx context.Context, id uuid.UUID) (Report, error) {
	strike, err := s.store.Get(ctx, id)
	if err != nil {
		return Report{}, err
	}
	var cond *weather.Conditions
	if strike.WeatherCode != nil {
		cond = &weather.Conditions{At: strike.CreatedAt, WeatherCode: *strike.WeatherCode}
	}
	return s.render(strike, s.presenter.BuildContext(strike.Result, strike.CreatedAt, cond, strike.Place))
}

// Export writes the whole strike history as a GeoJSON feature collection.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	strikes, err := s.store.List(ctx, 0)
	if err != nil {
		return err
	}
	if err = export.Write(w, strikes, s.config.Export.Segments); err != nil {
		return fmt.Errorf("failed to export strikes: %w", err)
	}
	return nil
}

// Clear deletes the strike history and returns the number of removed strikes.
func (s *Service) Clear(ctx context.Context) (int64, error) {
	return s.store.Clear(ctx)
}
