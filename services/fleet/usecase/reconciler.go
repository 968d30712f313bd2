package usecase

import (
	"fmt"
	"math"
	"sort"

	"github.com/piresc/unitransport/internal/pkg/constants"
	"github.com/piresc/unitransport/internal/pkg/models"
	"github.com/piresc/unitransport/internal/utils"
)

// Reconcile rebuilds the derived view from a full snapshot. Samples older than
// stalenessMs are dropped, then the filter applies, then the nearest entity to
// reference is picked. Ties go to the lowest publisher id.
func Reconcile(samples []models.PositionSample, filter models.ViewFilter, reference models.Point, nowMs, stalenessMs int64) models.DerivedView {
	active := make([]models.PositionSample, 0, len(samples))
	for _, s := range samples {
		if nowMs-s.LastUpdate > stalenessMs {
			continue
		}
		if !filter.Matches(s) {
			continue
		}
		active = append(active, s)
	}

	sort.Slice(active, func(i, j int) bool {
		return active[i].PublisherID < active[j].PublisherID
	})

	view := models.DerivedView{
		ActiveSamples: active,
		ComputedAt:    nowMs,
	}

	for i := range active {
		d := utils.PlanarDegrees(active[i].Point(), reference)
		if view.Nearest == nil || d < view.NearestDistanceDegrees {
			view.Nearest = &active[i]
			view.NearestDistanceDegrees = d
		}
	}

	return view
}

// DistanceKm converts a degree distance to kilometers rounded to one decimal
func DistanceKm(degrees float64) float64 {
	return math.Round(degrees*constants.KmPerDegree*10) / 10
}

// EtaMinutes assumes a constant 30 km/h
func EtaMinutes(km float64) int {
	return int(math.Ceil(km * constants.MinutesPerKm))
}

// RouteLabel is the display name of a route
func RouteLabel(route int) string {
	return fmt.Sprintf("Route %d", route)
}

// BuildInstruction turns a view into render data. baseline holds the ids of
// the previous instruction; any of them missing from the view are removed.
func BuildInstruction(view models.DerivedView, filter models.ViewFilter, baseline map[string]struct{}) models.RenderInstruction {
	instr := models.RenderInstruction{
		State:      models.RenderStateNoActive,
		Markers:    make([]models.Marker, 0, len(view.ActiveSamples)),
		Removed:    []string{},
		Filter:     filter,
		ComputedAt: view.ComputedAt,
	}

	active := make(map[string]struct{}, len(view.ActiveSamples))
	for _, s := range view.ActiveSamples {
		active[s.PublisherID] = struct{}{}
		instr.Markers = append(instr.Markers, models.Marker{
			PublisherID: s.PublisherID,
			Route:       s.Route,
			Direction:   s.Direction,
			Lat:         s.Lat,
			Lng:         s.Lng,
			Geohash:     utils.EncodePoint(s.Point(), constants.MarkerGeohashPrecision),
			Label:       RouteLabel(s.Route),
			Heading:     "Towards " + s.Direction.Destination(),
			LastUpdate:  s.LastUpdate,
		})
	}

	for id := range baseline {
		if _, ok := active[id]; !ok {
			instr.Removed = append(instr.Removed, id)
		}
	}
	sort.Strings(instr.Removed)

	if view.Nearest != nil {
		km := DistanceKm(view.NearestDistanceDegrees)
		eta := EtaMinutes(km)
		instr.State = models.RenderStateActive
		instr.Overlay = &models.NearestOverlay{
			PublisherID:  view.Nearest.PublisherID,
			Route:        view.Nearest.Route,
			Label:        RouteLabel(view.Nearest.Route),
			DistanceKm:   km,
			DistanceText: fmt.Sprintf("%.1f km away", km),
			EtaMinutes:   eta,
			EtaText:      fmt.Sprintf("%d mins away", eta),
		}
	}

	return instr
}

// FilterFromConfig builds the startup filter. An empty direction or route 0 means no filter.
func FilterFromConfig(cfg models.FleetConfig) models.ViewFilter {
	var filter models.ViewFilter
	if d := models.Direction(cfg.FilterDirection); d.Valid() {
		filter.Direction = &d
	}
	if cfg.FilterRoute > 0 {
		r := cfg.FilterRoute
		filter.Route = &r
	}
	return filter
}
