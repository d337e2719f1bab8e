package fleet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/observability/telemetry"
	"github.com/seu-repo/dronevox/internal/ports"
	"github.com/seu-repo/dronevox/pkg/config"
)

// Options tune name resolution.
type Options struct {
	ResolveTTL  time.Duration
	Fuzzy       bool
	MaxDistance int
}

func OptionsFromConfig(cache config.CacheConfig, resolver config.ResolverConfig) Options {
	return Options{
		ResolveTTL:  cache.ResolveTTL,
		Fuzzy:       resolver.FuzzyMatching,
		MaxDistance: resolver.MaxDistance,
	}
}

type Service struct {
	drones  ports.DroneRepository
	areas   ports.AreaRepository
	sensors ports.SensorRepository
	cache   ports.Cache
	hub     ports.Broadcaster
	opts    Options
	log     *zap.Logger
	now     func() time.Time
}

// NewService wires the registry. hub may be nil when no dashboard is attached.
func NewService(
	drones ports.DroneRepository,
	areas ports.AreaRepository,
	sensors ports.SensorRepository,
	cache ports.Cache,
	hub ports.Broadcaster,
	opts Options,
	log *zap.Logger,
) *Service {
	return &Service{
		drones:  drones,
		areas:   areas,
		sensors: sensors,
		cache:   cache,
		hub:     hub,
		opts:    opts,
		log:     log,
		now:     time.Now,
	}
}

var _ ports.FleetService = (*Service)(nil)

// --- Resolution ---

// ResolveDrone finds the drone an operator named. Exact (case-insensitive)
// matches win; otherwise the nearest name within the edit distance limit.
func (s *Service) ResolveDrone(ctx context.Context, name string) (*domain.Drone, error) {
	ctx, span := telemetry.StartSpan(ctx, "fleet.resolve_drone", attribute.String("name", name))
	defer span.End()

	variants := nameVariants(name)
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: empty name", domain.ErrDroneNotFound)
	}
	cacheKey := "resolve:drone:" + variants[0]

	if id, err := s.cache.Get(ctx, cacheKey); err == nil {
		drone, err := s.drones.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if drone != nil {
			s.observe("drone", matchCached)
			return drone, nil
		}
		_ = s.cache.Delete(ctx, cacheKey)
	}

	for _, v := range variants {
		found, err := s.drones.FindByName(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("failed to look up drone %q: %w", v, err)
		}
		switch len(found) {
		case 0:
			continue
		case 1:
			s.observe("drone", matchExact)
			s.remember(ctx, cacheKey, found[0].ID)
			return &found[0], nil
		default:
			s.observe("drone", matchAmbiguous)
			return nil, fmt.Errorf("%w: %d drones named %q", domain.ErrAmbiguousName, len(found), v)
		}
	}

	if s.opts.Fuzzy {
		all, err := s.drones.FindAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list drones: %w", err)
		}
		names := make([]string, len(all))
		for i, d := range all {
			names[i] = d.Name
		}
		for _, v := range variants {
			idx, ok, ambiguous := closest(v, names, s.opts.MaxDistance)
			if ambiguous {
				s.observe("drone", matchAmbiguous)
				return nil, fmt.Errorf("%w: %q", domain.ErrAmbiguousName, name)
			}
			if ok {
				s.observe("drone", matchFuzzy)
				s.log.Debug("Drone resolved by fuzzy match",
					zap.String("spoken", name),
					zap.String("name", all[idx].Name),
				)
				s.remember(ctx, cacheKey, all[idx].ID)
				return &all[idx], nil
			}
		}
	}

	s.observe("drone", matchNone)
	return nil, fmt.Errorf("%w: %q", domain.ErrDroneNotFound, name)
}

// ResolveTarget finds a destination. Exact area names are tried before exact
// sensor names, then the same order with fuzzy matching.
func (s *Service) ResolveTarget(ctx context.Context, name string) (*domain.Target, error) {
	ctx, span := telemetry.StartSpan(ctx, "fleet.resolve_target", attribute.String("name", name))
	defer span.End()

	variants := nameVariants(name)
	if len(variants) == 0 {
		return nil, fmt.Errorf("%w: empty name", domain.ErrTargetNotFound)
	}
	cacheKey := "resolve:target:" + variants[0]

	if raw, err := s.cache.Get(ctx, cacheKey); err == nil {
		var target domain.Target
		if err := json.Unmarshal([]byte(raw), &target); err == nil {
			s.observe("target", matchCached)
			return &target, nil
		}
		_ = s.cache.Delete(ctx, cacheKey)
	}

	target, err := s.exactTarget(ctx, variants)
	if err != nil {
		return nil, err
	}
	if target == nil && s.opts.Fuzzy {
		target, err = s.fuzzyTarget(ctx, variants)
		if err != nil {
			return nil, err
		}
	}
	if target == nil {
		s.observe("target", matchNone)
		return nil, fmt.Errorf("%w: %q", domain.ErrTargetNotFound, name)
	}

	s.remember(ctx, cacheKey, target)
	return target, nil
}

func (s *Service) exactTarget(ctx context.Context, variants []string) (*domain.Target, error) {
	for _, v := range variants {
		areas, err := s.areas.FindByName(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("failed to look up area %q: %w", v, err)
		}
		if len(areas) > 1 {
			s.observe("target", matchAmbiguous)
			return nil, fmt.Errorf("%w: %d areas named %q", domain.ErrAmbiguousName, len(areas), v)
		}
		if len(areas) == 1 {
			s.observe("target", matchExact)
			return areaTarget(&areas[0]), nil
		}

		sensors, err := s.sensors.FindByName(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("failed to look up sensor %q: %w", v, err)
		}
		if len(sensors) > 1 {
			s.observe("target", matchAmbiguous)
			return nil, fmt.Errorf("%w: %d sensors named %q", domain.ErrAmbiguousName, len(sensors), v)
		}
		if len(sensors) == 1 {
			s.observe("target", matchExact)
			return sensorTarget(&sensors[0]), nil
		}
	}
	return nil, nil
}

func (s *Service) fuzzyTarget(ctx context.Context, variants []string) (*domain.Target, error) {
	areas, err := s.areas.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list areas: %w", err)
	}
	sensors, err := s.sensors.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sensors: %w", err)
	}

	areaNames := make([]string, len(areas))
	for i, a := range areas {
		areaNames[i] = a.Name
	}
	sensorNames := make([]string, len(sensors))
	for i, sn := range sensors {
		sensorNames[i] = sn.Name
	}

	for _, v := range variants {
		idx, ok, ambiguous := closest(v, areaNames, s.opts.MaxDistance)
		if ambiguous {
			s.observe("target", matchAmbiguous)
			return nil, fmt.Errorf("%w: %q", domain.ErrAmbiguousName, v)
		}
		if ok {
			s.observe("target", matchFuzzy)
			return areaTarget(&areas[idx]), nil
		}

		idx, ok, ambiguous = closest(v, sensorNames, s.opts.MaxDistance)
		if ambiguous {
			s.observe("target", matchAmbiguous)
			return nil, fmt.Errorf("%w: %q", domain.ErrAmbiguousName, v)
		}
		if ok {
			s.observe("target", matchFuzzy)
			return sensorTarget(&sensors[idx]), nil
		}
	}
	return nil, nil
}

func areaTarget(a *domain.Area) *domain.Target {
	return &domain.Target{
		Kind:      domain.TargetKindArea,
		Name:      a.Name,
		AreaID:    a.AreaID,
		Latitude:  a.Latitude,
		Longitude: a.Longitude,
	}
}

func sensorTarget(sn *domain.Sensor) *domain.Target {
	lat, lon := sn.Latitude, sn.Longitude
	return &domain.Target{
		Kind:      domain.TargetKindSensor,
		Name:      sn.Name,
		AreaID:    sn.AreaID,
		SensorID:  sn.SensorID,
		Latitude:  &lat,
		Longitude: &lon,
	}
}

func (s *Service) remember(ctx context.Context, key string, value interface{}) {
	if s.opts.ResolveTTL <= 0 {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.opts.ResolveTTL); err != nil {
		s.log.Warn("Failed to cache resolution", zap.String("key", key), zap.Error(err))
	}
}

func (s *Service) observe(kind string, m matchKind) {
	telemetry.ResolutionsTotal.WithLabelValues(kind, string(m)).Inc()
}

// --- Drones ---

func (s *Service) ListDrones(ctx context.Context) ([]domain.Drone, error) {
	return s.drones.FindAll(ctx)
}

func (s *Service) GetDrone(ctx context.Context, id string) (*domain.Drone, error) {
	drone, err := s.drones.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if drone == nil {
		return nil, domain.ErrDroneNotFound
	}
	return drone, nil
}

func (s *Service) GetDroneByDroneID(ctx context.Context, droneID string) (*domain.Drone, error) {
	drone, err := s.drones.FindByDroneID(ctx, droneID)
	if err != nil {
		return nil, err
	}
	if drone == nil {
		return nil, domain.ErrDroneNotFound
	}
	return drone, nil
}

func (s *Service) CreateDrone(ctx context.Context, drone *domain.Drone) error {
	drone.Name = strings.TrimSpace(drone.Name)
	drone.DroneID = strings.TrimSpace(drone.DroneID)
	drone.AreaID = strings.TrimSpace(drone.AreaID)
	if drone.Name == "" || drone.DroneID == "" || drone.AreaID == "" {
		return fmt.Errorf("%w: name, drone_id and area_id are required", domain.ErrInvalidInput)
	}

	existing, err := s.drones.FindByDroneID(ctx, drone.DroneID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: drone %s", domain.ErrAlreadyExists, drone.DroneID)
	}

	area, err := s.areas.FindByAreaID(ctx, drone.AreaID)
	if err != nil {
		return err
	}
	if area == nil {
		return fmt.Errorf("%w: %s", domain.ErrAreaNotFound, drone.AreaID)
	}

	drone.ID = uuid.New().String()
	if drone.Status == "" {
		drone.Status = domain.DroneStatusIdle
	}
	if err := s.drones.Save(ctx, drone); err != nil {
		return err
	}

	s.log.Info("Drone registered", zap.String("drone_id", drone.DroneID), zap.String("name", drone.Name))
	return nil
}

func (s *Service) DeleteDrone(ctx context.Context, id string) error {
	drone, err := s.GetDrone(ctx, id)
	if err != nil {
		return err
	}
	if err := s.drones.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, "resolve:drone:"+normalizeName(drone.Name))
	return nil
}

// --- Areas ---

func (s *Service) ListAreas(ctx context.Context) ([]domain.Area, error) {
	return s.areas.FindAll(ctx)
}

func (s *Service) GetAreaByAreaID(ctx context.Context, areaID string) (*domain.Area, error) {
	area, err := s.areas.FindByAreaID(ctx, areaID)
	if err != nil {
		return nil, err
	}
	if area == nil {
		return nil, domain.ErrAreaNotFound
	}
	return area, nil
}

func (s *Service) CreateArea(ctx context.Context, area *domain.Area) error {
	area.Name = strings.TrimSpace(area.Name)
	area.AreaID = strings.TrimSpace(area.AreaID)
	if area.Name == "" || area.AreaID == "" {
		return fmt.Errorf("%w: name and area_id are required", domain.ErrInvalidInput)
	}

	existing, err := s.areas.FindByAreaID(ctx, area.AreaID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: area %s", domain.ErrAlreadyExists, area.AreaID)
	}

	area.ID = uuid.New().String()
	return s.areas.Save(ctx, area)
}

func (s *Service) DeleteArea(ctx context.Context, id string) error {
	area, err := s.areas.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if area == nil {
		return domain.ErrAreaNotFound
	}
	if err := s.areas.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, "resolve:target:"+normalizeName(area.Name))
	return nil
}

// --- Sensors ---

func (s *Service) ListSensors(ctx context.Context) ([]domain.Sensor, error) {
	return s.sensors.FindAll(ctx)
}

func (s *Service) GetSensorBySensorID(ctx context.Context, sensorID string) (*domain.Sensor, error) {
	sensor, err := s.sensors.FindBySensorID(ctx, sensorID)
	if err != nil {
		return nil, err
	}
	if sensor == nil {
		return nil, domain.ErrSensorNotFound
	}
	return sensor, nil
}

func (s *Service) CreateSensor(ctx context.Context, sensor *domain.Sensor) error {
	sensor.Name = strings.TrimSpace(sensor.Name)
	sensor.SensorID = strings.TrimSpace(sensor.SensorID)
	if sensor.Name == "" || sensor.SensorID == "" || sensor.AreaID == "" {
		return fmt.Errorf("%w: name, sensor_id and area_id are required", domain.ErrInvalidInput)
	}

	existing, err := s.sensors.FindBySensorID(ctx, sensor.SensorID)
	if err != nil {
		return err
	}
	if existing != nil {
		return fmt.Errorf("%w: sensor %s", domain.ErrAlreadyExists, sensor.SensorID)
	}

	area, err := s.areas.FindByAreaID(ctx, sensor.AreaID)
	if err != nil {
		return err
	}
	if area == nil {
		return fmt.Errorf("%w: %s", domain.ErrAreaNotFound, sensor.AreaID)
	}

	sensor.ID = uuid.New().String()
	return s.sensors.Save(ctx, sensor)
}

func (s *Service) DeleteSensor(ctx context.Context, id string) error {
	sensor, err := s.sensors.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sensor == nil {
		return domain.ErrSensorNotFound
	}
	if err := s.sensors.Delete(ctx, id); err != nil {
		return err
	}
	_ = s.cache.Delete(ctx, "resolve:target:"+normalizeName(sensor.Name))
	return nil
}

// --- Telemetry ---

// RecordTelemetry updates the drone's status and last-seen time and relays the
// frame to dashboards.
func (s *Service) RecordTelemetry(ctx context.Context, t domain.Telemetry) error {
	if t.DroneID == "" {
		return fmt.Errorf("%w: droneid is required", domain.ErrInvalidInput)
	}
	if t.Timestamp.IsZero() {
		t.Timestamp = s.now().UTC()
	}
	if t.Status == "" {
		t.Status = domain.DroneStatusInFlight
	}

	drone, err := s.drones.FindByDroneID(ctx, t.DroneID)
	if err != nil {
		return err
	}
	if drone == nil {
		return fmt.Errorf("%w: %s", domain.ErrDroneNotFound, t.DroneID)
	}

	if err := s.drones.UpdateStatus(ctx, t.DroneID, t.Status, t.Timestamp); err != nil {
		if !errors.Is(err, context.Canceled) {
			s.log.Error("Failed to update drone status", zap.String("drone_id", t.DroneID), zap.Error(err))
		}
		return err
	}

	telemetry.TelemetryFrames.Inc()
	if s.hub != nil {
		s.hub.Broadcast("telemetry", t)
	}
	return nil
}
