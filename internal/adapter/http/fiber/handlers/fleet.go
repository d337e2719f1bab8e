package handlers

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/dronevox/internal/domain"
	"github.com/seu-repo/dronevox/internal/ports"
)

// FleetHandler exposes the drone/area/sensor registry and manual dispatch.
type FleetHandler struct {
	fleet    ports.FleetService
	dispatch ports.DispatchService
	log      *zap.Logger
}

func NewFleetHandler(fleet ports.FleetService, dispatch ports.DispatchService, log *zap.Logger) *FleetHandler {
	return &FleetHandler{
		fleet:    fleet,
		dispatch: dispatch,
		log:      log,
	}
}

func (h *FleetHandler) Register(r fiber.Router) {
	drones := r.Group("/drones")
	drones.Get("/", h.ListDrones)
	drones.Post("/", h.CreateDrone)
	drones.Post("/send", h.Send)
	drones.Post("/recall", h.Recall)
	drones.Get("/drone/:drone_id", h.GetDroneByDroneID)
	drones.Get("/name/:name", h.ResolveDrone)
	drones.Get("/:id", h.GetDrone)
	drones.Delete("/:id", h.DeleteDrone)

	areas := r.Group("/areas")
	areas.Get("/", h.ListAreas)
	areas.Post("/", h.CreateArea)
	areas.Get("/area/:area_id", h.GetArea)
	areas.Delete("/:id", h.DeleteArea)

	sensors := r.Group("/sensors")
	sensors.Get("/", h.ListSensors)
	sensors.Post("/", h.CreateSensor)
	sensors.Get("/sensor/:sensor_id", h.GetSensor)
	sensors.Delete("/:id", h.DeleteSensor)

	r.Get("/targets/name/:name", h.ResolveTarget)
}

// nameParam returns a path parameter with percent-escapes decoded so that
// "/drones/name/red%20falcon" resolves "red falcon".
func nameParam(c *fiber.Ctx, key string) string {
	raw := c.Params(key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func (h *FleetHandler) ListDrones(c *fiber.Ctx) error {
	drones, err := h.fleet.ListDrones(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(drones)
}

func (h *FleetHandler) GetDrone(c *fiber.Ctx) error {
	drone, err := h.fleet.GetDrone(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(drone)
}

func (h *FleetHandler) GetDroneByDroneID(c *fiber.Ctx) error {
	drone, err := h.fleet.GetDroneByDroneID(c.UserContext(), c.Params("drone_id"))
	if err != nil {
		return err
	}
	return c.JSON(drone)
}

func (h *FleetHandler) ResolveDrone(c *fiber.Ctx) error {
	drone, err := h.fleet.ResolveDrone(c.UserContext(), nameParam(c, "name"))
	if err != nil {
		return err
	}
	return c.JSON(drone)
}

func (h *FleetHandler) CreateDrone(c *fiber.Ctx) error {
	var drone domain.Drone
	if err := c.BodyParser(&drone); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.fleet.CreateDrone(c.UserContext(), &drone); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(drone)
}

func (h *FleetHandler) DeleteDrone(c *fiber.Ctx) error {
	if err := h.fleet.DeleteDrone(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FleetHandler) ListAreas(c *fiber.Ctx) error {
	areas, err := h.fleet.ListAreas(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(areas)
}

func (h *FleetHandler) GetArea(c *fiber.Ctx) error {
	area, err := h.fleet.GetAreaByAreaID(c.UserContext(), c.Params("area_id"))
	if err != nil {
		return err
	}
	return c.JSON(area)
}

func (h *FleetHandler) CreateArea(c *fiber.Ctx) error {
	var area domain.Area
	if err := c.BodyParser(&area); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.fleet.CreateArea(c.UserContext(), &area); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(area)
}

func (h *FleetHandler) DeleteArea(c *fiber.Ctx) error {
	if err := h.fleet.DeleteArea(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FleetHandler) ListSensors(c *fiber.Ctx) error {
	sensors, err := h.fleet.ListSensors(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(sensors)
}

func (h *FleetHandler) GetSensor(c *fiber.Ctx) error {
	sensor, err := h.fleet.GetSensorBySensorID(c.UserContext(), c.Params("sensor_id"))
	if err != nil {
		return err
	}
	return c.JSON(sensor)
}

func (h *FleetHandler) CreateSensor(c *fiber.Ctx) error {
	var sensor domain.Sensor
	if err := c.BodyParser(&sensor); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if err := h.fleet.CreateSensor(c.UserContext(), &sensor); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(sensor)
}

func (h *FleetHandler) DeleteSensor(c *fiber.Ctx) error {
	if err := h.fleet.DeleteSensor(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *FleetHandler) ResolveTarget(c *fiber.Ctx) error {
	target, err := h.fleet.ResolveTarget(c.UserContext(), nameParam(c, "name"))
	if err != nil {
		return err
	}
	return c.JSON(target)
}

// SendRequest addresses the drone and target by their hardware/registry ids.
// Coordinates, when given, override the ones stored for the target.
type SendRequest struct {
	DroneID   string   `json:"drone_id"`
	AreaID    string   `json:"area_id"`
	SensorID  string   `json:"sensor_id"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Altitude  *float64 `json:"altitude"`
}

type RecallRequest struct {
	DroneID string `json:"drone_id"`
}

func (h *FleetHandler) Send(c *fiber.Ctx) error {
	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.DroneID == "" || req.AreaID == "" {
		return fmt.Errorf("%w: drone_id and area_id are required", domain.ErrInvalidInput)
	}

	ctx := c.UserContext()
	drone, err := h.fleet.GetDroneByDroneID(ctx, req.DroneID)
	if err != nil {
		return err
	}
	area, err := h.fleet.GetAreaByAreaID(ctx, req.AreaID)
	if err != nil {
		return err
	}

	cmd := &domain.DroneCommand{
		Event:      domain.DroneEventSend,
		DroneID:    drone.DroneID,
		AreaID:     area.AreaID,
		Latitude:   area.Latitude,
		Longitude:  area.Longitude,
		Altitude:   req.Altitude,
		USBAddress: drone.USBAddress,
		Source:     "api",
	}
	if req.SensorID != "" {
		sensor, err := h.fleet.GetSensorBySensorID(ctx, req.SensorID)
		if err != nil {
			return err
		}
		if sensor.AreaID != area.AreaID {
			return fmt.Errorf("%w: sensor %s is not in area %s", domain.ErrInvalidInput, sensor.SensorID, area.AreaID)
		}
		lat, lon := sensor.Latitude, sensor.Longitude
		cmd.SensorID = sensor.SensorID
		cmd.Latitude, cmd.Longitude = &lat, &lon
	}
	if req.Latitude != nil && req.Longitude != nil {
		cmd.Latitude, cmd.Longitude = req.Latitude, req.Longitude
	}

	if err := h.dispatch.Dispatch(ctx, cmd); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(cmd)
}

func (h *FleetHandler) Recall(c *fiber.Ctx) error {
	var req RecallRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	if req.DroneID == "" {
		return fmt.Errorf("%w: drone_id is required", domain.ErrInvalidInput)
	}

	drone, err := h.fleet.GetDroneByDroneID(c.UserContext(), req.DroneID)
	if err != nil {
		return err
	}
	cmd, err := h.dispatch.Recall(c.UserContext(), drone, "api")
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(cmd)
}
