package web

import (
	"errors"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/teslashibe/go-dancebot/pkg/catalog"
	"github.com/teslashibe/go-dancebot/pkg/dispatch"
	"github.com/teslashibe/go-dancebot/pkg/intent"
	"github.com/teslashibe/go-dancebot/pkg/session"
)

// DanceRequest starts a timed dance session.
type DanceRequest struct {
	Seconds int    `json:"seconds"`
	Mode    string `json:"mode"` // "real" or "simulated" (default)
}

// ActionRequest plays a single action.
type ActionRequest struct {
	Mode string `json:"mode"`
}

// IntentRequest carries raw recognized speech text.
type IntentRequest struct {
	Text string `json:"text"`
}

// ActionInfo describes one catalog entry for listings.
type ActionInfo struct {
	Seq      uint8  `json:"seq"`
	Title    string `json:"title"`
	Label    string `json:"label"`
	Duration int64  `json:"duration_ms"`
	Category string `json:"category"`
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	return c.JSON(s.scheduler.Snapshot())
}

func (s *Server) handleListActions(c *fiber.Ctx) error {
	actions := s.store.Current().Actions()
	out := make([]ActionInfo, 0, len(actions))
	for _, a := range actions {
		out = append(out, ActionInfo{
			Seq:      a.Seq,
			Title:    a.Title,
			Label:    a.Label,
			Duration: a.Duration.Milliseconds(),
			Category: a.Category.String(),
		})
	}
	return c.JSON(out)
}

func (s *Server) handleDance(c *fiber.Ctx) error {
	var req DanceRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}

	id, err := s.scheduler.StartTimedDance(
		c.Context(), parseMode(req.Mode), time.Duration(req.Seconds)*time.Second)
	if err != nil {
		return commandError(err)
	}
	return c.JSON(fiber.Map{"session_id": id})
}

func (s *Server) handleSingleAction(c *fiber.Ctx) error {
	var req ActionRequest
	if err := c.BodyParser(&req); err != nil {
		req = ActionRequest{}
	}

	label, err := urlDecode(c.Params("label"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid label")
	}

	if err := s.scheduler.RunSingleAction(c.Context(), parseMode(req.Mode), label); err != nil {
		return commandError(err)
	}
	return c.JSON(s.scheduler.Snapshot())
}

func (s *Server) handleStop(c *fiber.Ctx) error {
	s.scheduler.Stop()
	return c.JSON(s.scheduler.Snapshot())
}

// handleIntent accepts recognized speech text and executes the dance
// command it maps to, if any.
func (s *Server) handleIntent(c *fiber.Ctx) error {
	var req IntentRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return fiber.NewError(fiber.StatusBadRequest, "text required")
	}

	labels := make([]string, 0, s.store.Current().Len())
	for _, a := range s.store.Current().Actions() {
		labels = append(labels, a.Label)
	}

	cmd, ok := intent.Parse(req.Text, labels)
	if !ok {
		return c.JSON(fiber.Map{"handled": false})
	}

	switch cmd.Kind {
	case intent.KindTimedDance:
		id, err := s.scheduler.StartTimedDance(c.Context(), cmd.Mode, cmd.Target)
		if err != nil {
			return commandError(err)
		}
		return c.JSON(fiber.Map{"handled": true, "session_id": id})
	case intent.KindSingleAction:
		if err := s.scheduler.RunSingleAction(c.Context(), cmd.Mode, cmd.Label); err != nil {
			return commandError(err)
		}
	case intent.KindStop:
		s.scheduler.Stop()
	case intent.KindQuery:
		return c.JSON(fiber.Map{"handled": true, "status": s.scheduler.Snapshot()})
	}
	return c.JSON(fiber.Map{"handled": true})
}

// urlDecode unescapes a path parameter so non-ASCII labels round-trip.
func urlDecode(s string) (string, error) {
	return url.PathUnescape(s)
}

func parseMode(s string) session.Mode {
	if s == "real" {
		return session.ModeReal
	}
	return session.ModeSimulated
}

// commandError distinguishes "bad command" from "hardware problem" from
// "busy" for the caller.
func commandError(err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, session.ErrBusy):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	case errors.Is(err, session.ErrBadDuration):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, dispatch.ErrHardwareUnavailable):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
