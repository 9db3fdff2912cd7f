package server

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"tubetracker/config"
	"tubetracker/feed"
	"tubetracker/profile"
	"tubetracker/youtube"
)

func (s *Server) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) handleValidatePin(c fiber.Ctx) error {
	// NewPinAuth already rejected bad PINs by the time we get here.
	return c.JSON(fiber.Map{"success": true})
}

// profileSummary is the lightweight profile listing in /api/state.
type profileSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ChannelCount int    `json:"channel_count"`
	Active       bool   `json:"active"`
}

func (s *Server) handleState(c fiber.Ctx) error {
	active := s.profiles.Active()

	all := s.profiles.List()
	summaries := make([]profileSummary, len(all))
	for i, p := range all {
		summaries[i] = profileSummary{
			ID:           p.ID,
			Name:         p.Name,
			ChannelCount: len(p.Channels),
			Active:       p.ID == active.ID,
		}
	}

	return c.JSON(fiber.Map{
		"profile":  active,
		"profiles": summaries,
		"config":   s.cfg.Get(),
		"scanning": s.runner.Scanning(),
	})
}

func (s *Server) handleFeed(c fiber.Ctx) error {
	active := s.profiles.Active()
	cfg := s.cfg.Get()

	minDuration := cfg.MinDurationSeconds
	if v := c.Query("minDuration"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "minDuration must be an integer")
		}
		minDuration = n
	}

	entries := feed.Filter(active.Feed.Entries, minDuration, c.Query("q"))
	if entries == nil {
		entries = []feed.VideoEntry{}
	}

	return c.JSON(fiber.Map{
		"entries":         entries,
		"last_fetched_at": active.Feed.LastFetchedAt,
		"last_error":      active.Feed.LastError,
	})
}

func (s *Server) handleCreateProfile(c fiber.Ctx) error {
	var req struct {
		Name string `json:"name"`
	}
	if err := c.Bind().JSON(&req); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Malformed request body")
	}

	p, err := s.profiles.Create(req.Name)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (s *Server) handleDeleteProfile(c fiber.Ctx) error {
	if err := s.profiles.Delete(c.Params("id")); err != nil {
		return s.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleActivateProfile(c fiber.Ctx) error {
	if err := s.profiles.SwitchActive(c.Params("id")); err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(s.profiles.Active())
}

func (s *Server) handleAddChannel(c fiber.Ctx) error {
	var req struct {
		Query string `json:"query"`
	}
	if err := c.Bind().JSON(&req); err != nil || req.Query == "" {
		return ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "A channel query is required")
	}

	ch, err := s.profiles.AddChannel(c.Context(), s.profiles.Active().ID, req.Query)
	if err != nil {
		return s.mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(ch)
}

func (s *Server) handleRemoveChannel(c fiber.Ctx) error {
	if err := s.profiles.RemoveChannel(s.profiles.Active().ID, c.Params("id")); err != nil {
		return s.mapError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) handleUpdateConfig(c fiber.Ctx) error {
	var patch config.Patch
	if err := c.Bind().JSON(&patch); err != nil {
		return ErrorResponse(c, fiber.StatusBadRequest, "INVALID_BODY", "Malformed request body")
	}
	return c.JSON(s.cfg.Update(patch))
}

func (s *Server) handleScan(c fiber.Ctx) error {
	if err := s.runner.ScanActive(c.Context()); err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{"profile": s.profiles.Active()})
}

func (s *Server) handleScanAll(c fiber.Ctx) error {
	if err := s.runner.ScanAll(c.Context()); err != nil {
		return s.mapError(c, err)
	}
	return c.JSON(fiber.Map{"profiles": s.profiles.List()})
}

// mapError translates the pipeline taxonomy into HTTP responses. ErrAuth maps
// to 401, which clients must treat as a forced logout.
func (s *Server) mapError(c fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, profile.ErrProfileNotFound):
		return ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "Profile not found")
	case errors.Is(err, profile.ErrDuplicateChannel):
		return ErrorResponse(c, fiber.StatusConflict, "DUPLICATE_CHANNEL", "Channel already added")
	case errors.Is(err, profile.ErrLastProfile):
		return ErrorResponse(c, fiber.StatusConflict, "LAST_PROFILE", "Cannot delete the last profile")
	case errors.Is(err, profile.ErrEmptyName):
		return ErrorResponse(c, fiber.StatusBadRequest, "INVALID_FIELD", "Profile name must not be empty")
	case errors.Is(err, youtube.ErrAuth):
		return ErrorResponse(c, fiber.StatusUnauthorized, "AUTH", err.Error())
	case errors.Is(err, youtube.ErrQuota):
		return ErrorResponse(c, fiber.StatusTooManyRequests, "QUOTA", err.Error())
	case errors.Is(err, youtube.ErrNotFound):
		return ErrorResponse(c, fiber.StatusNotFound, "NOT_FOUND", "No matching channel found")
	case errors.Is(err, feed.ErrResolutionIncomplete):
		return ErrorResponse(c, fiber.StatusUnprocessableEntity, "UNRESOLVABLE", "Channel has no uploads playlist")
	}

	var scanErr *feed.ScanError
	if errors.As(err, &scanErr) {
		return ErrorResponse(c, fiber.StatusBadGateway, "SCAN_FAILED", scanErr.Error())
	}

	s.log.Error().Err(err).Msg("unhandled error")
	return ErrorResponse(c, fiber.StatusBadGateway, "UPSTREAM", err.Error())
}
