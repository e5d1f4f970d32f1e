package session

import (
	"errors"
	"time"

	"backend-mapty/internal/observability"
	"backend-mapty/internal/shared/geo"
	"backend-mapty/internal/workout"

	"github.com/gofiber/fiber/v2"
)

type coordinates struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

func (c coordinates) location() (geo.Location, bool) {
	if c.Lat == nil || c.Lng == nil {
		return geo.Location{}, false
	}
	return geo.Location{Lat: *c.Lat, Lng: *c.Lng}, true
}

// workoutView is a record plus its distance from the current map center.
type workoutView struct {
	workout.Record
	DistanceFromCenterKm *float64 `json:"distance_from_center_km,omitempty"`
}

type snapshotResponse struct {
	ID        string        `json:"id"`
	Owner     string        `json:"owner"`
	CreatedAt time.Time     `json:"created_at"`
	State     workout.State `json:"state"`
	Pending   *geo.Location `json:"pending,omitempty"`
	View      workout.View  `json:"view"`
	Workouts  []workoutView `json:"workouts"`
}

type submitResponse struct {
	Workout workout.Record  `json:"workout"`
	Marker  workout.Marker  `json:"marker"`
	Summary workout.Summary `json:"summary"`
}

func RegisterRoutes(r fiber.Router, mgr *Manager, authMiddleware fiber.Handler) {
	r.Post("/", authMiddleware, func(c *fiber.Ctx) error {
		info, err := mgr.Create(userID(c))
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(info)
	})

	r.Get("/:id", func(c *fiber.Ctx) error {
		info, err := mgr.Info(c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		var snap workout.Snapshot
		err = mgr.Read(info.ID, func(rec *workout.Recorder) error {
			snap = rec.Snapshot()
			return nil
		})
		if err != nil {
			return respondError(c, err)
		}

		resp := snapshotResponse{
			ID:        info.ID,
			Owner:     info.Owner,
			CreatedAt: info.CreatedAt,
			State:     snap.State,
			Pending:   snap.Pending,
			View:      snap.View,
			Workouts:  make([]workoutView, 0, len(snap.Workouts)),
		}
		for _, w := range snap.Workouts {
			view := workoutView{Record: w}
			if snap.View.Center != nil {
				d := geo.DistanceKm(*snap.View.Center, w.Location)
				view.DistanceFromCenterKm = &d
			}
			resp.Workouts = append(resp.Workouts, view)
		}
		return c.JSON(resp)
	})

	r.Delete("/:id", authMiddleware, func(c *fiber.Ctx) error {
		if err := mgr.End(c.Params("id"), userID(c)); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Post("/:id/geolocation", authMiddleware, func(c *fiber.Ctx) error {
		var body struct {
			coordinates
			Error string `json:"error"`
		}
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var result workout.GeolocationResult
		switch body.Error {
		case "":
			loc, ok := body.location()
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "lat and lng required")
			}
			result.Location = loc
		case "denied":
			result.Err = workout.ErrGeolocationDenied
		default:
			result.Err = workout.ErrGeolocationUnavailable
		}

		var req workout.CenterRequest
		err := mgr.Do(c.Params("id"), userID(c), func(rec *workout.Recorder) error {
			var err error
			req, err = rec.OnGeolocationResult(result)
			return err
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(req)
	})

	r.Post("/:id/map-click", authMiddleware, func(c *fiber.Ctx) error {
		var body coordinates
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		loc, ok := body.location()
		if !ok {
			return fiber.NewError(fiber.StatusBadRequest, "lat and lng required")
		}

		var state workout.State
		err := mgr.Do(c.Params("id"), userID(c), func(rec *workout.Recorder) error {
			if _, err := rec.OnMapClick(loc); err != nil {
				return err
			}
			state = rec.State()
			return nil
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"pending": loc, "state": state})
	})

	r.Delete("/:id/pending", authMiddleware, func(c *fiber.Ctx) error {
		err := mgr.Do(c.Params("id"), userID(c), func(rec *workout.Recorder) error {
			rec.CancelPending()
			return nil
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	r.Get("/:id/form", func(c *fiber.Ctx) error {
		if !mgr.Exists(c.Params("id")) {
			return respondError(c, ErrSessionNotFound)
		}
		kind := workout.Kind(c.Query("type", string(workout.KindRunning)))
		field, err := workout.FieldsFor(kind)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{
			"type":   kind,
			"fields": []string{"distance", "duration", field},
		})
	})

	r.Post("/:id/workouts", authMiddleware, func(c *fiber.Ctx) error {
		var form workout.FormFields
		if err := c.BodyParser(&form); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var created workout.Record
		err := mgr.Do(c.Params("id"), userID(c), func(rec *workout.Recorder) error {
			var err error
			created, err = rec.SubmitWorkout(form)
			return err
		})
		if err != nil {
			return respondError(c, err)
		}
		observability.RecordWorkout(string(created.Kind))
		return c.Status(fiber.StatusCreated).JSON(submitResponse{
			Workout: created,
			Marker:  workout.NewMarker(created),
			Summary: workout.NewSummary(created),
		})
	})

	r.Get("/:id/workouts", func(c *fiber.Ctx) error {
		var records []workout.Record
		err := mgr.Read(c.Params("id"), func(rec *workout.Recorder) error {
			records = rec.Workouts()
			return nil
		})
		if err != nil {
			return respondError(c, err)
		}
		if records == nil {
			records = []workout.Record{}
		}
		return c.JSON(records)
	})

	r.Get("/:id/workouts/:workoutID", func(c *fiber.Ctx) error {
		var found workout.Record
		err := mgr.Read(c.Params("id"), func(rec *workout.Recorder) error {
			var err error
			found, err = rec.Find(c.Params("workoutID"))
			return err
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(found)
	})

	r.Post("/:id/workouts/:workoutID/focus", authMiddleware, func(c *fiber.Ctx) error {
		var req workout.CenterRequest
		err := mgr.Do(c.Params("id"), userID(c), func(rec *workout.Recorder) error {
			var err error
			req, err = rec.OnListItemClick(c.Params("workoutID"))
			return err
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(req)
	})
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// respondError maps domain errors onto HTTP statuses. User-correctable
// rejections carry the notice text in "message".
func respondError(c *fiber.Ctx, err error) error {
	var verr *workout.ValidationError
	if errors.As(err, &verr) {
		observability.RecordValidationFailure(verr.Reason())
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   verr.Reason(),
			"message": verr.Message,
		})
	}
	var gerr *workout.GeolocationError
	if errors.As(err, &gerr) {
		observability.RecordGeolocationFailure(gerr.Reason())
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":   "geolocation_" + gerr.Reason(),
			"message": gerr.Message,
		})
	}

	switch {
	case errors.Is(err, ErrSessionNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, workout.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "workout not found")
	case errors.Is(err, ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, geo.ErrInvalidLocation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}
