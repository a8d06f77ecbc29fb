package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/metinatakli/hall-designer/api"
	"github.com/metinatakli/hall-designer/internal/domain"
	"github.com/redis/go-redis/v9"
)

// scheduleCacheKeySet tracks every cached schedule key so rollover and
// invalidation can find them without scanning the keyspace.
const scheduleCacheKeySet = "schedule_cache_keys"

func scheduleCacheKey(filmID int) string {
	return fmt.Sprintf("schedule:%d", filmID)
}

// GetFilmSchedule returns the film's showtimes for the schedule window. A
// manager-authored custom schedule wins outright; otherwise the schedule is
// generated from the film's eligible halls and cached until midnight.
func (app *application) GetFilmSchedule(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	filmID, err := readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	_, err = app.filmRepo.GetById(r.Context(), filmID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	cacheKey := scheduleCacheKey(filmID)

	cached, err := app.redis.Get(r.Context(), cacheKey).Result()
	if err == nil {
		var resp api.ScheduleResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			err = app.writeJSON(w, http.StatusOK, resp, nil)
			if err != nil {
				app.serverErrorResponse(w, r, err)
			}

			return
		}

		logger.Warn("dropping undecodable schedule cache entry", "film_id", filmID)
	} else if err != redis.Nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	prefs, err := app.scheduleRepo.GetHallPreferences(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	overrides, err := app.scheduleRepo.GetCustomSchedules(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	knownHalls, err := app.layoutRepo.ListNames(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.randMu.Lock()
	entries := domain.Generate(filmID, prefs, overrides, knownHalls, app.rand)
	app.randMu.Unlock()

	_, hasOverride := overrides[filmID]

	resp := api.ScheduleResponse{
		FilmId:   filmID,
		Entries:  toApiScheduleEntries(entries),
		Override: hasOverride,
	}

	app.cacheSchedule(r.Context(), cacheKey, resp, logger)

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) PutHallPreferences(w http.ResponseWriter, r *http.Request) {
	filmID, err := readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.HallPreferencesRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	_, err = app.filmRepo.GetById(r.Context(), filmID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	prefs, err := app.scheduleRepo.GetHallPreferences(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if len(input.Halls) == 0 {
		delete(prefs, filmID)
	} else {
		prefs[filmID] = input.Halls
	}

	err = app.scheduleRepo.PutHallPreferences(r.Context(), prefs)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.invalidateFilmScheduleCache(r.Context(), filmID)

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) PutCustomSchedule(w http.ResponseWriter, r *http.Request) {
	filmID, err := readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var input api.CustomScheduleRequest

	err = app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	_, err = app.filmRepo.GetById(r.Context(), filmID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	schedules, err := app.scheduleRepo.GetCustomSchedules(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	schedules[filmID] = toDomainScheduleEntries(input.Entries)

	err = app.scheduleRepo.PutCustomSchedules(r.Context(), schedules)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.invalidateFilmScheduleCache(r.Context(), filmID)

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) DeleteCustomSchedule(w http.ResponseWriter, r *http.Request) {
	filmID, err := readIDParam(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	schedules, err := app.scheduleRepo.GetCustomSchedules(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	if _, ok := schedules[filmID]; !ok {
		app.notFoundResponse(w, r)
		return
	}

	delete(schedules, filmID)

	err = app.scheduleRepo.PutCustomSchedules(r.Context(), schedules)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	app.invalidateFilmScheduleCache(r.Context(), filmID)

	w.WriteHeader(http.StatusNoContent)
}

func (app *application) cacheSchedule(ctx context.Context, cacheKey string, resp api.ScheduleResponse, logger *slog.Logger) {
	payload, err := json.Marshal(resp)
	if err != nil {
		logger.Error("failed to encode schedule for caching", "error", err)
		return
	}

	pipe := app.redis.TxPipeline()
	pipe.Set(ctx, cacheKey, payload, untilMidnight(time.Now()))
	pipe.SAdd(ctx, scheduleCacheKeySet, cacheKey)

	if _, err := pipe.Exec(ctx); err != nil {
		logger.Error("failed to cache schedule", "error", err)
	}
}

// untilMidnight bounds a cache entry's life to the current date: day ranks
// shift at the date boundary.
func untilMidnight(now time.Time) time.Duration {
	midnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())

	return midnight.Sub(now)
}

// invalidateScheduleCache drops every cached schedule. Creating or deleting
// a hall changes the known-hall universe, which can change any film's
// schedule.
func (app *application) invalidateScheduleCache(ctx context.Context) {
	if err := app.clearScheduleCache(ctx); err != nil {
		app.logger.Error("failed to invalidate schedule cache", "error", err)
	}
}

func (app *application) invalidateFilmScheduleCache(ctx context.Context, filmID int) {
	cacheKey := scheduleCacheKey(filmID)

	pipe := app.redis.TxPipeline()
	pipe.Del(ctx, cacheKey)
	pipe.SRem(ctx, scheduleCacheKeySet, cacheKey)

	if _, err := pipe.Exec(ctx); err != nil {
		app.logger.Error("failed to invalidate schedule cache", "film_id", filmID, "error", err)
	}
}

func (app *application) clearScheduleCache(ctx context.Context) error {
	keys, err := app.redis.SMembers(ctx, scheduleCacheKeySet).Result()
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	return app.redis.Del(ctx, append(keys, scheduleCacheKeySet)...).Err()
}

func toApiScheduleEntries(entries []domain.ScheduleEntry) []api.ScheduleEntry {
	out := make([]api.ScheduleEntry, len(entries))

	for i, e := range entries {
		out[i] = api.ScheduleEntry{
			Day:      string(e.Day),
			Time:     e.Time,
			HallName: e.HallName,
		}
	}

	return out
}

func toDomainScheduleEntries(entries []api.ScheduleEntry) []domain.ScheduleEntry {
	out := make([]domain.ScheduleEntry, len(entries))

	for i, e := range entries {
		out[i] = domain.ScheduleEntry{
			Day:      domain.Day(e.Day),
			Time:     e.Time,
			HallName: e.HallName,
		}
	}

	return out
}
