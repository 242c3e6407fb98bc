package cli

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/mchmarny/escape/pkg/data"
	"github.com/mchmarny/escape/pkg/escape"
)

const historyLimitMax = 1000

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func scoreAPIHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		x, ok := queryParamFloat(r, "x")
		if !ok {
			writeError(w, http.StatusBadRequest, "x must be a number")
			return
		}
		y, ok := queryParamFloat(r, "y")
		if !ok {
			writeError(w, http.StatusBadRequest, "y must be a number")
			return
		}

		res := escape.Iterate(x, y)

		if save, _ := strconv.ParseBool(r.URL.Query().Get("save")); save {
			if err := data.SaveScore(db, res); err != nil {
				slog.Error("failed to save score", "x", x, "y", y, "error", err)
				writeError(w, http.StatusInternalServerError, "failed to save score")
				return
			}
		}

		writeJSON(w, http.StatusOK, res)
	}
}

func historyAPIHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryParamInt(r, "limit", data.ScoreListLimitDefault)
		list, err := data.ListScores(db, limit)
		if err != nil {
			slog.Error("failed to list scores", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to list scores")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

func statsAPIHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		s, err := data.GetStats(db)
		if err != nil {
			slog.Error("failed to get stats", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get stats")
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

// queryParamFloat parses a required float query parameter. JSON cannot carry
// NaN or infinity, so only finite values are accepted.
func queryParamFloat(r *http.Request, key string) (float64, bool) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Debug("error converting query string to float", "key", key, "value", v, "error", err)
		return 0, false
	}
	if !isFinite(f) {
		return 0, false
	}
	return f, true
}

func queryParamInt(r *http.Request, key string, def int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def
	}

	i, err := strconv.Atoi(v)
	if err != nil {
		slog.Error("error converting query string to int", "value", v, "error", err)
		return def
	}

	if i < 1 || i > historyLimitMax {
		return def
	}

	return i
}
