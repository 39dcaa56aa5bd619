package handler

import (
	"net/http"
	"strconv"

	apperrors "github.com/careerpath/mentor-server-go/internal/errors"
	"github.com/careerpath/mentor-server-go/internal/model"
	"github.com/careerpath/mentor-server-go/internal/service"
)

// ParseListQuery reads page, limit, sessionType and isActive. Missing or
// non-numeric page and limit fall back to the store defaults.
func ParseListQuery(r *http.Request) (service.ListQuery, error) {
	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))
	query := service.ListQuery{Page: page, Limit: limit}

	if raw := q.Get("sessionType"); raw != "" {
		st := model.SessionType(raw)
		if !st.Valid() {
			return query, apperrors.InvalidInput("sessionType", "unknown session type")
		}
		query.SessionType = &st
	}

	if raw := q.Get("isActive"); raw != "" {
		active := raw == "true"
		query.IsActive = &active
	}

	return query, nil
}
