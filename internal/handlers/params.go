package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"property-sales-backend/internal/format"
)

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, invalidField(name, "must be a UUID")
	}
	return id, nil
}

func parseOptionalUUID(field, raw string) (*uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, invalidField(field, "must be a UUID")
	}
	return &id, nil
}

// parseDate reads a date field, falling back to def when empty.
func parseDate(field, raw string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		if def.IsZero() {
			return time.Time{}, invalidField(field, "is required")
		}
		return def, nil
	}
	t, err := format.ParseDate(raw)
	if err != nil {
		return time.Time{}, invalidField(field, "expected yyyy-mm-dd or dd-mm-yyyy")
	}
	return t, nil
}

func splitQuery(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
