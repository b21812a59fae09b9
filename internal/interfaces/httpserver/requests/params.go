package requests

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"agenthub/services/agent-api/internal/utils/platformerrors"
)

// UintParam parses a numeric path parameter.
func UintParam(reqCtx *gin.Context, name string) (uint, error) {
	raw := reqCtx.Param(name)
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
			"invalid "+name, err, "04aecd25-bd32-428b-864d-aeb7ecb06e53")
	}
	return uint(parsed), nil
}

// IntQuery parses an optional integer query parameter, returning def when
// absent.
func IntQuery(reqCtx *gin.Context, name string, def int) (int, error) {
	raw := reqCtx.Query(name)
	if raw == "" {
		return def, nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
			"invalid "+name, err, "a3e0ea22-afc6-45df-b686-a194868af415")
	}
	return parsed, nil
}

// BoolQuery parses an optional boolean query parameter, nil when absent.
func BoolQuery(reqCtx *gin.Context, name string) (*bool, error) {
	raw := reqCtx.Query(name)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, platformerrors.NewError(reqCtx.Request.Context(), platformerrors.LayerRoute, platformerrors.ErrorTypeValidation,
			"invalid "+name, err, "1f9ee4ee-56ed-448e-9296-d978c9a03726")
	}
	return &parsed, nil
}
