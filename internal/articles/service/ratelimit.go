package service

import (
	"errors"
	"net/http"
	"strings"

	"github.com/DenisKhanov/CandleArticles/internal/articles/apperrors"
)

// rateLimitMarkers are matched case-insensitively against the error text.
var rateLimitMarkers = []string{"rate limit", "quota", "429", "resource_exhausted"}

// IsRateLimited reports whether err signals provider throttling and is worth retrying.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}

	var failure *apperrors.ProviderFailure
	if errors.As(err, &failure) {
		if failure.StatusCode == http.StatusTooManyRequests || strings.EqualFold(failure.Code, "RESOURCE_EXHAUSTED") {
			return true
		}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
