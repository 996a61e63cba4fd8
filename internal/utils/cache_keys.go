package utils

import (
	"strconv"
	"strings"
)

// SummaryGenerationKey holds the per-user counter bumped on every write.
func SummaryGenerationKey(userID string) string {
	return "summary:gen:v1:user=" + userID
}

// BuildSummaryCacheKey embeds the generation so a bump orphans old entries.
func BuildSummaryCacheKey(userID string, generation int64, rangeKey string) string {
	return "summary:v1:user=" + userID +
		":gen=" + strconv.FormatInt(generation, 10) +
		":range=" + strings.ToLower(strings.TrimSpace(rangeKey))
}
