// Package aggregate turns scan records into totals, rankings and extension buckets.
package aggregate

import (
	"math"
	"sort"

	"github.com/temirov/codemass/internal/types"
	"github.com/temirov/codemass/internal/utils"
)

// TopFileCount is the number of files listed in the ranking view.
const TopFileCount = 20

// ExtensionBucket accumulates the files that share one extension key.
type ExtensionBucket struct {
	Extension string
	FileCount int
	TokenSum  int
}

// Summary is the aggregated view of one scan.
type Summary struct {
	TotalFiles  int
	TotalTokens int
	TotalBytes  int64
	// AverageTokensPerFile is only meaningful when HasAverage is true.
	AverageTokensPerFile int
	HasAverage           bool
	// RankedFiles is sorted by token count, highest first. Equal counts keep scan order.
	RankedFiles []types.FileRecord
	// Extensions is sorted by token sum, highest first.
	Extensions []ExtensionBucket
}

// Summarize computes totals, the file ranking and the per-extension buckets.
func Summarize(records []types.FileRecord) Summary {
	summary := Summary{
		TotalFiles:  len(records),
		RankedFiles: append([]types.FileRecord(nil), records...),
	}

	bucketIndex := make(map[string]int)
	for _, record := range records {
		summary.TotalTokens += record.Tokens
		summary.TotalBytes += record.SizeBytes

		extensionKey := utils.ExtensionKey(record.Path)
		position, exists := bucketIndex[extensionKey]
		if !exists {
			position = len(summary.Extensions)
			bucketIndex[extensionKey] = position
			summary.Extensions = append(summary.Extensions, ExtensionBucket{Extension: extensionKey})
		}
		summary.Extensions[position].FileCount++
		summary.Extensions[position].TokenSum += record.Tokens
	}

	if summary.TotalFiles > 0 {
		summary.AverageTokensPerFile = int(math.Round(float64(summary.TotalTokens) / float64(summary.TotalFiles)))
		summary.HasAverage = true
	}

	sort.SliceStable(summary.RankedFiles, func(left, right int) bool {
		return summary.RankedFiles[left].Tokens > summary.RankedFiles[right].Tokens
	})
	sort.SliceStable(summary.Extensions, func(left, right int) bool {
		return summary.Extensions[left].TokenSum > summary.Extensions[right].TokenSum
	})
	return summary
}

// TopFiles returns the first limit ranked files, or all of them when fewer exist.
func (summary Summary) TopFiles(limit int) []types.FileRecord {
	if limit < 0 || limit >= len(summary.RankedFiles) {
		return summary.RankedFiles
	}
	return summary.RankedFiles[:limit]
}

// Percentage returns the share of all tokens held by bucket. It reports false
// when no tokens were counted.
func (summary Summary) Percentage(bucket ExtensionBucket) (float64, bool) {
	if summary.TotalTokens == 0 {
		return 0, false
	}
	return float64(bucket.TokenSum) / float64(summary.TotalTokens) * 100, true
}
