// Package output renders the codemass text report.
package output

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/codemass/internal/aggregate"
	"github.com/temirov/codemass/internal/pricing"
	"github.com/temirov/codemass/internal/utils"
)

const (
	reportTitle            = "CODEMASS ANALYSIS"
	fileTypeHeader         = "BY FILE TYPE:"
	topFilesHeaderFormat   = "TOP %d FILES BY TOKEN COUNT:"
	costHeaderFormat       = "COST ESTIMATION (%s):"
	headerLineFormat       = "\n⚖️  Weighing: %s\n\n"
	noFilesMessage         = "No code files found in the specified directory.\n"
	availableModelsHeader  = "\nAvailable Models:\n\n"
	totalFilesFormat       = "Total Files: %s\n"
	totalTokensFormat      = "Total Tokens: %s (%s tokenizer)\n"
	totalSizeFormat        = "Total Size: %s\n"
	averageTokensFormat    = "Average Tokens/File: %s\n"
	extensionRowFormat     = "%-10s %12s tokens (%4s%%) - %d files\n"
	fileRowFormat          = "%10s    %10s    %s\n"
	inputCostFormat        = "Input:  ~$%.2f ($%s/1M tokens)\n"
	outputCostFormat       = "Output: ~$%.2f ($%s/1M tokens)\n"
	totalCostFormat        = "Total:  ~$%.2f (if output = input size)\n"
	tokenizerCaveatFormat  = "\nNote: Token count is estimated using OpenAI's tokenizer (%s).\n      Actual tokens for non-OpenAI models may vary slightly.\n"
	undefinedPercentage    = "n/a"
	wideRuleWidth          = 80
	narrowRuleWidth        = 40
	percentageDecimalPlace = 1
)

var (
	doubleRule = strings.Repeat("=", wideRuleWidth)
	wideRule   = strings.Repeat("-", wideRuleWidth)
	narrowRule = strings.Repeat("-", narrowRuleWidth)
)

// ReportData carries everything the report shows.
type ReportData struct {
	Summary      aggregate.Summary
	ModelID      string
	Model        pricing.Model
	EncodingName string
}

// RenderHeader returns the banner printed before scanning starts.
func RenderHeader(displayPath string) string {
	return fmt.Sprintf(headerLineFormat, displayPath)
}

// RenderNoFiles returns the message printed when nothing was counted.
func RenderNoFiles() string {
	return noFilesMessage
}

// RenderModelList returns the model listing printed by --list-models.
func RenderModelList(table *pricing.Table) string {
	return availableModelsHeader + table.FormatModelList() + "\n"
}

// RenderReport returns the full analysis: totals, the per-extension
// breakdown, the top files and the cost estimate.
func RenderReport(data ReportData) string {
	var buffer bytes.Buffer
	summary := data.Summary

	buffer.WriteString(doubleRule + "\n")
	buffer.WriteString(reportTitle + "\n")
	buffer.WriteString(doubleRule + "\n")
	fmt.Fprintf(&buffer, totalFilesFormat, utils.FormatCount(summary.TotalFiles))
	fmt.Fprintf(&buffer, totalTokensFormat, utils.FormatCount(summary.TotalTokens), data.EncodingName)
	fmt.Fprintf(&buffer, totalSizeFormat, utils.FormatFileSize(summary.TotalBytes))
	if summary.HasAverage {
		fmt.Fprintf(&buffer, averageTokensFormat, utils.FormatCount(summary.AverageTokensPerFile))
	}

	buffer.WriteString("\n" + fileTypeHeader + "\n")
	buffer.WriteString(narrowRule + "\n")
	for _, bucket := range summary.Extensions {
		fmt.Fprintf(&buffer, extensionRowFormat, bucket.Extension, utils.FormatCount(bucket.TokenSum), formatPercentage(summary, bucket), bucket.FileCount)
	}

	buffer.WriteString("\n" + fmt.Sprintf(topFilesHeaderFormat, aggregate.TopFileCount) + "\n")
	buffer.WriteString(wideRule + "\n")
	fmt.Fprintf(&buffer, fileRowFormat, "Tokens", "Size", "Path")
	buffer.WriteString(wideRule + "\n")
	for _, record := range summary.TopFiles(aggregate.TopFileCount) {
		fmt.Fprintf(&buffer, fileRowFormat, utils.FormatCount(record.Tokens), utils.FormatFileSize(record.SizeBytes), record.Path)
	}

	buffer.WriteString(renderCost(data))
	buffer.WriteString(doubleRule + "\n")
	return buffer.String()
}

func renderCost(data ReportData) string {
	var buffer bytes.Buffer
	estimate := pricing.EstimateCost(data.Summary.TotalTokens, data.Model)

	buffer.WriteString("\n" + doubleRule + "\n")
	fmt.Fprintf(&buffer, costHeaderFormat+"\n", data.Model.Name)
	fmt.Fprintf(&buffer, inputCostFormat, estimate.Input, pricing.FormatPrice(data.Model.InputCostPerMillion))
	fmt.Fprintf(&buffer, outputCostFormat, estimate.Output, pricing.FormatPrice(data.Model.OutputCostPerMillion))
	fmt.Fprintf(&buffer, totalCostFormat, estimate.Total())
	if !pricing.IsOpenAIModel(data.ModelID) {
		fmt.Fprintf(&buffer, tokenizerCaveatFormat, data.EncodingName)
	}
	return buffer.String()
}

func formatPercentage(summary aggregate.Summary, bucket aggregate.ExtensionBucket) string {
	percentage, defined := summary.Percentage(bucket)
	if !defined {
		return undefinedPercentage
	}
	return strconv.FormatFloat(percentage, 'f', percentageDecimalPlace, 64)
}
