package services

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"growth-hub/models"
)

// PrintReport renders a run's ranked platforms and insights for the terminal.
func PrintReport(w io.Writer, r *RunResult) {
	sep := strings.Repeat("═", 64)
	thin := strings.Repeat("─", 64)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📈 GROWTH ANALYSIS: %s\033[0m\n", strings.ToUpper(r.Business.Name))
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Industry       : \033[1m%s\033[0m\n", displayOr(r.Business.Industry, "unspecified"))
	fmt.Fprintf(w, "  Search queries : %s\n", strings.Join(r.Queries, ", "))
	fmt.Fprintf(w, "  Run            : %s\n", r.RunID)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Platforms by Recommendation Score\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.Analytics) == 0 {
		fmt.Fprintf(w, "  No platforms analyzed\n")
	} else {
		fmt.Fprintf(w, "  %-3s %-10s %8s %10s %10s %11s %7s\n",
			"#", "Platform", "Listings", "Avg price", "Avg rating", "Competition", "Score")
		for i, a := range r.Analytics {
			fmt.Fprintf(w, "  \033[1m%-3d\033[0m %-10s %8d %10s %10s %11s \033[1;32m%7.1f\033[0m\n",
				i+1, a.Platform, a.TotalListings,
				optional(a.AvgPrice, "₹%.0f"), optional(a.AvgRating, "%.1f ★"),
				a.CompetitionLevel, a.RecommendationScore)
		}
	}
	fmt.Fprintln(w)

	for _, in := range r.Insights {
		fmt.Fprintf(w, "\033[1;33m  %s\033[0m \033[2m(confidence %d%%)\033[0m\n", in.Title(), in.Confidence)
		fmt.Fprintf(w, "  %s\n", thin)
		for _, line := range insightLines(in) {
			fmt.Fprintf(w, "  %s\n", line)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)
}

// insightLines flattens a payload into printable lines, keys in sorted order.
func insightLines(in models.Insight) []string {
	keys := make([]string, 0, len(in.Payload))
	for k := range in.Payload {
		if k != "title" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		label := strings.ReplaceAll(k, "_", " ")
		switch v := in.Payload[k].(type) {
		case string:
			lines = append(lines, fmt.Sprintf("%s: %s", label, v))
		case []string:
			lines = append(lines, label+":")
			for _, item := range v {
				lines = append(lines, "  • "+item)
			}
		case []any:
			lines = append(lines, label+":")
			for _, item := range v {
				lines = append(lines, fmt.Sprintf("  • %v", item))
			}
		case map[string]string:
			lines = append(lines, label+":")
			for _, mk := range sortedKeys(v) {
				lines = append(lines, fmt.Sprintf("  • %s: %s", mk, v[mk]))
			}
		case map[string]any:
			lines = append(lines, label+":")
			for _, mk := range sortedKeys(v) {
				lines = append(lines, fmt.Sprintf("  • %s: %v", mk, v[mk]))
			}
		default:
			lines = append(lines, fmt.Sprintf("%s: %v", label, v))
		}
	}
	return lines
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func optional(v float64, format string) string {
	if v <= 0 {
		return "-"
	}
	return fmt.Sprintf(format, v)
}

func displayOr(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
