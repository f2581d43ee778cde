package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"text/tabwriter"

	"github.com/pmorin/netwatch/internal/domain"
)

func main() {
	api := os.Getenv("API_BASE")
	if api == "" {
		api = "http://localhost:8080"
	}
	hours := "24"
	if len(os.Args) > 1 {
		hours = os.Args[1]
	}

	resp, err := http.Get(api + "/api/summary?hours=" + hours)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error contacting API:", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintln(os.Stderr, "API returned status:", resp.Status)
		os.Exit(1)
	}

	var sums []domain.Summary
	if err := json.NewDecoder(resp.Body).Decode(&sums); err != nil {
		fmt.Fprintln(os.Stderr, "Decode error:", err)
		os.Exit(1)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "HOST\tSAMPLES\tAVG LATENCY\tLOSS\tUPTIME\tOUTAGES")
	for _, s := range sums {
		lat := "n/a"
		if s.AvgLatency != nil {
			lat = fmt.Sprintf("%.1f ms", *s.AvgLatency)
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%.1f%%\t%.1f%%\t%d\n",
			s.Host, s.SampleCount, lat, s.PacketLoss, s.UptimePercent, s.TotalOutages)
	}
	w.Flush()
}
