package dashboard

import (
	"fmt"
	"strings"
	"time"

	"aura-radar/internal/api"
	"aura-radar/internal/risk"
)

// maxPathsShown caps how many paths of each integrity category are listed.
const maxPathsShown = 5

const timeLayout = "15:04:05"

// StatusFromResult projects one /status fetch onto the status line.
func StatusFromResult(res api.Result[api.StatusSnapshot]) Status {
	if !res.OK() {
		return Status{State: StatusError, Text: "Error"}
	}
	if res.Value.Learning() {
		return Status{
			State: StatusLearning,
			Text:  fmt.Sprintf("Learning… (%ds remaining)", res.Value.TimeRemaining),
		}
	}
	return Status{State: StatusMonitoring, Text: "Monitoring"}
}

// ConnectionEntry renders one connection record for the alerts or logs region.
func ConnectionEntry(rec api.ConnectionRecord, bucket risk.Bucket, at time.Time) Entry {
	country := rec.Country
	if country == "" {
		country = "Unknown"
	}
	ip := rec.ExternalIP
	if ip == "" {
		ip = rec.DstIP
	}

	title := fmt.Sprintf("[%s] %s (%s) score %.2f", at.Format(timeLayout), ip, country, rec.Score)
	if rec.Blocked {
		title += " BLOCKED"
	}

	kind := KindLog
	if bucket == risk.HighRisk {
		kind = KindAlert
	}

	return Entry{
		At:      at,
		Kind:    kind,
		Bucket:  bucket,
		Title:   title,
		Details: []string{fmt.Sprintf("  %s -> %s", rec.SrcIP, rec.DstIP)},
	}
}

func BlockedEntry(ip string) Entry {
	return Entry{
		Kind:   KindBlocked,
		Bucket: risk.HighRisk,
		Title:  ip,
	}
}

// IntegrityEntry summarizes a drift event: counts first, then a short list per category.
func IntegrityEntry(ev api.IntegrityEvent, at time.Time) Entry {
	ts := ev.Timestamp
	if ts == "" {
		ts = at.Format("2006-01-02 15:04:05")
	}

	return Entry{
		At:   at,
		Kind: KindIntegrity,
		Title: fmt.Sprintf("[%s] Modified: %d | Added: %d | Removed: %d",
			ts, len(ev.Modified), len(ev.Added), len(ev.Removed)),
		Details: []string{
			"  Modified: " + pathList(ev.Modified),
			"  Added: " + pathList(ev.Added),
			"  Removed: " + pathList(ev.Removed),
		},
	}
}

func pathList(paths []string) string {
	if len(paths) == 0 {
		return "None"
	}
	shown := paths
	if len(shown) > maxPathsShown {
		shown = shown[:maxPathsShown]
	}
	out := strings.Join(shown, ", ")
	if extra := len(paths) - len(shown); extra > 0 {
		out += fmt.Sprintf(" (+%d more)", extra)
	}
	return out
}
