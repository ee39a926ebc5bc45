package api

type Mode string

const (
	ModeLearning   Mode = "Learning"
	ModeMonitoring Mode = "Monitoring"
)

// StatusSnapshot is the detector mode reported by /status.
type StatusSnapshot struct {
	Mode          Mode `json:"mode"`
	TimeRemaining int  `json:"time_remaining,omitempty"`
}

// Learning reports whether the detector is still building its baseline.
// Any mode other than Learning counts as monitoring.
func (s StatusSnapshot) Learning() bool {
	return s.Mode == ModeLearning
}

// ConnectionRecord is one observed connection from /traffic.
type ConnectionRecord struct {
	SrcIP      string   `json:"src_ip"`
	DstIP      string   `json:"dst_ip"`
	Country    string   `json:"country"`
	ExternalIP string   `json:"external_ip"`
	Score      float64  `json:"score"`
	Lat        *float64 `json:"lat,omitempty"`
	Lon        *float64 `json:"lon,omitempty"`
	Blocked    bool     `json:"blocked,omitempty"`
}

// Coordinates returns the record's location. Absent or zero values mean the
// record has no usable location.
func (r ConnectionRecord) Coordinates() (lat, lon float64, ok bool) {
	if r.Lat == nil || r.Lon == nil {
		return 0, 0, false
	}
	if *r.Lat == 0 || *r.Lon == 0 {
		return 0, 0, false
	}
	return *r.Lat, *r.Lon, true
}

// IntegrityEvent is one file drift report from /integrity.
type IntegrityEvent struct {
	Timestamp    string   `json:"timestamp"`
	Modified     []string `json:"modified"`
	Added        []string `json:"added"`
	Removed      []string `json:"removed"`
	TotalChanges int      `json:"total_changes,omitempty"`
}

// ForceScanResponse is the body of /force_integrity.
type ForceScanResponse struct {
	Status string          `json:"status"` // "changed" or "ok"
	Event  *IntegrityEvent `json:"event"`
}

// Changed reports whether the forced scan found drift.
func (f ForceScanResponse) Changed() bool {
	return f.Status == "changed" && f.Event != nil
}

// Float is a helper for building records with coordinates.
func Float(v float64) *float64 {
	return &v
}
