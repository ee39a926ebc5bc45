package dashboard

type Tab int

const (
	TabAlerts Tab = iota
	TabLogs
	TabBlocked
	TabIntegrity
)

var tabNames = [...]string{"Alerts", "Logs", "Blocked", "Integrity"}

func (t Tab) String() string {
	if t < 0 || int(t) >= len(tabNames) {
		return "?"
	}
	return tabNames[t]
}

// AllTabs lists the tabs in display order.
func AllTabs() []Tab {
	return []Tab{TabAlerts, TabLogs, TabBlocked, TabIntegrity}
}

// Tabs keeps exactly one tab active at a time.
type Tabs struct {
	active  Tab
	version uint64
}

func NewTabs() *Tabs {
	return &Tabs{active: TabAlerts}
}

func (t *Tabs) Active() Tab { return t.active }

func (t *Tabs) IsActive(tab Tab) bool { return t.active == tab }

// Activate selects tab. Unknown tabs are ignored and false is returned.
func (t *Tabs) Activate(tab Tab) bool {
	if tab < 0 || int(tab) >= len(tabNames) {
		return false
	}
	if tab != t.active {
		t.active = tab
		t.version++
	}
	return true
}

func (t *Tabs) Next() {
	t.Activate(Tab((int(t.active) + 1) % len(tabNames)))
}

func (t *Tabs) Prev() {
	t.Activate(Tab((int(t.active) - 1 + len(tabNames)) % len(tabNames)))
}

func (t *Tabs) Version() uint64 { return t.version }
