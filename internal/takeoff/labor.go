package takeoff

// Complexity weights per wall. Each junction and each opening slows the
// masons down by a fixed fraction of a plain wall.
const (
	JunctionWeight = 0.25
	OpeningWeight  = 0.15
)

// LaborResult is the masonry crew estimate.
type LaborResult struct {
	Masons     int     `json:"masons"`
	Laborers   int     `json:"laborers"`
	Junctions  int     `json:"junctions"`
	Openings   int     `json:"openings"`
	Complexity float64 `json:"complexity"`
	Days       float64 `json:"days"`
	ManDays    float64 `json:"manDays"`
}

func (e *estimator) labor(blocks, junctions int) LaborResult {
	cfg := e.cfg
	openings := len(e.plan.Openings)
	r := LaborResult{
		Masons:     cfg.Masons,
		Laborers:   cfg.Laborers,
		Junctions:  junctions,
		Openings:   openings,
		Complexity: 1,
	}

	if walls := len(e.items); walls > 0 {
		w := float64(walls)
		r.Complexity += JunctionWeight*float64(junctions)/w + OpeningWeight*float64(openings)/w
	}
	if rate := float64(cfg.Masons) * cfg.TargetDailyRate; rate > 0 {
		r.Days = float64(blocks) * r.Complexity / rate
	}
	r.ManDays = r.Days * float64(cfg.Masons+cfg.Laborers)
	return r
}
