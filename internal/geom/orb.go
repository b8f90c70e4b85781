package geom

import "github.com/paulmach/orb"

// Orb converts the ring into a closed orb.Ring.
func (r Ring) Orb() orb.Ring {
	if len(r) == 0 {
		return nil
	}
	out := make(orb.Ring, 0, len(r)+1)
	for _, p := range r {
		out = append(out, orb.Point{p.X, p.Y})
	}
	return append(out, out[0])
}

// Orb converts the polygon into an orb.Polygon (shell first, then holes).
func (p Polygon) Orb() orb.Polygon {
	out := orb.Polygon{p.Shell.Orb()}
	for _, h := range p.Holes {
		out = append(out, h.Orb())
	}
	return out
}

// Orb converts the multi-polygon into an orb.MultiPolygon.
func (m MultiPolygon) Orb() orb.MultiPolygon {
	out := make(orb.MultiPolygon, 0, len(m))
	for _, p := range m {
		out = append(out, p.Orb())
	}
	return out
}

// RingFromOrb converts a closed or open orb.Ring, dropping the closing point.
func RingFromOrb(r orb.Ring) Ring {
	n := len(r)
	if n > 1 && r[0] == r[n-1] {
		n--
	}
	out := make(Ring, 0, n)
	for _, p := range r[:n] {
		out = append(out, Point{p[0], p[1]})
	}
	return out
}

// PolygonFromOrb converts an orb.Polygon into a normalized Polygon.
func PolygonFromOrb(p orb.Polygon) Polygon {
	if len(p) == 0 {
		return Polygon{}
	}
	out := Polygon{Shell: RingFromOrb(p[0])}
	for _, h := range p[1:] {
		out.Holes = append(out.Holes, RingFromOrb(h))
	}
	return out.Normalized()
}
