package ioconfig

import (
	"encoding/xml"
	"io"
	"strconv"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/liouvillean"
	"github.com/edmdsim/dynamogo/local"
	"github.com/edmdsim/dynamogo/particle"
	"github.com/edmdsim/dynamogo/simerr"
	"github.com/edmdsim/dynamogo/species"
)

// Config is everything Load recovers from a config/state file:
// enough to build a cell.Grid, a scheduler.Scheduler and a
// simulation.Simulation, but stops short of doing so itself — that
// wiring belongs to the command that owns the run (top-level
// schema: Simulation/Dynamics/ParticleData/Scheduler).
type Config struct {
	Size      geom.Vec
	Units     Units
	BC        geom.BoundaryCondition
	Dynamics  liouvillean.Dynamics
	Species   species.Table
	Locals    []local.Local
	Particles []*particle.Particle

	SchedulerType string
	Lambda        float64
	OverLink      int
}

// Load parses a config/state document into a Config.
func Load(r io.Reader) (*Config, error) {
	var root Node
	dec := xml.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, simerr.NewConfigError("ioconfig.Load", "malformed XML: %v", err)
	}
	if root.XMLName.Local != "Simulation" {
		return nil, simerr.NewConfigError("ioconfig.Load", "root element is <%s>, want <Simulation>", root.XMLName.Local)
	}

	dynNode, ok := root.Child("Dynamics")
	if !ok {
		return nil, simerr.NewConfigError("ioconfig.Load", "<Simulation> is missing a <Dynamics> child")
	}

	cfg := &Config{}

	size, err := parseSize(dynNode)
	if err != nil {
		return nil, err
	}
	cfg.Size = size

	if unitsNode, ok := dynNode.Child("Units"); ok {
		u, err := ParseUnits(unitsNode)
		if err != nil {
			return nil, err
		}
		cfg.Units = u
	} else {
		cfg.Units = DefaultUnits
	}

	bc, err := parseBC(dynNode)
	if err != nil {
		return nil, err
	}
	cfg.BC = bc

	dynType := dynNode.MustAttr("Type")
	dyn, hasOrientation, err := buildDynamics(dynType, bc, cfg.Size, dynNode)
	if err != nil {
		return nil, err
	}
	cfg.Dynamics = dyn

	if genusNode, ok := dynNode.Child("Genus"); ok {
		cfg.Species = parseGenus(genusNode)
	} else {
		cfg.Species = species.Table{Default: species.Species{Name: "Default", Mass: 1, Radius: 0.5}}
	}

	if localsNode, ok := dynNode.Child("Locals"); ok {
		locals, err := parseLocals(localsNode)
		if err != nil {
			return nil, err
		}
		cfg.Locals = locals
	}

	schedNode, ok := root.Child("Scheduler")
	if !ok {
		return nil, simerr.NewConfigError("ioconfig.Load", "<Simulation> is missing a <Scheduler> child")
	}
	cfg.SchedulerType = schedNode.MustAttr("Type")
	cfg.Lambda, err = parseFloatAttr(schedNode, "Lambda", 0.5)
	if err != nil {
		return nil, err
	}
	overlink, err := parseIntAttr(schedNode, "OverLink", 1)
	if err != nil {
		return nil, err
	}
	cfg.OverLink = overlink

	pdNode, ok := root.Child("ParticleData")
	if !ok {
		return nil, simerr.NewConfigError("ioconfig.Load", "<Simulation> is missing a <ParticleData> child")
	}
	ps, err := parseParticleData(pdNode, dyn, hasOrientation)
	if err != nil {
		return nil, err
	}
	cfg.Particles = ps

	return cfg, nil
}

func parseSize(dynNode *Node) (geom.Vec, error) {
	bcNode, ok := dynNode.Child("BC")
	if !ok {
		return geom.Vec{}, simerr.NewConfigError("ioconfig.Load", "<Dynamics> is missing a <BC> child")
	}
	var size geom.Vec
	names := [geom.NDIM]string{"x", "y", "z"}
	for i, n := range names {
		v, err := parseFloatAttr(bcNode, "size"+n, -1)
		if err != nil {
			return geom.Vec{}, err
		}
		if v < 0 {
			return geom.Vec{}, newConfigErr(bcNode, "missing required attribute %q", "size"+n)
		}
		size[i] = v
	}
	return size, nil
}

func parseBC(dynNode *Node) (geom.BoundaryCondition, error) {
	bcNode, _ := dynNode.Child("BC")
	kind, _ := bcNode.Attr("Type")
	switch kind {
	case "", "PBC":
		return geom.Periodic{}, nil
	case "LEBC":
		rate, err := parseFloatAttr(bcNode, "ShearRate", 0)
		if err != nil {
			return nil, err
		}
		return &geom.LeesEdwards{ShearRate: rate}, nil
	default:
		return nil, newConfigErr(bcNode, "unrecognised BC Type %q", kind)
	}
}

func buildDynamics(kind string, bc geom.BoundaryCondition, size geom.Vec, dynNode *Node) (liouvillean.Dynamics, bool, error) {
	switch canonicalKey(kind) {
	case "Newtonian":
		return liouvillean.NewNewtonian(bc, size), false, nil
	case "Norientation", "Newtonianorientation":
		return liouvillean.NewNewtonianOrientation(bc, size), true, nil
	case "Sllod":
		le, ok := bc.(*geom.LeesEdwards)
		if !ok {
			return nil, false, newConfigErr(dynNode, "SLLOD dynamics requires an LEBC boundary condition")
		}
		return liouvillean.NewSLLOD(le, size), false, nil
	case "Viscous":
		gx, err := parseFloatAttr(dynNode, "GravityX", 0)
		if err != nil {
			return nil, false, err
		}
		gy, err := parseFloatAttr(dynNode, "GravityY", -1)
		if err != nil {
			return nil, false, err
		}
		gz, err := parseFloatAttr(dynNode, "GravityZ", 0)
		if err != nil {
			return nil, false, err
		}
		gamma, err := parseFloatAttr(dynNode, "Gamma", 1)
		if err != nil {
			return nil, false, err
		}
		return liouvillean.NewViscous(bc, size, geom.Vec{gx, gy, gz}, gamma), false, nil
	default:
		return nil, false, newConfigErr(dynNode, "unrecognised Dynamics Type %q", kind)
	}
}

func parseGenus(genusNode *Node) species.Table {
	var t species.Table
	t.Default = species.Species{Name: "Default", Mass: 1, Radius: 0.5}
	for _, sp := range genusNode.ChildrenNamed("Species") {
		lo, _ := parseIntAttr(sp, "Lo", 0)
		hi, _ := parseIntAttr(sp, "Hi", 0)
		mass, _ := parseFloatAttr(sp, "Mass", 1)
		radius, _ := parseFloatAttr(sp, "Radius", 0.5)
		name, _ := sp.Attr("Name")
		entry := species.Species{Name: name, Mass: mass, Radius: radius, Lo: lo, Hi: hi}
		if lo == 0 && hi == 0 {
			t.Default = entry
			continue
		}
		t.Entries = append(t.Entries, entry)
	}
	return t
}

func parseLocals(localsNode *Node) ([]local.Local, error) {
	var out []local.Local
	for i, w := range localsNode.ChildrenNamed("Wall") {
		pos, err := parseVecAttrs(w, "PositionX", "PositionY", "PositionZ")
		if err != nil {
			return nil, err
		}
		normal, err := parseVecAttrs(w, "NormalX", "NormalY", "NormalZ")
		if err != nil {
			return nil, err
		}
		sqrtT, err := parseFloatAttr(w, "SqrtT", 1)
		if err != nil {
			return nil, err
		}
		name, _ := w.Attr("Name")
		out = append(out, &local.AndersenWall{
			LocalID:  i,
			LocalNm:  name,
			Position: pos,
			Normal:   normal,
			SqrtT:    sqrtT,
		})
	}
	return out, nil
}

func parseParticleData(pdNode *Node, dyn liouvillean.Dynamics, hasOrientation bool) ([]*particle.Particle, error) {
	n, err := parseIntAttr(pdNode, "N", -1)
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, newConfigErr(pdNode, "missing required attribute %q", "N")
	}

	orientationFlag, _ := pdNode.Attr("OrientationDataInc")
	orientationInc := orientationFlag == "Y"
	if orientationInc && !dyn.HasOrientation() {
		return nil, newConfigErr(pdNode, "OrientationDataInc=Y but dynamics %q does not track orientation", dyn.Name())
	}

	attached, _ := pdNode.Attr("AttachedBinary")
	if attached == "Y" {
		ps, err := DecodeParticlesBinary(pdNode.CharData, orientationInc)
		if err != nil {
			return nil, err
		}
		if len(ps) != n {
			return nil, newConfigErr(pdNode, "N=%d but binary payload decoded %d particles", n, len(ps))
		}
		return ps, nil
	}

	pts := pdNode.ChildrenNamed("Pt")
	if len(pts) != n {
		return nil, newConfigErr(pdNode, "N=%d but found %d <Pt> elements", n, len(pts))
	}
	ps := make([]*particle.Particle, n)
	for i, pt := range pts {
		id, err := parseIntAttr(pt, "ID", i)
		if err != nil {
			return nil, err
		}
		if id != i {
			return nil, newConfigErr(pt, "particle %d carries out-of-sequence ID %d", i, id)
		}
		pos, err := parseVecAttrs(pt, "PositionX", "PositionY", "PositionZ")
		if err != nil {
			return nil, err
		}
		vel, err := parseVecAttrs(pt, "VelocityX", "VelocityY", "VelocityZ")
		if err != nil {
			return nil, err
		}
		p := particle.NewParticle(i, pos, vel, i)
		p.HasOrientation = orientationInc
		ps[i] = p
	}
	return ps, nil
}

func parseVecAttrs(n *Node, xName, yName, zName string) (geom.Vec, error) {
	x, err := parseFloatAttr(n, xName, 0)
	if err != nil {
		return geom.Vec{}, err
	}
	y, err := parseFloatAttr(n, yName, 0)
	if err != nil {
		return geom.Vec{}, err
	}
	z, err := parseFloatAttr(n, zName, 0)
	if err != nil {
		return geom.Vec{}, err
	}
	return geom.Vec{x, y, z}, nil
}

func parseFloatAttr(n *Node, name string, def float64) (float64, error) {
	v, ok := n.Attr(name)
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, newConfigErr(n, "attribute %q is not a number: %q", name, v)
	}
	return f, nil
}

func parseIntAttr(n *Node, name string, def int) (int, error) {
	v, ok := n.Attr(name)
	if !ok {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, newConfigErr(n, "attribute %q is not an integer: %q", name, v)
	}
	return i, nil
}
