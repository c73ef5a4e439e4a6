package ioconfig

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/local"
	"github.com/edmdsim/dynamogo/particle"
	"github.com/edmdsim/dynamogo/simerr"
	"github.com/edmdsim/dynamogo/species"
)

// SaveOptions controls the ParticleData encoding Save chooses.
type SaveOptions struct {
	// Binary selects AttachedBinary=Y output. A caller honouring the
	// --text CLI flag sets this false regardless of how the
	// document was originally loaded.
	Binary bool
}

func elem(name string, attrs map[string]string, children ...Node) Node {
	n := Node{XMLName: xml.Name{Local: name}}
	for k, v := range attrs {
		n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: k}, Value: v})
	}
	n.Children = children
	return n
}

func attrF(v float64) string { return fmt.Sprintf("%.17g", v) }
func attrI(v int) string     { return fmt.Sprintf("%d", v) }

// SaveSimulation serialises a Config and particle set back into the
// document shape Load expects, completing the round trip a reload
// should reproduce (load -> save -> load reproduces state).
func SaveSimulation(w io.Writer, cfg *Config, ps []*particle.Particle, opts SaveOptions) error {
	bcNode := buildBCNode(cfg.BC, cfg.Size)

	dynAttrs := map[string]string{"Type": cfg.Dynamics.Name()}
	dynChildren := []Node{
		elem("Units", map[string]string{
			"unitLength":       attrF(cfg.Units.Length),
			"unitVelocity":     attrF(cfg.Units.Velocity),
			"unitEnergy":       attrF(cfg.Units.Energy),
			"unitTime":         attrF(cfg.Units.Time),
			"unitAcceleration": attrF(cfg.Units.Acceleration),
		}),
		bcNode,
		buildGenusNode(cfg.Species),
	}
	if len(cfg.Locals) > 0 {
		dynChildren = append(dynChildren, buildLocalsNode(cfg.Locals))
	}
	dynNode := elem("Dynamics", dynAttrs, dynChildren...)

	schedNode := elem("Scheduler", map[string]string{
		"Type":     cfg.SchedulerType,
		"Lambda":   attrF(cfg.Lambda),
		"OverLink": attrI(cfg.OverLink),
	})

	hasOrientation := cfg.Dynamics.HasOrientation() && len(ps) > 0 && ps[0].HasOrientation
	pdNode, err := buildParticleDataNode(ps, hasOrientation, opts.Binary)
	if err != nil {
		return err
	}

	root := elem("Simulation", nil, dynNode, pdNode, schedNode)

	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(&root); err != nil {
		return simerr.NewConfigError("ioconfig.SaveSimulation", "writing XML: %v", err)
	}
	return nil
}

func buildBCNode(bc geom.BoundaryCondition, size geom.Vec) Node {
	attrs := map[string]string{
		"sizex": attrF(size[0]),
		"sizey": attrF(size[1]),
		"sizez": attrF(size[2]),
	}
	switch v := bc.(type) {
	case *geom.LeesEdwards:
		attrs["Type"] = "LEBC"
		attrs["ShearRate"] = attrF(v.ShearRate)
	default:
		attrs["Type"] = "PBC"
	}
	return elem("BC", attrs)
}

func buildGenusNode(t species.Table) Node {
	entries := append([]species.Species{}, t.Entries...)
	n := elem("Genus", nil)
	n.Children = append(n.Children, elem("Species", map[string]string{
		"Name": t.Default.Name, "Mass": attrF(t.Default.Mass), "Radius": attrF(t.Default.Radius),
	}))
	for _, s := range entries {
		n.Children = append(n.Children, elem("Species", map[string]string{
			"Name": s.Name, "Mass": attrF(s.Mass), "Radius": attrF(s.Radius),
			"Lo": attrI(s.Lo), "Hi": attrI(s.Hi),
		}))
	}
	return n
}

func buildLocalsNode(locals []local.Local) Node {
	n := elem("Locals", nil)
	for _, l := range locals {
		w, ok := l.(*local.AndersenWall)
		if !ok {
			continue
		}
		n.Children = append(n.Children, elem("Wall", map[string]string{
			"Name":      w.Name(),
			"PositionX": attrF(w.Position[0]), "PositionY": attrF(w.Position[1]), "PositionZ": attrF(w.Position[2]),
			"NormalX": attrF(w.Normal[0]), "NormalY": attrF(w.Normal[1]), "NormalZ": attrF(w.Normal[2]),
			"SqrtT": attrF(w.SqrtT),
		}))
	}
	return n
}

func buildParticleDataNode(ps []*particle.Particle, hasOrientation, binary bool) (Node, error) {
	attrs := map[string]string{
		"N": attrI(len(ps)),
	}
	if hasOrientation {
		attrs["OrientationDataInc"] = "Y"
	} else {
		attrs["OrientationDataInc"] = "N"
	}
	if binary {
		attrs["AttachedBinary"] = "Y"
		n := elem("ParticleData", attrs)
		n.CharData = EncodeParticlesBinary(ps, hasOrientation)
		return n, nil
	}
	attrs["AttachedBinary"] = "N"
	n := elem("ParticleData", attrs)
	for _, p := range ps {
		n.Children = append(n.Children, elem("Pt", map[string]string{
			"ID":        attrI(p.ID),
			"PositionX": attrF(p.Position[0]), "PositionY": attrF(p.Position[1]), "PositionZ": attrF(p.Position[2]),
			"VelocityX": attrF(p.Velocity[0]), "VelocityY": attrF(p.Velocity[1]), "VelocityZ": attrF(p.Velocity[2]),
		}))
	}
	return n, nil
}
