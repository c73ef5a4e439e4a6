package ioconfig

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
	"github.com/edmdsim/dynamogo/simerr"
)

// EncodeParticlesText renders particles as whitespace-separated ASCII
// lines, one particle per line: id, NDIM velocity components, NDIM
// position components. Load and SaveSimulation do not use it: an
// AttachedBinary=N document, including one written under the --text CLI
// flag, carries one Pt element per particle instead.
func EncodeParticlesText(ps []*particle.Particle) string {
	var b strings.Builder
	for _, p := range ps {
		fmt.Fprintf(&b, "%d", p.ID)
		for i := 0; i < geom.NDIM; i++ {
			fmt.Fprintf(&b, " %.17g", p.Velocity[i])
		}
		for i := 0; i < geom.NDIM; i++ {
			fmt.Fprintf(&b, " %.17g", p.Position[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// DecodeParticlesText parses exactly n particle lines from r.
func DecodeParticlesText(r io.Reader, n int) ([]*particle.Particle, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	out := make([]*particle.Particle, 0, n)
	for len(out) < n {
		if !sc.Scan() {
			return nil, simerr.NewConfigError("ioconfig.DecodeParticlesText", "expected %d particle lines, found %d", n, len(out))
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 1+2*geom.NDIM {
			return nil, simerr.NewConfigError("ioconfig.DecodeParticlesText", "particle line %d has %d fields, want %d", len(out), len(fields), 1+2*geom.NDIM)
		}
		id, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, simerr.NewConfigError("ioconfig.DecodeParticlesText", "particle line %d: bad id %q", len(out), fields[0])
		}
		if id != len(out) {
			return nil, simerr.NewConfigError("ioconfig.DecodeParticlesText", "particle line %d carries out-of-sequence id %d", len(out), id)
		}
		var vel, pos geom.Vec
		for i := 0; i < geom.NDIM; i++ {
			v, err := strconv.ParseFloat(fields[1+i], 64)
			if err != nil {
				return nil, simerr.NewConfigError("ioconfig.DecodeParticlesText", "particle line %d: bad velocity component %q", len(out), fields[1+i])
			}
			vel[i] = v
		}
		for i := 0; i < geom.NDIM; i++ {
			v, err := strconv.ParseFloat(fields[1+geom.NDIM+i], 64)
			if err != nil {
				return nil, simerr.NewConfigError("ioconfig.DecodeParticlesText", "particle line %d: bad position component %q", len(out), fields[1+geom.NDIM+i])
			}
			pos[i] = v
		}
		out = append(out, particle.NewParticle(id, pos, vel, id))
	}
	return out, nil
}
