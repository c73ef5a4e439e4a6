package ioconfig

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/edmdsim/dynamogo/geom"
	"github.com/edmdsim/dynamogo/particle"
	"github.com/edmdsim/dynamogo/simerr"
)

// binaryLineWidth is the column at which AttachedBinary=Y payloads wrap,
// matching the fixed 80-column convention.
const binaryLineWidth = 80

// particleRecordLen is 8 bytes of id plus NDIM velocity doubles and NDIM
// position doubles, all little-endian IEEE-754.
const particleRecordLen = 8 + 2*geom.NDIM*8

// orientationRecordLen is the extra bytes a record carries when
// OrientationDataInc=Y: a unit quaternion (4 doubles) plus an angular
// velocity vector (NDIM doubles).
const orientationRecordLen = 4*8 + geom.NDIM*8

// EncodeParticlesBinary packs particles into the id+velocity+position
// (and, if hasOrientation, quaternion+angular) binary layout, then
// base64-encodes the result wrapped at 80 columns.
func EncodeParticlesBinary(ps []*particle.Particle, hasOrientation bool) string {
	recLen := particleRecordLen
	if hasOrientation {
		recLen += orientationRecordLen
	}
	buf := make([]byte, 0, recLen*len(ps))
	var scratch [8]byte
	putF := func(v float64) {
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(v))
		buf = append(buf, scratch[:]...)
	}
	for _, p := range ps {
		binary.LittleEndian.PutUint64(scratch[:], uint64(int64(p.ID)))
		buf = append(buf, scratch[:]...)
		for i := 0; i < geom.NDIM; i++ {
			putF(p.Velocity[i])
		}
		for i := 0; i < geom.NDIM; i++ {
			putF(p.Position[i])
		}
		if hasOrientation {
			for i := 0; i < 4; i++ {
				putF(p.Orientation.Quat[i])
			}
			for i := 0; i < geom.NDIM; i++ {
				putF(p.Orientation.Angular[i])
			}
		}
	}
	encoded := base64.StdEncoding.EncodeToString(buf)
	return wrapColumns(encoded, binaryLineWidth)
}

// DecodeParticlesBinary is the inverse of EncodeParticlesBinary. Each
// decoded particle's Species field is set to its own id, the value the
// Genus table's id ranges are matched against.
func DecodeParticlesBinary(data string, hasOrientation bool) ([]*particle.Particle, error) {
	raw := strings.Join(strings.Fields(data), "")
	buf, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, simerr.NewConfigError("ioconfig.DecodeParticlesBinary", "invalid base64 payload: %v", err)
	}
	recLen := particleRecordLen
	if hasOrientation {
		recLen += orientationRecordLen
	}
	if len(buf)%recLen != 0 {
		return nil, simerr.NewConfigError("ioconfig.DecodeParticlesBinary", "payload length %d is not a multiple of the %d-byte particle record", len(buf), recLen)
	}
	n := len(buf) / recLen
	out := make([]*particle.Particle, n)
	r := bytes.NewReader(buf)
	var scratch [8]byte
	readU64 := func() uint64 {
		r.Read(scratch[:])
		return binary.LittleEndian.Uint64(scratch[:])
	}
	readF := func() float64 {
		return math.Float64frombits(readU64())
	}
	for i := 0; i < n; i++ {
		id := int(int64(readU64()))
		if id != i {
			return nil, &simerr.InvariantViolation{Msg: fmt.Sprintf("ioconfig.DecodeParticlesBinary: particle record %d carries out-of-sequence id %d", i, id)}
		}
		var vel, pos geom.Vec
		for d := 0; d < geom.NDIM; d++ {
			vel[d] = readF()
		}
		for d := 0; d < geom.NDIM; d++ {
			pos[d] = readF()
		}
		p := particle.NewParticle(id, pos, vel, id)
		if hasOrientation {
			p.HasOrientation = true
			for q := 0; q < 4; q++ {
				p.Orientation.Quat[q] = readF()
			}
			for d := 0; d < geom.NDIM; d++ {
				p.Orientation.Angular[d] = readF()
			}
		}
		out[i] = p
	}
	return out, nil
}

func wrapColumns(s string, width int) string {
	var b strings.Builder
	for len(s) > width {
		b.WriteString(s[:width])
		b.WriteByte('\n')
		s = s[width:]
	}
	b.WriteString(s)
	return b.String()
}
