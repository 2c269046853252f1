// Package zemax imports the surface sequence from a Zemax .zmx lens file.
// Only the commands that feed the sequential model are interpreted; every
// other command is counted so callers can report what an import skipped.
package zemax

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/optikit/optikit/pkg/sequence"
)

// infiniteThickness substitutes for an INFINITY object distance.
const infiniteThickness = 1e10

// ReadInfo reports what an import consumed and what it skipped.
type ReadInfo struct {
	Version string
	Title   string
	Note    string
	Unit    string

	// Tracked counts noteworthy constructs the reader handled (mirrors,
	// coded glasses, unresolved glass names).
	Tracked map[string]int

	// Unhandled counts commands the reader recognizes no handler for.
	Unhandled map[string]int
}

// parseState is the mutable cursor threaded through the command handlers.
// Surfaces accumulate in parallel slices; the sequence model is assembled
// once the whole file is read, since the trailing gap emitted by the last
// SURF block must be discarded.
type parseState struct {
	ifcs []*sequence.Interface
	gaps []*sequence.Gap
	cur  int
	stop int

	info *ReadInfo
}

type handlerFunc func(st *parseState, args string) error

var handlers = map[string]handlerFunc{
	"VERS": func(st *parseState, args string) error {
		st.info.Version = strings.Trim(args, "\"")
		return nil
	},
	"UNIT": func(st *parseState, args string) error {
		fields := strings.Fields(args)
		if len(fields) > 0 {
			st.info.Unit = fields[0]
		}
		return nil
	},
	"NAME": func(st *parseState, args string) error {
		st.info.Title = strings.Trim(args, "\"")
		return nil
	},
	"NOTE": func(st *parseState, args string) error {
		if st.info.Note != "" {
			st.info.Note += "\n"
		}
		st.info.Note += strings.Trim(args, "\"")
		return nil
	},
	"SURF": handleSurf,
	"CURV": handleCurv,
	"DISZ": handleDisz,
	"DIAM": handleDiam,
	"GLAS": handleGlas,
	"STOP": func(st *parseState, args string) error {
		st.stop = st.cur
		return nil
	},
}

func handleSurf(st *parseState, args string) error {
	st.ifcs = append(st.ifcs, sequence.NewInterface(0))
	st.gaps = append(st.gaps, &sequence.Gap{Medium: sequence.Air()})
	st.cur = len(st.ifcs) - 1
	return nil
}

func handleCurv(st *parseState, args string) error {
	if st.cur < 0 {
		return fmt.Errorf("zemax: CURV before any SURF")
	}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fmt.Errorf("zemax: CURV without a value")
	}
	cv, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("zemax: CURV %q: %w", fields[0], err)
	}
	st.ifcs[st.cur].Profile.Curvature = cv
	return nil
}

func handleDisz(st *parseState, args string) error {
	if st.cur < 0 {
		return fmt.Errorf("zemax: DISZ before any SURF")
	}
	arg := strings.TrimSpace(args)
	if strings.EqualFold(arg, "INFINITY") {
		st.gaps[st.cur].Thickness = infiniteThickness
		st.info.Tracked["infinite conjugate"]++
		return nil
	}
	thi, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return fmt.Errorf("zemax: DISZ %q: %w", arg, err)
	}
	st.gaps[st.cur].Thickness = thi
	return nil
}

func handleDiam(st *parseState, args string) error {
	if st.cur < 0 {
		return fmt.Errorf("zemax: DIAM before any SURF")
	}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fmt.Errorf("zemax: DIAM without a value")
	}
	// The argument is a semi-diameter.
	sd, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("zemax: DIAM %q: %w", fields[0], err)
	}
	st.ifcs[st.cur].Diameter = 2 * sd
	return nil
}

// handleGlas resolves the medium of the current gap. MIRROR flips the
// surface to reflecting and keeps the incident medium; a 6-digit glass
// code decodes to its refractive index; anything else keeps the catalog
// name with a placeholder index, counted so the caller can warn.
func handleGlas(st *parseState, args string) error {
	if st.cur < 0 {
		return fmt.Errorf("zemax: GLAS before any SURF")
	}
	fields := strings.Fields(args)
	if len(fields) == 0 {
		return fmt.Errorf("zemax: GLAS without a name")
	}
	name := fields[0]
	g := st.gaps[st.cur]
	switch {
	case name == "MIRROR":
		st.ifcs[st.cur].Mode = sequence.Reflect
		if st.cur > 0 {
			g.Medium = st.gaps[st.cur-1].Medium
		}
		st.info.Tracked["MIRROR"]++
	case isGlassCode(name):
		nd := 1 + mustFloat(name[:3])/1000
		g.Medium = sequence.Medium{Name: name, Index: nd}
		st.info.Tracked["6 digit code"]++
	case name == "___BLANK" && len(fields) >= 4:
		nd, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return fmt.Errorf("zemax: GLAS ___BLANK index %q: %w", fields[3], err)
		}
		g.Medium = sequence.Medium{Name: name, Index: nd}
		st.info.Tracked[name]++
	default:
		// No catalog lookup; keep the name so it round-trips.
		g.Medium = sequence.Medium{Name: name, Index: 1.5}
		st.info.Tracked["glass not found"]++
	}
	return nil
}

func isGlassCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func mustFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// Read parses a .zmx stream into a sequence model. The object and image
// surfaces are relabeled and demoted to dummies, matching the convention
// the grouping grammar expects.
func Read(r io.Reader) (*sequence.Model, *ReadInfo, error) {
	info := &ReadInfo{
		Tracked:   make(map[string]int),
		Unhandled: make(map[string]int),
	}
	st := &parseState{cur: -1, stop: -1, info: info}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, args, _ := strings.Cut(line, " ")
		h, ok := handlers[cmd]
		if !ok {
			info.Unhandled[cmd]++
			continue
		}
		if err := h(st, args); err != nil {
			return nil, info, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, info, fmt.Errorf("zemax: reading input: %w", err)
	}
	if len(st.ifcs) < 2 {
		return nil, info, fmt.Errorf("zemax: file defines %d surfaces, need at least 2", len(st.ifcs))
	}

	seq := sequence.New()
	for i, ifc := range st.ifcs {
		var g *sequence.Gap
		if i < len(st.ifcs)-1 {
			g = st.gaps[i]
		}
		seq.Append(ifc, g)
	}
	seq.Stop = st.stop

	seq.Ifcs[0].Label = "Obj"
	seq.Ifcs[0].Mode = sequence.Dummy
	seq.Ifcs[len(seq.Ifcs)-1].Label = "Img"
	seq.Ifcs[len(seq.Ifcs)-1].Mode = sequence.Dummy
	return seq, info, nil
}
