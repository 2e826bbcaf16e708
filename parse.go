package shadecam

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Move is one parsed G0/G1 motion command. The Has flags record which words
// were present on the line; an absent E word means a travel move.
type Move struct {
	X, Y, Z, E, Feed             float64
	HasX, HasY, HasZ, HasE, HasF bool
}

// ParseGcode reads motion commands back out of a G-code stream. Comments
// (everything after ';') and non-motion opcodes are skipped. Used to verify
// that emission is lossless at the emitted decimal precision.
func ParseGcode(r io.Reader) ([]Move, error) {
	var moves []Move

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if i := strings.IndexByte(line, ';'); i >= 0 {
			line = line[:i]
		}

		fields := strings.Fields(line)
		if len(fields) == 0 || (fields[0] != "G0" && fields[0] != "G1") {
			continue
		}

		var m Move
		for _, word := range fields[1:] {
			if len(word) < 2 {
				return nil, fmt.Errorf("line %d: malformed word %q", lineNo, word)
			}
			v, err := strconv.ParseFloat(word[1:], 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: malformed word %q: %w", lineNo, word, err)
			}
			switch word[0] {
			case 'X':
				m.X, m.HasX = v, true
			case 'Y':
				m.Y, m.HasY = v, true
			case 'Z':
				m.Z, m.HasZ = v, true
			case 'E':
				m.E, m.HasE = v, true
			case 'F':
				m.Feed, m.HasF = v, true
			}
		}
		moves = append(moves, m)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return moves, nil
}
