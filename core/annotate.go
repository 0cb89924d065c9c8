package core

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/huangsam/whodunit/schema"
)

// ErrMalformedAnnotation is returned when p4 annotate output does not follow
// the `info:` / `text:` / `exit:` record layout.
var ErrMalformedAnnotation = errors.New("malformed annotate output")

// Markers of the tagged (p4 -s) annotate output.
const (
	infoMarker = "info:"
	exitMarker = "exit:"
)

var (
	latestChangeRe = regexp.MustCompile(`change\s+(\d+)`)
	textRecordRe   = regexp.MustCompile(`text:\s+(\d+)-(\d+):(.*)$`)
)

// ParseAnnotation parses the output of `p4 -s annotate -a -i -I <path>`.
//
// Format:
//
//	info: <file>#<rev> - edit change <CL> (text)
//	text: <CL>-<CL>:<code>
//	...
//	exit: 0
//
// A single trailing blank line after the exit record is allowed. Any other
// deviation is an error; nothing is parsed on a best-effort basis.
func ParseAnnotation(path string, out []byte) (*schema.Annotation, error) {
	lines := strings.Split(string(out), "\n")

	header := strings.TrimSpace(lines[0])
	if !strings.Contains(header, infoMarker) {
		return nil, fmt.Errorf("%w: cannot find %s record in %s", ErrMalformedAnnotation, infoMarker, path)
	}

	last := len(lines) - 1
	if !strings.Contains(lines[last], exitMarker) {
		if strings.TrimSpace(lines[last]) != "" || last-1 < 1 || !strings.Contains(lines[last-1], exitMarker) {
			return nil, fmt.Errorf("%w: cannot find %s record in %s", ErrMalformedAnnotation, exitMarker, path)
		}
		last--
	}
	if last < 1 {
		return nil, fmt.Errorf("%w: cannot find %s record in %s", ErrMalformedAnnotation, exitMarker, path)
	}

	match := latestChangeRe.FindStringSubmatch(header)
	if match == nil {
		return nil, fmt.Errorf("%w: cannot find the latest change number for %s: %q", ErrMalformedAnnotation, path, header)
	}
	latest, err := strconv.Atoi(match[1])
	if err != nil {
		return nil, fmt.Errorf("%w: invalid latest change number for %s: %v", ErrMalformedAnnotation, path, err)
	}

	ann := &schema.Annotation{
		Path:         path,
		Header:       header,
		LatestChange: latest,
		Entries:      make([]schema.RawEntry, 0, last-1),
	}
	for _, line := range lines[1:last] {
		entry, err := parseTextRecord(strings.TrimSpace(line))
		if err != nil {
			return nil, fmt.Errorf("%w: unrecognized line in %s: %q", ErrMalformedAnnotation, path, strings.TrimSpace(line))
		}
		ann.Entries = append(ann.Entries, entry)
	}
	return ann, nil
}

// parseTextRecord parses a single `text: <from>-<to>:<payload>` record.
func parseTextRecord(line string) (schema.RawEntry, error) {
	match := textRecordRe.FindStringSubmatch(line)
	if match == nil {
		return schema.RawEntry{}, errors.New("no text record")
	}
	from, err := strconv.Atoi(match[1])
	if err != nil {
		return schema.RawEntry{}, err
	}
	to, err := strconv.Atoi(match[2])
	if err != nil {
		return schema.RawEntry{}, err
	}
	return schema.RawEntry{FromChange: from, ToChange: to, Text: match[3]}, nil
}
