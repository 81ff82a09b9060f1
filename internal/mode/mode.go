// Package mode classifies games by their movement restrictions.
package mode

import "strings"

// Restrictions are the three movement flags a game is played with.
type Restrictions struct {
	ForbidMoving   bool `json:"forbidMoving"`
	ForbidZooming  bool `json:"forbidZooming"`
	ForbidRotating bool `json:"forbidRotating"`
}

// Display labels.
const (
	LabelMoving = "Moving"
	LabelNoMove = "No Move"
	LabelNMPZ   = "NMPZ"
	LabelCustom = "Custom"
)

// Slugs are the lower-case forms used in table names and report filters.
const (
	SlugMoving = "move"
	SlugNoMove = "no move"
	SlugNMPZ   = "nmpz"
	SlugCustom = "custom"
)

const (
	codeNoMove   = "NM"
	codeNoZoom   = "NZ"
	codeNoRotate = "NR"
)

// Classify returns the label for a restriction set. Non-canonical sets get
// their restriction codes concatenated in NM, NZ, NR order.
func Classify(r Restrictions) string {
	switch {
	case !r.ForbidMoving && !r.ForbidZooming && !r.ForbidRotating:
		return LabelMoving
	case r.ForbidMoving && !r.ForbidZooming && !r.ForbidRotating:
		return LabelNoMove
	case r.ForbidMoving && r.ForbidZooming && r.ForbidRotating:
		return LabelNMPZ
	}

	var b strings.Builder
	if r.ForbidMoving {
		b.WriteString(codeNoMove)
	}
	if r.ForbidZooming {
		b.WriteString(codeNoZoom)
	}
	if r.ForbidRotating {
		b.WriteString(codeNoRotate)
	}
	if b.Len() == 0 {
		return LabelCustom
	}
	return b.String()
}

// Slug maps a label to its lower-case slug. Anything that is not one of the
// three canonical labels is "custom".
func Slug(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "moving":
		return SlugMoving
	case "no move":
		return SlugNoMove
	case "nmpz":
		return SlugNMPZ
	}
	return SlugCustom
}

type Kind int

const (
	KindCustom Kind = iota
	KindMoving
	KindNoMove
	KindNMPZ
)

func (k Kind) String() string {
	switch k {
	case KindMoving:
		return LabelMoving
	case KindNoMove:
		return LabelNoMove
	case KindNMPZ:
		return LabelNMPZ
	}
	return LabelCustom
}

// Mode is a parsed label. Canonical kinds always carry their restrictions.
// A Custom mode carries them only when Known is set, which happens when the
// label was built from restriction codes.
type Mode struct {
	Kind         Kind
	Restrictions Restrictions
	Known        bool
	Label        string
}

// FromRestrictions builds the mode a game with r is classified as.
func FromRestrictions(r Restrictions) Mode {
	label := Classify(r)
	return Mode{Kind: kindOf(label), Restrictions: r, Known: true, Label: label}
}

// Parse turns a stored label back into a Mode. Labels such as "NMNZ" are
// decoded exactly; "Custom" and unrecognised labels yield a Custom mode with
// unknown restrictions.
func Parse(label string) Mode {
	switch label {
	case LabelMoving:
		return Mode{Kind: KindMoving, Known: true, Label: label}
	case LabelNoMove:
		return Mode{Kind: KindNoMove, Restrictions: Restrictions{ForbidMoving: true}, Known: true, Label: label}
	case LabelNMPZ:
		return Mode{Kind: KindNMPZ, Restrictions: Restrictions{ForbidMoving: true, ForbidZooming: true, ForbidRotating: true}, Known: true, Label: label}
	}
	if r, ok := decodeCodes(label); ok {
		m := FromRestrictions(r)
		m.Label = label
		return m
	}
	return Mode{Kind: KindCustom, Label: label}
}

func (m Mode) Slug() string {
	switch m.Kind {
	case KindMoving:
		return SlugMoving
	case KindNoMove:
		return SlugNoMove
	case KindNMPZ:
		return SlugNMPZ
	}
	return SlugCustom
}

func kindOf(label string) Kind {
	switch label {
	case LabelMoving:
		return KindMoving
	case LabelNoMove:
		return KindNoMove
	case LabelNMPZ:
		return KindNMPZ
	}
	return KindCustom
}

// decodeCodes reads a concatenation of NM/NZ/NR codes in canonical order.
func decodeCodes(label string) (Restrictions, bool) {
	var r Restrictions
	rest := label
	if strings.HasPrefix(rest, codeNoMove) {
		r.ForbidMoving = true
		rest = rest[len(codeNoMove):]
	}
	if strings.HasPrefix(rest, codeNoZoom) {
		r.ForbidZooming = true
		rest = rest[len(codeNoZoom):]
	}
	if strings.HasPrefix(rest, codeNoRotate) {
		r.ForbidRotating = true
		rest = rest[len(codeNoRotate):]
	}
	if rest != "" || r == (Restrictions{}) {
		return Restrictions{}, false
	}
	return r, true
}
