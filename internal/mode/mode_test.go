package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_AllCombinations(t *testing.T) {
	tests := []struct {
		r    Restrictions
		want string
	}{
		{Restrictions{}, LabelMoving},
		{Restrictions{ForbidMoving: true}, LabelNoMove},
		{Restrictions{ForbidMoving: true, ForbidZooming: true, ForbidRotating: true}, LabelNMPZ},
		{Restrictions{ForbidMoving: true, ForbidZooming: true}, "NMNZ"},
		{Restrictions{ForbidMoving: true, ForbidRotating: true}, "NMNR"},
		{Restrictions{ForbidZooming: true}, "NZ"},
		{Restrictions{ForbidRotating: true}, "NR"},
		{Restrictions{ForbidZooming: true, ForbidRotating: true}, "NZNR"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.r), "Classify(%+v)", tt.r)
	}
}

func TestSlug(t *testing.T) {
	assert.Equal(t, SlugMoving, Slug(LabelMoving))
	assert.Equal(t, SlugNoMove, Slug(LabelNoMove))
	assert.Equal(t, SlugNMPZ, Slug(LabelNMPZ))
	assert.Equal(t, SlugNMPZ, Slug("nmpz"))
	assert.Equal(t, SlugCustom, Slug("NMNZ"))
	assert.Equal(t, SlugCustom, Slug(""))
}

func TestNoMoveExample(t *testing.T) {
	label := Classify(Restrictions{ForbidMoving: true})
	assert.Equal(t, "No Move", label)
	assert.Equal(t, "no move", Slug(label))
}

func TestParse_Canonical(t *testing.T) {
	for _, r := range []Restrictions{
		{},
		{ForbidMoving: true},
		{ForbidMoving: true, ForbidZooming: true, ForbidRotating: true},
	} {
		m := Parse(Classify(r))
		assert.True(t, m.Known)
		assert.Equal(t, r, m.Restrictions)
		assert.NotEqual(t, KindCustom, m.Kind)
	}
}

func TestParse_CustomCodesRoundTrip(t *testing.T) {
	r := Restrictions{ForbidMoving: true, ForbidZooming: true}
	m := Parse(Classify(r))

	assert.Equal(t, KindCustom, m.Kind)
	assert.True(t, m.Known)
	assert.Equal(t, r, m.Restrictions)
	assert.Equal(t, SlugCustom, m.Slug())
}

func TestParse_Unrecognised(t *testing.T) {
	for _, label := range []string{LabelCustom, "Speedrun", "NMXX", "NZNM", ""} {
		m := Parse(label)
		assert.Equal(t, KindCustom, m.Kind, label)
		assert.False(t, m.Known, label)
		assert.Equal(t, Restrictions{}, m.Restrictions, label)
	}
}

func TestParse_SlugMatchesForwardSlug(t *testing.T) {
	for _, r := range []Restrictions{
		{}, {ForbidMoving: true}, {ForbidZooming: true}, {ForbidRotating: true},
		{ForbidMoving: true, ForbidZooming: true}, {ForbidMoving: true, ForbidRotating: true},
		{ForbidZooming: true, ForbidRotating: true},
		{ForbidMoving: true, ForbidZooming: true, ForbidRotating: true},
	} {
		label := Classify(r)
		assert.Equal(t, Slug(label), Parse(label).Slug(), label)
	}
}
