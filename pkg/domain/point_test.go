package domain_test

import (
	"math"
	"testing"

	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestPoint_AngleFrom(t *testing.T) {
	o := domain.Pt(10, 10)

	assert.InDelta(t, -90, domain.Pt(10, 0).AngleFrom(o), 1e-9, "up")
	assert.InDelta(t, 0, domain.Pt(20, 10).AngleFrom(o), 1e-9, "right")
	assert.InDelta(t, 90, domain.Pt(10, 20).AngleFrom(o), 1e-9, "down")
	assert.InDelta(t, 180, domain.Pt(0, 10).AngleFrom(o), 1e-9, "left")
	assert.True(t, math.IsNaN(o.AngleFrom(o)))
}

func TestPoint_Dist(t *testing.T) {
	assert.InDelta(t, 5, domain.Pt(0, 0).Dist(domain.Pt(3, 4)), 1e-9)
}

func TestPoint_Valid(t *testing.T) {
	assert.True(t, domain.Pt(1, 2).Valid())
	assert.False(t, domain.Pt(math.NaN(), 2).Valid())
	assert.False(t, domain.Pt(1, math.Inf(-1)).Valid())
}
