package trace

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/aretw0/markmenu/pkg/config"
	"github.com/aretw0/markmenu/pkg/domain"
	"github.com/aretw0/markmenu/pkg/menu"
	"github.com/google/uuid"
)

// Style is how a synthesized gesture is performed.
type Style string

const (
	// StyleExpert strokes right away and pauses only to open sub-menus.
	StyleExpert Style = "expert"
	// StyleNovice waits for the menu to be revealed before moving.
	StyleNovice Style = "novice"
)

// ParseStyle accepts "expert" or "novice".
func ParseStyle(s string) (Style, error) {
	switch Style(strings.ToLower(s)) {
	case StyleExpert:
		return StyleExpert, nil
	case StyleNovice:
		return StyleNovice, nil
	}
	return "", fmt.Errorf("unknown gesture style %q (want expert or novice)", s)
}

const (
	stepsPerSegment = 5
	stepMillis      = 10.0
)

// Synthesize builds a trace that selects the leaf reached by following
// labels from root under cfg. Each segment is a straight stroke along the
// item's angle; branches are held long enough for their sub-menu to open.
func Synthesize(root *menu.Node, cfg domain.Config, style Style, labels ...string) (*domain.Trace, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no item path to synthesize")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	t := &domain.Trace{
		ID:        uuid.NewString(),
		Name:      strings.Join(labels, "/"),
		CreatedAt: time.Now().UTC(),
		Menu:      menu.Describe(root),
		Options:   config.Encode(cfg),
	}

	center := domain.Point{}
	now := 0.0
	add := func(kind domain.SampleKind, p domain.Point) {
		t.Samples = append(t.Samples, domain.TraceSample{Kind: kind, X: p.X, Y: p.Y, T: now})
	}
	add(domain.SampleDown, center)

	if style == StyleNovice {
		now += ms(cfg.NoviceDwellingTime)
	}

	leafDist := cfg.MinSelectionDist * 1.5
	branchDist := math.Max(cfg.MinMenuSelectionDist, cfg.MinSelectionDist) * 1.25

	node := root
	for depth, label := range labels {
		next := menu.Find(node, label)
		if next == nil {
			return nil, fmt.Errorf("no item %q under %s", label, node)
		}
		node = next
		last := depth == len(labels)-1
		if last && !node.IsLeaf() {
			return nil, fmt.Errorf("%s is a sub-menu, not an item", node)
		}

		dist := leafDist
		if !last {
			dist = branchDist
		}
		rad := node.Angle() * math.Pi / 180
		dir := domain.Pt(math.Cos(rad), math.Sin(rad))

		var p domain.Point
		for i := 1; i <= stepsPerSegment; i++ {
			now += stepMillis
			f := dist * float64(i) / stepsPerSegment
			p = domain.Pt(center.X+dir.X*f, center.Y+dir.Y*f)
			add(domain.SampleMove, p)
		}

		if !last {
			// Hold still until the sub-menu opens around p.
			now += ms(cfg.SubMenuOpeningDelay) + stepMillis
			add(domain.SampleMove, p)
			center = p
		}
	}

	now += stepMillis
	final := t.Samples[len(t.Samples)-1]
	add(domain.SampleUp, domain.Pt(final.X, final.Y))
	return t, nil
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
