package tree

import (
	"embed"
	"fmt"
	"strings"
	"sync"
)

//go:embed art/*.txt
var artFiles embed.FS

// Stage identifies one of the bonsai growth drawings, from seedling (1)
// to the fully grown tree (9).
type Stage int

// StageCount is the number of distinct growth drawings.
const StageCount = 9

// stageAges holds the minimum age required to reach each stage. A tree
// younger than the first entry renders as bare soil.
var stageAges = [StageCount]int64{1, 5, 10, 20, 30, 40, 70, 120, 200}

// StageForAge maps a tree age to its growth stage. Age 0 returns stage 0,
// meaning nothing has sprouted yet.
func StageForAge(age int64) Stage {
	stage := Stage(0)
	for i, min := range stageAges {
		if age >= min {
			stage = Stage(i + 1)
		}
	}
	return stage
}

// AgeForStage returns the minimum age at which the given stage appears.
// It reports 0 for stage 0 and clamps out-of-range stages.
func AgeForStage(stage Stage) int64 {
	if stage <= 0 {
		return 0
	}
	if stage > StageCount {
		stage = StageCount
	}
	return stageAges[stage-1]
}

var (
	artOnce sync.Once
	artErr  error
	art     [StageCount][]string
)

func loadArt() {
	for i := 0; i < StageCount; i++ {
		body, err := artFiles.ReadFile(fmt.Sprintf("art/p%d.txt", i+1))
		if err != nil {
			artErr = fmt.Errorf("load tree art %d: %w", i+1, err)
			return
		}
		lines := strings.Split(strings.TrimRight(string(body), "\n"), "\n")
		art[i] = lines
	}
}

// Art returns the drawing for a stage as a slice of lines. Stage 0 yields
// a single line of soil. Out-of-range stages clamp to the final drawing.
func Art(stage Stage) ([]string, error) {
	artOnce.Do(loadArt)
	if artErr != nil {
		return nil, artErr
	}
	if stage <= 0 {
		return []string{"______"}, nil
	}
	if stage > StageCount {
		stage = StageCount
	}
	return art[stage-1], nil
}

// Tree tracks the age of the bonsai. Age only ever increases; it grows by
// one each time a quote rotation or a finished focus phase feeds it.
type Tree struct {
	mu  sync.Mutex
	age int64
}

// New returns a tree at the given age. Negative ages are treated as zero.
func New(age int64) *Tree {
	if age < 0 {
		age = 0
	}
	return &Tree{age: age}
}

// Age returns the current age.
func (t *Tree) Age() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.age
}

// Grow increments the age by one and returns the new value.
func (t *Tree) Grow() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.age++
	return t.age
}

// Stage returns the growth stage for the current age.
func (t *Tree) Stage() Stage {
	return StageForAge(t.Age())
}

// NextStageAge returns the age at which the next drawing unlocks, or 0
// when the tree is already fully grown.
func (t *Tree) NextStageAge() int64 {
	age := t.Age()
	for _, min := range stageAges {
		if age < min {
			return min
		}
	}
	return 0
}
