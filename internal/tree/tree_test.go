package tree

import (
	"testing"
	"time"
)

func TestStageForAge(t *testing.T) {
	cases := []struct {
		age  int64
		want Stage
	}{
		{0, 0},
		{1, 1},
		{4, 1},
		{5, 2},
		{10, 3},
		{19, 3},
		{20, 4},
		{30, 5},
		{40, 6},
		{69, 6},
		{70, 7},
		{120, 8},
		{199, 8},
		{200, 9},
		{5000, 9},
	}
	for _, tc := range cases {
		if got := StageForAge(tc.age); got != tc.want {
			t.Errorf("StageForAge(%d) = %d, want %d", tc.age, got, tc.want)
		}
	}
}

func TestArtLoadsEveryStage(t *testing.T) {
	for stage := Stage(1); stage <= StageCount; stage++ {
		lines, err := Art(stage)
		if err != nil {
			t.Fatalf("Art(%d) failed: %v", stage, err)
		}
		if len(lines) == 0 {
			t.Fatalf("Art(%d) returned no lines", stage)
		}
	}
}

func TestArtClampsOutOfRange(t *testing.T) {
	soil, err := Art(0)
	if err != nil {
		t.Fatalf("Art(0) failed: %v", err)
	}
	if len(soil) != 1 {
		t.Fatalf("expected single soil line, got %d", len(soil))
	}

	high, err := Art(StageCount + 5)
	if err != nil {
		t.Fatalf("Art beyond range failed: %v", err)
	}
	last, err := Art(StageCount)
	if err != nil {
		t.Fatalf("Art(final) failed: %v", err)
	}
	if len(high) != len(last) {
		t.Fatal("expected clamp to final drawing")
	}
}

func TestTreeGrowIncrementsAge(t *testing.T) {
	tr := New(4)
	if got := tr.Grow(); got != 5 {
		t.Fatalf("Grow = %d, want 5", got)
	}
	if tr.Stage() != 2 {
		t.Fatalf("expected stage 2 at age 5, got %d", tr.Stage())
	}
	if tr.NextStageAge() != 10 {
		t.Fatalf("expected next stage at age 10, got %d", tr.NextStageAge())
	}
}

func TestTreeNegativeAgeClampsToZero(t *testing.T) {
	tr := New(-3)
	if tr.Age() != 0 {
		t.Fatalf("expected age 0, got %d", tr.Age())
	}
}

func TestFullyGrownHasNoNextStage(t *testing.T) {
	tr := New(200)
	if tr.NextStageAge() != 0 {
		t.Fatalf("expected 0 for fully grown, got %d", tr.NextStageAge())
	}
}

func TestSeasonForDateIsStablePerDay(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	morning := SeasonForDate(day.Add(8 * time.Hour))
	evening := SeasonForDate(day.Add(22 * time.Hour))
	if morning != evening {
		t.Fatalf("season changed within one day: %s vs %s", morning, evening)
	}
}

func TestCellsStayWithinBounds(t *testing.T) {
	now := time.Now()
	for _, season := range seasons {
		cells := Cells(season, now, 80, 24)
		if len(cells) == 0 {
			t.Fatalf("season %s produced no cells", season)
		}
		for _, c := range cells {
			if c.X < 0 || c.X >= 80 || c.Y < 0 || c.Y >= 24 {
				t.Fatalf("season %s cell out of bounds: %+v", season, c)
			}
		}
	}
}

func TestCellsDeterministicWithinBucket(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_000)
	a := Cells(SeasonRain, at, 40, 12)
	b := Cells(SeasonRain, at.Add(time.Millisecond), 40, 12)
	if len(a) != len(b) {
		t.Fatalf("frame sizes differ within bucket: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("cell %d differs within bucket: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestCellsEmptyForDegenerateGrid(t *testing.T) {
	if cells := Cells(SeasonSnow, time.Now(), 0, 10); cells != nil {
		t.Fatalf("expected nil for zero width, got %v", cells)
	}
}
