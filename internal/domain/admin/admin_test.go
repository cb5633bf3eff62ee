package admin

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/worldsearch/internal/domain"
)

func TestValidateCount(t *testing.T) {
	valid := []int{1, 500, DefaultGenerateCount, MaxGenerateCount}
	for _, c := range valid {
		if err := ValidateCount(c); err != nil {
			t.Errorf("ValidateCount(%d) unexpected error: %v", c, err)
		}
	}

	invalid := []int{0, -1, MaxGenerateCount + 1}
	for _, c := range invalid {
		err := ValidateCount(c)
		if !errors.Is(err, domain.ErrInvalidCount) {
			t.Errorf("ValidateCount(%d) = %v, want ErrInvalidCount", c, err)
		}
	}
}

func TestInvalidCountMessage(t *testing.T) {
	want := "Invalid count. Must be between 1 and 1,000,000"
	if domain.ErrInvalidCount.Error() != want {
		t.Errorf("message = %q, want %q", domain.ErrInvalidCount.Error(), want)
	}
}

func TestResults_RoundTimings(t *testing.T) {
	g := NewGenerateResult(500, 12.34567)
	if g.InsertedCount() != 500 || g.ExecutionTimeMs() != 12.35 {
		t.Errorf("generate = %d/%v, want 500/12.35", g.InsertedCount(), g.ExecutionTimeMs())
	}

	vacErr := errors.New("vacuum failed")
	c := NewClearResult(3, 1.004, 17, vacErr)
	if c.DeletedCount() != 3 || c.ExecutionTimeMs() != 1 || c.VacuumTimeMs() != 17 {
		t.Errorf("clear = %d/%v/%d", c.DeletedCount(), c.ExecutionTimeMs(), c.VacuumTimeMs())
	}
	if !errors.Is(c.VacuumErr(), vacErr) {
		t.Errorf("VacuumErr() = %v", c.VacuumErr())
	}

	r := NewRebuildResult("completed", 99.999)
	if r.Status() != "completed" || r.ExecutionTimeMs() != 100 {
		t.Errorf("rebuild = %q/%v", r.Status(), r.ExecutionTimeMs())
	}
}
