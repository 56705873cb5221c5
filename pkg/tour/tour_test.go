package tour

import "testing"

func TestStepsAreLinear(t *testing.T) {
	steps := Steps()
	if len(steps) < 2 {
		t.Fatalf("tour has %d steps", len(steps))
	}

	seen := map[string]bool{}
	for _, s := range steps {
		if s.ID == "" || s.Text == "" {
			t.Errorf("step %+v missing id or text", s)
		}
		if seen[s.ID] {
			t.Errorf("duplicate step id %q", s.ID)
		}
		seen[s.ID] = true
	}

	// Walking After from the first step visits every step exactly once.
	cur := steps[0]
	for i := 1; i < len(steps); i++ {
		next, err := After(cur.ID)
		if err != nil {
			t.Fatalf("After(%q): %v", cur.ID, err)
		}
		if next.ID != steps[i].ID {
			t.Fatalf("After(%q) = %q, want %q", cur.ID, next.ID, steps[i].ID)
		}
		cur = next
	}
	if _, err := After(cur.ID); err == nil {
		t.Error("final step reported a successor")
	}
}

func TestAfterUnknown(t *testing.T) {
	if _, err := After("nope"); err == nil {
		t.Error("After(nope) succeeded")
	}
}
