package records

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/quasilyte/gdata/v2"
)

func testManager(t *testing.T) *gdata.Manager {
	t.Helper()
	appName := fmt.Sprintf("survivors_test_%d", time.Now().UnixNano())
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil
	}
	t.Cleanup(func() {
		if home, err := os.UserHomeDir(); err == nil {
			os.RemoveAll(filepath.Join(home, ".local", "share", appName))
		}
	})
	return m
}

func TestSubmitInMemory(t *testing.T) {
	s := NewStore(nil)
	cases := []struct {
		survival float64
		kills    int
		improved bool
	}{
		{10, 5, true},
		{8, 4, false},
		{8, 9, true},
		{12, 0, true},
	}
	for i, c := range cases {
		improved, err := s.Submit(c.survival, c.kills)
		if err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if improved != c.improved {
			t.Fatalf("run %d: improved = %v, want %v", i, improved, c.improved)
		}
	}
	want := Record{BestSurvival: 12, BestKills: 9, Runs: 4}
	if s.Best() != want {
		t.Fatalf("best = %+v, want %+v", s.Best(), want)
	}
	if s.Persistent() {
		t.Fatalf("nil manager should not be persistent")
	}
}

func TestRecordSurvivesReopen(t *testing.T) {
	m := testManager(t)
	if m == nil {
		t.Skip("gdata unavailable in this environment")
	}
	s := NewStore(m)
	if _, err := s.Submit(42.5, 17); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	reopened := NewStore(m)
	if got := reopened.Best(); got.BestSurvival != 42.5 || got.BestKills != 17 || got.Runs != 1 {
		t.Fatalf("reloaded record = %+v", got)
	}
}
