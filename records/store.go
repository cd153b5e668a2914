// Package records persists the best run across sessions.
package records

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

const (
	AppName = "survivors"

	recordObject   = "records"
	recordProperty = "best"
)

// Record is the persisted summary of every run so far.
type Record struct {
	BestSurvival float64 `yaml:"bestSurvival"`
	BestKills    int     `yaml:"bestKills"`
	Runs         int     `yaml:"runs"`
}

// Store keeps the record in memory and mirrors it to gdata. A nil manager
// runs in memory only.
type Store struct {
	manager *gdata.Manager
	record  Record
}

// Open creates a gdata manager for AppName. On failure it logs and returns
// an in-memory store.
func Open() *Store {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("[Records] Warning: persistence unavailable: %v (in-memory only)", err)
		m = nil
	}
	return NewStore(m)
}

func NewStore(manager *gdata.Manager) *Store {
	s := &Store{manager: manager}
	if err := s.Load(); err != nil {
		log.Printf("[Records] Warning: failed to load record: %v (starting fresh)", err)
	}
	return s
}

func (s *Store) Load() error {
	s.record = Record{}
	if s.manager == nil {
		return nil
	}
	if !s.manager.ObjectPropExists(recordObject, recordProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(recordObject, recordProperty)
	if err != nil {
		return fmt.Errorf("records: load: %w", err)
	}
	var r Record
	if err := yaml.Unmarshal(data, &r); err != nil {
		return fmt.Errorf("records: unmarshal: %w", err)
	}
	s.record = r
	return nil
}

func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(&s.record)
	if err != nil {
		return fmt.Errorf("records: marshal: %w", err)
	}
	if err := s.manager.SaveObjectProp(recordObject, recordProperty, data); err != nil {
		return fmt.Errorf("records: save: %w", err)
	}
	return nil
}

// Submit counts a finished run and reports whether it beat the best
// survival time or kill count.
func (s *Store) Submit(survival float64, kills int) (bool, error) {
	s.record.Runs++
	improved := false
	if survival > s.record.BestSurvival {
		s.record.BestSurvival = survival
		improved = true
	}
	if kills > s.record.BestKills {
		s.record.BestKills = kills
		improved = true
	}
	if err := s.Save(); err != nil {
		return improved, err
	}
	if improved {
		log.Printf("[Records] new best: %.1fs, %d kills", s.record.BestSurvival, s.record.BestKills)
	}
	return improved, nil
}

func (s *Store) Best() Record {
	return s.record
}

// Persistent reports whether records survive a restart.
func (s *Store) Persistent() bool {
	return s.manager != nil
}
