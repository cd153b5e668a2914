package ecs

// Phase is one named step of a tick.
type Phase struct {
	Name string
	Run  func(dt float64)
}

// Scheduler runs phases in the order they were added. The order is part of
// the simulation contract: the same phases run in the same order every tick.
type Scheduler struct {
	phases []Phase
}

func NewScheduler(phases ...Phase) *Scheduler {
	copied := append([]Phase(nil), phases...)
	return &Scheduler{phases: copied}
}

func (s *Scheduler) Add(name string, run func(dt float64)) {
	if run == nil {
		return
	}
	s.phases = append(s.phases, Phase{Name: name, Run: run})
}

func (s *Scheduler) Run(dt float64) {
	if s == nil {
		return
	}
	for _, p := range s.phases {
		p.Run(dt)
	}
}

func (s *Scheduler) Names() []string {
	names := make([]string, 0, len(s.phases))
	for _, p := range s.phases {
		names = append(names, p.Name)
	}
	return names
}
