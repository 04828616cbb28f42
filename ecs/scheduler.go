package ecs

import (
	"context"
	"sort"
	"time"
)

type scheduledSystem struct {
	system System
	order  int
	seq    int // registration order; Register's stable sort keeps equal-order systems in it without reading this field
}

// Scheduler runs registered Systems in (phase, order) sequence once per
// tick, flushing the tick's Commands and clearing one-frame state
// between PostUpdate and Presentation.
type Scheduler struct {
	world   *World
	systems [4][]scheduledSystem
	nextSeq int
}

// NewScheduler returns a Scheduler that runs systems against world.
func NewScheduler(world *World) *Scheduler {
	return &Scheduler{world: world}
}

// Register adds system to phase, to run in ascending order relative to
// other systems registered in the same phase. Systems registered with
// equal order run in registration order.
func (s *Scheduler) Register(phase Phase, order int, system System) {
	s.systems[phase] = append(s.systems[phase], scheduledSystem{system: system, order: order, seq: s.nextSeq})
	s.nextSeq++
	sort.SliceStable(s.systems[phase], func(i, j int) bool {
		return s.systems[phase][i].order < s.systems[phase][j].order
	})
}

// Once runs every phase in canonical order for one tick of length dt
// seconds: PreUpdate, Update, PostUpdate, a Commands flush and
// one-frame clear, then Presentation.
func (s *Scheduler) Once(dt float64) {
	frame := newUpdateFrame(dt, s.world)

	for phase := PreUpdate; phase <= PostUpdate; phase++ {
		frame.Phase = phase
		s.runPhase(phase, frame)
	}

	frame.Commands.Flush(s.world)
	s.world.ClearOneFrame()

	frame.Phase = Presentation
	s.runPhase(Presentation, frame)
}

func (s *Scheduler) runPhase(phase Phase, frame *UpdateFrame) {
	for _, entry := range s.systems[phase] {
		entry.system.Execute(frame)
	}
}

// Run calls Once repeatedly at the given interval until ctx is
// cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(lastTime).Seconds()
			lastTime = now
			s.Once(dt)
		}
	}
}
