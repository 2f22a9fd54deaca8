package usecase

import (
	"sync"

	"patientscribe/internal/ports"
)

type activeSession struct {
	capture ports.CaptureSession
	ticker  ports.Ticker

	mu      sync.Mutex
	paused  bool
	elapsed int
	ticks   int

	stopOnce  sync.Once
	clockStop chan struct{}
	clockDone chan struct{}
}

func newActiveSession(capture ports.CaptureSession, ticker ports.Ticker) *activeSession {
	return &activeSession{
		capture:   capture,
		ticker:    ticker,
		clockStop: make(chan struct{}),
		clockDone: make(chan struct{}),
	}
}

// tick advances the elapsed counter by one second unless the session is
// paused; ticks while paused are ignored.
func (s *activeSession) tick() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticks++
	if s.paused {
		return s.elapsed, false
	}
	s.elapsed++
	return s.elapsed, true
}

func (s *activeSession) tickCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ticks
}

func (s *activeSession) setPaused(paused bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = paused
}

func (s *activeSession) elapsedSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// stopClock halts the elapsed counter and waits for the clock loop to exit.
func (s *activeSession) stopClock() {
	s.stopOnce.Do(func() {
		close(s.clockStop)
	})
	s.ticker.Stop()
	<-s.clockDone
}

func runElapsedClock(session *activeSession, events ports.EventSink) {
	defer close(session.clockDone)

	for {
		select {
		case <-session.clockStop:
			return
		case _, ok := <-session.ticker.C():
			if !ok {
				return
			}
			if seconds, counted := session.tick(); counted {
				events.ElapsedChanged(seconds)
			}
		}
	}
}
