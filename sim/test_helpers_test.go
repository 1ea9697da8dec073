package sim

import "fmt"

// scriptedSource returns pre-programmed durations per rate, cycling when exhausted.
type scriptedSource struct {
	script map[float64][]float64
	next   map[float64]int
}

func newScriptedSource(script map[float64][]float64) *scriptedSource {
	return &scriptedSource{script: script, next: make(map[float64]int)}
}

func (s *scriptedSource) SampleExponential(rate float64) float64 {
	vals, ok := s.script[rate]
	if !ok || len(vals) == 0 {
		panic(fmt.Sprintf("scriptedSource: no script for rate %v", rate))
	}
	i := s.next[rate]
	s.next[rate] = i + 1
	return vals[i%len(vals)]
}

// mustSimulator builds a simulator or panics; for tests with known-valid configs.
func mustSimulator(cfg SimConfig, src RandomSource) *Simulator {
	s, err := NewSimulator(cfg, src)
	if err != nil {
		panic(err)
	}
	return s
}

func queueIDs(wq *WaitQueue) []int {
	ids := make([]int, 0, wq.Len())
	for _, c := range wq.Items() {
		ids = append(ids, c.ID)
	}
	return ids
}
