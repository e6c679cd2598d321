package utils

import "time"

// Stats for performance monitoring. Timings are advisory.
type Stats struct {
	NanosPerCell      float64
	TicksPerSecond    float64
	Generation        uint64
	Population        int
	AveragePopulation float64
	StartTime         time.Time
}

func NewStats() *Stats {
	return &Stats{StartTime: time.Now()}
}

// Update records one finished step over cells cells that took duration
func (s *Stats) Update(generation uint64, population, cells int, duration time.Duration) {
	s.Generation = generation
	s.Population = population
	if duration > 0 {
		s.TicksPerSecond = 1.0 / duration.Seconds()
		if cells > 0 {
			s.NanosPerCell = float64(duration.Nanoseconds()) / float64(cells)
		}
	}

	// Simple moving average for population
	if s.AveragePopulation == 0 {
		s.AveragePopulation = float64(population)
	} else {
		s.AveragePopulation = (s.AveragePopulation * 0.9) + (float64(population) * 0.1)
	}
}
