package core

import (
	"sync/atomic"
	"time"
)

type ScanStats struct {
	pagesFound   int64
	requestsMade int64
	errors       int64
	findings     int64
}

func NewScanStats() *ScanStats {
	return &ScanStats{}
}

func (s *ScanStats) AddPagesFound(count int) {
	if s != nil && count > 0 {
		atomic.AddInt64(&s.pagesFound, int64(count))
	}
}

func (s *ScanStats) IncrementRequestsMade() {
	if s != nil {
		atomic.AddInt64(&s.requestsMade, 1)
	}
}

func (s *ScanStats) IncrementErrors() {
	if s != nil {
		atomic.AddInt64(&s.errors, 1)
	}
}

func (s *ScanStats) IncrementFindings() {
	if s != nil {
		atomic.AddInt64(&s.findings, 1)
	}
}

func (s *ScanStats) GetPagesFound() int64 {
	return atomic.LoadInt64(&s.pagesFound)
}

func (s *ScanStats) GetRequestsMade() int64 {
	return atomic.LoadInt64(&s.requestsMade)
}

func (s *ScanStats) GetErrors() int64 {
	return atomic.LoadInt64(&s.errors)
}

func (s *ScanStats) GetFindings() int64 {
	return atomic.LoadInt64(&s.findings)
}

func (s *ScanStats) GetRPS(elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(s.GetRequestsMade()) / seconds
}
