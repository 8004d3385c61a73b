package store

import (
	"sort"
	"strings"
	"time"

	"github.com/abhisek/studybuddy/internal/quiz"
)

// Stats summarizes stored sessions. Ratios are in [0, 1].
type Stats struct {
	// Topic is the filter used; empty for all topics.
	Topic string

	// Count is the number of sessions with at least one question; it is
	// the denominator of AverageScoreRatio.
	Count             int
	AverageScoreRatio float64
	HighestRatio      float64
	LowestRatio       float64
	TotalQuestions    int

	ByDifficulty map[quiz.Difficulty]DifficultyStat

	// Trend has one point per UTC calendar day with sessions, oldest first.
	Trend []TrendPoint
}

type DifficultyStat struct {
	Count             int
	AverageScoreRatio float64
}

type TrendPoint struct {
	Day               time.Time
	Count             int
	AverageScoreRatio float64
}

// Aggregate computes Stats over sessions matching topic. The average is
// sum(score/total)/count over sessions with at least one question.
func Aggregate(sessions []quiz.Session, topic string) *Stats {
	st := &Stats{Topic: topic, ByDifficulty: map[quiz.Difficulty]DifficultyStat{}}

	type acc struct {
		n   int
		sum float64
	}
	var all acc
	byDiff := map[quiz.Difficulty]*acc{}
	byDay := map[time.Time]*acc{}

	for i := range sessions {
		s := &sessions[i]
		if topic != "" && !strings.EqualFold(s.Topic, topic) {
			continue
		}
		if s.Total == 0 {
			continue
		}
		st.Count++
		st.TotalQuestions += s.Total

		r := s.Ratio()
		if all.n == 0 || r > st.HighestRatio {
			st.HighestRatio = r
		}
		if all.n == 0 || r < st.LowestRatio {
			st.LowestRatio = r
		}
		all.n++
		all.sum += r

		d := byDiff[s.Difficulty]
		if d == nil {
			d = &acc{}
			byDiff[s.Difficulty] = d
		}
		d.n++
		d.sum += r

		day := s.StartedAt.UTC().Truncate(24 * time.Hour)
		p := byDay[day]
		if p == nil {
			p = &acc{}
			byDay[day] = p
		}
		p.n++
		p.sum += r
	}

	if all.n > 0 {
		st.AverageScoreRatio = all.sum / float64(all.n)
	}
	for d, a := range byDiff {
		st.ByDifficulty[d] = DifficultyStat{Count: a.n, AverageScoreRatio: a.sum / float64(a.n)}
	}
	for day, a := range byDay {
		st.Trend = append(st.Trend, TrendPoint{Day: day, Count: a.n, AverageScoreRatio: a.sum / float64(a.n)})
	}
	sort.Slice(st.Trend, func(i, j int) bool { return st.Trend[i].Day.Before(st.Trend[j].Day) })
	return st
}
