package attempt

// TopicStats aggregates a user's attempts for one (subject, topic) pair.
type TopicStats struct {
	SubjectCode   string
	TopicNumber   *int
	TotalAttempts int
	AvgScore      int
}

type groupKey struct {
	subject  string
	topic    int
	hasTopic bool
}

// Summarize groups attempts by subject and topic. Module-wide attempts
// (nil topic) form their own group per subject and are never merged with a
// numbered topic. Groups appear in the order their first attempt does.
func Summarize(attempts []Attempt) []TopicStats {
	var (
		order  []groupKey
		sums   = make(map[groupKey]int)
		counts = make(map[groupKey]int)
		topics = make(map[groupKey]*int)
	)

	for _, a := range attempts {
		k := groupKey{subject: a.SubjectCode}
		if a.TopicNumber != nil {
			k.topic = *a.TopicNumber
			k.hasTopic = true
		}
		if _, ok := counts[k]; !ok {
			order = append(order, k)
			if k.hasTopic {
				n := k.topic
				topics[k] = &n
			}
		}
		sums[k] += a.Score
		counts[k]++
	}

	stats := make([]TopicStats, 0, len(order))
	for _, k := range order {
		stats = append(stats, TopicStats{
			SubjectCode:   k.subject,
			TopicNumber:   topics[k],
			TotalAttempts: counts[k],
			AvgScore:      roundedMean(sums[k], counts[k]),
		})
	}
	return stats
}

// roundedMean rounds sum/n half up. Scores are non-negative.
func roundedMean(sum, n int) int {
	if n == 0 {
		return 0
	}
	return (2*sum + n) / (2 * n)
}
