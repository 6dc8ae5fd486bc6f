package aggregate

import "github.com/jobby/job-board-back/internal/domain"

// KeyFunc derives the deduplication key for a job.
type KeyFunc func(domain.Job) string

// TitleKey is the default key: the exact title string as supplied, case
// sensitive. No whitespace or case normalization is applied so repeated
// inputs always dedupe the same way.
func TitleKey(job domain.Job) string {
	return job.Title
}

// Dedupe scans jobs once in order, emits the first occurrence of each
// unseen key and stops after limit emissions. The output preserves the
// relative order of first occurrences.
func Dedupe(jobs []domain.Job, key KeyFunc, limit int) []domain.Job {
	if limit <= 0 {
		return []domain.Job{}
	}
	if key == nil {
		key = TitleKey
	}

	seen := make(map[string]struct{}, len(jobs))
	result := make([]domain.Job, 0, min(limit, len(jobs)))
	for _, job := range jobs {
		k := key(job)
		if _, exists := seen[k]; exists {
			continue
		}
		seen[k] = struct{}{}
		result = append(result, job)
		if len(result) >= limit {
			break
		}
	}
	return result
}
