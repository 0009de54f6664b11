package api

import (
	"net/http"
	"strings"

	"deepresearch/internal/domain"
)

// pathID extracts the trailing path segment after prefix, e.g.
// pathID("/tasks/abc/status", "/tasks/") == "abc".
func pathID(path, prefix string) string {
	rest := strings.TrimPrefix(path, prefix)
	rest = strings.TrimSuffix(rest, "/status")
	return strings.Trim(rest, "/")
}

func (s *Server) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	taskID := pathID(r.URL.Path, "/tasks/")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "task id is required")
		return
	}

	record, err := s.tasks.Status(r.Context(), taskID)
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}

	resp := map[string]any{"taskId": record.TaskID, "status": record.Status}
	if record.Error != "" {
		resp["details"] = record.Error
	} else if record.Result != nil {
		resp["details"] = map[string]any{
			"qualityScore":    record.Result.QualityScore,
			"completionLevel": record.Result.CompletionLevel,
			"iterations":      len(record.Result.Iterations),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	taskID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/reports/"), "/")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "task id is required")
		return
	}

	record, err := s.tasks.Status(r.Context(), taskID)
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if record.Status != domain.StatusCompleted {
		writeJSON(w, http.StatusOK, map[string]string{"status": record.Status})
		return
	}

	report, err := s.tasks.Report(r.Context(), taskID)
	if err != nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	resp := map[string]any{
		"status":  record.Status,
		"reportMd": report,
	}
	if record.Result != nil {
		resp["sourcesBib"] = citationSources(record.Result.FinalEvidence)
		resp["metricsJson"] = map[string]any{
			"qualityScore":    record.Result.QualityScore,
			"completionLevel": record.Result.CompletionLevel,
			"durationSeconds": record.Result.DurationSeconds,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeepResearchResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	taskID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/deep-research/"), "/")
	if taskID == "" {
		writeError(w, http.StatusBadRequest, "task id is required")
		return
	}

	record, err := s.tasks.Status(r.Context(), taskID)
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return
	}
	if record.Status != domain.StatusCompleted {
		writeJSON(w, http.StatusOK, map[string]string{"status": record.Status})
		return
	}

	report, err := s.tasks.Report(r.Context(), taskID)
	if err != nil {
		writeError(w, http.StatusNotFound, "report not found")
		return
	}

	resp := map[string]any{"status": record.Status, "reportMd": report}
	if record.Result != nil {
		resp["researchSummary"] = map[string]any{
			"originalQuery":  record.Result.OriginalQuery,
			"iterationCount": len(record.Result.Iterations),
			"evidenceCount":  len(record.Result.FinalEvidence),
		}
		resp["qualityMetrics"] = map[string]any{
			"qualityScore":    record.Result.QualityScore,
			"completionLevel": record.Result.CompletionLevel,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func citationSources(evidence []domain.Evidence) []string {
	seen := make(map[string]bool, len(evidence))
	sources := make([]string, 0, len(evidence))
	for _, e := range evidence {
		if seen[e.Source.URL] {
			continue
		}
		seen[e.Source.URL] = true
		sources = append(sources, e.Source.URL)
	}
	return sources
}
