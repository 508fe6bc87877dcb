package agent

import (
	"encoding/json"
	"fmt"

	"github.com/Jobly-Solutions/lente-ai-sub001/internal/domain/assignment"
	"github.com/Jobly-Solutions/lente-ai-sub001/internal/utils/functional"
)

// filterAgentsByAssignment keeps only platform agents the user has been
// granted. The upstream body is a JSON array of agent objects keyed by
// "id".
func filterAgentsByAssignment(body []byte, assigned []*assignment.Assignment) ([]map[string]any, error) {
	var agents []map[string]any
	if err := json.Unmarshal(body, &agents); err != nil {
		return nil, fmt.Errorf("decode agents payload: %w", err)
	}

	allowed := make(map[string]struct{}, len(assigned))
	for _, a := range assigned {
		allowed[a.AgentID] = struct{}{}
	}

	filtered := functional.Filter(agents, func(agent map[string]any) bool {
		id, _ := agent["id"].(string)
		_, ok := allowed[id]
		return ok
	})
	return filtered, nil
}
