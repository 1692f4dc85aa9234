package index

import (
	"fmt"
	"slices"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Plan summarizes an executionStats explain of a find.
type Plan struct {
	// Stages lists the winning plan from the root down, e.g. FETCH, IXSCAN.
	Stages              []string `json:"stages"`
	IndexName           string   `json:"index_name,omitempty"`
	NReturned           int64    `json:"n_returned"`
	TotalKeysExamined   int64    `json:"total_keys_examined"`
	TotalDocsExamined   int64    `json:"total_docs_examined"`
	ExecutionTimeMillis int64    `json:"execution_time_millis"`
}

// UsesIndex reports whether the winning plan scans an index.
func (p Plan) UsesIndex() bool {
	return p.IndexName != ""
}

// CollectionScan reports whether the winning plan reads the whole collection.
func (p Plan) CollectionScan() bool {
	return slices.Contains(p.Stages, "COLLSCAN")
}

type planStage struct {
	Stage       string      `bson:"stage"`
	IndexName   string      `bson:"indexName"`
	InputStage  *planStage  `bson:"inputStage"`
	InputStages []planStage `bson:"inputStages"`
	// Set instead of Stage when the slot based engine ran the query.
	QueryPlan *planStage `bson:"queryPlan"`
}

type explainReply struct {
	QueryPlanner struct {
		WinningPlan planStage `bson:"winningPlan"`
	} `bson:"queryPlanner"`
	ExecutionStats struct {
		NReturned           int64 `bson:"nReturned"`
		ExecutionTimeMillis int64 `bson:"executionTimeMillis"`
		TotalKeysExamined   int64 `bson:"totalKeysExamined"`
		TotalDocsExamined   int64 `bson:"totalDocsExamined"`
	} `bson:"executionStats"`
}

func parseExplain(raw bson.Raw) (Plan, error) {
	var reply explainReply
	if err := bson.Unmarshal(raw, &reply); err != nil {
		return Plan{}, fmt.Errorf("decode explain: %w", err)
	}

	root := &reply.QueryPlanner.WinningPlan
	if root.QueryPlan != nil {
		root = root.QueryPlan
	}
	if root.Stage == "" {
		return Plan{}, fmt.Errorf("decode explain: no winning plan")
	}

	stats := reply.ExecutionStats
	plan := Plan{
		NReturned:           stats.NReturned,
		TotalKeysExamined:   stats.TotalKeysExamined,
		TotalDocsExamined:   stats.TotalDocsExamined,
		ExecutionTimeMillis: stats.ExecutionTimeMillis,
	}
	for s := root; s != nil; {
		plan.Stages = append(plan.Stages, s.Stage)
		if plan.IndexName == "" {
			plan.IndexName = s.IndexName
		}
		switch {
		case s.InputStage != nil:
			s = s.InputStage
		case len(s.InputStages) > 0:
			s = &s.InputStages[0]
		default:
			s = nil
		}
	}
	return plan, nil
}
