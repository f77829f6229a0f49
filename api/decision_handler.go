package api

import (
	"net/http"
	"time"

	"github.com/xraph/forge"

	"github.com/xraph/rowguard/audit"
)

func (a *API) registerDecisionRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("decisions"))

	return g.GET("/decisions", a.listDecisions,
		forge.WithSummary("Query decision log"),
		forge.WithDescription("Returns audited authorization decisions with optional filters, newest first."),
		forge.WithOperationID("listDecisions"),
		forge.WithRequestSchema(ListDecisionsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Decision list", ListResponse[*audit.Entry]{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) listDecisions(ctx forge.Context, req *ListDecisionsRequest) (*ListResponse[*audit.Entry], error) {
	store := a.eng.Audit()
	if store == nil {
		return nil, forge.NotFound("decision auditing is not enabled")
	}

	filter := &audit.QueryFilter{
		ActorID:   req.ActorID,
		ActorRole: req.ActorRole,
		Operation: req.Operation,
		Resource:  req.Resource,
		RecordID:  req.RecordID,
		Decision:  req.Decision,
		Limit:     defaultLimit(req.Limit),
		Offset:    req.Offset,
	}

	if req.After != "" {
		t, err := time.Parse(time.RFC3339, req.After)
		if err != nil {
			return nil, forge.BadRequest("invalid after timestamp")
		}
		filter.After = &t
	}
	if req.Before != "" {
		t, err := time.Parse(time.RFC3339, req.Before)
		if err != nil {
			return nil, forge.BadRequest("invalid before timestamp")
		}
		filter.Before = &t
	}

	entries, err := store.ListDecisions(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}
	total, err := store.CountDecisions(ctx.Context(), filter)
	if err != nil {
		return nil, mapError(err)
	}

	resp := &ListResponse[*audit.Entry]{
		Items:  entries,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}
	return resp, ctx.JSON(http.StatusOK, resp)
}
