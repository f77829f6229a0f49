package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/rowguard/id"
	"github.com/xraph/rowguard/record"
)

func (a *API) registerRecordRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("records"))

	if err := g.GET("/records/:resource", a.listRecords,
		forge.WithSummary("List records"),
		forge.WithDescription("Lists records of one resource type. Rows the actor may not read are silently omitted."),
		forge.WithOperationID("listRecords"),
		forge.WithRequestSchema(ListRecordsRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Record list", []*record.Record{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.POST("/records/:resource", a.createRecord,
		forge.WithSummary("Create record"),
		forge.WithDescription("Creates a record if the actor may insert the proposed row."),
		forge.WithOperationID("createRecord"),
		forge.WithRequestSchema(CreateRecordRequest{}),
		forge.WithCreatedResponse(&record.Record{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/records/:resource/:recordId", a.getRecord,
		forge.WithSummary("Get record"),
		forge.WithDescription("Returns one record. A row the actor may not read reports not found."),
		forge.WithOperationID("getRecord"),
		forge.WithResponseSchema(http.StatusOK, "Record details", &record.Record{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.PUT("/records/:resource/:recordId", a.updateRecord,
		forge.WithSummary("Update record"),
		forge.WithDescription("Updates a record if the actor may update the existing row."),
		forge.WithOperationID("updateRecord"),
		forge.WithRequestSchema(UpdateRecordRequest{}),
		forge.WithResponseSchema(http.StatusOK, "Updated record", &record.Record{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	return g.DELETE("/records/:resource/:recordId", a.deleteRecord,
		forge.WithSummary("Delete record"),
		forge.WithDescription("Deletes a record if the actor may delete the existing row."),
		forge.WithOperationID("deleteRecord"),
		forge.WithNoContentResponse(),
		forge.WithErrorResponses(),
	)
}

func (a *API) listRecords(ctx forge.Context, req *ListRecordsRequest) ([]*record.Record, error) {
	filter := &record.ListFilter{
		Limit:  defaultLimit(req.Limit),
		Offset: req.Offset,
	}

	rows, err := a.gw.List(ctx.Context(), ctx.Param("resource"), filter)
	if err != nil {
		return nil, mapError(err)
	}

	return rows, ctx.JSON(http.StatusOK, rows)
}

func (a *API) createRecord(ctx forge.Context, req *CreateRecordRequest) (*record.Record, error) {
	rec, err := a.gw.Insert(ctx.Context(), ctx.Param("resource"), req.Fields)
	if err != nil {
		return nil, mapError(err)
	}

	return rec, ctx.JSON(http.StatusCreated, rec)
}

func (a *API) getRecord(ctx forge.Context, _ *GetRecordRequest) (*record.Record, error) {
	recordID, err := id.ParseRecordID(ctx.Param("recordId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid record ID: %v", err))
	}

	rec, err := a.gw.Get(ctx.Context(), ctx.Param("resource"), recordID)
	if err != nil {
		return nil, mapError(err)
	}

	return rec, ctx.JSON(http.StatusOK, rec)
}

func (a *API) updateRecord(ctx forge.Context, req *UpdateRecordRequest) (*record.Record, error) {
	recordID, err := id.ParseRecordID(ctx.Param("recordId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid record ID: %v", err))
	}
	if len(req.Fields) == 0 {
		return nil, forge.BadRequest("fields are required")
	}

	rec, err := a.gw.Update(ctx.Context(), ctx.Param("resource"), recordID, req.Fields)
	if err != nil {
		return nil, mapError(err)
	}

	return rec, ctx.JSON(http.StatusOK, rec)
}

func (a *API) deleteRecord(ctx forge.Context, _ *GetRecordRequest) (*struct{}, error) {
	recordID, err := id.ParseRecordID(ctx.Param("recordId"))
	if err != nil {
		return nil, forge.BadRequest(fmt.Sprintf("invalid record ID: %v", err))
	}

	if err := a.gw.Delete(ctx.Context(), ctx.Param("resource"), recordID); err != nil {
		return nil, mapError(err)
	}

	return nil, ctx.NoContent(http.StatusNoContent)
}
