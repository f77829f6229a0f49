package api

import (
	"fmt"
	"net/http"

	"github.com/xraph/forge"

	"github.com/xraph/rowguard/policy"
	"github.com/xraph/rowguard/resource"
)

func (a *API) registerResourceRoutes(router forge.Router) error {
	g := router.Group("/v1", forge.WithGroupTags("resources"))

	if err := g.GET("/resources", a.listResources,
		forge.WithSummary("List resource types"),
		forge.WithDescription("Returns the schema catalog: every resource type rows can belong to."),
		forge.WithOperationID("listResources"),
		forge.WithResponseSchema(http.StatusOK, "Resource type list", []resource.Type{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/resources/:resourceType", a.getResource,
		forge.WithSummary("Get resource type"),
		forge.WithDescription("Returns one resource type's declaration, including its owner columns."),
		forge.WithOperationID("getResource"),
		forge.WithResponseSchema(http.StatusOK, "Resource type details", resource.Type{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	if err := g.GET("/resources/:resourceType/rules", a.getResourceRules,
		forge.WithSummary("Get resource type rules"),
		forge.WithDescription("Returns the rules declared for one resource type. A cataloged type with no rules is valid: every operation on it is denied."),
		forge.WithOperationID("getResourceRules"),
		forge.WithResponseSchema(http.StatusOK, "Rule list", []policy.Rule{}),
		forge.WithErrorResponses(),
	); err != nil {
		return err
	}

	rg := router.Group("/v1", forge.WithGroupTags("rules"))

	return rg.GET("/rules", a.listRules,
		forge.WithSummary("List rules"),
		forge.WithDescription("Returns every registered rule in registration order."),
		forge.WithOperationID("listRules"),
		forge.WithResponseSchema(http.StatusOK, "Rule list", []policy.Rule{}),
		forge.WithErrorResponses(),
	)
}

func (a *API) listResources(ctx forge.Context, _ *struct{}) ([]resource.Type, error) {
	types := a.eng.Catalog().Types()
	return types, ctx.JSON(http.StatusOK, types)
}

func (a *API) getResource(ctx forge.Context, _ *GetResourceRequest) (*resource.Type, error) {
	name := ctx.Param("resourceType")
	typ, ok := a.eng.Catalog().Lookup(name)
	if !ok {
		return nil, forge.NotFound(fmt.Sprintf("resource type %q not found", name))
	}
	return &typ, ctx.JSON(http.StatusOK, typ)
}

func (a *API) getResourceRules(ctx forge.Context, _ *GetResourceRequest) ([]policy.Rule, error) {
	name := ctx.Param("resourceType")
	if !a.eng.Catalog().Has(name) {
		return nil, forge.NotFound(fmt.Sprintf("resource type %q not found", name))
	}
	rules := a.eng.Registry().ResourceRules(name)
	return rules, ctx.JSON(http.StatusOK, rules)
}

func (a *API) listRules(ctx forge.Context, _ *struct{}) ([]policy.Rule, error) {
	rules := a.eng.Registry().Rules()
	return rules, ctx.JSON(http.StatusOK, rules)
}
