package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/quickmate/backend/internal/application/adapter"
	"github.com/quickmate/backend/internal/application/usecase/commission"
	domainerror "github.com/quickmate/backend/internal/domain/error"
	"github.com/quickmate/backend/internal/integration/entrypoint/dto"
)

// CommissionRuleController exposes read access to commission rules.
type CommissionRuleController struct {
	listUseCase *commission.ListCommissionRulesUseCase
	getUseCase  *commission.GetCommissionRuleUseCase
}

// NewCommissionRuleController creates a new commission rule controller instance.
func NewCommissionRuleController(
	listUseCase *commission.ListCommissionRulesUseCase,
	getUseCase *commission.GetCommissionRuleUseCase,
) *CommissionRuleController {
	return &CommissionRuleController{
		listUseCase: listUseCase,
		getUseCase:  getUseCase,
	}
}

// List handles GET /commission-rules requests.
func (c *CommissionRuleController) List(ctx *gin.Context) {
	var query dto.CommissionRuleListQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		respondBindingError(ctx, err, string(domainerror.ErrCodeInvalidCommissionRule))
		return
	}

	output, err := c.listUseCase.Execute(ctx.Request.Context(), commission.ListCommissionRulesInput{
		Scope:  adapter.CommissionRuleScope(query.Scope),
		Status: query.Status,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCommissionRuleListResponse(output.Rules))
}

// Get handles GET /commission-rules/:id requests.
func (c *CommissionRuleController) Get(ctx *gin.Context) {
	ruleID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		respondError(ctx, domainerror.NewCommissionError(
			domainerror.ErrCodeInvalidCommissionRuleID,
			"invalid commission rule id",
			domainerror.ErrInvalidCommissionRuleID,
		))
		return
	}

	output, err := c.getUseCase.Execute(ctx.Request.Context(), commission.GetCommissionRuleInput{RuleID: ruleID})
	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.ToCommissionRuleResponse(output.Rule))
}
