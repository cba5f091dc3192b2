package controller

import (
	"strings"
	"trade_edu_backend/internal/service"
	"trade_edu_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type MarketController struct {
	MarketService *service.MarketService
}

func NewMarketController(marketService *service.MarketService) *MarketController {
	return &MarketController{MarketService: marketService}
}

// @Summary 行情报价
// @Description 行情组件数据源，上游故障时返回兜底数据
// @Tags 行情
// @Produce json
// @Param symbols query string false "符号列表，逗号分隔" default(SPY,QQQ)
// @Success 200 {object} util.Response
// @Router /api/market/quotes [get]
func (c *MarketController) GetQuotes(ctx *gin.Context) {
	var symbols []string
	if raw := ctx.Query("symbols"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
	}

	quotes := c.MarketService.GetQuotes(ctx.Request.Context(), symbols)
	util.Success(ctx, quotes)
}
