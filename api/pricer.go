package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/banachtech/optionmc/mc"
	"github.com/banachtech/optionmc/payoff"
	"github.com/banachtech/optionmc/pricer"
	"github.com/banachtech/optionmc/util"

	"github.com/gin-gonic/gin"
)

type marketRequest struct {
	Spot     float64 `json:"spot" binding:"required,gt=0"`
	Sigma    float64 `json:"sigma" binding:"min=0"`
	Rate     float64 `json:"rate"`
	Dividend float64 `json:"dividend"`
	Start    float64 `json:"start"`
	Maturity float64 `json:"maturity" binding:"required"`
	Steps    int     `json:"steps" binding:"required,min=1"`
}

// model is the risk neutral GBM of the market.
func (m marketRequest) model() (*mc.GBM, error) {
	return mc.NewGBM(mc.Config{
		Spot:     m.Spot,
		Sigma:    m.Sigma,
		Drift:    m.Rate - m.Dividend,
		Start:    m.Start,
		Maturity: m.Maturity,
		Steps:    m.Steps,
	})
}

func (m marketRequest) pricing() payoff.Market {
	return payoff.Market{
		Spot:     m.Spot,
		Sigma:    m.Sigma,
		Rate:     m.Rate,
		Dividend: m.Dividend,
		Tau:      m.Maturity - m.Start,
	}
}

type priceRequest struct {
	Market   marketRequest   `json:"market"`
	Contract payoff.Contract `json:"contract"`
	Paths    int             `json:"paths" binding:"required,min=1"`
	Mode     pricer.Mode     `json:"mode"`
	Interval float64         `json:"interval"`
	Seed     uint64          `json:"seed"`
}

type priceResponse struct {
	Contract   payoff.Contract `json:"contract"`
	Price      float64         `json:"price"`
	Paths      int             `json:"paths"`
	Mode       pricer.Mode     `json:"mode"`
	Seed       uint64          `json:"seed"`
	Analytic   *float64        `json:"analytic"`
	Error      *float64        `json:"error"`
	ImpliedVol *float64        `json:"implied_vol"`
}

func (server *Server) price(c *gin.Context) {
	var req priceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if req.Paths > server.cfg.Server.MaxPaths {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(fmt.Errorf("paths %d exceeds the limit of %d", req.Paths, server.cfg.Server.MaxPaths)))
		return
	}

	model, err := req.Market.model()
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}
	if req.Seed == 0 {
		req.Seed = util.RandomSeed()
	}

	mkt := req.Market.pricing()
	res, err := pricer.Price(c.Request.Context(), model, pricer.Request{
		Contract:       req.Contract,
		Paths:          req.Paths,
		Mode:           req.Mode,
		Rate:           mkt.Rate,
		TimeToMaturity: mkt.Tau,
		SampleInterval: req.Interval,
		Seed:           req.Seed,
		Workers:        server.cfg.Simulation.Workers,
	})
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}

	resp := priceResponse{
		Contract: req.Contract,
		Price:    res.Price,
		Paths:    res.Paths,
		Mode:     req.Mode,
		Seed:     req.Seed,
	}
	analytic, err := req.Contract.Price(mkt)
	switch {
	case err == nil:
		diff := res.Price - analytic
		resp.Analytic, resp.Error = &analytic, &diff
		if iv, err := payoff.ImpliedVol(req.Contract, mkt, res.Price); err == nil {
			resp.ImpliedVol = &iv
		}
	case errors.Is(err, payoff.ErrNoClosedForm), errors.Is(err, payoff.ErrDegenerate):
	default:
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}
