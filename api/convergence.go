package api

import (
	"fmt"
	"net/http"

	"github.com/banachtech/optionmc/convergence"
	"github.com/banachtech/optionmc/payoff"
	"github.com/banachtech/optionmc/pricer"
	"github.com/banachtech/optionmc/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type convergenceRequest struct {
	Name           string          `json:"name" binding:"required"`
	Market         marketRequest   `json:"market"`
	Contract       payoff.Contract `json:"contract"`
	Runs           int             `json:"runs" binding:"required,min=1"`
	Simulations    []int           `json:"simulations" binding:"required,dive,min=1"`
	Modes          []pricer.Mode   `json:"modes" binding:"required"`
	Interval       float64         `json:"interval"`
	ReferencePaths int             `json:"reference_paths" binding:"min=0"`
	Seed           uint64          `json:"seed"`
}

type reportResponse struct {
	*convergence.Report
	Analytic bool   `json:"analytic"`
	Seed     uint64 `json:"seed"`
}

// work counts the paths the request simulates, the reference run included when
// the contract has no closed form. It stops with false as soon as the count
// would pass limit, so large runs or simulations cannot overflow it.
func (req convergenceRequest) work(referencePaths, limit int) (int, bool) {
	total := 0
	if req.Contract.Kind == payoff.Barrier || req.Contract.Kind == payoff.Asian {
		total = referencePaths
	}
	if total > limit {
		return total, false
	}
	modes := len(req.Modes)
	if modes == 0 {
		return total, true
	}
	if req.Runs > limit/modes {
		return total, false
	}
	per := req.Runs * modes
	for _, n := range req.Simulations {
		if n > (limit-total)/per {
			return total, false
		}
		total += n * per
	}
	return total, true
}

func (server *Server) convergence(c *gin.Context) {
	var req convergenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	if req.ReferencePaths == 0 {
		req.ReferencePaths = server.cfg.Simulation.ReferencePaths
	}
	if _, ok := req.work(req.ReferencePaths, server.cfg.Server.MaxPaths); !ok {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(fmt.Errorf("request needs more than %d paths", server.cfg.Server.MaxPaths)))
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

	ctx := c.Request.Context()
	mkt := req.Market.pricing()
	contract := req.Contract
	ref, analytic, err := convergence.Reference(ctx, model, contract, mkt, req.ReferencePaths, util.Seed(req.Seed, -1), server.cfg.Simulation.Workers)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}

	plan := convergence.Plan{
		Name:           req.Name,
		Contract:       contract,
		Runs:           req.Runs,
		Simulations:    req.Simulations,
		Modes:          req.Modes,
		Interval:       req.Interval,
		Reference:      ref,
		Rate:           mkt.Rate,
		TimeToMaturity: mkt.Tau,
		Seed:           req.Seed,
		Workers:        server.cfg.Simulation.Workers,
	}
	entry := server.log.WithFields(log.Fields{"request": c.GetString(authorizationKeyLabel), "seed": req.Seed})
	rep, err := convergence.Run(ctx, model, plan, convergence.WithLogger(entry))
	if err != nil {
		_ = c.Error(err)
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}

	if err := server.store.SaveReport(ctx, rep); err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	c.JSON(http.StatusCreated, reportResponse{Report: rep, Analytic: analytic, Seed: req.Seed})
}

func (server *Server) listReports(c *gin.Context) {
	reports, err := server.store.ListReports(c)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (server *Server) getReport(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse(err))
		return
	}
	rep, err := server.store.GetReport(c, id)
	if err != nil {
		c.AbortWithStatusJSON(statusOf(err), errorResponse(err))
		return
	}
	c.JSON(http.StatusOK, rep)
}
