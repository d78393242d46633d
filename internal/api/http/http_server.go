package http

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/evapetschnigg/CDA/internal/api/dto"
	"github.com/evapetschnigg/CDA/internal/core"
	"github.com/evapetschnigg/CDA/internal/domain"
	"github.com/evapetschnigg/CDA/internal/middleware"
	"github.com/evapetschnigg/CDA/internal/port"
)

type HTTPServer struct {
	log   *zap.Logger
	mgr   *core.Manager
	repo  port.Repository
	cache port.Cache
	hub   *Hub
	rng   *rand.Rand

	upgrader websocket.Upgrader
}

func NewHTTPServer(log *zap.Logger, mgr *core.Manager, repo port.Repository, cache port.Cache, rng *rand.Rand) *HTTPServer {
	return &HTTPServer{
		log:   log,
		mgr:   mgr,
		repo:  repo,
		cache: cache,
		hub:   NewHub(log),
		rng:   rng,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Lab clients are served from the same host.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (s *HTTPServer) Run(addr string) error {
	return s.Router().Run(addr)
}

func (s *HTTPServer) Router() *gin.Engine {
	r := gin.Default()

	r.POST("/markets", s.openMarket)
	r.GET("/markets", s.listMarkets)
	r.GET("/markets/:market/book", s.getBook)
	r.GET("/markets/:market/export.csv", s.exportMarket)
	r.POST("/markets/:market/close", s.closeMarket)
	r.GET("/ws/:market/:participant", s.serveWS)

	rl := middleware.NewRateLimiter(100 * time.Millisecond)
	r.POST("/markets/:market/events", rl.Middleware(), s.postEvent)

	return r
}

func (s *HTTPServer) openMarket(c *gin.Context) {
	var req dto.OpenMarketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	cfg := core.SessionConfig{
		Framing:       domain.Baseline,
		EndowmentType: domain.Homogeneous,
		Traders:       req.Traders,
		Observers:     req.Observers,
		MarketTime:    float64(req.MarketSeconds),
		ShortSelling:  req.ShortSelling,
		MarginBuying:  req.MarginBuying,
		Period:        req.Period,
	}
	if cfg.MarketTime <= 0 {
		cfg.MarketTime = 210
	}
	if cfg.Period <= 0 {
		cfg.Period = 1
	}
	cfg.SupplyShockIntensity = req.SupplyShockIntensity
	if cfg.SupplyShockIntensity <= 0 {
		cfg.SupplyShockIntensity = 1
	}
	switch req.Framing {
	case "", string(domain.Baseline):
	case string(domain.Environmental):
		cfg.Framing = domain.Environmental
	case string(domain.Destruction):
		cfg.Framing = domain.Destruction
	default:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown framing: " + req.Framing})
		return
	}
	switch req.EndowmentType {
	case "", string(domain.Homogeneous):
	case string(domain.Heterogeneous):
		cfg.EndowmentType = domain.Heterogeneous
	default:
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown endowment type: " + req.EndowmentType})
		return
	}

	sess := s.mgr.Open(cfg, s.rng)
	market := sess.Market()

	resp := dto.OpenMarketResponse{
		MarketID:  market.ID,
		Treatment: market.Treatment(),
		Gini:      decimal.NewFromFloat(market.GiniCoefficient).Round(2),
	}
	for _, t := range sess.Roster() {
		resp.Participants = append(resp.Participants, dto.ParticipantSummary{
			ID:         t.ID,
			Role:       string(t.Role),
			Preference: string(t.Preference),
		})
	}
	c.JSON(http.StatusCreated, resp)
}

func (s *HTTPServer) listMarkets(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"markets": s.mgr.Markets()})
}

func (s *HTTPServer) postEvent(c *gin.Context) {
	sess, ok := s.mgr.Get(c.Param("market"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "unknown market"})
		return
	}
	actor, err := strconv.Atoi(c.GetHeader("X-Participant-ID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "X-Participant-ID must be numeric"})
		return
	}

	var req dto.EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	views := sess.Dispatch(c.Request.Context(), req.Event(actor))
	if views == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "unknown participant"})
		return
	}

	s.hub.Broadcast(sess.Market().ID, views)
	c.JSON(http.StatusOK, dto.EventResponse{MarketID: sess.Market().ID, View: views[actor]})
}

func (s *HTTPServer) getBook(c *gin.Context) {
	marketID := c.Param("market")
	book, err := s.cache.Book(c.Request.Context(), marketID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if book == nil {
		if _, ok := s.mgr.Get(marketID); !ok {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "unknown market"})
			return
		}
		book = &domain.PublishedBook{}
	}
	c.JSON(http.StatusOK, book)
}

func (s *HTTPServer) exportMarket(c *gin.Context) {
	marketID := c.Param("market")
	if _, ok := s.mgr.Get(marketID); !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "unknown market"})
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="market_`+marketID+`.csv"`)
	if err := writeExport(c.Request.Context(), c.Writer, s.repo, marketID); err != nil {
		s.log.Error("csv export failed", zap.String("market", marketID), zap.Error(err))
	}
}

func (s *HTTPServer) closeMarket(c *gin.Context) {
	sess, ok := s.mgr.Get(c.Param("market"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "unknown market"})
		return
	}
	sess.Close()

	type payoffRow struct {
		ID                   int             `json:"id"`
		Role                 string          `json:"role"`
		CashHolding          decimal.Decimal `json:"cashHolding"`
		AssetsHolding        int             `json:"assetsHolding"`
		OverallUtility       decimal.Decimal `json:"overall_utility"`
		UtilityChangePercent decimal.Decimal `json:"utility_change_percent"`
		Payoff               decimal.Decimal `json:"payoff"`
	}
	var rows []payoffRow
	for _, t := range sess.Roster() {
		rows = append(rows, payoffRow{
			ID:                   t.ID,
			Role:                 string(t.Role),
			CashHolding:          t.CashHolding,
			AssetsHolding:        t.AssetsHolding,
			OverallUtility:       t.OverallUtility,
			UtilityChangePercent: t.UtilityChangePercent.Round(2),
			Payoff:               t.Payoff.Round(2),
		})
	}
	c.JSON(http.StatusOK, gin.H{"market_id": sess.Market().ID, "payoffs": rows})
}

func (s *HTTPServer) serveWS(c *gin.Context) {
	sess, ok := s.mgr.Get(c.Param("market"))
	if !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "unknown market"})
		return
	}
	participantID, err := strconv.Atoi(c.Param("participant"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "participant must be numeric"})
		return
	}
	if _, ok := sess.Trader(participantID); !ok {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "unknown participant"})
		return
	}
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	s.hub.Register(sess.Market().ID, participantID, conn)
}
