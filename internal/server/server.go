package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agenthands/lexigraph/internal/config"
	"github.com/agenthands/lexigraph/internal/core"
	"github.com/agenthands/lexigraph/internal/core/metrics"
	"github.com/agenthands/lexigraph/internal/core/model"
	"github.com/agenthands/lexigraph/internal/driver"
	"github.com/agenthands/lexigraph/internal/logger"
)

type Server struct {
	Lexigraph *core.Lexigraph
	Logger    *logger.Logger

	// mu serialises runs; synthesis and evaluation are single-threaded.
	mu       sync.Mutex
	registry *prometheus.Registry
	gauges   *prometheus.GaugeVec
	runs     *prometheus.CounterVec
}

func NewServer(l *core.Lexigraph, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{
		Lexigraph: l,
		Logger:    log,
		registry:  prometheus.NewRegistry(),
		gauges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lexigraph",
			Name:      "evaluation_metric",
			Help:      "Metrics of the most recent evaluation.",
		}, []string{"metric"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lexigraph",
			Name:      "runs_total",
			Help:      "Synthesis and evaluation runs by outcome.",
		}, []string{"operation", "status"}),
	}
	s.registry.MustRegister(s.gauges, s.runs)
	return s
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/synthesize", s.Synthesize)
	r.POST("/evaluate", s.Evaluate)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
	r.GET("/healthz", s.Health)

	return r
}

type SynthesizeRequest struct {
	Vocabulary json.RawMessage `json:"vocabulary"`
	Grammar    json.RawMessage `json:"grammar"`
	Seed       *uint64         `json:"seed"`
}

func (s *Server) Synthesize(c *gin.Context) {
	var req SynthesizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "synthesize", http.StatusBadRequest, "Invalid request")
		return
	}

	var vocab []model.VocabularyRecord
	var grammar []model.GrammarRecord
	skipped := 0
	if present(req.Vocabulary) {
		recs, n, err := model.DecodeVocabulary(req.Vocabulary)
		if err != nil {
			s.fail(c, "synthesize", http.StatusBadRequest, err.Error())
			return
		}
		vocab, skipped = recs, skipped+n
	}
	if present(req.Grammar) {
		recs, n, err := model.DecodeGrammar(req.Grammar)
		if err != nil {
			s.fail(c, "synthesize", http.StatusBadRequest, err.Error())
			return
		}
		grammar, skipped = recs, skipped+n
	}

	seed := s.Lexigraph.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}

	s.mu.Lock()
	res := s.Lexigraph.Synthesizer.Run(vocab, grammar, seed)
	s.mu.Unlock()
	res.Summary.SkippedRecords = skipped

	nodes, edges := res.Nodes, res.Edges
	if nodes == nil {
		nodes = []model.Entity{}
	}
	if edges == nil {
		edges = []model.Edge{}
	}
	s.runs.WithLabelValues("synthesize", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"nodes": nodes, "edges": edges, "summary": res.Summary})
}

type EvaluateRequest struct {
	Nodes         json.RawMessage `json:"nodes"`
	Edges         json.RawMessage `json:"edges"`
	PreviousEdges json.RawMessage `json:"previous_edges"`
}

func (s *Server) Evaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, "evaluate", http.StatusBadRequest, "Invalid request")
		return
	}
	if !present(req.Nodes) || !present(req.Edges) {
		s.fail(c, "evaluate", http.StatusBadRequest, core.ErrMissingInput.Error())
		return
	}

	nodes, _, err := model.DecodeEntities(req.Nodes)
	if err != nil {
		s.fail(c, "evaluate", http.StatusBadRequest, err.Error())
		return
	}
	edges, err := model.DecodeEdges(req.Edges)
	if err != nil {
		s.fail(c, "evaluate", http.StatusBadRequest, err.Error())
		return
	}
	var prev []model.Edge
	hasPrev := present(req.PreviousEdges)
	if hasPrev {
		if prev, err = model.DecodeEdges(req.PreviousEdges); err != nil {
			s.fail(c, "evaluate", http.StatusBadRequest, err.Error())
			return
		}
	}

	s.mu.Lock()
	report := s.Lexigraph.EvaluateSnapshot(model.Snapshot{Nodes: nodes, Edges: edges}, prev, hasPrev)
	s.mu.Unlock()

	s.record(report)
	s.runs.WithLabelValues("evaluate", "ok").Inc()
	c.JSON(http.StatusOK, gin.H{"metrics": report})
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) record(r metrics.Report) {
	for _, v := range r.Values() {
		s.gauges.WithLabelValues(v.Name).Set(v.Value)
	}
}

func (s *Server) fail(c *gin.Context, op string, status int, msg string) {
	s.Logger.Warn("Request rejected", "operation", op, "status", status, "error", msg)
	s.runs.WithLabelValues(op, "error").Inc()
	c.JSON(status, gin.H{"error": msg})
}

func present(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && !bytes.Equal(raw, []byte("null"))
}

// FromConfig wires a server over the filesystem driver rooted at cfg.Root.
func FromConfig(cfg *config.Config, log *logger.Logger) *Server {
	d := driver.NewFileDriver(cfg.Root, cfg.Paths, log)
	return NewServer(core.NewLexigraph(d, cfg, log), log)
}
