package server

import (
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/EngineerAnishSharma/SiteArchitect/internal/storage"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/evolve"
	"github.com/EngineerAnishSharma/SiteArchitect/pkg/layout"
)

// generateRequest selects a batch of random layouts. Zero-valued fields fall
// back to the engine defaults. fill_extra and seed are pointers so that an
// explicit zero is distinguishable from an omitted field: fill_extra 0 turns
// the fill phase off, and a nil seed means a time-based seed.
type generateRequest struct {
	Count               int    `json:"count"`
	MaxTries            int    `json:"max_tries"`
	MinBuildings        int    `json:"min_buildings"`
	MaxBuildings        int    `json:"max_buildings"`
	AttemptsPerBuilding int    `json:"attempts_per_building"`
	FillExtra           *int   `json:"fill_extra"`
	Seed                *int64 `json:"seed"`
}

func (req *generateRequest) options() layout.Options {
	opts := layout.DefaultOptions()
	if req.MinBuildings > 0 {
		opts.MinBuildings = req.MinBuildings
	}
	if req.MaxBuildings > 0 {
		opts.MaxBuildings = req.MaxBuildings
	}
	if req.AttemptsPerBuilding > 0 {
		opts.AttemptsPerBuilding = req.AttemptsPerBuilding
	}
	if req.FillExtra != nil && *req.FillExtra >= 0 {
		opts.FillExtra = *req.FillExtra
	}
	return opts
}

func (req *generateRequest) seed() int64 {
	if req.Seed != nil {
		return *req.Seed
	}
	return time.Now().UnixNano()
}

func (req *generateRequest) count() int {
	if req.Count > 0 {
		return req.Count
	}
	return 5
}

func (req *generateRequest) maxTries() int {
	if req.MaxTries > 0 {
		return req.MaxTries
	}
	return 1000
}

type evolveRequest struct {
	generateRequest
	Generations    int     `json:"generations"`
	PopulationSize int     `json:"population_size"`
	MutationRate   float64 `json:"mutation_rate"`
}

func (req *evolveRequest) evolveOptions() evolve.Options {
	opts := evolve.DefaultOptions()
	if req.Generations > 0 {
		opts.Generations = req.Generations
	}
	if req.PopulationSize > 0 {
		opts.PopulationSize = req.PopulationSize
	}
	if req.MutationRate > 0 {
		opts.MutationRate = req.MutationRate
	}
	return opts
}

// layoutResponse is one layout in a batch response.
type layoutResponse struct {
	Buildings layout.Layout `json:"buildings"`
	Stats     layout.Stats  `json:"stats"`
	Score     float64       `json:"score"`
}

type batchResponse struct {
	Seed    int64            `json:"seed"`
	RunID   string           `json:"run_id,omitempty"`
	Layouts []layoutResponse `json:"layouts"`
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.cfg)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seed := req.seed()
	rng := rand.New(rand.NewSource(seed))
	g := layout.NewGenerator(s.cfg, rng)
	o := evolve.New(s.cfg, rng)

	layouts := g.CollectValid(req.count(), req.maxTries(), req.options())
	resp := batchResponse{Seed: seed, Layouts: make([]layoutResponse, 0, len(layouts))}
	for _, l := range layouts {
		resp.Layouts = append(resp.Layouts, layoutResponse{
			Buildings: l,
			Stats:     g.Rules().Summarize(l),
			Score:     o.Score(l),
		})
	}

	resp.RunID = s.persist(seed, "generate", resp.Layouts)
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEvolve(w http.ResponseWriter, r *http.Request) {
	var req evolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	seed := req.seed()
	rng := rand.New(rand.NewSource(seed))
	g := layout.NewGenerator(s.cfg, rng)
	o := evolve.New(s.cfg, rng)

	count := req.count()
	pool := g.CollectValid(count*2, req.maxTries(), req.options())
	results := o.Search(count, pool, req.evolveOptions())

	resp := batchResponse{Seed: seed, Layouts: make([]layoutResponse, 0, len(results))}
	for _, res := range results {
		resp.Layouts = append(resp.Layouts, layoutResponse{
			Buildings: res.Layout,
			Stats:     g.Rules().Summarize(res.Layout),
			Score:     res.Score,
		})
	}

	resp.RunID = s.persist(seed, "evolve", resp.Layouts)
	s.writeJSON(w, http.StatusOK, resp)
}

// persist saves a batch when a store is configured, returning the run ID or
// empty string. Persistence failures are logged, not surfaced: the batch
// result is already in hand.
func (s *Server) persist(seed int64, approach string, layouts []layoutResponse) string {
	if s.store == nil || len(layouts) == 0 {
		return ""
	}

	records := make([]storage.LayoutRecord, len(layouts))
	for i, l := range layouts {
		records[i] = storage.LayoutRecord{
			Idx:       i,
			Score:     l.Score,
			Stats:     l.Stats,
			Buildings: l.Buildings,
		}
	}

	run := storage.NewRun(seed, approach)
	if err := s.store.SaveRun(run, records); err != nil {
		s.logger.Error("saving run", "err", err)
		return ""
	}
	return run.ID
}

type validateRequest struct {
	Buildings layout.Layout `json:"buildings"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ru := layout.NewRules(s.cfg)
	violations := ru.FindViolations(req.Buildings)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"rules":      ru.Validate(req.Buildings),
		"stats":      ru.Summarize(req.Buildings),
		"violations": violations,
		"report":     violations.Report(),
	})
}

func (s *Server) handleListRuns(w http.ResponseWriter, _ *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "no database configured")
		return
	}

	runs, err := s.store.ListRuns()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if runs == nil {
		runs = []storage.Run{}
	}
	s.writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "no database configured")
		return
	}

	id := chi.URLParam(r, "id")
	run, err := s.store.GetRun(id)
	if errors.Is(err, storage.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	records, err := s.store.LoadLayouts(id)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if records == nil {
		records = []storage.LayoutRecord{}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run":     run,
		"layouts": records,
	})
}

func (s *Server) handleRenderSVG(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeError(w, http.StatusNotFound, "no database configured")
		return
	}

	id := chi.URLParam(r, "id")
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil || idx < 0 {
		s.writeError(w, http.StatusBadRequest, "invalid layout index")
		return
	}

	records, err := s.store.LoadLayouts(id)
	if errors.Is(err, storage.ErrRunNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if idx >= len(records) {
		s.writeError(w, http.StatusNotFound, "layout index out of range")
		return
	}

	rec := records[idx]
	stats := layout.NewRules(s.cfg).Summarize(rec.Buildings)
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(s.renderer.SVG(rec.Buildings, stats))
}
