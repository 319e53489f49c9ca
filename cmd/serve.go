package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/luxe-atelier/crm-insight/internal/config"
	"github.com/luxe-atelier/crm-insight/internal/followup"
	"github.com/luxe-atelier/crm-insight/internal/forecast"
	"github.com/luxe-atelier/crm-insight/internal/model"
	"github.com/luxe-atelier/crm-insight/internal/scoring"
	"github.com/luxe-atelier/crm-insight/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the scoring and forecasting HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "crm_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "crm_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	scoresComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "crm_lead_scores_computed_total",
		Help: "Lead scores computed via the API.",
	})
)

// api bundles the handlers' shared dependencies.
type api struct {
	store           store.Store
	scoring         *scoring.Engine
	forecasting     *forecast.Engine
	followups       *followup.Engine
	forecastLimiter *rate.Limiter
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	a := &api{
		store:           st,
		scoring:         scoring.NewEngine(cfg.Scoring),
		forecasting:     forecast.NewEngine(cfg.Forecast),
		followups:       followup.NewEngine(),
		forecastLimiter: rate.NewLimiter(rate.Limit(cfg.Server.ForecastRPS), cfg.Server.ForecastBurst),
	}

	r := buildRouter(a, cfg.Server)

	port := servePort
	if port == 0 {
		port = cfg.Server.Port
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		srv.Shutdown(ctx)
	}()

	zap.L().Info("starting server", zap.Int("port", port))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server listen")
	}
	return nil
}

func buildRouter(a *api, serverCfg config.ServerConfig) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: serverCfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(metricsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/clients/{id}/lead-score", a.handleLeadScore)
		r.Post("/clients/{id}/lead-score", a.handleLeadScore)
		r.Post("/clients/{id}/update-lead-score", a.handleUpdateLeadScore)
		r.With(a.limitForecasts).Post("/forecasts/generate", a.handleGenerateForecast)
		r.Post("/deals/{id}/predict-outcome", a.handlePredictOutcome)
		r.Post("/followups/generate-recommendations", a.handleFollowUpRecommendations)
	})

	return r
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		requestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (a *api) limitForecasts(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.forecastLimiter.Allow() {
			writeError(w, http.StatusTooManyRequests, eris.New("forecast generation rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientHistory loads everything the scoring engine needs for one client.
func (a *api) clientHistory(r *http.Request, clientID string) (*model.Client, []model.Message, []model.Interaction, []model.Deal, error) {
	ctx := r.Context()
	client, err := a.store.GetClient(ctx, clientID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	messages, err := a.store.GetMessagesByClient(ctx, clientID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	interactions, err := a.store.GetInteractionsByClient(ctx, clientID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	deals, err := a.store.GetDealsByClient(ctx, clientID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	return client, messages, interactions, deals, nil
}

func (a *api) handleLeadScore(w http.ResponseWriter, r *http.Request) {
	client, messages, interactions, deals, err := a.clientHistory(r, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	result := a.scoring.Score(*client, messages, interactions, deals)
	rescored := *client
	rescored.LeadScore = float64(result.Score)
	rescored.EngagementLevel = model.EngagementLevelForScore(rescored.LeadScore)
	scoresComputed.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"client_id":              client.ID,
		"score":                  result.Score,
		"factors":                result.Factors,
		"insights":               result.Insights,
		"conversion_probability": a.scoring.ConversionProbability(rescored),
		"next_best_action":       scoring.NextBestAction(rescored, result.Factors),
	})
}

func (a *api) handleUpdateLeadScore(w http.ResponseWriter, r *http.Request) {
	client, messages, interactions, deals, err := a.clientHistory(r, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	result, err := a.scoring.Update(r.Context(), a.store, *client, messages, interactions, deals, "api_update")
	if err != nil {
		writeStoreError(w, err)
		return
	}
	scoresComputed.Inc()

	writeJSON(w, http.StatusOK, map[string]any{
		"client_id": client.ID,
		"score":     result.Score,
		"factors":   result.Factors,
		"insights":  result.Insights,
		"updated":   true,
	})
}

func (a *api) handleGenerateForecast(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Period string `json:"period"`
		Save   bool   `json:"save"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}

	period, err := model.ParsePeriod(req.Period)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	ctx := r.Context()
	clients, err := a.store.ListClients(ctx, store.ClientFilter{})
	if err != nil {
		writeStoreError(w, err)
		return
	}
	deals, err := a.store.ListDeals(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	historical, err := a.store.ListForecasts(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	data := a.forecasting.Generate(period, clients, deals, nil, nil, historical)
	if req.Save {
		if _, err := a.store.CreateForecast(ctx, a.forecasting.Record(data)); err != nil {
			writeStoreError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, data)
}

func (a *api) handlePredictOutcome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	deal, err := a.store.GetDeal(ctx, chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	client, err := a.store.GetClient(ctx, deal.ClientID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	allDeals, err := a.store.ListDeals(ctx)
	if err != nil {
		writeStoreError(w, err)
		return
	}

	outcome := a.forecasting.PredictDealOutcome(*deal, *client, forecast.SimilarDeals(*deal, allDeals))
	writeJSON(w, http.StatusOK, outcome)
}

func (a *api) handleFollowUpRecommendations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClientID string `json:"client_id"`
		Save     bool   `json:"save"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
		return
	}

	ctx := r.Context()
	var clients []model.Client
	if req.ClientID != "" {
		c, err := a.store.GetClient(ctx, req.ClientID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		clients = []model.Client{*c}
	} else {
		var err error
		clients, err = a.store.ListClients(ctx, store.ClientFilter{})
		if err != nil {
			writeStoreError(w, err)
			return
		}
	}

	var followUps []model.FollowUp
	for _, client := range clients {
		interactions, err := a.store.GetInteractionsByClient(ctx, client.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		messages, err := a.store.GetMessagesByClient(ctx, client.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		deals, err := a.store.GetDealsByClient(ctx, client.ID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		followUps = append(followUps,
			a.followups.BuildFollowUps([]model.Client{client}, interactions, messages, deals)...)
	}

	if req.Save {
		for _, fu := range followUps {
			if _, err := a.store.CreateFollowUp(ctx, fu); err != nil {
				writeStoreError(w, err)
				return
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"follow_ups": followUps})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("serve: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeStoreError(w http.ResponseWriter, err error) {
	if eris.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	zap.L().Error("serve: internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, err)
}
