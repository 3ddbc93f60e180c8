package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/twmb/franz-go/pkg/kgo"

	"poltem/internal/account"
	accounthandler "poltem/internal/account/handler"
	accountmetrics "poltem/internal/account/metrics"
	"poltem/internal/home"
	homehandler "poltem/internal/home/handler"
	httpapi "poltem/internal/http"
	"poltem/internal/identity"
	"poltem/internal/identity/gotrue"
	"poltem/internal/identity/local"
	jwttoken "poltem/internal/jwt_token"
	"poltem/internal/participation"
	participationhandler "poltem/internal/participation/handler"
	participationmetrics "poltem/internal/participation/metrics"
	"poltem/internal/platform/config"
	"poltem/internal/platform/kafka"
	"poltem/internal/platform/metrics"
	"poltem/internal/platform/postgres"
	"poltem/internal/platform/postgrest"
	redisclient "poltem/internal/platform/redis"
	"poltem/internal/profile"
	profilehandler "poltem/internal/profile/handler"
	"poltem/internal/ratelimit"
	"poltem/internal/session"
	"poltem/internal/session/revocation"
	"poltem/internal/survey"
	surveyhandler "poltem/internal/survey/handler"
	audit "poltem/pkg/platform/audit"
	"poltem/pkg/platform/audit/publisher"
	kafkasink "poltem/pkg/platform/audit/store/kafka"
	auditmemory "poltem/pkg/platform/audit/store/memory"
	auditpostgres "poltem/pkg/platform/audit/store/postgres"
)

const (
	localIssuer      = "poltem"
	janitorInterval  = time.Minute
	otpResendBackoff = 60 * time.Second
)

// app is the assembled process: the router plus everything that needs
// closing or periodic maintenance.
type app struct {
	Router http.Handler

	log      *slog.Logger
	db       *sql.DB
	redis    *redisclient.Client
	kafka    *kgo.Client
	auditor  *publisher.Publisher
	janitors []janitor
	closers  []func()
}

// janitor is a periodic cleanup task for stores without native expiry.
type janitor struct {
	name string
	run  func(ctx context.Context) (int64, error)
}

func buildApp(ctx context.Context, cfg config.Server, log *slog.Logger) (*app, error) {
	a := &app{log: log}
	if err := a.connect(ctx, cfg); err != nil {
		a.Close()
		return nil, err
	}

	auditor, err := a.buildAuditor(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.auditor = auditor

	tokens, provider, revoked := a.buildIdentity(cfg)
	cache := a.accountCache()
	resolver := session.NewResolver(tokens, revoked, cache, provider,
		session.WithCacheTTL(cfg.Session.AccountCacheTTL),
		session.WithLogger(log),
		session.WithMetrics(session.NewMetrics()),
	)

	profileStore, surveyStore := a.recordStores(cfg)
	flowStore := a.flowStore()

	accountSvc := account.NewService(provider, resolver,
		account.WithAuditor(auditor),
		account.WithMetrics(accountmetrics.New()),
		account.WithLogger(log),
		account.WithIdentifierDomain(cfg.IdentifierDomain),
	)
	profileSvc := profile.NewService(profileStore,
		profile.WithAuditor(auditor),
		profile.WithLogger(log),
	)
	surveySvc := survey.NewService(surveyStore, profileSvc,
		survey.WithAuditor(auditor),
		survey.WithLogger(log),
	)
	participationSvc := participation.NewService(flowStore, surveySvc,
		participation.WithAuditor(auditor),
		participation.WithMetrics(participationmetrics.New()),
		participation.WithLogger(log),
		participation.WithFlowTTL(cfg.Participation.TTL),
	)
	homeSvc := home.NewService(accountSvc, profileSvc, surveySvc)
	limiter := a.rateLimiter(cfg.RateLimit)

	a.Router = httpapi.NewRouter(httpapi.Config{
		Logger:         log,
		Resolver:       resolver,
		Latency:        metrics.New(),
		Gatherer:       prometheus.DefaultGatherer,
		AdminToken:     cfg.AdminToken,
		RequestTimeout: cfg.RequestTimeout,
		Checks:         a.readinessChecks(),
		PublicLimit:    limiter.ByClientIP(ratelimit.ClassAuth),
		AccountLimit:   limiter.ByAccount(),
	}, httpapi.Modules{
		Public: []httpapi.Registrar{
			accounthandler.New(accountSvc, log),
		},
		Authenticated: []httpapi.Registrar{
			homehandler.New(homeSvc, log),
			profilehandler.New(profileSvc, log),
			surveyhandler.New(surveySvc, log),
			participationhandler.New(participationSvc, log),
		},
	})
	return a, nil
}

// connect opens the shared clients the configuration asks for.
func (a *app) connect(ctx context.Context, cfg config.Server) error {
	if cfg.Records.DatabaseURL != "" {
		db, err := postgres.Open(ctx, cfg.Records.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open postgres: %w", err)
		}
		a.db = db
		a.closers = append(a.closers, func() { _ = db.Close() })
		if err := postgres.Migrate(ctx, db); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
	}

	rc, err := redisclient.New(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	if rc != nil {
		a.redis = rc
		a.closers = append(a.closers, func() { _ = rc.Close() })
	}
	return nil
}

func (a *app) buildAuditor(ctx context.Context, cfg config.Server) (*publisher.Publisher, error) {
	var sink audit.Sink
	switch cfg.Audit.Sink {
	case config.AuditPostgres:
		sink = auditpostgres.New(a.db)
	case config.AuditKafka:
		client, err := kafka.NewProducer(ctx, cfg.Audit.KafkaBrokers, "poltem-gateway")
		if err != nil {
			return nil, err
		}
		a.kafka = client
		sink = kafkasink.NewSink(client, cfg.Audit.Topic)
	default:
		sink = auditmemory.NewInMemoryStore()
	}
	return publisher.NewPublisher(sink,
		publisher.WithAsyncBuffer(cfg.Audit.BufferSize),
		publisher.WithLogger(a.log),
		publisher.WithMetrics(publisher.NewMetrics()),
	), nil
}

// buildIdentity picks the Session/Identity collaborator and the revocation
// list that backs logout.
func (a *app) buildIdentity(cfg config.Server) (*jwttoken.JWTService, identity.Provider, revocation.List) {
	revoked := a.revocationList()

	if cfg.Identity.Backend == config.IdentityGoTrue {
		tokens := jwttoken.NewJWTService(cfg.Identity.JWTSigningKey, "", jwttoken.DefaultAudience)
		provider := gotrue.New(cfg.Identity.SupabaseURL, cfg.Identity.SupabaseAnonKey,
			gotrue.WithTimeout(cfg.Identity.CollaboratorTimeout),
			gotrue.WithMetrics(gotrue.NewMetrics()),
			gotrue.WithLogger(a.log),
		)
		return tokens, provider, revoked
	}

	tokens := jwttoken.NewJWTService(cfg.Identity.JWTSigningKey, localIssuer, jwttoken.DefaultAudience)
	var accounts local.AccountStore = local.NewInMemoryAccountStore()
	if a.db != nil {
		accounts = local.NewPostgresAccountStore(a.db)
	}
	provider := local.New(accounts, tokens, local.NewLogSender(a.log),
		local.WithOTPTTL(cfg.Identity.OTPTTL),
		local.WithResendCooldown(otpResendBackoff),
		local.WithTokenTTL(cfg.Identity.AccessTokenTTL),
		local.WithRevoker(revoked),
	)
	return tokens, provider, revoked
}

func (a *app) revocationList() revocation.List {
	switch {
	case a.redis != nil:
		return revocation.NewRedisTRL(a.redis.Client)
	case a.db != nil:
		trl := revocation.NewPostgresTRL(a.db)
		a.janitors = append(a.janitors, janitor{name: "revocation", run: trl.PurgeExpired})
		return trl
	default:
		trl := revocation.NewInMemoryTRL()
		a.janitors = append(a.janitors, janitor{name: "revocation", run: sweeper(trl.Sweep)})
		return trl
	}
}

func (a *app) accountCache() session.AccountCache {
	if a.redis != nil {
		return session.NewRedisAccountCache(a.redis.Client)
	}
	cache := session.NewInMemoryAccountCache()
	a.janitors = append(a.janitors, janitor{name: "account_cache", run: sweeper(cache.Sweep)})
	return cache
}

func (a *app) recordStores(cfg config.Server) (profile.Store, survey.Store) {
	switch cfg.Records.Backend {
	case config.RecordsPostgres:
		return profile.NewPostgresStore(a.db), survey.NewPostgresStore(a.db)
	case config.RecordsPostgREST:
		client := postgrest.New(cfg.Identity.SupabaseURL, cfg.Identity.SupabaseAnonKey,
			postgrest.WithTimeout(cfg.Identity.CollaboratorTimeout),
			postgrest.WithLogger(a.log),
		)
		return profile.NewRESTStore(client), survey.NewRESTStore(client)
	default:
		return profile.NewInMemoryStore(), survey.NewInMemoryStore()
	}
}

func (a *app) flowStore() participation.Store {
	if a.redis != nil {
		return participation.NewRedisStore(a.redis.Client)
	}
	store := participation.NewInMemoryStore()
	a.janitors = append(a.janitors, janitor{name: "participation", run: sweeper(store.Sweep)})
	return store
}

func (a *app) rateLimiter(cfg config.RateLimitConfig) *ratelimit.Limiter {
	var store ratelimit.BucketStore
	if a.redis != nil {
		store = ratelimit.NewRedisBucketStore(a.redis.Client)
	} else {
		mem := ratelimit.NewInMemoryBucketStore()
		a.janitors = append(a.janitors, janitor{name: "ratelimit", run: sweeper(mem.Sweep)})
		store = mem
	}
	return ratelimit.NewLimiter(store,
		ratelimit.WithPolicy(ratelimit.ClassAuth, ratelimit.Policy{Limit: cfg.AuthPerMinute, Window: time.Minute}),
		ratelimit.WithPolicy(ratelimit.ClassWrite, ratelimit.Policy{Limit: cfg.WritePerMinute, Window: time.Minute}),
		ratelimit.WithPolicy(ratelimit.ClassRead, ratelimit.Policy{Limit: cfg.ReadPerMinute, Window: time.Minute}),
		ratelimit.WithDisabled(!cfg.Enabled),
		ratelimit.WithMetrics(ratelimit.NewMetrics()),
		ratelimit.WithLogger(a.log),
	)
}

func (a *app) readinessChecks() []httpapi.Check {
	var checks []httpapi.Check
	if a.db != nil {
		checks = append(checks, httpapi.Check{Name: "postgres", Probe: a.db.PingContext})
	}
	if a.redis != nil {
		checks = append(checks, httpapi.Check{Name: "redis", Probe: a.redis.Health})
	}
	if a.kafka != nil {
		checks = append(checks, httpapi.Check{Name: "kafka", Probe: a.kafka.Ping})
	}
	return checks
}

// RunJanitors ticks every cleanup task until ctx is cancelled.
func (a *app) RunJanitors(ctx context.Context) {
	if len(a.janitors) == 0 {
		return
	}
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, j := range a.janitors {
				n, err := j.run(ctx)
				if err != nil {
					a.log.WarnContext(ctx, "janitor failed", "janitor", j.name, "error", err)
					continue
				}
				if n > 0 {
					a.log.DebugContext(ctx, "janitor removed expired entries", "janitor", j.name, "removed", n)
				}
			}
		}
	}
}

// Close drains the audit buffer before releasing the clients it may write to.
func (a *app) Close() {
	if a.auditor != nil {
		a.auditor.Close()
	}
	if a.kafka != nil {
		a.kafka.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

func sweeper(sweep func() int) func(context.Context) (int64, error) {
	return func(context.Context) (int64, error) {
		return int64(sweep()), nil
	}
}

var (
	_ identity.Provider = (*local.Provider)(nil)
	_ identity.Provider = (*gotrue.Client)(nil)
)
