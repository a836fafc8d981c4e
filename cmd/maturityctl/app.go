package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Checker-Finance/maturity-client/internal/authstate"
	"github.com/Checker-Finance/maturity-client/internal/config"
	"github.com/Checker-Finance/maturity-client/internal/events"
	"github.com/Checker-Finance/maturity-client/internal/httpclient"
	"github.com/Checker-Finance/maturity-client/internal/navigation"
	"github.com/Checker-Finance/maturity-client/internal/rate"
	"github.com/Checker-Finance/maturity-client/internal/secrets"
	"github.com/Checker-Finance/maturity-client/internal/services"
	"github.com/Checker-Finance/maturity-client/internal/session"
	"github.com/Checker-Finance/maturity-client/pkg/logger"
	pkgsecrets "github.com/Checker-Finance/maturity-client/pkg/secrets"
	"github.com/Checker-Finance/maturity-client/pkg/utils"
)

// SessionEndedNotice is printed when the server rejects the stored session.
const SessionEndedNotice = "Your session has ended. Run `maturityctl signin` to continue."

// app is everything a command needs, wired once per process.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
	errOut io.Writer

	sessions    *session.Provider
	state       *authstate.Holder
	client      *httpclient.Client
	auth        *services.Auth
	assessments *services.Assessments
	billing     *services.Billing
	team        *services.Team
	usecases    *services.UseCases
	terms       *services.Terms

	persistent bool // credentials survive the process
	closers    []func()
}

// newApp wires the stack for one command. route is where the command sits
// in the interface layer; auth commands start on their auth route so a
// rejected sign-in does not count as an expired session.
func newApp(ctx context.Context, cfg *config.Config, route string, out, errOut io.Writer) (*app, error) {
	logger.Init(cfg.ServiceName, cfg.Env, cfg.LogLevel)
	logg := logger.L()
	a := &app{cfg: cfg, logger: logg, out: out, errOut: errOut}

	// --- Session scopes ---
	sessionScope := session.NewMemoryStore(cfg.SessionTTL)
	var persistentScope session.Store = session.NewMemoryStore(cfg.SessionTTL)
	if cfg.RedisAddr != "" {
		rdb, err := session.DialRedis(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisPass)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = rdb.Close() })
		persistentScope = session.NewRedisStore(rdb, cfg.SessionKey, cfg.SessionTTL)
		a.persistent = true
		logg.Debug("session.redis_connected", zap.String("addr", utils.MaskURL(redisURL(rdb))))
	}
	a.sessions = session.NewProvider(logg, sessionScope, persistentScope)
	if cfg.SessionSweep > 0 {
		stopSweep := make(chan struct{})
		go sessionScope.StartCleaner(cfg.SessionSweep, stopSweep)
		a.closers = append(a.closers, func() { close(stopSweep) })
	}

	// --- Session events ---
	var pub events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		nc, err := events.Connect(cfg.NATSURL, cfg.ServiceName)
		if err != nil {
			logg.Warn("events.disabled", zap.Error(err))
		} else {
			a.closers = append(a.closers, func() { _ = nc.Drain() })
			pub = events.NewNATSPublisher(nc, cfg.EventsPrefix, cfg.ServiceName, logg)
		}
	}
	a.state = authstate.New(logg, a.sessions, pub)

	// --- Request client ---
	nav := navigation.NewMemory(route, func(to string) {
		if to == navigation.SignInRoute {
			_, _ = fmt.Fprintln(a.errOut, SessionEndedNotice)
		}
	})
	opts := []httpclient.Option{
		httpclient.WithSession(a.sessions),
		httpclient.WithAuthFailureHandler(a.state),
		httpclient.WithNavigator(nav),
	}
	if rl := cfg.RateLimit(); rl.Enabled() {
		opts = append(opts, httpclient.WithRateLimit(rate.NewManager(rl)))
	}
	a.client = httpclient.New(logg, cfg.APIBaseURL, cfg.APITimeout, opts...)

	// --- Services ---
	a.auth = services.NewAuth(a.client, a.sessions, a.state, logg)
	a.assessments = services.NewAssessments(a.client, logg)
	a.billing = services.NewBilling(a.client)
	a.team = services.NewTeam(a.client)
	a.usecases = services.NewUseCases(a.client)
	a.terms = services.NewTerms(a.client)

	if _, err := a.state.Restore(ctx); err != nil {
		logg.Warn("session.restore_failed", zap.Error(err))
	}
	return a, nil
}

// accounts resolves service accounts from AWS Secrets Manager.
func (a *app) accounts(ctx context.Context) (*secrets.Resolver, error) {
	provider, err := pkgsecrets.NewAWSProvider(ctx, a.cfg.AWSRegion)
	if err != nil {
		return nil, err
	}
	return secrets.NewResolver(a.logger, a.cfg.Env, provider, a.cfg.SessionTTL), nil
}

// startRoute maps a command onto the route it represents.
func startRoute(cmd *cobra.Command) string {
	if cmd == cmd.Root() {
		return "/cli"
	}
	switch cmd.Name() {
	case "signin":
		return navigation.SignInRoute
	case "signup":
		return navigation.SignUpRoute
	}
	return "/cli/" + strings.ReplaceAll(strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" "), " ", "/")
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	logger.Sync()
}

func redisURL(rdb *redis.Client) string {
	o := rdb.Options()
	if o.Password != "" {
		return fmt.Sprintf("redis://:%s@%s/%d", o.Password, o.Addr, o.DB)
	}
	return fmt.Sprintf("redis://%s/%d", o.Addr, o.DB)
}

func (a *app) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(a.out, format, args...)
}
