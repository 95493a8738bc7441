package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/yola1107/kratos/v2"
	"github.com/yola1107/kratos/v2/library/log/zap"
	zconf "github.com/yola1107/kratos/v2/library/log/zap/conf"
	"github.com/yola1107/kratos/v2/library/work"
	"github.com/yola1107/kratos/v2/log"
	"github.com/yola1107/kratos/v2/transport/http"

	"github.com/yola1107/quizpoker/internal/biz/lobby"
	"github.com/yola1107/quizpoker/internal/conf"
	"github.com/yola1107/quizpoker/internal/data"
	"github.com/yola1107/quizpoker/internal/model"
	"github.com/yola1107/quizpoker/internal/server"
	"github.com/yola1107/quizpoker/internal/service"
	"github.com/yola1107/quizpoker/internal/socket"
)

var (
	Name     = conf.Name
	Version  = conf.Version
	flagconf string // -conf path
	id, _    = os.Hostname()
)

func init() {
	flag.StringVar(&flagconf, "conf", "../../configs", "config path, e.g. -conf config.yaml")
}

func newApp(logger log.Logger, hs *http.Server, ss *socket.Server) *kratos.App {
	return kratos.New(
		kratos.ID(id),
		kratos.Name(Name),
		kratos.Version(Version),
		kratos.Metadata(map[string]string{}),
		kratos.Logger(logger),
		kratos.Server(
			hs,
			ss,
		),
	)
}

func main() {
	flag.Parse()

	c, bc := conf.LoadConfig(flagconf)
	defer c.Close()

	logger := zap.NewLogger(zconf.DefaultConfig(
		zconf.WithAppName(Name),
		zconf.WithDirectory("./logs"),
	))
	log.SetLogger(logger)
	defer logger.Close()

	app, cleanup, err := buildApp(bc, logger)
	if err != nil {
		panic(err)
	}
	defer cleanup()

	// start and wait for stop signal
	if err := app.Run(); err != nil {
		panic(err)
	}
}

// workStore pairs a task loop with a scheduler that posts onto it, giving
// the single Start/Stop/Post/Once/Forever/Cancel object the hub and lobby
// manager expect.
type workStore struct {
	loop  work.Loop
	timer work.Scheduler
}

func newWorkStore(ctx context.Context) *workStore {
	loop := work.NewLoop()
	return &workStore{
		loop:  loop,
		timer: work.NewScheduler(work.WithContext(ctx), work.WithExecutor(loop)),
	}
}

func (w *workStore) Start() error    { return w.loop.Start() }
func (w *workStore) Post(job func()) { w.loop.Post(job) }

func (w *workStore) Once(delay time.Duration, f func()) int64 { return w.timer.Once(delay, f) }
func (w *workStore) Forever(interval time.Duration, f func()) int64 {
	return w.timer.Forever(interval, f)
}
func (w *workStore) Cancel(taskID int64) { w.timer.Cancel(taskID) }

func (w *workStore) Stop() {
	w.timer.Stop()
	w.loop.Stop()
}

func buildApp(bc *conf.Bootstrap, logger log.Logger) (*kratos.App, func(), error) {
	ws := newWorkStore(context.Background())
	if err := ws.Start(); err != nil {
		return nil, nil, err
	}

	d, closeData, err := data.NewData(bc.Data.Database.Path)
	if err != nil {
		ws.Stop()
		return nil, nil, err
	}
	questions := data.NewQuestionRepo(d)

	hub := socket.NewHub(ws)
	manager := lobby.NewManager(hub, ws, questions, connectionSettings(bc.Game))
	hub.SetReceiver(manager)

	svc := service.NewService(manager)
	hs := server.NewHTTPServer(bc.Server, svc)
	ss := server.NewSocketServer(bc.Server, hub)

	cleanup := func() {
		closeData()
		ws.Stop()
	}
	return newApp(logger, hs, ss), cleanup, nil
}

func connectionSettings(g *conf.Game) model.ConnectionSettings {
	return model.ConnectionSettings{
		RESTTLS:  g.TLS,
		RESTHost: g.PublicHost,
		RESTPort: g.RESTPort,

		WSTLS:  g.TLS,
		WSHost: g.PublicHost,
		WSPort: g.SocketPort,
		WSPath: "/socket",

		HeartbeatRateMs:    int(g.HeartbeatRate),
		HeartbeatMaxMisses: int(g.HeartbeatMaxMisses),
	}
}
