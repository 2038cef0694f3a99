package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"regexp"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/dzautner/megacity-sub002/internal/persistence/indexdb"
	"github.com/dzautner/megacity-sub002/internal/persistence/journal"
	"github.com/dzautner/megacity-sub002/internal/persistence/save"
	"github.com/dzautner/megacity-sub002/internal/protocol"
	"github.com/dzautner/megacity-sub002/internal/sim/catalogs"
	"github.com/dzautner/megacity-sub002/internal/sim/tuning"
	"github.com/dzautner/megacity-sub002/internal/sim/world"
	"github.com/dzautner/megacity-sub002/internal/transport/ws"
)

// Exit codes: 0 clean shutdown, 2 bad config or flags, 3 unreadable or
// corrupt save file.
const (
	exitConfig = 2
	exitSave   = 3
)

var slotNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

func main() {
	var (
		addr          = flag.String("addr", ":8080", "http listen address")
		seed          = flag.Uint64("seed", 1337, "world seed (fresh games only)")
		configDir     = flag.String("configs", "./configs", "config directory")
		dataDir       = flag.String("data", "./data", "runtime data directory")
		newGame       = flag.Bool("new-game", false, "start a fresh world even when saves exist")
		loadSlot      = flag.String("load", "", "save slot to resume from")
		autosaveEvery = flag.Int("autosave-every", 0, "autosave interval in minutes (0 = tuning default)")
		headless      = flag.Bool("headless", false, "run the simulation without the http listener")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[server] ", log.LstdFlags|log.Lmicroseconds)

	if *newGame && *loadSlot != "" {
		logger.Printf("-new-game and -load are mutually exclusive")
		os.Exit(exitConfig)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Printf("load catalogs: %v", err)
		os.Exit(exitConfig)
	}
	tune, err := tuning.Load(filepath.Join(*configDir, "tuning.yaml"))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Printf("load tuning: %v", err)
			os.Exit(exitConfig)
		}
		logger.Printf("tuning.yaml not found in %s; using defaults", *configDir)
		tune = tuning.Default()
	}
	if *autosaveEvery > 0 {
		tune.AutosaveEveryMin = *autosaveEvery
	}

	if err := os.MkdirAll(filepath.Join(*dataDir, "saves"), 0o755); err != nil {
		logger.Printf("data dir: %v", err)
		os.Exit(exitConfig)
	}

	idx, err := indexdb.Open(filepath.Join(*dataDir, "index.db"))
	if err != nil {
		logger.Printf("open index db: %v", err)
		os.Exit(exitConfig)
	}
	defer idx.Close()

	jr, err := journal.NewWriter(filepath.Join(*dataDir, "journal.jsonl.zst"))
	if err != nil {
		logger.Printf("open journal: %v", err)
		os.Exit(exitConfig)
	}
	defer jr.Close()

	app := &app{
		logger:  logger,
		dataDir: *dataDir,
		tune:    &tune,
		cats:    cats,
		idx:     idx,
		journal: jr,
		seed:    *seed,
	}

	w, err := app.openWorld(*newGame, *loadSlot)
	if err != nil {
		logger.Printf("%v", err)
		os.Exit(exitSave)
	}

	rt := world.NewRuntime(w, world.Hooks{
		OnCommand:  app.journalCommand,
		OnSlowTick: app.slowTick,
		OnSnapshot: app.archiveEvents,
		OnPersist:  app.persist,
	})

	ctx, cancel := signalContext()
	defer cancel()

	runDone := make(chan struct{})
	go func() {
		rt.Run(ctx)
		close(runDone)
	}()

	logger.Printf("city ready: population=%s treasury=%s tick=%s",
		humanize.Comma(int64(w.Stats.Population)),
		humanize.CommafWithDigits(w.Budget.Treasury, 0),
		humanize.Comma(int64(w.Clock.Tick)))

	if *headless {
		logger.Printf("headless mode, no listener")
		<-ctx.Done()
	} else {
		srv := newHTTPServer(*addr, rt, logger)
		go func() {
			<-ctx.Done()
			shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutCancel()
			_ = srv.Shutdown(shutCtx)
		}()
		logger.Printf("listening on %s", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("ListenAndServe: %v", err)
		}
	}

	<-runDone
	app.finalSave(rt.World())
	logger.Printf("shutdown complete")
}

// app wires the runtime hooks to persistence: the command journal, the
// autosave slot and the sqlite index.
type app struct {
	logger  *log.Logger
	dataDir string
	tune    *tuning.Tuning
	cats    *catalogs.Catalogs
	idx     *indexdb.SQLiteIndex
	journal *journal.Writer
	seed    uint64

	lastAutosave  time.Time
	lastEventTick uint64
}

func (a *app) savePath(slot string) string {
	return filepath.Join(a.dataDir, "saves", slot+".mcs")
}

func (a *app) newWorld(seed uint64) (*world.World, error) {
	return world.New(world.Config{
		Seed:     seed,
		Tuning:   a.tune,
		Catalogs: a.cats,
		Logger:   a.logger,
	})
}

// openWorld picks the starting world: an explicit slot, the most recent
// slot from the index, or a fresh one.
func (a *app) openWorld(fresh bool, slot string) (*world.World, error) {
	if fresh {
		return a.newWorld(a.seed)
	}
	if slot == "" {
		rows, err := a.idx.Slots()
		if err == nil && len(rows) > 0 {
			slot = rows[0].Slot
			a.logger.Printf("resuming most recent slot %q", slot)
		}
	}
	if slot == "" {
		return a.newWorld(a.seed)
	}
	if !slotNameRe.MatchString(slot) {
		return nil, fmt.Errorf("bad slot name %q", slot)
	}
	m, err := save.ReadFile(a.savePath(slot))
	if err != nil {
		return nil, fmt.Errorf("read save %q: %w", slot, err)
	}
	w, err := a.newWorld(a.seed)
	if err != nil {
		return nil, err
	}
	if err := w.ImportSave(m); err != nil {
		return nil, fmt.Errorf("import save %q: %w", slot, err)
	}
	a.logger.Printf("resumed slot=%s tick=%d day=%d population=%s",
		slot, w.Clock.Tick, w.Clock.Day(), humanize.Comma(int64(w.Stats.Population)))
	return w, nil
}

func (a *app) journalCommand(tick uint64, cmd protocol.Command, res protocol.Result) {
	if err := a.journal.Command(tick, cmd, res); err != nil {
		a.logger.Printf("journal: %v", err)
	}
}

// slowTick handles the autosave cadence and periodic digest checkpoints.
func (a *app) slowTick(w *world.World) {
	if err := a.journal.Digest(w.Clock.Tick, w.DigestHex()); err != nil {
		a.logger.Printf("journal digest: %v", err)
	}

	every := a.tune.AutosaveEveryMin
	if every <= 0 {
		return
	}
	if a.lastAutosave.IsZero() {
		a.lastAutosave = time.Now()
		return
	}
	if time.Since(a.lastAutosave) < time.Duration(every)*time.Minute {
		return
	}
	a.lastAutosave = time.Now()
	if err := a.writeSlot(w, "auto"); err != nil {
		a.logger.Printf("autosave: %v", err)
		return
	}
	a.logger.Printf("autosaved tick=%d", w.Clock.Tick)
}

// archiveEvents copies snapshot events into the sqlite index.
func (a *app) archiveEvents(s *protocol.ViewSnapshot) {
	for _, ev := range s.Events {
		if ev.Tick <= a.lastEventTick && a.lastEventTick != 0 {
			continue
		}
		err := a.idx.RecordEvent(indexdb.EventRow{
			Tick: int64(ev.Tick), Type: ev.Type, Severity: ev.Severity,
			X: ev.X, Y: ev.Y, Message: ev.Message,
		})
		if err != nil {
			a.logger.Printf("index event: %v", err)
		}
	}
	if n := len(s.Events); n > 0 {
		a.lastEventTick = s.Events[n-1].Tick
	}
}

func (a *app) writeSlot(w *world.World, slot string) error {
	path := a.savePath(slot)
	if err := save.WriteFile(path, w.ExportSave()); err != nil {
		return err
	}
	return a.idx.RecordSlot(indexdb.SlotRow{
		Slot:       slot,
		Path:       path,
		Tick:       int64(w.Clock.Tick),
		Day:        w.Clock.Day(),
		Population: w.Stats.Population,
		Treasury:   w.Budget.Treasury,
		Digest:     w.DigestHex(),
		Catalogs:   w.Cat.Digest,
	})
}

// persist runs on the runtime loop goroutine and handles the three
// commands that swap or serialize whole worlds.
func (a *app) persist(rt *world.Runtime, cmd protocol.Command) protocol.Result {
	switch cmd.Type {
	case protocol.CmdSaveTo:
		if !slotNameRe.MatchString(cmd.Slot) {
			return protocol.Reject(protocol.ErrBadRequest, "bad slot name %q", cmd.Slot)
		}
		if err := a.writeSlot(rt.World(), cmd.Slot); err != nil {
			return protocol.Reject(protocol.ErrInternal, "save: %v", err)
		}
		a.logger.Printf("saved slot=%s tick=%d", cmd.Slot, rt.World().Clock.Tick)
		return protocol.Accept()

	case protocol.CmdLoadFrom:
		if !slotNameRe.MatchString(cmd.Slot) {
			return protocol.Reject(protocol.ErrBadRequest, "bad slot name %q", cmd.Slot)
		}
		m, err := save.ReadFile(a.savePath(cmd.Slot))
		if err != nil {
			if os.IsNotExist(err) {
				return protocol.Reject(protocol.ErrNotFound, "slot %q not found", cmd.Slot)
			}
			return protocol.Reject(protocol.ErrCorruptSave, "read save: %v", err)
		}
		w, err := a.newWorld(a.seed)
		if err != nil {
			return protocol.Reject(protocol.ErrInternal, "world: %v", err)
		}
		if err := w.ImportSave(m); err != nil {
			return protocol.Reject(protocol.ErrCorruptSave, "import save: %v", err)
		}
		rt.ReplaceWorld(w)
		a.logger.Printf("loaded slot=%s tick=%d", cmd.Slot, w.Clock.Tick)
		return protocol.Accept()

	case protocol.CmdNewGame:
		seed := cmd.Seed
		if seed == 0 {
			seed = a.seed
		}
		w, err := a.newWorld(seed)
		if err != nil {
			return protocol.Reject(protocol.ErrInternal, "world: %v", err)
		}
		rt.ReplaceWorld(w)
		a.logger.Printf("new game seed=%d", seed)
		return protocol.Accept()
	}
	return protocol.Reject(protocol.ErrBadRequest, "unhandled %s", cmd.Type)
}

// finalSave writes the auto slot once more on the way out.
func (a *app) finalSave(w *world.World) {
	if err := a.writeSlot(w, "auto"); err != nil {
		a.logger.Printf("final save: %v", err)
		return
	}
	a.logger.Printf("final save tick=%d digest=%s", w.Clock.Tick, w.DigestHex())
}

func newHTTPServer(addr string, rt *world.Runtime, logger *log.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte("ok"))
	})
	mux.HandleFunc("/v1/state", func(rw http.ResponseWriter, r *http.Request) {
		snap := rt.Snapshot()
		if snap == nil {
			http.Error(rw, "not ready", http.StatusServiceUnavailable)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(rw).Encode(snap)
	})
	mux.HandleFunc("/v1/ws", ws.NewServer(rt, logger).Handler())
	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
