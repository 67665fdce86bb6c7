// Command mantenix is a demo of the maintenance core: it wires the
// configured store, seeds the configuration catalog and walks one
// maintenance order through its lifecycle, then prints the reconstructed
// states.
//
// Prometheus metrics are served on MANTENIX_METRICS_ADDR (default :2112).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mantenix/mantenix-go/adapters/pg"
	promadapter "github.com/mantenix/mantenix-go/adapters/prometheus"
	"github.com/mantenix/mantenix-go/core/es"
	"github.com/mantenix/mantenix-go/domain/catalogo"
	"github.com/mantenix/mantenix-go/domain/empleado"
	"github.com/mantenix/mantenix-go/domain/equipo"
	"github.com/mantenix/mantenix-go/domain/orden"
	"github.com/mantenix/mantenix-go/domain/rutina"
	"github.com/mantenix/mantenix-go/domain/usuario"
	"github.com/mantenix/mantenix-go/internal/config"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	if err := run(ctx, log, cfg); err != nil {
		log.Error("demo failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, cfg *config.Config) error {
	metrics := promadapter.NewESMetrics(prometheus.DefaultRegisterer)

	promMux := http.NewServeMux()
	promMux.Handle("/metrics", promhttp.Handler())
	promServer := &http.Server{Addr: cfg.MetricsAddr, Handler: promMux}
	go func() {
		log.Info("metrics server starting", slog.String("addr", cfg.MetricsAddr))
		if err := promServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", slog.Any("error", err))
		}
	}()
	defer promServer.Shutdown(context.Background())

	// store selection: Postgres when a DSN is configured, memory otherwise
	var (
		store       es.EventStore
		snapshotter es.Snapshotter
	)
	if cfg.DatabaseDSN != "" {
		pgStore, err := pg.Connect(ctx, cfg.DatabaseDSN, pg.WithMetrics(metrics))
		if err != nil {
			return err
		}
		defer pgStore.Close()
		if err := pgStore.Migrate(ctx); err != nil {
			return err
		}
		store = pgStore
		snapshotter = pg.NewSnapshotter(pgStore)
		log.Info("using postgres store")
	} else {
		store = es.NewInMemoryStore()
		snapshotter = es.NewInMemorySnapshotter()
		log.Info("using in-memory store")
	}

	env, err := es.NewEnv(
		es.WithLog(log),
		es.WithStore(store),
		es.WithSnapshotter(snapshotter),
		es.WithMetrics(metrics),
		es.WithAggregates(
			catalogo.New(),
			usuario.New(),
			empleado.New(),
			equipo.New(),
			orden.New(),
			rutina.New(),
		),
	)
	if err != nil {
		return err
	}

	repo := env.Repository()
	actor := usuario.Actor{ActorNombre: "demo"}

	// seed the singleton catalog
	cat := catalogo.New()
	if err := repo.Load(ctx, cat); err != nil && !errors.Is(err, es.ErrAggregateNotFound) {
		return err
	}
	if len(cat.Causas) == 0 {
		if err := cat.CrearTipoMedidor("HOR", "Horómetro", "h", actor); err != nil {
			return err
		}
		if err := cat.CrearGrupo("PES", "Maquinaria pesada", 1, actor); err != nil {
			return err
		}
		if err := cat.CrearTipoFalla("MEC", "Falla mecánica", actor); err != nil {
			return err
		}
		if err := cat.CrearCausa("CAUSA-001", "Desgaste", actor); err != nil {
			return err
		}
		if err := repo.Save(ctx, cat); err != nil {
			return err
		}
	}

	// register an employee and migrate one equipment
	emp := empleado.NewWithID(uuid.NewString())
	if err := emp.Crear("Juan Pérez", "123", "Mecanico", "Motores", 25000, "Activo", actor); err != nil {
		return err
	}
	if err := repo.Save(ctx, emp); err != nil {
		return err
	}

	eq := equipo.NewWithID(uuid.NewString())
	if err := eq.Migrar(equipo.Migrado{
		Placa:       "MAQ-017",
		Descripcion: "Retroexcavadora",
		Marca:       "CAT",
		Modelo:      "416F2",
		Grupo:       "PES",
		Actor:       actor,
	}); err != nil {
		return err
	}
	if err := repo.Save(ctx, eq); err != nil {
		return err
	}

	// walk one order through its lifecycle
	ord := orden.NewWithID(uuid.NewString())
	if err := ord.Crear("OT-0001", eq.GetID(), "Correctivo", "Mecánica", actor); err != nil {
		return err
	}
	detalleID := uuid.NewString()
	if err := ord.AgregarActividad(detalleID, "Cambio de aceite", time.Now().AddDate(0, 0, 7), "MEC", "CAUSA-001", actor); err != nil {
		return err
	}
	if err := ord.Programar(time.Now().AddDate(0, 0, 7), 4, actor); err != nil {
		return err
	}
	if err := ord.RegistrarAvance(detalleID, 100, "Finalizado", actor); err != nil {
		return err
	}
	if err := repo.Save(ctx, ord); err != nil {
		return err
	}

	// reconstruct and print
	loaded := orden.NewWithID(ord.GetID())
	if err := repo.Load(ctx, loaded); err != nil {
		return err
	}
	out, _ := json.MarshalIndent(loaded, "", "  ")
	fmt.Println(string(out))

	log.Info(
		"order reconstructed",
		slog.String("numero", loaded.Numero),
		slog.String("estado", string(loaded.Estado)),
		loaded.GetVersion().SlogAttr(),
	)

	return nil
}
