package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/ivlev/animtimeline/internal/compositor"
	"github.com/ivlev/animtimeline/internal/config"
	"github.com/ivlev/animtimeline/internal/engine"
	"github.com/ivlev/animtimeline/internal/logging"
	"github.com/ivlev/animtimeline/internal/playback"
	"github.com/ivlev/animtimeline/internal/scenario"
	"github.com/ivlev/animtimeline/internal/system"
)

// Подставляется при сборке: -ldflags "-X main.buildVersion=..."
var buildVersion = "dev"

func main() {
	configPtr := flag.String("config", "", "Путь к YAML конфигурации (по умолчанию: animtimeline.yaml, если есть)")
	inputPtr := flag.String("input", "", "Путь к документу анимации (по умолчанию: самый свежий .yaml в input/)")
	outputPtr := flag.String("output", "", "Путь к файлу кадров (если пусто, генерируется автоматически в output/)")
	fpsPtr := flag.Int("fps", 30, "FPS")
	workersPtr := flag.Int("workers", 0, "Потоки (0 - по числу CPU)")
	speedPtr := flag.Float64("speed", 1, "Скорость воспроизведения")
	loopPtr := flag.String("loop", "once", "Зацикливание: once, repeat, pingpong")
	modePtr := flag.String("mode", config.ModeExport, "Режим: export, play")
	ticksPtr := flag.Int("ticks", 0, "Число тиков в режиме play (0 - до конца или Ctrl+C)")
	previewPtr := flag.String("preview", "", "Папка для отладочных PNG кадров")
	watchPtr := flag.Bool("watch", false, "Перезапускать экспорт при изменении документа")
	logLevelPtr := flag.String("log-level", "info", "Уровень логов: debug, info, warn, error")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")
	normalizePtr := flag.Bool("normalize", false, "Привести документ к каноническому виду (имена кривых, порядок ключей) и выйти")

	flag.Parse()

	cfg, err := config.Load(*configPtr, system.DefaultWorkers())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	// Явно заданные флаги важнее файла и окружения
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "input":
			cfg.InputPath = *inputPtr
		case "output":
			cfg.OutputPath = *outputPtr
		case "fps":
			cfg.FPS = *fpsPtr
		case "workers":
			cfg.Workers = *workersPtr
		case "speed":
			cfg.Speed = *speedPtr
		case "loop":
			cfg.Loop = *loopPtr
		case "mode":
			cfg.Mode = *modePtr
		case "ticks":
			cfg.Ticks = *ticksPtr
		case "preview":
			cfg.PreviewDir = *previewPtr
		case "watch":
			cfg.Watch = *watchPtr
		case "log-level":
			cfg.LogLevel = *logLevelPtr
		case "stats":
			cfg.ShowStats = *statsPtr
		}
	})
	cfg.BuildVersion = buildVersion
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "[-] Ошибка конфигурации: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel, os.Stderr)

	// Увеличиваем лимиты системы (для macOS/Linux)
	system.InitResourceLimits(log)

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		log.Fatal().Err(err).Msg("Не удалось создать папку вывода")
	}

	if cfg.InputPath == "" {
		latest, err := scenario.FindLatest(cfg.InputDir)
		if err != nil {
			log.Fatal().Err(err).Msgf("Положите документ анимации в %s/", cfg.InputDir)
		}
		cfg.InputPath = latest
		log.Info().Str("input", cfg.InputPath).Msg("Выбран файл")
	}

	if *normalizePtr {
		if err := normalize(cfg.InputPath); err != nil {
			log.Fatal().Err(err).Msg("Ошибка нормализации")
		}
		log.Info().Str("input", cfg.InputPath).Msg("Документ нормализован")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("Ошибка проекта")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if err := runOnce(ctx, cfg, log); err != nil {
		if !cfg.Watch {
			return err
		}
		log.Error().Err(err).Msg("Ошибка, ждем изменений документа")
	}
	if !cfg.Watch {
		return nil
	}

	w, err := scenario.NewWatcher(scenario.DefaultDebounce, cfg.InputPath)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()
	log.Info().Str("input", cfg.InputPath).Msg("Слежение за документом")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("Ошибка слежения")
		case name, ok := <-w.Events:
			if !ok {
				return nil
			}
			log.Info().Str("file", name).Msg("Документ изменен, перезапуск")
			if err := runOnce(ctx, cfg, log); err != nil {
				log.Error().Err(err).Msg("Ошибка проекта")
			}
		}
	}
}

func runOnce(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	doc, err := scenario.ReadDocument(cfg.InputPath)
	if err != nil {
		return err
	}
	project := engine.NewProject(cfg, doc, log)

	if cfg.Mode == config.ModePlay {
		return project.Play(ctx, cfg.Ticks, func(st playback.State, states []compositor.RenderState) {
			log.Debug().
				Float64("time", st.Time).
				Int("direction", st.Direction).
				Int("nodes", len(states)).
				Msg("Тик")
		})
	}

	path, err := project.Export(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("output", path).Msg("Успех! Кадры сохранены")
	return nil
}

func normalize(path string) error {
	doc, err := scenario.ReadDocument(path)
	if err != nil {
		return err
	}
	if !doc.Normalize() {
		return nil
	}
	return scenario.WriteDocument(doc, path)
}
