package engine

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/animtimeline/internal/compositor"
	"github.com/ivlev/animtimeline/internal/config"
	"github.com/ivlev/animtimeline/internal/playback"
	"github.com/ivlev/animtimeline/internal/renderer"
	"github.com/ivlev/animtimeline/internal/scenario"
	"github.com/ivlev/animtimeline/internal/system"
)

// Project связывает документ, конфигурацию и компоновщик кадров.
type Project struct {
	Config     *config.Config
	Document   *scenario.Document
	Compositor *compositor.Compositor
	// Preview рисует отладочные PNG, если задан Config.PreviewDir.
	Preview *renderer.Preview
	Log     zerolog.Logger
}

func NewProject(cfg *config.Config, doc *scenario.Document, log zerolog.Logger) *Project {
	comp := compositor.New(nil, log)
	comp.Duration = doc.TotalDuration()

	for _, id := range doc.UnknownEasings() {
		log.Warn().Str("easing", id).Msg("Неизвестная кривая сглаживания, используется linear")
	}

	p := &Project{
		Config:     cfg,
		Document:   doc,
		Compositor: comp,
		Log:        log,
	}
	if cfg.PreviewDir != "" {
		p.Preview = renderer.NewPreview(comp.Paths, renderer.Options{
			Width:  cfg.PreviewWidth,
			Height: cfg.PreviewHeight,
		})
	}
	return p
}

// Frame is one exported sample.
type Frame struct {
	Time  float64                  `yaml:"time"`
	Nodes []compositor.RenderState `yaml:"nodes"`
}

// FrameFile is the on-disk layout of an exported animation.
type FrameFile struct {
	Name     string  `yaml:"name,omitempty"`
	FPS      int     `yaml:"fps"`
	Duration float64 `yaml:"duration"`
	Frames   []Frame `yaml:"frames"`
}

// FrameTimes returns the sample times of a timeline at fps, always
// including 0 and the duration itself.
func FrameTimes(duration float64, fps int) []float64 {
	if fps <= 0 || !(duration > 0) {
		return []float64{0}
	}
	// Небольшой допуск, чтобы 2.0000000001*fps не добавлял лишний кадр
	n := int(math.Floor(duration*float64(fps) + 1e-9))
	times := make([]float64, 0, n+2)
	for i := 0; i <= n; i++ {
		times = append(times, float64(i)/float64(fps))
	}
	if last := times[len(times)-1]; duration-last > 1e-9 {
		times = append(times, duration)
	}
	return times
}

// Export composites every frame in parallel and writes them as YAML. It
// returns the path written.
func (p *Project) Export(ctx context.Context) (string, error) {
	startTime := time.Now()
	doc := p.Document
	duration := doc.TotalDuration()
	times := FrameTimes(duration, p.Config.FPS)

	outputPath := p.Config.OutputPath
	if outputPath == "" {
		outputPath = scenario.GeneratePath(p.Config.OutputDir, doc.Name+"_frames")
	}

	p.Log.Info().
		Str("document", doc.Name).
		Int("nodes", len(doc.Nodes)).
		Int("frames", len(times)).
		Int("fps", p.Config.FPS).
		Msg("Экспорт кадров")

	if p.Preview != nil {
		if err := os.MkdirAll(p.Config.PreviewDir, 0755); err != nil {
			return "", fmt.Errorf("engine: preview dir: %w", err)
		}
	}

	frames := make([]Frame, len(times))
	g, gctx := errgroup.WithContext(ctx)
	workers := p.Config.Workers
	if workers <= 0 {
		workers = 1
	}
	g.SetLimit(workers)

	composeStart := time.Now()
	for i, t := range times {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			states := p.Compositor.Composite(doc.Nodes, doc.Tracks, t, nil)
			frames[i] = Frame{Time: t, Nodes: states}
			if p.Preview != nil {
				if err := p.writePreview(i, states); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("engine: export: %w", err)
	}
	composeTime := time.Since(composeStart)

	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("engine: output dir: %w", err)
	}
	data, err := yaml.Marshal(&FrameFile{Name: doc.Name, FPS: p.Config.FPS, Duration: duration, Frames: frames})
	if err != nil {
		return "", fmt.Errorf("engine: marshal frames: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return "", fmt.Errorf("engine: write %s: %w", outputPath, err)
	}

	if p.Config.ShowStats {
		p.report(len(times), time.Since(startTime), composeTime)
	}
	return outputPath, nil
}

func (p *Project) writePreview(i int, states []compositor.RenderState) error {
	img := p.Preview.Render(states)
	defer p.Preview.Release(img)
	path := filepath.Join(p.Config.PreviewDir, fmt.Sprintf("frame_%05d.png", i))
	if err := renderer.WritePNG(img, path); err != nil {
		return fmt.Errorf("engine: preview %d: %w", i, err)
	}
	return nil
}

// Play drives a playback clock at the configured fps and composites each
// tick. It stops after ticks frames (0 means unbounded), when a once-mode
// clock reaches the end, or when ctx is cancelled.
func (p *Project) Play(ctx context.Context, ticks int, out func(playback.State, []compositor.RenderState)) error {
	loop, err := playback.ParseLoopMode(p.Config.Loop)
	if err != nil {
		return err
	}
	clock, err := playback.New(p.Document.TotalDuration(),
		playback.WithSpeed(p.Config.Speed),
		playback.WithLoop(loop),
	)
	if err != nil {
		return fmt.Errorf("engine: clock: %w", err)
	}

	fps := p.Config.FPS
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	p.Log.Info().
		Str("loop", loop.String()).
		Float64("speed", p.Config.Speed).
		Float64("duration", clock.Duration()).
		Msg("Воспроизведение")

	st := clock.Play(time.Now())
	emit := func(st playback.State) {
		states := p.Compositor.Composite(p.Document.Nodes, p.Document.Tracks, st.Time, nil)
		if out != nil {
			out(st, states)
		}
	}
	emit(st)

	for n := 1; ticks <= 0 || n < ticks; n++ {
		if !st.IsPlaying {
			p.Log.Debug().Float64("time", st.Time).Msg("Воспроизведение завершено")
			return nil
		}
		select {
		case <-ctx.Done():
			clock.Pause(time.Now())
			return ctx.Err()
		case now := <-ticker.C:
			st = clock.Tick(now)
			emit(st)
		}
	}
	return nil
}

func (p *Project) report(frames int, total, compose time.Duration) {
	fps := float64(frames) / total.Seconds()
	ev := p.Log.Info().
		Str("build", p.Config.BuildVersion).
		Int("frames", frames).
		Dur("total", total).
		Dur("compose", compose).
		Float64("framesPerSec", fps).
		Int("workers", p.Config.Workers)

	stats, err := system.ReadHostStats()
	if err != nil {
		p.Log.Debug().Err(err).Msg("Не удалось прочитать статистику памяти")
	} else {
		ev = ev.
			Uint64("memUsed", stats.UsedMemory).
			Float64("memPercent", stats.UsedPercent)
	}
	ev.Uint64("heap", stats.HeapAlloc).Msg("Отчет о производительности")
}
