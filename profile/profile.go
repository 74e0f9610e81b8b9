package profile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"
)

// Profiler controls one profiling session.
//
// Call [Profiler.Start] before generation and [Profiler.Stop] afterwards to
// write all enabled profiles.
//
// Create instances with [Config.NewProfiler].
type Profiler struct {
	cpuFile *os.File
	Config
}

// Start sets the memory profile rate when a memory profile is enabled, and
// starts CPU profiling if enabled.
func (p *Profiler) Start() error {
	if p.MemProfileRate > 0 && (p.HeapProfile != "" || p.AllocsProfile != "") {
		runtime.MemProfileRate = p.MemProfileRate
	}

	if p.CPUProfile == "" {
		return nil
	}

	f, err := os.Create(p.CPUProfile) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("creating CPU profile: %w", err)
	}

	err = pprof.StartCPUProfile(f)
	if err != nil {
		return errors.Join(fmt.Errorf("starting CPU profile: %w", err), f.Close())
	}

	p.cpuFile = f

	return nil
}

// Stop stops CPU profiling and writes the heap and allocs profiles. It is
// safe to call when Start was never called.
func (p *Profiler) Stop() error {
	if p.cpuFile != nil {
		pprof.StopCPUProfile()

		err := p.cpuFile.Close()
		p.cpuFile = nil

		if err != nil {
			return fmt.Errorf("closing CPU profile: %w", err)
		}

		slog.Debug("wrote profile", slog.String("profile", "cpu"), slog.String("path", p.CPUProfile))
	}

	for _, snap := range []struct {
		name string
		path string
	}{
		{"heap", p.HeapProfile},
		{"allocs", p.AllocsProfile},
	} {
		if snap.path == "" {
			continue
		}

		err := writeProfile(snap.name, snap.path)
		if err != nil {
			return err
		}

		slog.Debug("wrote profile", slog.String("profile", snap.name), slog.String("path", snap.path))
	}

	return nil
}

func writeProfile(name, path string) error {
	prof := pprof.Lookup(name)
	if prof == nil {
		return fmt.Errorf("unknown profile: %s", name)
	}

	f, err := os.Create(path) //nolint:gosec // Profile path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("create %s profile: %w", name, err)
	}

	err = prof.WriteTo(f, 0)
	if err != nil {
		return errors.Join(fmt.Errorf("write %s profile: %w", name, err), f.Close())
	}

	err = f.Close()
	if err != nil {
		return fmt.Errorf("write %s profile: %w", name, err)
	}

	return nil
}
