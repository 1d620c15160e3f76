package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"bpm"
	"bpm/internal/capture"
	"bpm/internal/config"
	"bpm/internal/logging"
)

func newSimulateCommand() *cobra.Command {
	var configPath string
	var frames int
	var captureDB string

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive a synthetic encode loop and render metric payloads",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if frames > 0 {
				cfg.Frames = frames
			}
			if captureDB != "" {
				cfg.Capture.Enabled = true
				cfg.Capture.Path = captureDB
			}

			logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
			if err != nil {
				return err
			}
			return runSimulation(cmd.Context(), cfg, logger, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Configuration file path")
	cmd.Flags().IntVar(&frames, "frames", 0, "Override the number of simulated source frames")
	cmd.Flags().StringVar(&captureDB, "capture-db", "", "Capture rendered payloads to this SQLite file")

	return cmd
}

func runSimulation(ctx context.Context, cfg *config.Config, logger *slog.Logger, out io.Writer) error {
	runID := uuid.NewString()

	var store *capture.Store
	if cfg.Capture.Enabled {
		if err := checkWritableDir(filepath.Dir(cfg.Capture.Path)); err != nil {
			return err
		}

		lock := flock.New(cfg.Capture.Path + ".lock")
		locked, err := lock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire capture lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("capture database %s is in use by another simulator", cfg.Capture.Path)
		}
		defer func() { _ = lock.Unlock() }()

		store, err = capture.Open(cfg.Capture.Path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	session := bpm.New(bpm.Options{MaxTracks: cfg.MaxTracks, Logger: logger})

	tracks := make([]int, len(cfg.Renditions))
	for i, rendition := range cfg.Renditions {
		index, err := session.ResolveTrack(rendition.Fingerprint)
		if err != nil {
			return fmt.Errorf("register rendition %q: %w", rendition.Fingerprint, err)
		}
		tracks[i] = index
	}

	logger.Info("simulation started",
		"run_id", runID,
		"frames", cfg.Frames,
		"renditions", len(cfg.Renditions),
		"report_interval", cfg.ReportInterval)

	for frame := 1; frame <= cfg.Frames; frame++ {
		if (frame-1)%cfg.KeyframeInterval == 0 {
			logger.Debug("keyframe", "frame", frame)
		}

		for i, rendition := range cfg.Renditions {
			if (frame-1)%rendition.EveryNth != 0 {
				continue
			}
			if err := stepRendition(session, tracks[i], rendition, frame); err != nil {
				return err
			}
		}

		if frame%cfg.ReportInterval == 0 {
			if err := reportPayloads(ctx, session, cfg, store, runID, tracks); err != nil {
				return err
			}
		}
	}

	if cfg.Frames%cfg.ReportInterval != 0 {
		if err := reportPayloads(ctx, session, cfg, store, runID, tracks); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, renderSnapshot(session.Snapshot()))
	if outstanding := session.OutstandingBuffers(); outstanding != 0 {
		logger.Warn("unreleased payload buffers", "count", outstanding)
	}
	logger.Info("simulation finished", "run_id", runID)
	return nil
}

// stepRendition records one source frame's outcome for a rendition. Lag and
// drop injection win over encoding so the configured fault rates are exact.
func stepRendition(session *bpm.Session, track int, rendition config.Rendition, frame int) error {
	switch {
	case rendition.LagEvery > 0 && frame%rendition.LagEvery == 0:
		return session.FrameLagged(track)
	case rendition.DropEvery > 0 && frame%rendition.DropEvery == 0:
		return session.FrameDropped(track)
	default:
		return session.FrameEncoded(track)
	}
}

func reportPayloads(ctx context.Context, session *bpm.Session, cfg *config.Config, store *capture.Store, runID string, tracks []int) error {
	for i, track := range tracks {
		buffer, err := session.RenderPayload(track)
		if err != nil {
			return err
		}
		if store != nil {
			if _, err := store.Append(ctx, runID, track, cfg.Renditions[i].Fingerprint, buffer.Bytes()); err != nil {
				_ = session.Release(buffer)
				return err
			}
		}
		if err := session.Release(buffer); err != nil {
			return err
		}
	}
	return nil
}

func checkWritableDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// The capture store creates missing directories itself.
			return nil
		}
		return fmt.Errorf("stat capture directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("capture path parent %s is not a directory", path)
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fmt.Errorf("capture directory %s: insufficient permissions: %w", path, err)
	}
	return nil
}
