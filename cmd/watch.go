/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/josephgoksu/QuestWing/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Keep quests in sync with edits made outside QuestWing",
	Long: `Watch the quest folders and every linked task-file folder. Created,
edited, renamed and deleted files are debounced and reconciled into the quest
cache, one batch at a time.

Saves made by QuestWing itself are ignored while they settle, so a write is
never reloaded mid-flight. Stop with Ctrl+C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// newWatcher builds a reconciler over the session cache and a watcher
// feeding it. The reconciler is seeded when quests are already loaded.
func (s *session) newWatcher() (*watch.Watcher, *watch.Reconciler, error) {
	rec := watch.NewReconciler(s.repo, s.cache, s.pending, watch.NewLinkIndex())
	if s.loaded != nil {
		rec.Seed(s.loaded.Quests)
	}
	w, err := watch.NewWatcher(watch.Config{
		VaultRoot: s.cfg.Vault.Root,
		Folders:   s.repo.Folders(),
		Debounce:  s.cfg.Watch.Debounce,
	}, rec)
	if err != nil {
		return nil, nil, err
	}
	return w, rec, nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := openSession(true)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	w, _, err := s.newWatcher()
	if err != nil {
		return err
	}
	w.OnBatch = func(actions []watch.Action) {
		for _, a := range actions {
			slog.Info("file change", "op", a.Op.String(), "path", a.Path)
		}
		slog.Debug("cache updated", "quests", s.cache.Len())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := w.Start(); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %d folder(s) under %s with %d quest(s). Press Ctrl+C to stop.\n",
		len(w.Watched()), s.cfg.Vault.Root, s.cache.Len())
	<-ctx.Done()
	fmt.Fprintln(cmd.OutOrStdout(), "Stopped.")
	return nil
}
