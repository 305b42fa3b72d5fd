package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/josephgoksu/QuestWing/internal/app"
	"github.com/josephgoksu/QuestWing/internal/character"
	"github.com/josephgoksu/QuestWing/internal/config"
	"github.com/josephgoksu/QuestWing/internal/ledger"
	"github.com/josephgoksu/QuestWing/internal/quest"
	"github.com/josephgoksu/QuestWing/internal/storage"
	"github.com/josephgoksu/QuestWing/internal/ui"
	"github.com/josephgoksu/QuestWing/internal/util"
	"github.com/josephgoksu/QuestWing/internal/watch"
	"github.com/josephgoksu/QuestWing/models"
	"github.com/josephgoksu/QuestWing/types"
)

func isJSON() bool {
	return viper.GetBool("json")
}

func isVerbose() bool {
	return viper.GetBool("verbose")
}

func printJSON(cmd *cobra.Command, v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}

// session is everything a command needs to act on the vault.
type session struct {
	cfg     *types.AppConfig
	store   *storage.AferoStorage
	repo    *quest.Repository
	cache   *quest.Cache
	pending *watch.PendingSaves
	app     *app.QuestApp
	ledger  *ledger.Ledger
	// loaded is set once Reload has run.
	loaded  *quest.LoadResult
}

// openSession wires storage, the repository and the app context from the
// loaded configuration. When reload is true every quest is read into the
// cache before returning.
func openSession(reload bool) (*session, error) {
	cfg, err := GetConfig()
	if err != nil {
		return nil, err
	}

	store := storage.NewOs(cfg.Vault.Root)
	repo := quest.NewRepository(store, cfg.Quests.BaseFolder)
	cache := quest.NewCache()
	pending := watch.NewPendingSaves(cfg.Watch.PendingRelease)

	chars := character.NewStore(store, cfg.Character.File)
	if cfg.Character.Name != "" {
		chars.Name = cfg.Character.Name
	}
	if cfg.Character.Class != "" {
		chars.Class = cfg.Character.Class
	}
	chars.Mode = models.ProgressionMode(cfg.Progression.Mode)

	ctx := app.NewContext(repo, cache, pending, chars)
	ctx.StreakMode = app.StreakMode(cfg.Streak.Mode)
	ctx.Logger = slog.Default()

	s := &session{cfg: cfg, store: store, repo: repo, cache: cache, pending: pending}
	if p := config.LedgerPath(cfg); p != "" {
		l, err := ledger.Open(p)
		if err != nil {
			// History is optional; quest actions still work without it.
			slog.Warn("completion ledger unavailable", "path", p, "error", err)
		} else {
			s.ledger = l
			ctx.Ledger = l
		}
	}
	s.app = app.NewQuestApp(ctx)

	if reload {
		if err := s.reload(); err != nil {
			_ = s.Close()
			return nil, err
		}
	}
	return s, nil
}

func (s *session) reload() error {
	res, err := s.app.Reload()
	if err != nil {
		return fmt.Errorf("load quests: %w", err)
	}
	for _, msg := range res.Errors {
		slog.Warn("skipped quest file", "reason", msg)
	}
	s.loaded = res
	return nil
}

// Close releases the ledger.
func (s *session) Close() error {
	if s.ledger != nil {
		return s.ledger.Close()
	}
	return nil
}

// resolveQuest maps a user reference (id, id prefix or name) to a cached
// quest.
func (s *session) resolveQuest(ref string) (*models.Quest, error) {
	all := s.cache.All()
	refs := make([]util.QuestRef, 0, len(all))
	for _, q := range all {
		refs = append(refs, util.QuestRef{ID: q.QuestID, Name: q.QuestName})
	}
	id, err := util.ResolveQuestID(refs, ref)
	if err != nil {
		if errors.Is(err, util.ErrNotFound) {
			return nil, fmt.Errorf("quest %q not found; run 'questwing list' to see quest ids", ref)
		}
		return nil, err
	}
	q, ok := s.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("quest %q not found", id)
	}
	return q, nil
}

// printResult renders an action result and converts a failed outcome into
// errActionFailed so the process exits non-zero.
func printResult(cmd *cobra.Command, res *app.ActionResult) error {
	if isJSON() {
		if err := printJSON(cmd, res); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderResult(res))
	}
	if !res.Success {
		return errActionFailed
	}
	return nil
}
